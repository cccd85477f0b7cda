package attn

import (
	"fmt"
	"math/rand"
	"testing"
)

// Transpose is a pure value copy, so tiled and reference results must be
// bit-identical, including on shapes that leave partial edge tiles.
func TestTransposeAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	shapes := []struct{ rows, cols int }{
		{1, 1},
		{4, 9},
		{16, 16},
		{17, 31},
		{64, 3},
	}

	for _, s := range shapes {
		name := fmt.Sprintf("%dx%d", s.rows, s.cols)
		t.Run(name, func(t *testing.T) {
			in := randomMatrix(rng, s.rows, s.cols)

			want := NewMatrix(s.cols, s.rows)
			Reference{}.Transpose(in, want)

			got := NewMatrix(s.cols, s.rows)
			if err := Transpose(in, got); err != nil {
				t.Fatalf("Transpose failed: %v", err)
			}

			for i := range want.Data {
				if want.Data[i] != got.Data[i] {
					t.Fatalf("mismatch at flat index %d: %v vs %v", i, want.Data[i], got.Data[i])
				}
			}
		})
	}
}

func TestTransposeInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	in := randomMatrix(rng, 23, 41)

	once := NewMatrix(41, 23)
	if err := Transpose(in, once); err != nil {
		t.Fatalf("first transpose failed: %v", err)
	}

	twice := NewMatrix(23, 41)
	if err := Transpose(once, twice); err != nil {
		t.Fatalf("second transpose failed: %v", err)
	}

	for i := range in.Data {
		if in.Data[i] != twice.Data[i] {
			t.Fatalf("involution broken at flat index %d: %v vs %v", i, in.Data[i], twice.Data[i])
		}
	}
}

func TestTransposeShapeMismatch(t *testing.T) {
	in := NewMatrix(3, 5)
	out := NewMatrix(3, 5)

	err := Transpose(in, out)
	if err == nil {
		t.Fatal("expected error for non-mirrored output shape")
	}
	if !IsInvalidArgError(err) {
		t.Errorf("expected invalid argument error, got %v", err)
	}
}
