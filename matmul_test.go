package attn

import (
	"fmt"
	"math/rand"
	"testing"
)

func randomMatrix(rng *rand.Rand, rows, cols int) Matrix {
	m := NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = rng.Float32()*2 - 1
	}
	return m
}

// Tiled matmul must match the naive triple loop for shapes below, at, and
// above the tile size, so partial edge tiles get exercised.
func TestMatMulAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	shapes := []struct {
		rows, inner, cols int
	}{
		{1, 1, 1},
		{3, 5, 4},
		{16, 16, 16},
		{17, 19, 23},
		{32, 48, 16},
		{33, 7, 65},
		{1, 64, 100},
	}

	for _, s := range shapes {
		name := fmt.Sprintf("%dx%dx%d", s.rows, s.inner, s.cols)
		t.Run(name, func(t *testing.T) {
			a := randomMatrix(rng, s.rows, s.inner)
			b := randomMatrix(rng, s.inner, s.cols)

			want := NewMatrix(s.rows, s.cols)
			Reference{}.MatMul(a, b, want)

			got := NewMatrix(s.rows, s.cols)
			if err := MatMul(a, b, got); err != nil {
				t.Fatalf("MatMul failed: %v", err)
			}

			result := VerifyFloat32Array(want.Data, got.Data, DefaultTolerance())
			if !result.Passed() {
				t.Errorf("tiled matmul diverges from reference:\n%s", result)
			}
		})
	}
}

func TestMatMulShapeMismatch(t *testing.T) {
	a := NewMatrix(4, 5)
	b := NewMatrix(6, 3) // inner dimension differs
	c := NewMatrix(4, 3)

	err := MatMul(a, b, c)
	if err == nil {
		t.Fatal("expected error for mismatched inner dimensions")
	}
	if !IsInvalidArgError(err) {
		t.Errorf("expected invalid argument error, got %v", err)
	}

	b = NewMatrix(5, 3)
	cBad := NewMatrix(3, 4) // wrong output shape
	err = MatMul(a, b, cBad)
	if err == nil {
		t.Fatal("expected error for wrong output shape")
	}
}

// Accumulation across inner-dimension chunks must use one scalar
// accumulator per element; a 3-chunk inner dimension with known values
// checks the chunk boundary arithmetic exactly.
func TestMatMulChunkedAccumulation(t *testing.T) {
	const inner = 3*TileSize + 1
	a := NewMatrix(1, inner)
	b := NewMatrix(inner, 1)
	for i := 0; i < inner; i++ {
		a.Data[i] = 1
		b.Data[i] = float32(i)
	}

	c := NewMatrix(1, 1)
	if err := MatMul(a, b, c); err != nil {
		t.Fatalf("MatMul failed: %v", err)
	}

	want := float32(inner * (inner - 1) / 2)
	if c.Data[0] != want {
		t.Errorf("expected %v, got %v", want, c.Data[0])
	}
}

func BenchmarkMatMulTiled(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{32, 128} {
		b.Run(fmt.Sprintf("Size_%d", n), func(b *testing.B) {
			x := randomMatrix(rng, n, n)
			y := randomMatrix(rng, n, n)
			z := NewMatrix(n, n)

			b.ResetTimer()
			b.SetBytes(int64(3 * n * n * 4))
			for i := 0; i < b.N; i++ {
				MatMul(x, y, z)
			}
		})
	}
}

func BenchmarkMatMulReference(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{32, 128} {
		b.Run(fmt.Sprintf("Size_%d", n), func(b *testing.B) {
			x := randomMatrix(rng, n, n)
			y := randomMatrix(rng, n, n)
			z := NewMatrix(n, n)

			b.ResetTimer()
			b.SetBytes(int64(3 * n * n * 4))
			for i := 0; i < b.N; i++ {
				Reference{}.MatMul(x, y, z)
			}
		})
	}
}
