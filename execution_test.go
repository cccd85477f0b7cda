package attn

import (
	"sync/atomic"
	"testing"
)

// Every thread of a block must observe the fully staged shared buffer
// after a Sync: each thread publishes its index, then reads a peer's slot.
func TestBlockBarrierStaging(t *testing.T) {
	const threads = 64
	out := make([]float32, threads)

	kernel := func(tid ThreadID, blk *Block) {
		shared := blk.Shared()
		i := tid.ThreadIdx.X

		shared[i] = float32(i)
		blk.Sync()
		out[i] = shared[(i+1)%threads]
	}

	err := Launch(kernel, Dim3{X: 1, Y: 1, Z: 1}, Dim3{X: threads, Y: 1, Z: 1}, threads)
	if err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	if err := Synchronize(); err != nil {
		t.Fatalf("Synchronize failed: %v", err)
	}

	for i := 0; i < threads; i++ {
		want := float32((i + 1) % threads)
		if out[i] != want {
			t.Errorf("thread %d read %v, want %v", i, out[i], want)
		}
	}
}

// The barrier must stay correct across many phases when the same shared
// buffer is repeatedly overwritten, as the tiled matmul does per chunk.
func TestBlockBarrierReuse(t *testing.T) {
	const threads = 32
	const rounds = 50
	out := make([]float32, threads)

	kernel := func(tid ThreadID, blk *Block) {
		shared := blk.Shared()
		i := tid.ThreadIdx.X

		var acc float32
		for r := 0; r < rounds; r++ {
			shared[i] = float32(r)
			blk.Sync()
			acc += shared[(i+r)%threads]
			blk.Sync()
		}
		out[i] = acc
	}

	err := Launch(kernel, Dim3{X: 1, Y: 1, Z: 1}, Dim3{X: threads, Y: 1, Z: 1}, threads)
	if err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	Synchronize()

	want := float32(rounds * (rounds - 1) / 2)
	for i, got := range out {
		if got != want {
			t.Errorf("thread %d accumulated %v, want %v", i, got, want)
		}
	}
}

// Each output element is written by exactly one thread exactly once per
// launch, regardless of how blocks are scheduled across workers.
func TestGridSingleWriter(t *testing.T) {
	grid := Dim3{X: 7, Y: 3, Z: 1}
	block := Dim3{X: 32, Y: 1, Z: 1}
	total := grid.Size() * block.Size()

	counts := make([]int32, total)
	kernel := func(tid ThreadID, blk *Block) {
		idx := (tid.BlockIdx.Y*tid.GridDim.X+tid.BlockIdx.X)*tid.BlockDim.X + tid.ThreadIdx.X
		atomic.AddInt32(&counts[idx], 1)
	}

	if err := Launch(kernel, grid, block, 0); err != nil {
		t.Fatalf("Launch failed: %v", err)
	}
	Synchronize()

	for i, c := range counts {
		if c != 1 {
			t.Errorf("element %d written %d times", i, c)
		}
	}
}

// Launches on one stream execute in submission order.
func TestStreamOrdering(t *testing.T) {
	const n = 1000
	data := make([]float32, n)

	fill := func(val float32) KernelFunc {
		return func(tid ThreadID, blk *Block) {
			idx := tid.Global()
			if idx < n {
				data[idx] = val
			}
		}
	}

	grid := Dim3{X: (n + 255) / 256, Y: 1, Z: 1}
	block := Dim3{X: 256, Y: 1, Z: 1}

	stream := NewStream()
	if err := LaunchStream(fill(1), grid, block, 0, stream); err != nil {
		t.Fatalf("first launch failed: %v", err)
	}
	if err := LaunchStream(fill(2), grid, block, 0, stream); err != nil {
		t.Fatalf("second launch failed: %v", err)
	}
	stream.Synchronize()

	for i, v := range data {
		if v != 2 {
			t.Fatalf("element %d is %v after ordered launches, want 2", i, v)
		}
	}
}

func TestLaunchValidation(t *testing.T) {
	noop := func(tid ThreadID, blk *Block) {}

	err := Launch(noop, Dim3{X: 1, Y: 1, Z: 1}, Dim3{X: 0, Y: 1, Z: 1}, 0)
	if err == nil {
		t.Error("expected error for empty block")
	}

	err = Launch(noop, Dim3{X: 1, Y: 1, Z: 1}, Dim3{X: MaxThreadsPerBlock + 1, Y: 1, Z: 1}, 0)
	if err == nil {
		t.Error("expected error for oversized block")
	}

	// Zero grid is a no-op, not an error.
	if err := Launch(noop, Dim3{}, Dim3{X: 1, Y: 1, Z: 1}, 0); err != nil {
		t.Errorf("zero grid should be a no-op, got %v", err)
	}
	Synchronize()
}

func TestThreadIDGlobal(t *testing.T) {
	tid := ThreadID{
		BlockIdx:  Dim3{X: 3, Y: 2, Z: 0},
		ThreadIdx: Dim3{X: 5, Y: 7, Z: 0},
		BlockDim:  Dim3{X: 16, Y: 16, Z: 1},
		GridDim:   Dim3{X: 4, Y: 4, Z: 1},
	}

	if got := tid.GlobalX(); got != 3*16+5 {
		t.Errorf("GlobalX = %d, want %d", got, 3*16+5)
	}
	if got := tid.GlobalY(); got != 2*16+7 {
		t.Errorf("GlobalY = %d, want %d", got, 2*16+7)
	}
	if got := tid.Global(); got != tid.GlobalX() {
		t.Errorf("Global = %d, want %d", got, tid.GlobalX())
	}
}
