package attn

import (
	"sync"
	"sync/atomic"

	"k8s.io/klog/v2"
)

// Dim3 represents 3D dimensions for grid and block configurations,
// matching the dim3 launch parameters of accelerator kernel APIs.
type Dim3 struct {
	X, Y, Z int
}

// Size returns the total number of elements
func (d Dim3) Size() int {
	return d.X * d.Y * d.Z
}

// ThreadID identifies a thread's position within the execution hierarchy.
// It provides the same indexing semantics as the accelerator built-ins
// blockIdx, threadIdx, blockDim, and gridDim.
type ThreadID struct {
	BlockIdx  Dim3 // Block index within the grid
	ThreadIdx Dim3 // Thread index within the block
	BlockDim  Dim3 // Dimensions of the block
	GridDim   Dim3 // Dimensions of the grid
}

// Global returns the global linear thread index along X
func (tid ThreadID) Global() int {
	return tid.BlockIdx.X*tid.BlockDim.X + tid.ThreadIdx.X
}

// GlobalX returns the global X index
func (tid ThreadID) GlobalX() int {
	return tid.BlockIdx.X*tid.BlockDim.X + tid.ThreadIdx.X
}

// GlobalY returns the global Y index
func (tid ThreadID) GlobalY() int {
	return tid.BlockIdx.Y*tid.BlockDim.Y + tid.ThreadIdx.Y
}

// Block is the cooperative scope handed to every kernel thread. All
// threads of one block see the same Block value: the same shared scratch
// buffer and the same barrier. Neither outlives the launch.
type Block struct {
	barrier *barrier
	shared  []float32
}

// Sync blocks until every thread of the block has reached the barrier.
// Divergent control flow that lets some threads of a block skip a Sync
// the others execute will deadlock the block; kernels must keep barrier
// participation uniform, including on edge tiles.
func (b *Block) Sync() {
	b.barrier.await()
}

// Shared returns the block-shared scratch buffer. Its size is fixed by the
// sharedWords launch parameter and its contents are only valid between the
// barriers that delimit a staging phase.
func (b *Block) Shared() []float32 {
	return b.shared
}

// KernelFunc is a function executed once per thread of a launch.
// It must be safe for concurrent execution across threads; cross-thread
// communication goes through the Block scope only.
type KernelFunc func(tid ThreadID, blk *Block)

// Stream represents an ordered sequence of kernel launches. Launches on
// one stream execute in submission order; the orchestrator relies on this
// plus Synchronize to get the implicit full-device ordering between its
// pipeline stages.
type Stream struct {
	id    int
	tasks chan func()
	wg    sync.WaitGroup
}

// Global runtime state
var (
	streamID      int32
	defaultStream = NewStream()
)

// NewStream creates a new execution stream with its own worker goroutine.
func NewStream() *Stream {
	s := &Stream{
		id:    int(atomic.AddInt32(&streamID, 1)),
		tasks: make(chan func(), 64),
	}
	go s.worker()
	return s
}

// worker processes tasks for a stream
func (s *Stream) worker() {
	for task := range s.tasks {
		task()
		s.wg.Done()
	}
}

// Submit adds a task to the stream
func (s *Stream) Submit(task func()) {
	s.wg.Add(1)
	s.tasks <- task
}

// Synchronize waits for all tasks submitted to the stream to complete
func (s *Stream) Synchronize() {
	s.wg.Wait()
}

// Launch executes a kernel on the default stream.
//
// The kernel runs across a grid of thread blocks. Every thread of a block
// runs as its own goroutine so that Block.Sync is a real barrier; blocks
// themselves are distributed over a bounded set of workers and carry no
// ordering relationship to each other. sharedWords is the size of the
// per-block shared scratch buffer in float32 words.
//
// Launch is asynchronous; call Synchronize to wait for completion.
func Launch(fn KernelFunc, grid, block Dim3, sharedWords int) error {
	return LaunchStream(fn, grid, block, sharedWords, defaultStream)
}

// LaunchStream executes a kernel on a specific stream.
func LaunchStream(fn KernelFunc, grid, block Dim3, sharedWords int, stream *Stream) error {
	blockSize := block.Size()
	if blockSize <= 0 {
		return NewInvalidArgError("Launch", "block must have at least one thread")
	}
	if blockSize > MaxThreadsPerBlock {
		return NewInvalidArgError("Launch", "block size exceeds MaxThreadsPerBlock")
	}
	if klog.V(2).Enabled() {
		klog.Infof("launch grid=%v block=%v sharedWords=%d stream=%d", grid, block, sharedWords, stream.id)
	}
	stream.Submit(func() {
		launchGrid(fn, grid, block, sharedWords)
	})
	return nil
}

// Synchronize waits for all operations on the default stream to complete.
func Synchronize() error {
	defaultStream.Synchronize()
	return nil
}
