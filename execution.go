package attn

import (
	"runtime"
	"sync"
)

// launchGrid implements the core kernel execution logic
func launchGrid(fn KernelFunc, grid, block Dim3, sharedWords int) {
	gridSize := grid.Size()
	if gridSize == 0 {
		return
	}

	// Determine parallelism strategy: blocks are independent, so they are
	// simply divided among a bounded set of workers. Each worker processes
	// a contiguous run of blocks to maximize cache reuse.
	numWorkers := runtime.NumCPU()
	if gridSize < numWorkers {
		numWorkers = gridSize
	}
	blocksPerWorker := (gridSize + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for workerID := 0; workerID < numWorkers; workerID++ {
		startBlock := workerID * blocksPerWorker
		endBlock := startBlock + blocksPerWorker
		if endBlock > gridSize {
			endBlock = gridSize
		}

		go func(start, end int) {
			defer wg.Done()
			for blockID := start; blockID < end; blockID++ {
				runBlock(fn, linearTo3D(blockID, grid), grid, block, sharedWords)
			}
		}(startBlock, endBlock)
	}

	wg.Wait()
}

// runBlock executes all threads of one block. Each thread is a goroutine
// sharing the block's barrier and scratch buffer, so the two-phase
// stage/sync/compute/sync pattern in the kernels behaves exactly as it
// would on accelerator hardware.
func runBlock(fn KernelFunc, blockIdx, grid, block Dim3, sharedWords int) {
	numThreads := block.Size()
	blk := &Block{
		barrier: newBarrier(numThreads),
		shared:  make([]float32, sharedWords),
	}

	var wg sync.WaitGroup
	wg.Add(numThreads)

	for threadID := 0; threadID < numThreads; threadID++ {
		go func(t int) {
			defer wg.Done()
			tid := ThreadID{
				BlockIdx:  blockIdx,
				ThreadIdx: linearTo3D(t, block),
				BlockDim:  block,
				GridDim:   grid,
			}
			fn(tid, blk)
		}(threadID)
	}

	wg.Wait()
}

// linearTo3D converts a linear index to 3D coordinates
func linearTo3D(linear int, dim Dim3) Dim3 {
	z := linear / (dim.X * dim.Y)
	y := (linear % (dim.X * dim.Y)) / dim.X
	x := linear % dim.X
	return Dim3{X: x, Y: y, Z: z}
}
