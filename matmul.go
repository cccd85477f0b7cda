package attn

import (
	"fmt"
)

// MatMul computes C = A·B with the tiled kernel.
//
// The output is partitioned into TileSize×TileSize tiles, one block per
// tile and one thread per output element. For each chunk of the inner
// dimension the block stages the matching A and B tiles into shared
// scratch, synchronizes, accumulates TileSize multiply-adds per element
// from the staged copies, and synchronizes again before the next chunk
// overwrites the scratch. Out-of-range lanes stage zeros instead of
// skipping the protocol, so edge tiles hit every barrier.
//
// Shapes must satisfy A.Cols == B.Rows, C.Rows == A.Rows and
// C.Cols == B.Cols; anything else is rejected before launch.
func MatMul(a, b, c Matrix) error {
	if a.Cols != b.Rows {
		return NewInvalidArgError("MatMul",
			fmt.Sprintf("inner dimensions differ: A is %dx%d, B is %dx%d", a.Rows, a.Cols, b.Rows, b.Cols))
	}
	if c.Rows != a.Rows || c.Cols != b.Cols {
		return NewInvalidArgError("MatMul",
			fmt.Sprintf("output is %dx%d, want %dx%d", c.Rows, c.Cols, a.Rows, b.Cols))
	}

	grid := Dim3{
		X: (c.Cols + TileSize - 1) / TileSize,
		Y: (c.Rows + TileSize - 1) / TileSize,
		Z: 1,
	}
	block := Dim3{X: TileSize, Y: TileSize, Z: 1}

	if err := Launch(matmulKernel(a, b, c), grid, block, 2*TileSize*TileSize); err != nil {
		return NewExecutionError("MatMul", "kernel launch failed", err)
	}
	return Synchronize()
}

// matmulKernel is the per-thread body of the tiled multiply. Each thread
// owns exactly one element of its block's output tile.
func matmulKernel(a, b, c Matrix) KernelFunc {
	return func(tid ThreadID, blk *Block) {
		shared := blk.Shared()
		aTile := shared[:TileSize*TileSize]
		bTile := shared[TileSize*TileSize:]

		tx := tid.ThreadIdx.X
		ty := tid.ThreadIdx.Y
		row := tid.BlockIdx.Y*TileSize + ty
		col := tid.BlockIdx.X*TileSize + tx

		// Single scalar accumulator per output element, carried across
		// inner-dimension chunks.
		var acc float32

		chunks := (a.Cols + TileSize - 1) / TileSize
		for chunk := 0; chunk < chunks; chunk++ {
			aCol := chunk*TileSize + tx
			if row < a.Rows && aCol < a.Cols {
				aTile[ty*TileSize+tx] = a.At(row, aCol)
			} else {
				aTile[ty*TileSize+tx] = 0
			}

			bRow := chunk*TileSize + ty
			if bRow < b.Rows && col < b.Cols {
				bTile[ty*TileSize+tx] = b.At(bRow, col)
			} else {
				bTile[ty*TileSize+tx] = 0
			}

			// Every lane must reach both barriers even when its output
			// element is out of range, or peers deadlock.
			blk.Sync()
			for k := 0; k < TileSize; k++ {
				acc += aTile[ty*TileSize+k] * bTile[k*TileSize+tx]
			}
			blk.Sync()
		}

		if row < c.Rows && col < c.Cols {
			c.Set(row, col, acc)
		}
	}
}
