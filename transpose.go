package attn

import (
	"fmt"
)

// Transpose computes Out = Inᵗ with the tiled kernel: each block reads a
// TileSize×TileSize tile of the input into shared scratch, synchronizes,
// and writes the transposed tile to the mirrored output block. Pure value
// copy, no numerical transformation.
func Transpose(in, out Matrix) error {
	if out.Rows != in.Cols || out.Cols != in.Rows {
		return NewInvalidArgError("Transpose",
			fmt.Sprintf("output is %dx%d, want %dx%d", out.Rows, out.Cols, in.Cols, in.Rows))
	}

	grid := Dim3{
		X: (in.Cols + TileSize - 1) / TileSize,
		Y: (in.Rows + TileSize - 1) / TileSize,
		Z: 1,
	}
	block := Dim3{X: TileSize, Y: TileSize, Z: 1}

	if err := Launch(transposeKernel(in, out), grid, block, TileSize*TileSize); err != nil {
		return NewExecutionError("Transpose", "kernel launch failed", err)
	}
	return Synchronize()
}

func transposeKernel(in, out Matrix) KernelFunc {
	return func(tid ThreadID, blk *Block) {
		tile := blk.Shared()

		tx := tid.ThreadIdx.X
		ty := tid.ThreadIdx.Y

		row := tid.BlockIdx.Y*TileSize + ty
		col := tid.BlockIdx.X*TileSize + tx
		if row < in.Rows && col < in.Cols {
			tile[ty*TileSize+tx] = in.At(row, col)
		}

		blk.Sync()

		// Mirrored block: rows of the output tile come from columns of
		// the staged input tile.
		outRow := tid.BlockIdx.X*TileSize + ty
		outCol := tid.BlockIdx.Y*TileSize + tx
		if outRow < out.Rows && outCol < out.Cols {
			out.Set(outRow, outCol, tile[tx*TileSize+ty])
		}
	}
}
