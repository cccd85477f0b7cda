// Package attn configuration constants
package attn

// Tile and block dimensions
const (
	// TileSize is the side of the square tiles used by the matmul and
	// transpose kernels. Two 16x16 float32 tiles fit comfortably in the
	// shared scratch of a block.
	TileSize = 16

	// MaxThreadsPerBlock caps the number of cooperating threads in one
	// block. The block-parallel softmax runs in a single block, so this
	// also bounds the vector length the parallel softmax accepts.
	MaxThreadsPerBlock = 1024
)

// Numerical constants
const (
	// Float32Epsilon is the machine epsilon for float32
	Float32Epsilon = 1.192092896e-07

	// SoftmaxAbsTol is the absolute tolerance for softmax outputs when
	// comparing the parallel and sequential paths
	SoftmaxAbsTol = 1e-6

	// StrategyRelTol is the relative tolerance for comparing the two
	// attention strategies on identical inputs
	StrategyRelTol = 1e-5

	// MaxULPDiff is the maximum ULP difference for float32 comparisons
	MaxULPDiff = 4
)
