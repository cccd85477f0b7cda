package attn

import (
	"fmt"
	"math"
)

// Softmax converts scores into a probability vector:
//
//	weights[i] = exp(scores[i] - max(scores)) / Σⱼ exp(scores[j] - max(scores))
//
// Subtracting the maximum bounds every exponent at zero, so large positive
// scores cannot overflow while the ratios are preserved.
//
// The kernel runs as a single block whose width is the next power of two
// at or above len(scores), which caps the parallel path at
// MaxThreadsPerBlock elements; longer vectors belong to the sequential
// reference. weights may be the scores slice itself: each lane reads its
// own score before overwriting it, and no lane touches another lane's
// element outside the shared reduction buffers.
func Softmax(scores, weights []float32) error {
	n := len(scores)
	if n == 0 {
		return NewInvalidArgError("Softmax", "empty input")
	}
	if len(weights) != n {
		return NewInvalidArgError("Softmax",
			fmt.Sprintf("weights has length %d, want %d", len(weights), n))
	}
	width := nextPow2(n)
	if width > MaxThreadsPerBlock {
		return NewInvalidArgError("Softmax",
			fmt.Sprintf("length %d exceeds the single-block limit %d", n, MaxThreadsPerBlock))
	}

	grid := Dim3{X: 1, Y: 1, Z: 1}
	block := Dim3{X: width, Y: 1, Z: 1}

	if err := Launch(softmaxKernel(scores, weights, n), grid, block, 2*width); err != nil {
		return NewExecutionError("Softmax", "kernel launch failed", err)
	}
	return Synchronize()
}

// softmaxKernel is the block-parallel softmax. Lanes at or beyond n stage
// identity values (-MaxFloat32 for the max, 0 for the sum) so they can
// participate in every reduction round without influencing the result,
// and they never write output.
func softmaxKernel(scores, weights []float32, n int) KernelFunc {
	return func(tid ThreadID, blk *Block) {
		width := tid.BlockDim.X
		shared := blk.Shared()
		redBuf := shared[:width]
		expBuf := shared[width:]

		i := tid.ThreadIdx.X

		// Round 0: stage scores for the max reduction.
		if i < n {
			redBuf[i] = scores[i]
		} else {
			redBuf[i] = -math.MaxFloat32
		}
		blk.Sync()

		// Binary tree reduction: log2(width) halving rounds, one barrier
		// per round so no lane reads a slot still being written.
		for stride := width / 2; stride > 0; stride /= 2 {
			if i < stride && redBuf[i+stride] > redBuf[i] {
				redBuf[i] = redBuf[i+stride]
			}
			blk.Sync()
		}
		maxScore := redBuf[0]

		// Exponentiate into the output and into the sum buffer.
		if i < n {
			e := exp32(scores[i] - maxScore)
			weights[i] = e
			expBuf[i] = e
		} else {
			expBuf[i] = 0
		}
		blk.Sync()

		for stride := width / 2; stride > 0; stride /= 2 {
			if i < stride {
				expBuf[i] += expBuf[i+stride]
			}
			blk.Sync()
		}

		if i < n {
			weights[i] /= expBuf[0]
		}
	}
}

// exp32 is the single-precision exponential shared by the parallel kernel
// and the sequential reference, keeping the two paths bit-comparable.
func exp32(x float32) float32 {
	return float32(math.Exp(float64(x)))
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
