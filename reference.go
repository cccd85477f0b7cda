// Package attn reference implementations for verification
package attn

// Reference contains simple, correct scalar implementations of all
// kernels. They run on a single thread of control with no tiling and no
// shared-memory concept, define ground truth for the parallel kernels,
// and double as the Sequential attention strategy.
type Reference struct{}

// MatMul computes c = a·b with a naive triple loop.
func (r Reference) MatMul(a, b, c Matrix) {
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < b.Cols; j++ {
			sum := float32(0)
			for k := 0; k < a.Cols; k++ {
				sum += a.At(i, k) * b.At(k, j)
			}
			c.Set(i, j, sum)
		}
	}
}

// Transpose computes out = inᵗ with a direct double loop.
func (r Reference) Transpose(in, out Matrix) {
	for i := 0; i < in.Rows; i++ {
		for j := 0; j < in.Cols; j++ {
			out.Set(j, i, in.At(i, j))
		}
	}
}

// Softmax computes the numerically-stable softmax in three plain passes:
// max, exponentiate-and-accumulate, normalize. weights may alias scores.
func (r Reference) Softmax(scores, weights []float32) {
	n := len(scores)
	if n == 0 {
		return
	}

	maxScore := scores[0]
	for i := 1; i < n; i++ {
		if scores[i] > maxScore {
			maxScore = scores[i]
		}
	}

	var sum float32
	for i := 0; i < n; i++ {
		weights[i] = exp32(scores[i] - maxScore)
		sum += weights[i]
	}

	for i := 0; i < n; i++ {
		weights[i] /= sum
	}
}

// Attention computes the attended output with straight-line loops: each
// score as a direct dot product (no matmul abstraction), the softmax
// above, then the weighted sum of value rows. This is the ground-truth
// path the parallel strategy must match.
func (r Reference) Attention(q []float32, k, v Matrix, out []float32) {
	d := len(q)
	seqLen := k.Rows

	scores := make([]float32, seqLen)
	for i := 0; i < seqLen; i++ {
		var sum float32
		for dim := 0; dim < d; dim++ {
			sum += q[dim] * k.At(i, dim)
		}
		scores[i] = sum
	}

	r.Softmax(scores, scores)

	for dim := 0; dim < d; dim++ {
		var sum float32
		for i := 0; i < seqLen; i++ {
			sum += scores[i] * v.At(i, dim)
		}
		out[dim] = sum
	}
}
