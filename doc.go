// Package attn implements a single-query scaled-dot-product attention
// kernel suite with a CUDA-style execution model on CPU. Kernels are
// launched over a grid of thread blocks; threads within a block cooperate
// through a shared scratch buffer and a block-wide barrier, exactly as they
// would on a data-parallel accelerator.
//
// The suite provides a tiled matrix multiplier, a tiled transpose, a
// block-parallel softmax built on tree reductions, and an attention
// orchestrator that sequences them. Every parallel kernel has a scalar
// reference counterpart; the two are required to agree within
// floating-point tolerance, and the tolerance framework in this package is
// what the tests and the bench command use to check that.
//
// Example usage:
//
//	q := []float32{1, 0, 0, 0}
//	k := attn.NewMatrix(4, 4)
//	v := attn.NewMatrix(4, 4)
//	out := make([]float32, 4)
//
//	if err := attn.Attention(q, k, v, out, attn.Parallel); err != nil {
//		log.Fatal(err)
//	}
package attn
