package attn

import (
	"fmt"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Strategy selects how Attention executes. The two strategies implement
// the same contract and must produce results equal within floating-point
// tolerance; which one a host dispatcher picks is its own concern.
type Strategy int

const (
	// Sequential runs the straight-line scalar reference on a single
	// thread. Used for correctness validation and as a CPU fallback.
	Sequential Strategy = iota
	// Parallel runs the tiled kernel pipeline: transpose, matmul,
	// block softmax, matmul.
	Parallel
)

// String returns the strategy name
func (s Strategy) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case Parallel:
		return "parallel"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Attention computes single-query scaled-dot-product attention:
//
//	out = softmax(q·Kᵗ) · V
//
// q has length d, K and V are seqLen×d with row i of V aligned to row i of
// K, and out (caller-provided, written once) has length d. Inputs are
// read-only; all intermediate buffers are transient per call.
//
// Shape violations and an empty key/value sequence fail fast with an
// InvalidArgument error; an unknown strategy fails with a Strategy error.
// Neither is retryable without fixing the input.
func Attention(q []float32, k, v Matrix, out []float32, strategy Strategy) error {
	d := len(q)
	if d == 0 {
		return NewInvalidArgError("Attention", "empty query")
	}
	if k.Rows == 0 {
		return NewInvalidArgError("Attention", "empty key/value sequence")
	}
	if k.Cols != d {
		return NewInvalidArgError("Attention",
			fmt.Sprintf("K is %dx%d, query has length %d", k.Rows, k.Cols, d))
	}
	if v.Rows != k.Rows || v.Cols != d {
		return NewInvalidArgError("Attention",
			fmt.Sprintf("V is %dx%d, want %dx%d", v.Rows, v.Cols, k.Rows, d))
	}
	if len(out) != d {
		return NewInvalidArgError("Attention",
			fmt.Sprintf("output has length %d, want %d", len(out), d))
	}

	if klog.V(1).Enabled() {
		klog.Infof("attention strategy=%s seqLen=%d d=%d", strategy, k.Rows, d)
	}

	switch strategy {
	case Sequential:
		Reference{}.Attention(q, k, v, out)
		return nil
	case Parallel:
		return attentionTiled(q, k, v, out)
	default:
		return NewStrategyError("Attention",
			fmt.Sprintf("unsupported strategy %s", strategy))
	}
}

// attentionTiled is the parallel pipeline. Stages run as separate kernel
// launches on the default stream; each launch is synchronized before the
// next starts, which is the only cross-stage ordering the kernels need.
// The weight vector overwrites the score buffer in place, and both
// intermediates come from the scratch pool.
func attentionTiled(q []float32, k, v Matrix, out []float32) error {
	d := len(q)
	seqLen := k.Rows

	ktBuf := defaultScratch.Get(d * seqLen)
	defer defaultScratch.Put(ktBuf)
	kt := MatrixOf(ktBuf, d, seqLen)

	if err := Transpose(k, kt); err != nil {
		return errors.Wrap(err, "transposing keys")
	}

	scoresBuf := defaultScratch.Get(seqLen)
	defer defaultScratch.Put(scoresBuf)

	// q viewed as 1×d, scores as 1×seqLen: shape adapters over the same
	// storage, no copies.
	qRow := MatrixOf(q, 1, d)
	scores := MatrixOf(scoresBuf, 1, seqLen)

	if err := MatMul(qRow, kt, scores); err != nil {
		return errors.Wrap(err, "computing scores")
	}

	if err := Softmax(scoresBuf, scoresBuf); err != nil {
		return errors.Wrap(err, "normalizing scores")
	}

	outRow := MatrixOf(out, 1, d)
	if err := MatMul(scores, v, outRow); err != nil {
		return errors.Wrap(err, "computing weighted sum")
	}

	return nil
}
