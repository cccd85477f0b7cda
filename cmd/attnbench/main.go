// Command attnbench runs the sequential and parallel attention strategies
// over random inputs, checks that they agree within tolerance, and reports
// throughput for each.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/johnsoez4/attn"
)

func main() {
	var (
		seqLen = flag.Int("seq", 256, "Number of key/value rows")
		dim    = flag.Int("dim", 64, "Query/key/value dimension")
		iters  = flag.Int("iters", 100, "Timed iterations per strategy")
		seed   = flag.Int64("seed", 1, "Random seed")
	)
	flag.Parse()

	fmt.Printf("attnbench: seq_len=%d d=%d iters=%d\n", *seqLen, *dim, *iters)
	fmt.Println(attn.GetCPUInfo())
	fmt.Printf("Device: %s (%d cores)\n\n", attn.GetDevice().Name, attn.GetDevice().NumCores)

	rng := rand.New(rand.NewSource(*seed))
	q := randomVector(rng, *dim)
	k := randomMatrix(rng, *seqLen, *dim)
	v := randomMatrix(rng, *seqLen, *dim)

	seqOut := make([]float32, *dim)
	parOut := make([]float32, *dim)

	if err := verifyParity(q, k, v, seqOut, parOut); err != nil {
		log.Fatalf("parity check failed: %v", err)
	}
	fmt.Println("Parity: sequential and parallel strategies agree within tolerance")

	for _, strategy := range []attn.Strategy{attn.Sequential, attn.Parallel} {
		out := make([]float32, *dim)
		elapsed := timeStrategy(q, k, v, out, strategy, *iters)

		perCall := elapsed / time.Duration(*iters)
		// One score matmul, one softmax, one weighted sum per call.
		elems := int64(*iters) * int64(*seqLen) * int64(*dim) * 2
		rate := float64(elems) / elapsed.Seconds()

		fmt.Printf("%-10s %v/call, %s multiply-adds/sec\n",
			strategy, perCall, humanize.SIWithDigits(rate, 2, ""))
	}
}

func verifyParity(q []float32, k, v attn.Matrix, seqOut, parOut []float32) error {
	if err := attn.Attention(q, k, v, seqOut, attn.Sequential); err != nil {
		return errors.Wrap(err, "sequential strategy")
	}
	if err := attn.Attention(q, k, v, parOut, attn.Parallel); err != nil {
		return errors.Wrap(err, "parallel strategy")
	}

	result := attn.VerifyFloat32Array(seqOut, parOut, attn.RelaxedTolerance())
	if !result.Passed() {
		return errors.Errorf("strategies disagree:\n%s", result)
	}
	return nil
}

func timeStrategy(q []float32, k, v attn.Matrix, out []float32, strategy attn.Strategy, iters int) time.Duration {
	start := time.Now()
	for i := 0; i < iters; i++ {
		if err := attn.Attention(q, k, v, out, strategy); err != nil {
			log.Fatalf("%s attention failed: %v", strategy, err)
		}
	}
	return time.Since(start)
}

func randomVector(rng *rand.Rand, n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = rng.Float32()*2 - 1
	}
	return v
}

func randomMatrix(rng *rand.Rand, rows, cols int) attn.Matrix {
	m := attn.NewMatrix(rows, cols)
	for i := range m.Data {
		m.Data[i] = rng.Float32()*2 - 1
	}
	return m
}
