package attn

import (
	"sync"
)

// ScratchPool recycles intermediate float32 buffers between orchestration
// calls. The attention pipeline needs a buffer for the transposed keys and
// one for the score/weight vector on every call; pooling them keeps the
// transient footprint flat without giving the buffers any identity beyond
// a single call.
type ScratchPool struct {
	mu        sync.Mutex
	free      map[int][][]float32
	inUse     int64
	peakInUse int64
}

// NewScratchPool creates an empty pool.
func NewScratchPool() *ScratchPool {
	return &ScratchPool{
		free: make(map[int][][]float32),
	}
}

// defaultScratch backs the parallel attention pipeline.
var defaultScratch = NewScratchPool()

// Get returns a buffer of exactly n float32s. Contents are unspecified;
// every kernel in this package fully overwrites its output before reading
// it, so buffers are not cleared on reuse.
func (p *ScratchPool) Get(n int) []float32 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.inUse += int64(n)
	if p.inUse > p.peakInUse {
		p.peakInUse = p.inUse
	}

	if list := p.free[n]; len(list) > 0 {
		buf := list[len(list)-1]
		p.free[n] = list[:len(list)-1]
		return buf
	}
	return make([]float32, n)
}

// Put returns a buffer to the pool for reuse.
func (p *ScratchPool) Put(buf []float32) {
	if buf == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(buf)
	p.inUse -= int64(n)
	p.free[n] = append(p.free[n], buf)
}

// Stats returns the current and peak number of pooled float32s in use.
func (p *ScratchPool) Stats() (inUse, peak int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse, p.peakInUse
}
