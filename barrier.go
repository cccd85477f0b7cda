package attn

import (
	"sync"
)

// barrier is a reusable counting barrier for the threads of one block.
// await returns only after all parties have called it; the phase counter
// lets the same barrier be reused for every synchronization point of a
// kernel without re-arming.
type barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	waiting int
	phase   uint64
}

func newBarrier(parties int) *barrier {
	b := &barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *barrier) await() {
	if b.parties == 1 {
		return
	}
	b.mu.Lock()
	b.waiting++
	if b.waiting == b.parties {
		// Last thread in: release the block into the next phase.
		b.waiting = 0
		b.phase++
		b.cond.Broadcast()
		b.mu.Unlock()
		return
	}
	phase := b.phase
	for phase == b.phase {
		b.cond.Wait()
	}
	b.mu.Unlock()
}
