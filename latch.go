package lorapong

import (
	"go.uber.org/atomic"
)

// Latch hands off a binary hardware occurrence from the DIO1 edge-watch
// context to the main loop. It is a single-slot flag, not a queue: signals
// arriving before the next Take coalesce into one observation.
//
// Exactly one context writes (the edge handler, via Signal) and exactly one
// context reads and clears (the engine, via Take). Constructed once at
// startup, before the edge watch is registered, and never reconstructed.
type Latch struct {
	fired *atomic.Bool
}

func NewLatch() *Latch {
	return &Latch{fired: atomic.NewBool(false)}
}

// Signal marks that the monitored line has risen. Only the edge-watch
// handler may call this.
func (l *Latch) Signal() {
	l.fired.Store(true)
}

// Take reports whether the line has risen since the last call, clearing the
// flag in the same atomic step. Never blocks.
func (l *Latch) Take() bool {
	return l.fired.Swap(false)
}
