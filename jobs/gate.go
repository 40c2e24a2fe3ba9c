package jobs

import "sync"

// Gate counts outstanding load operations. Generation is only allowed while
// no load is pending. onChange receives the new "ready" state and runs under
// the gate's lock, together with the counter update it reflects.
type Gate struct {
	mu       sync.Mutex
	pending  int
	onChange func(ready bool)
}

func NewGate(onChange func(ready bool)) *Gate {
	if onChange == nil {
		onChange = func(bool) {}
	}
	return &Gate{onChange: onChange}
}

// Begin registers a load.
func (g *Gate) Begin() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.onChange(false)
	g.pending++
}

// End marks a load as finished.
func (g *Gate) End() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == 0 {
		return
	}
	g.onChange(g.pending == 1)
	g.pending--
}

func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Ready reports whether no load is pending.
func (g *Gate) Ready() bool {
	return g.Pending() == 0
}
