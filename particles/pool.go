package particles

import "fmt"

// Pool is a fixed-capacity particle store split into a packed active
// sequence and a stock of reusable records. Records are allocated lazily up
// to capacity; after that the pool only recycles, so steady-state simulation
// does not allocate.
type Pool struct {
	capacity  int
	allocated int
	active    []*Particle
	stock     []*Particle
}

// NewPool creates a pool with the given fixed capacity.
func NewPool(capacity int) (*Pool, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("pool: capacity must be >= 1, got %d", capacity)
	}
	return &Pool{
		capacity: capacity,
		active:   make([]*Particle, 0, capacity),
		stock:    make([]*Particle, 0, capacity),
	}, nil
}

// Capacity returns the fixed capacity.
func (p *Pool) Capacity() int { return p.capacity }

// ActiveCount returns the number of live particles.
func (p *Pool) ActiveCount() int { return len(p.active) }

// Available returns how many more particles can be acquired this tick.
func (p *Pool) Available() int { return p.capacity - len(p.active) }

// Active returns the packed active sequence in simulation order. The slice is
// the pool's backing storage; callers read it between ticks and must not
// retain it across a Tick.
func (p *Pool) Active() []*Particle { return p.active }

// Acquire produces a spawn-ready record from the stock, or a newly allocated
// one while under capacity. Returns nil once the active count has reached
// capacity; callers truncate their spawn batch rather than treating this as
// an error.
func (p *Pool) Acquire() *Particle {
	if len(p.active) >= p.capacity {
		return nil
	}
	var rec *Particle
	if n := len(p.stock); n > 0 {
		rec = p.stock[n-1]
		p.stock = p.stock[:n-1]
	} else {
		rec = &Particle{}
		p.allocated++
	}
	rec.reset()
	p.active = append(p.active, rec)
	return rec
}

// Retire removes the active record at index i by swap-and-pop: the last
// active record moves into slot i so the sequence stays packed, and the
// retired record is pushed to the stock. The retired record's data is only
// valid until its next Acquire; callers needing the dying particle's final
// state read it before calling Retire.
func (p *Pool) Retire(i int) {
	last := len(p.active) - 1
	dying := p.active[i]
	p.active[i] = p.active[last]
	p.active[last] = nil
	p.active = p.active[:last]
	p.stock = append(p.stock, dying)
}

// Reset empties the active sequence back into the stock without running any
// retirement side effects.
func (p *Pool) Reset() {
	for _, rec := range p.active {
		p.stock = append(p.stock, rec)
	}
	p.active = p.active[:0]
}
