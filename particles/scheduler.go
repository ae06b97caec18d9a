package particles

// manualUnset is the sentinel for "no manual emit pending".
const manualUnset = -1

// Scheduler converts a continuous emission rate into an integer spawn count
// per tick, carrying the fractional remainder across ticks so no whole
// particle is lost or duplicated over time.
type Scheduler struct {
	remainder float64
	manual    int
}

// NewScheduler creates a scheduler with no pending manual emit.
func NewScheduler() *Scheduler {
	return &Scheduler{manual: manualUnset}
}

// RequestManual arranges for exactly count particles on the next tick,
// overriding the rate-based computation once and resetting the fractional
// remainder. Negative counts are ignored.
func (s *Scheduler) RequestManual(count int) {
	if count < 0 {
		return
	}
	s.manual = count
}

// SpawnCount returns the number of particles to emit for one tick. dtScaled
// is the tick delta already multiplied by the system's update speed.
func (s *Scheduler) SpawnCount(rate, dtScaled float64) int {
	if s.manual != manualUnset {
		n := s.manual
		s.manual = manualUnset
		s.remainder = 0
		return n
	}
	raw := rate*dtScaled + s.remainder
	n := int(raw)
	s.remainder = raw - float64(n)
	return n
}

// Reset clears the fractional remainder and any pending manual emit.
func (s *Scheduler) Reset() {
	s.remainder = 0
	s.manual = manualUnset
}
