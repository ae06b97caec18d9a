package particles

import "math/rand"

// ScalarKey is one keyframe of a ScalarTrack. Pos is life progress in [0, 1].
// When HasRange is set the key's concrete value is rolled uniformly from
// [Low, High) at the moment a particle binds to the key; otherwise Low is the
// deterministic value.
type ScalarKey struct {
	Pos      float64
	Low      float64
	High     float64
	HasRange bool
}

// roll produces the concrete value a particle binds to for this key.
func (k ScalarKey) roll(rng *rand.Rand) float64 {
	if !k.HasRange {
		return k.Low
	}
	return sampleRange(rng, k.Low, k.High)
}

// ScalarTrack is an ordered keyframe table over normalized life progress.
// A track with zero keys is inactive; callers fall back to their fixed or
// min/max-range behavior. A track with one key is constant.
type ScalarTrack struct {
	keys []ScalarKey
}

// AddKey inserts a deterministic key and re-sorts by position. Insertion is
// stable: a key placed at an already-occupied position lands after the
// existing keys at that position.
func (t *ScalarTrack) AddKey(pos, value float64) {
	t.insert(ScalarKey{Pos: pos, Low: value})
}

// AddRangeKey inserts a key whose value is re-rolled from [low, high) each
// time a particle binds to it.
func (t *ScalarTrack) AddRangeKey(pos, low, high float64) {
	t.insert(ScalarKey{Pos: pos, Low: low, High: high, HasRange: true})
}

func (t *ScalarTrack) insert(k ScalarKey) {
	i := len(t.keys)
	for i > 0 && t.keys[i-1].Pos > k.Pos {
		i--
	}
	t.keys = append(t.keys, ScalarKey{})
	copy(t.keys[i+1:], t.keys[i:])
	t.keys[i] = k
}

// RemoveKey removes the first key at exactly pos. No-op if absent.
func (t *ScalarTrack) RemoveKey(pos float64) {
	for i, k := range t.keys {
		if k.Pos == pos {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			return
		}
	}
}

// Active reports whether the track has at least one key.
func (t *ScalarTrack) Active() bool { return len(t.keys) > 0 }

// Len returns the number of keys.
func (t *ScalarTrack) Len() int { return len(t.keys) }

// Keys returns the ordered key table. The returned slice is the track's
// backing storage; callers must not mutate it.
func (t *ScalarTrack) Keys() []ScalarKey { return t.keys }

// Locate finds the bracketing key pair around progress and the local scale
// within that segment. Before the first key it returns (0, 0, 0); at or past
// the last key it returns (n-1, n-1, 0). hint is the start index of the last
// known segment (-1 for none) so that repeated sampling of a monotonically
// aging particle is O(1) amortized instead of re-scanning from the table
// head. Two keys sharing a position yield a zero local scale rather than a
// division by zero.
func (t *ScalarTrack) Locate(progress float64, hint int) (start, end int, local float64) {
	return locate(len(t.keys), func(i int) float64 { return t.keys[i].Pos }, progress, hint)
}

// Sample advances cur along the track for the given progress and returns the
// interpolated value. When the bracketing pair changes (or the cursor is
// unbound), both endpoint values are re-rolled and bound to the cursor.
func (t *ScalarTrack) Sample(cur *trackCursor, progress float64, rng *rand.Rand) float64 {
	start, end, local := t.Locate(progress, cur.segStart)
	if cur.segStart != start || cur.segEnd != end {
		cur.segStart = start
		cur.segEnd = end
		cur.from = t.keys[start].roll(rng)
		if end == start {
			cur.to = cur.from
		} else {
			cur.to = t.keys[end].roll(rng)
		}
	}
	return lerp(cur.from, cur.to, local)
}

// SampleOnce evaluates the track at progress without cursor state, rolling
// any range keys on the spot. Used for spawn-time lookups that bind no
// cursor, like the life-time track.
func (t *ScalarTrack) SampleOnce(progress float64, rng *rand.Rand) float64 {
	var cur trackCursor
	cur.unbind()
	return t.Sample(&cur, progress, rng)
}

// ColorKey is one keyframe of a ColorTrack. When HasRange is set the bound
// color is rolled channel-wise between Low and High at bind time.
type ColorKey struct {
	Pos      float64
	Low      Color4
	High     Color4
	HasRange bool
}

func (k ColorKey) roll(rng *rand.Rand) Color4 {
	if !k.HasRange {
		return k.Low
	}
	return lerpColor(k.Low, k.High, rng.Float64())
}

// ColorTrack is the color analogue of ScalarTrack.
type ColorTrack struct {
	keys []ColorKey
}

// AddKey inserts a deterministic color key, stable-sorted by position.
func (t *ColorTrack) AddKey(pos float64, c Color4) {
	t.insert(ColorKey{Pos: pos, Low: c})
}

// AddRangeKey inserts a color key rolled between low and high at bind time.
func (t *ColorTrack) AddRangeKey(pos float64, low, high Color4) {
	t.insert(ColorKey{Pos: pos, Low: low, High: high, HasRange: true})
}

func (t *ColorTrack) insert(k ColorKey) {
	i := len(t.keys)
	for i > 0 && t.keys[i-1].Pos > k.Pos {
		i--
	}
	t.keys = append(t.keys, ColorKey{})
	copy(t.keys[i+1:], t.keys[i:])
	t.keys[i] = k
}

// RemoveKey removes the first key at exactly pos. No-op if absent.
func (t *ColorTrack) RemoveKey(pos float64) {
	for i, k := range t.keys {
		if k.Pos == pos {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			return
		}
	}
}

// Active reports whether the track has at least one key.
func (t *ColorTrack) Active() bool { return len(t.keys) > 0 }

// Len returns the number of keys.
func (t *ColorTrack) Len() int { return len(t.keys) }

// Keys returns the ordered key table. Callers must not mutate it.
func (t *ColorTrack) Keys() []ColorKey { return t.keys }

// Locate is ScalarTrack.Locate over the color key table.
func (t *ColorTrack) Locate(progress float64, hint int) (start, end int, local float64) {
	return locate(len(t.keys), func(i int) float64 { return t.keys[i].Pos }, progress, hint)
}

// Sample advances cur along the track and returns the blended color,
// re-rolling bound endpoint colors on segment change.
func (t *ColorTrack) Sample(cur *colorCursor, progress float64, rng *rand.Rand) Color4 {
	start, end, local := t.Locate(progress, cur.segStart)
	if cur.segStart != start || cur.segEnd != end {
		cur.segStart = start
		cur.segEnd = end
		cur.from = t.keys[start].roll(rng)
		if end == start {
			cur.to = cur.from
		} else {
			cur.to = t.keys[end].roll(rng)
		}
	}
	return lerpColor(cur.from, cur.to, local)
}

// locate implements segment lookup over any ordered key table. pos(i) must be
// non-decreasing in i.
func locate(n int, pos func(int) float64, progress float64, hint int) (start, end int, local float64) {
	if n == 0 {
		return 0, 0, 0
	}
	if progress <= pos(0) {
		return 0, 0, 0
	}
	last := n - 1
	if progress >= pos(last) {
		return last, last, 0
	}

	// Resume from the hinted segment; rewind first in case the cursor was
	// bound past the current progress (e.g. after key removal).
	i := hint
	if i < 0 || i > last {
		i = 0
	}
	for i > 0 && progress < pos(i) {
		i--
	}
	for i < last-1 && progress >= pos(i+1) {
		i++
	}

	span := pos(i+1) - pos(i)
	if span <= 0 {
		return i, i + 1, 0
	}
	return i, i + 1, (progress - pos(i)) / span
}
