// Package absenc turns the wrap-around reading of an absolute rotary encoder into a
// single-turn angle and a continuous multi-turn angle.
//
// A [Tracker] owns no hardware. It reads one raw sample per tick from a [Source]
// and counts 360->0 and 0->360 crossings by looking at the jump between the last
// two samples. The caller must tick fast enough that real motion between two
// samples never exceeds the crossover threshold, the tracker cannot detect
// a missed or doubled wrap.
package absenc

import (
	"fmt"
)

// Source is the narrow contract a [Tracker] needs from an analog reader.
type Source interface {
	// Prepare readies the underlying pin or channel for reading.
	Prepare() error
	// ReadRaw returns the current raw value in [0, FullScale).
	ReadRaw() (int, error)
}

// Tracker is the position state of one absolute encoder.
//
// Tracker is not safe for concurrent use. Wrap it in a [Poller] (or your own
// lock) if readers and the sampling loop live on different goroutines.
type Tracker struct {
	src Source
	cal Calibration

	prevRaw int
	currRaw int
	angle   float64
	turns   int32

	reversed bool
	primed   bool
}

// NewTracker binds a tracker to src. No I/O happens here.
func NewTracker(src Source, cal Calibration) *Tracker {
	return &Tracker{
		src: src,
		cal: cal,
	}
}

// Initialize prepares the source for reading. Safe to call more than once if the source is.
func (t *Tracker) Initialize() error {
	if err := t.src.Prepare(); err != nil {
		return fmt.Errorf("failed to prepare encoder source: %w", err)
	}
	return nil
}

// Sample reads one raw value, recomputes the single-turn angle and updates the turn count.
// The first sample after [NewTracker] or [Tracker.Reset] only records the position and never
// counts a wrap. On a read failure the tracker is left exactly as it was.
func (t *Tracker) Sample() error {
	raw, err := t.src.ReadRaw()
	if err != nil {
		return fmt.Errorf("failed to read encoder: %w", err)
	}

	t.prevRaw = t.currRaw
	if t.reversed {
		raw = t.cal.FullScale - raw
	}
	t.currRaw = raw

	t.angle = t.cal.Degrees(t.currRaw)

	// nothing to compare the very first sample against
	if !t.primed {
		t.primed = true
		return nil
	}

	switch {
	case t.currRaw-t.prevRaw > t.cal.CrossoverThreshold:
		t.turns--
	case t.prevRaw-t.currRaw > t.cal.CrossoverThreshold:
		t.turns++
	}

	return nil
}

// Angle returns the latest single-turn angle in degrees, zero before the first sample.
func (t *Tracker) Angle() float64 {
	return t.angle
}

// UnwrappedAngle returns TurnCount()*360 + Angle().
func (t *Tracker) UnwrappedAngle() float64 {
	return float64(t.turns)*360.0 + t.angle
}

// TurnCount returns the signed net number of wraparounds seen.
func (t *Tracker) TurnCount() int32 {
	return t.turns
}

// Reverse toggles the rotational sense of subsequent samples. Angles and turns
// already computed are not touched, expect a one-tick discontinuity.
func (t *Tracker) Reverse() {
	t.reversed = !t.reversed
}

func (t *Tracker) Reversed() bool {
	return t.reversed
}

// Reset clears the sample history, the angle and the turn count.
// The next sample primes the history again.
func (t *Tracker) Reset() {
	t.prevRaw, t.currRaw = 0, 0
	t.angle = 0
	t.turns = 0
	t.primed = false
}

// Raw returns the last two normalized (post-reversal) raw samples.
func (t *Tracker) Raw() (prev, curr int) {
	return t.prevRaw, t.currRaw
}

func (t *Tracker) Calibration() Calibration {
	return t.cal
}

func (t *Tracker) String() string {
	return fmt.Sprintf(
		"Tracker{angle:%.3f, turns:%d, raw:[%d %d], reversed:%t}",
		t.angle, t.turns, t.prevRaw, t.currRaw, t.reversed,
	)
}
