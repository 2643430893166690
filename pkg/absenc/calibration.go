package absenc

import "fmt"

// Calibration holds the fixed constants a [Tracker] scales raw samples against.
//
// RawMin and RawMax set the zero and full-scale points of the angle, CrossoverThreshold
// sets the wraparound sensitivity and FullScale is the mirror point used when reversed.
// None of these are validated: an inverted range or a silly threshold silently
// produces wrong angles and turn counts.
type Calibration struct {
	RawMin             int `yaml:"raw_min"`
	RawMax             int `yaml:"raw_max" validate:"gtfield=RawMin"`
	CrossoverThreshold int `yaml:"crossover_threshold" validate:"gt=0"`
	FullScale          int `yaml:"full_scale" validate:"gt=0"`
}

// DefaultCalibration returns the constants for a 10-bit reader on a 5V rail.
//
//	min: 0.015V / 5.0V * 1024 = 3
//	max: 4.987V / 5.0V * 1024 = 1021
func DefaultCalibration() Calibration {
	return Calibration{
		RawMin:             3,
		RawMax:             1021,
		CrossoverThreshold: 500,
		FullScale:          1024,
	}
}

// Span is the width of the calibrated raw range.
func (c Calibration) Span() int {
	return c.RawMax - c.RawMin
}

// Degrees maps a normalized raw sample onto the single-turn angle. The map is
// linear and unclamped, samples outside [RawMin, RawMax] land slightly outside [0, 360].
func (c Calibration) Degrees(raw int) float64 {
	return 360.0 * float64(raw-c.RawMin) / float64(c.Span())
}

func (c Calibration) String() string {
	return fmt.Sprintf(
		"Calibration{RawMin:%d, RawMax:%d, CrossoverThreshold:%d, FullScale:%d}",
		c.RawMin, c.RawMax, c.CrossoverThreshold, c.FullScale,
	)
}
