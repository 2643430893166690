package absenc

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/pin"
)

// SequenceSource replays a fixed list of raw samples. It is used for tests and
// for replaying recorded sessions. ReadRaw returns [io.EOF] once every sample was consumed.
type SequenceSource struct {
	samples  []int
	next     int
	prepared *atomic.Int32
}

func NewSequenceSource(samples ...int) *SequenceSource {
	return &SequenceSource{
		samples:  samples,
		prepared: new(atomic.Int32),
	}
}

func (s *SequenceSource) Prepare() error {
	s.prepared.Add(1)
	return nil
}

// Prepared reports how many times Prepare was called.
func (s *SequenceSource) Prepared() int {
	return int(s.prepared.Load())
}

func (s *SequenceSource) ReadRaw() (int, error) {
	if s.next >= len(s.samples) {
		return 0, io.EOF
	}
	v := s.samples[s.next]
	s.next++
	return v, nil
}

// Remaining is the number of samples not yet read.
func (s *SequenceSource) Remaining() int {
	return len(s.samples) - s.next
}

var ErrBadPinRange = errors.New("analog pin reports an empty range")

// PinSource adapts a periph.io ADC pin. Raw values are shifted so the bottom of the
// pin's range reads as zero. Prepare switches pins that also implement [pin.PinFunc]
// to [analog.ADC].
type PinSource struct {
	pin analog.PinADC
}

func NewPinSource(pin analog.PinADC) *PinSource {
	return &PinSource{pin: pin}
}

func (p *PinSource) Prepare() error {
	lo, hi := p.pin.Range()
	if hi.Raw <= lo.Raw {
		return fmt.Errorf("%w: %s [%d, %d]", ErrBadPinRange, p.pin, lo.Raw, hi.Raw)
	}
	// pins with a fixed function don't implement pin.PinFunc
	pf, ok := p.pin.(pin.PinFunc)
	if !ok || pf.Func() == analog.ADC {
		return nil
	}
	if err := pf.SetFunc(analog.ADC); err != nil {
		return fmt.Errorf("failed to configure %s as ADC: %w", p.pin, err)
	}
	return nil
}

func (p *PinSource) ReadRaw() (int, error) {
	s, err := p.pin.Read()
	if err != nil {
		return 0, err
	}
	lo, _ := p.pin.Range()
	return int(s.Raw - lo.Raw), nil
}

// FullScale is the number of distinct raw values the pin can produce, usable as
// [Calibration.FullScale].
func (p *PinSource) FullScale() int {
	lo, hi := p.pin.Range()
	return int(hi.Raw-lo.Raw) + 1
}
