package ads1256

import "fmt"

type Channel int

const (
	AIN0 Channel = iota
	AIN1
	AIN2
	AIN3
	AIN4
	AIN5
	AIN6
	AIN7
	AINCOM
)

func (c Channel) Byte() byte {
	return byte(c)
}

func (c Channel) Valid() bool {
	return c >= AIN0 && c <= AINCOM
}

func (c Channel) String() string {
	switch {
	case c == AINCOM:
		return "AINCOM"
	case c.Valid():
		return fmt.Sprintf("AIN%d", int(c))
	default:
		return "(invalid channel)"
	}
}

// ChannelPair holds the positive and negative multiplexer inputs.
// A ratiometric encoder wiper is usually read single-ended against AINCOM.
type ChannelPair struct {
	Pos Channel
	Neg Channel
}

// SingleEnded pairs ch with AINCOM.
func SingleEnded(ch Channel) ChannelPair {
	return ChannelPair{Pos: ch, Neg: AINCOM}
}

func (p ChannelPair) Valid() bool {
	return p.Pos.Valid() && p.Neg.Valid() && p.Pos != p.Neg
}

func (p ChannelPair) muxValue() byte {
	return p.Pos.Byte()<<4 | p.Neg.Byte()&0x0F
}

func (p ChannelPair) String() string {
	return fmt.Sprintf("%s-%s", p.Pos, p.Neg)
}

// SelectChannel points the input multiplexer at pair.
func (adc *ADS1256) SelectChannel(pair ChannelPair) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.selectChannel(pair)
}

func (adc *ADS1256) selectChannel(pair ChannelPair) error {
	if !pair.Valid() {
		return fmt.Errorf("invalid channel pair %s", pair)
	}
	if adc.muxSet && adc.mux == pair {
		return nil
	}
	if err := adc.writeRegister(RegMUX, pair.muxValue()); err != nil {
		return err
	}
	adc.mux, adc.muxSet = pair, true
	adc.log.Trace().Stringer("pair", pair).Msg("mux switched")
	return nil
}
