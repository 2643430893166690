package ads1256

// ChannelSource reads one multiplexer pair and scales it down to the resolution of
// an encoder calibration. It satisfies absenc.Source.
type ChannelSource struct {
	adc       *ADS1256
	pair      ChannelPair
	fullScale int
}

func NewChannelSource(adc *ADS1256, pair ChannelPair, fullScale int) *ChannelSource {
	return &ChannelSource{
		adc:       adc,
		pair:      pair,
		fullScale: fullScale,
	}
}

// Prepare points the multiplexer at the pair. Other sources on the same ADC may
// move it again, ReadRaw re-selects as needed.
func (s *ChannelSource) Prepare() error {
	return s.adc.SelectChannel(s.pair)
}

func (s *ChannelSource) ReadRaw() (int, error) {
	code, err := s.adc.SingleConversion(s.pair)
	if err != nil {
		return 0, err
	}
	return ScaleCode(code, s.fullScale), nil
}

func (s *ChannelSource) Pair() ChannelPair {
	return s.pair
}
