package ads1256

import "errors"

// sendCommand clocks out a single command byte. Caller holds adc.mu.
func (adc *ADS1256) sendCommand(cmd byte) error {
	if err := adc.setCSLow(); err != nil {
		return err
	}

	// RESET and RDATAC are accepted from within continuous read mode
	if cmd != CmdRDATAC && cmd != CmdReset {
		if err := adc.leaveContinuous(); err != nil {
			return errors.Join(err, adc.setCSHigh())
		}
	}

	if _, err := adc.Write([]byte{cmd}); err != nil {
		return errors.Join(err, adc.setCSHigh())
	}

	switch cmd {
	case CmdRDATAC:
		adc.continuousMode.Store(true)
	case CmdReset:
		adc.continuousMode.Store(false)
	}

	return adc.setCSHigh()
}
