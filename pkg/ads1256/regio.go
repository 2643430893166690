package ads1256

import (
	"errors"
	"fmt"
	"time"
)

func (adc *ADS1256) LastReadRegister(reg Register) byte {
	adc.mu.RLock()
	defer adc.mu.RUnlock()
	return adc.regLR[reg]
}

func (adc *ADS1256) LastWrittenRegister(reg Register) byte {
	adc.mu.RLock()
	defer adc.mu.RUnlock()
	return adc.regLW[reg]
}

// Registers returns the register values seen by the last read.
func (adc *ADS1256) Registers() map[Register]byte {
	adc.mu.RLock()
	r := make(map[Register]byte, NumRegisters)
	for reg, val := range adc.regLR {
		r[Register(reg)] = val
	}
	adc.mu.RUnlock()
	return r
}

// ReadAllRegisters refreshes and returns every register.
func (adc *ADS1256) ReadAllRegisters() (map[Register]byte, error) {
	adc.mu.Lock()
	err := adc.readAllRegisters()
	adc.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return adc.Registers(), nil
}

func (adc *ADS1256) readAllRegisters() error {
	for reg := Register(0); reg < NumRegisters; reg++ {
		if _, err := adc.readRegister(reg); err != nil {
			return fmt.Errorf("register 0x%02X: %w", byte(reg), err)
		}
	}
	return nil
}

// leaveContinuous sends SDATAC if RDATAC is active. CS must already be low.
func (adc *ADS1256) leaveContinuous() error {
	if !adc.continuousMode.Load() {
		return nil
	}
	if _, err := adc.Write([]byte{CmdSDATAC}); err != nil {
		return err
	}
	adc.continuousMode.Store(false)
	time.Sleep(100 * time.Microsecond)
	return nil
}

// writeRegister writes value to a single register with WREG.
func (adc *ADS1256) writeRegister(reg Register, value byte) error {
	if reg >= NumRegisters {
		return fmt.Errorf("invalid register address 0x%02X", byte(reg))
	}
	if err := adc.setCSLow(); err != nil {
		return err
	}
	if err := adc.leaveContinuous(); err != nil {
		return errors.Join(err, adc.setCSHigh())
	}

	// second byte is the number of registers - 1
	out := []byte{CmdWREG | byte(reg&0x0F), 0x00, value}
	if _, err := adc.Write(out); err != nil {
		return errors.Join(err, adc.setCSHigh())
	}

	time.Sleep(50 * time.Microsecond)

	adc.regLW[reg] = value
	return adc.setCSHigh()
}

// readRegister reads a single register with RREG.
func (adc *ADS1256) readRegister(reg Register) (byte, error) {
	if reg >= NumRegisters {
		return 0, fmt.Errorf("invalid register address 0x%02X", byte(reg))
	}
	if err := adc.setCSLow(); err != nil {
		return 0, err
	}
	if err := adc.leaveContinuous(); err != nil {
		return 0, errors.Join(err, adc.setCSHigh())
	}

	if _, err := adc.Write([]byte{CmdRREG | byte(reg&0x0F), 0x00}); err != nil {
		return 0, errors.Join(err, adc.setCSHigh())
	}

	time.Sleep(50 * time.Microsecond)

	var buf [1]byte
	if _, err := adc.Read(buf[:]); err != nil {
		return 0, errors.Join(err, adc.setCSHigh())
	}

	adc.regLR[reg] = buf[0]
	return buf[0], adc.setCSHigh()
}
