package ads1256

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type Register byte

// SerialInterface interface allows for different SerialInterface implementations.
type SerialInterface interface {
	Read(count uint, start bool, stop bool) ([]byte, error)
	Write(data []byte, start bool, stop bool) (uint, error)

	// WaitDRDY is called to wait for DRDY pin == LOW.
	WaitDRDY() error

	// PowerDown pulls the PWDN pin low.
	PowerDown() error

	// PowerUp pulls the PWDN pin high.
	PowerUp() error

	SetCS(bool) error

	Init() error

	// Close closes the interface.
	Close() error
}

// ADS1256 provides high-level control over a TI ADS1256 ADC.
//
// All exported methods are safe to call from several goroutines; encoders sharing
// one ADC take turns on the multiplexer.
type ADS1256 struct {
	mu  sync.RWMutex
	spi SerialInterface
	log zerolog.Logger

	// Last read or written register states (for reference or debugging)
	regLR [NumRegisters]byte // "Last Read"  register data
	regLW [NumRegisters]byte // "Last Write" register data

	mux            ChannelPair
	muxSet         bool
	continuousMode *atomic.Bool
}

// Config represents user-level configuration parameters
type Config struct {
	DataRate byte // one of the DRateXXXSPS values
	PGA      byte // PGA1 through PGA64
	BufferEn bool // Enable the ADC's internal buffer
	AutoCal  bool // If set, device auto-calibrates after certain register changes
	ClkOut   byte // 0=Off, 1=CLK/1, 2=CLK/2, 3=CLK/4
}

// Gain returns the amplifier gain selected by PGA.
func (c Config) Gain() int {
	return 1 << (c.PGA & 0x07)
}

// DefaultConfig provides default config. You can adjust as needed
func DefaultConfig() Config {
	return Config{
		DataRate: DRate1000SPS,
		PGA:      PGA1,
		BufferEn: false,
		AutoCal:  false,
		ClkOut:   0,
	}
}

type Option func(*ADS1256)

func WithLogger(log zerolog.Logger) Option {
	return func(adc *ADS1256) {
		adc.log = log
	}
}

// NewADS1256 constructs an ADS1256 object on top of the given SerialInterface.
func NewADS1256(spi SerialInterface, opts ...Option) *ADS1256 {
	adc := &ADS1256{
		spi:            spi,
		log:            zerolog.Nop(),
		continuousMode: new(atomic.Bool),
	}
	for _, opt := range opts {
		opt(adc)
	}
	return adc
}

func (adc *ADS1256) WaitDRDY() error {
	return adc.spi.WaitDRDY()
}

// Initialize sets up the device with the provided config and runs a self calibration.
// Call it once at start-up.
func (adc *ADS1256) Initialize(cfg Config) error {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	if err := adc.sendCommand(CmdReset); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	// 30ms is typical after a reset
	time.Sleep(50 * time.Millisecond)

	var status byte
	if cfg.BufferEn {
		status |= StatusBUFEN
	}
	if cfg.AutoCal {
		status |= StatusACAL
	}
	if err := adc.writeRegister(RegSTATUS, status); err != nil {
		return err
	}

	var adcon byte
	switch cfg.ClkOut {
	case 1:
		adcon = AdconCLKDiv1
	case 2:
		adcon = AdconCLKDiv2
	case 3:
		adcon = AdconCLKDiv4
	default:
		adcon = AdconCLKOff
	}
	// sensor detect would bias the encoder wiper, keep it off
	adcon |= AdconSDCSOff
	adcon |= cfg.PGA & 0x07
	if err := adc.writeRegister(RegADCON, adcon); err != nil {
		return err
	}

	if err := adc.writeRegister(RegDRATE, cfg.DataRate); err != nil {
		return err
	}

	if err := adc.readAllRegisters(); err != nil {
		return fmt.Errorf("failed to read back registers: %w", err)
	}

	adc.muxSet = false

	if err := adc.sendCommand(CmdSelfCal); err != nil {
		return fmt.Errorf("self calibration: %w", err)
	}

	adc.log.Debug().
		Uint8("status", status).
		Uint8("adcon", adcon).
		Uint8("drate", cfg.DataRate).
		Msg("ADS1256 initialized")

	return nil
}

func (adc *ADS1256) Close() error {
	err := adc.Reset()
	err = errors.Join(err, adc.Standby())
	err = errors.Join(err, adc.PowerDown())
	return errors.Join(err, adc.spi.Close())
}

// Reset triggers a software reset using the RESET command
func (adc *ADS1256) Reset() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	adc.muxSet = false
	return adc.sendCommand(CmdReset)
}

// Standby shuts down the analog side, leaving the oscillator running.
func (adc *ADS1256) Standby() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.sendCommand(CmdStandby)
}

// WakeUp from SYNC or STANDBY mode.
func (adc *ADS1256) WakeUp() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.sendCommand(CmdWakeUp)
}

// Sync sends a SYNC command to restart the digital filter.
func (adc *ADS1256) Sync() error {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.sendCommand(CmdSync)
}

// PowerDown pulls the PWDN pin low.
func (adc *ADS1256) PowerDown() error {
	return adc.spi.PowerDown()
}

// PowerUp pulls the PWDN pin high.
func (adc *ADS1256) PowerUp() error {
	return adc.spi.PowerUp()
}

// SingleConversion points the multiplexer at pair, issues SYNC and WAKEUP then reads
// one 24-bit result with RDATA.
func (adc *ADS1256) SingleConversion(pair ChannelPair) (int32, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()

	if err := adc.selectChannel(pair); err != nil {
		return 0, err
	}
	if err := adc.sendCommand(CmdSync); err != nil {
		return 0, err
	}
	if err := adc.sendCommand(CmdWakeUp); err != nil {
		return 0, err
	}
	if err := adc.spi.WaitDRDY(); err != nil {
		return 0, err
	}

	return adc.readDataByCommand()
}

// RData performs RDATA to get a single 24-bit result from whatever channel is selected.
func (adc *ADS1256) RData() (int32, error) {
	adc.mu.Lock()
	defer adc.mu.Unlock()
	return adc.readDataByCommand()
}

// readDataByCommand performs the RDATA command to get a single 24-bit result from the device.
func (adc *ADS1256) readDataByCommand() (int32, error) {
	if err := adc.setCSLow(); err != nil {
		return 0, err
	}

	if _, err := adc.Write([]byte{CmdRDATA}); err != nil {
		return 0, errors.Join(err, adc.setCSHigh())
	}

	// t6: 50 tCLKIN between command and data
	time.Sleep(10 * time.Microsecond)

	var buf [3]byte
	n, err := adc.Read(buf[:])
	if err != nil {
		return 0, errors.Join(err, adc.setCSHigh())
	}
	if n != 3 {
		return 0, errors.Join(fmt.Errorf("%w: expected 3 bytes, got %d", ErrShortRead, n), adc.setCSHigh())
	}

	return Convert24To32(buf[:]), adc.setCSHigh()
}
