package ft232h

import (
	"errors"
	"fmt"
	"time"

	"github.com/yunginnanet/ft232h"
)

var ErrPinNotSet = errors.New("pin not set")

// drdyPoll is how often WaitDRDY samples the DRDY line.
const drdyPoll = 100 * time.Microsecond

func (ft *FT232H) configPin(pin uint, dir ft232h.Dir, val bool, name string) (ft232h.CPin, error) {
	p := ft232h.CPin(pin)
	ft.log.Debug().Str("pin", p.String()).Int("pos", int(p.Pos())).Msgf("%s pin set", name)
	if err := ft.GPIO.ConfigPin(p, dir, val); err != nil {
		return 0, fmt.Errorf("failed to configure %s pin: %w", name, err)
	}
	return p, nil
}

func (ft *FT232H) SetDRDY(pin uint) (err error) {
	ft.drdyPin, err = ft.configPin(pin, ft232h.Input, true, "DRDY")
	return err
}

func (ft *FT232H) SetPWDN(pin uint) (err error) {
	ft.pwdnPin, err = ft.configPin(pin, ft232h.Output, true, "PWDN")
	return err
}

func (ft *FT232H) SetCSPin(pin uint) (err error) {
	ft.csPin, err = ft.configPin(pin, ft232h.Output, true, "CS")
	return err
}

// WaitDRDY blocks until the ADC pulls DRDY low.
func (ft *FT232H) WaitDRDY() error {
	if ft.drdyPin == 0 {
		return fmt.Errorf("DRDY %w", ErrPinNotSet)
	}
	for {
		hl, err := ft.FT232H.GPIO.Get(ft.drdyPin)
		if err != nil {
			return fmt.Errorf("failed to read DRDY pin: %w", err)
		}
		if !hl {
			return nil
		}
		time.Sleep(drdyPoll)
	}
}

func (ft *FT232H) setPWDN(level bool) error {
	if ft.pwdnPin == 0 {
		return fmt.Errorf("PWDN %w", ErrPinNotSet)
	}
	if err := ft.FT232H.GPIO.Set(ft.pwdnPin, level); err != nil {
		return fmt.Errorf("failed to set PWDN pin: %w", err)
	}
	return nil
}

func (ft *FT232H) PowerDown() error {
	return ft.setPWDN(false)
}

func (ft *FT232H) PowerUp() error {
	return ft.setPWDN(true)
}

func (ft *FT232H) SetCS(high bool) error {
	if ft.csPin == 0 {
		return fmt.Errorf("CS %w", ErrPinNotSet)
	}
	return ft.FT232H.GPIO.Set(ft.csPin, high)
}

func (ft *FT232H) Read(count uint, start bool, stop bool) ([]byte, error) {
	return ft.SPI.Read(count, start, stop)
}

func (ft *FT232H) Write(data []byte, start bool, stop bool) (uint, error) {
	return ft.SPI.Write(data, start, stop)
}

func (ft *FT232H) Init() error {
	return ft.SPI.Init()
}

func (ft *FT232H) Close() error {
	return ft.SPI.Close()
}

// ConfigureSPI sets the SPI clock and chip select for an ADS1256 (mode 1, CS active high
// from the bridge's point of view since CS is driven as a GPIO).
func (ft *FT232H) ConfigureSPI(clock uint32, cs uint) error {
	cfg := ft.SPI.GetConfig()
	cfg.Clock = clock
	cfg.CS = ft232h.C(cs)
	cfg.Mode = 0x00000001
	cfg.ActiveLow = false

	ft.log.Debug().Any("config", cfg).Msg("initializing SPI")

	if err := ft.SPI.Config(cfg); err != nil {
		return fmt.Errorf("failed to initialize SPI: %w", err)
	}
	return nil
}
