// Package config loads the YAML file describing the bridge, the ADC and the
// encoders hanging off it.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/yunginnanet/ftdi-absenc/pkg/absenc"
	"github.com/yunginnanet/ftdi-absenc/pkg/ads1256"
)

const DefaultInterval = 5 * time.Millisecond

type BridgeConfig struct {
	Index  int    `yaml:"index" validate:"gte=-1"`
	Serial string `yaml:"serial"`
	CS     uint   `yaml:"cs" validate:"required"`
	DRDY   uint   `yaml:"drdy" validate:"required"`
	PWDN   uint   `yaml:"pwdn" validate:"required"`
	Clock  uint32 `yaml:"clock" validate:"gte=0"`
}

type ADCConfig struct {
	// PGA is the gain, one of 1, 2, 4 ... 64.
	PGA      int  `yaml:"pga" validate:"oneof=1 2 4 8 16 32 64"`
	DataRate int  `yaml:"data_rate" validate:"gte=0,lte=255"`
	Buffer   bool `yaml:"buffer"`
	AutoCal  bool `yaml:"autocal"`
}

type EncoderConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Pos      int    `yaml:"pos" validate:"gte=0,lte=8"`
	Neg      int    `yaml:"neg" validate:"gte=0,lte=8,nefield=Pos"`
	Reversed bool   `yaml:"reversed"`
	// Calibration overrides the file-wide calibration for this encoder.
	Calibration *absenc.Calibration `yaml:"calibration"`
}

type Config struct {
	Interval    time.Duration      `yaml:"interval" validate:"gt=0"`
	Bridge      BridgeConfig       `yaml:"bridge"`
	ADC         ADCConfig          `yaml:"adc"`
	Calibration absenc.Calibration `yaml:"calibration"`
	Encoders    []EncoderConfig    `yaml:"encoders" validate:"required,min=1,unique=Name,dive"`
}

// Default returns a config for one encoder on AIN0 with the stock calibration
// and the pin assignment of the breakout board.
func Default() Config {
	return Config{
		Interval: DefaultInterval,
		Bridge: BridgeConfig{
			CS:    0x10,
			DRDY:  0x01,
			PWDN:  0x40,
			Clock: 1700000,
		},
		ADC: ADCConfig{
			PGA:      1,
			DataRate: ads1256.DRate1000SPS,
		},
		Calibration: absenc.DefaultCalibration(),
		Encoders: []EncoderConfig{
			{Name: "encoder1", Pos: int(ads1256.AIN0), Neg: int(ads1256.AINCOM)},
		},
	}
}

// Load reads path on top of [Default] and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	cfg.Encoders = nil
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Encoders) == 0 {
		cfg.Encoders = Default().Encoders
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the file for typos and impossible wiring. It does not judge whether a
// calibration suits the sensor, that stays the caller's business.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CalibrationFor returns the encoder's own calibration if it has one.
func (c Config) CalibrationFor(e EncoderConfig) absenc.Calibration {
	if e.Calibration != nil {
		return *e.Calibration
	}
	return c.Calibration
}

func (e EncoderConfig) Pair() ads1256.ChannelPair {
	return ads1256.ChannelPair{Pos: ads1256.Channel(e.Pos), Neg: ads1256.Channel(e.Neg)}
}

// ADS1256 translates the file's ADC section into driver settings.
func (c Config) ADS1256() ads1256.Config {
	cfg := ads1256.DefaultConfig()
	cfg.DataRate = byte(c.ADC.DataRate)
	cfg.BufferEn = c.ADC.Buffer
	cfg.AutoCal = c.ADC.AutoCal
	for pga := byte(ads1256.PGA1); pga <= ads1256.PGA64; pga++ {
		if 1<<pga == c.ADC.PGA {
			cfg.PGA = pga
		}
	}
	return cfg
}
