package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yunginnanet/ftdi-absenc/pkg/absenc"
	"github.com/yunginnanet/ftdi-absenc/pkg/ads1256"
)

const sample = `
interval: 2ms
bridge:
  index: 0
  cs: 0x10
  drdy: 0x01
  pwdn: 0x40
adc:
  pga: 4
  data_rate: 0xA1
calibration:
  raw_min: 3
  raw_max: 1021
  crossover_threshold: 500
  full_scale: 1024
encoders:
  - name: encoder1
    pos: 0
    neg: 8
  - name: encoder2
    pos: 1
    neg: 8
    reversed: true
    calibration:
      raw_min: 10
      raw_max: 1000
      crossover_threshold: 400
      full_scale: 1024
`

func TestParse(t *testing.T) {
	t.Run("Full", func(t *testing.T) {
		cfg, err := Parse([]byte(sample))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Interval != 2*time.Millisecond {
			t.Errorf("expected 2ms, got %s", cfg.Interval)
		}
		if len(cfg.Encoders) != 2 {
			t.Fatalf("expected 2 encoders, got %d", len(cfg.Encoders))
		}
		if cfg.CalibrationFor(cfg.Encoders[0]) != absenc.DefaultCalibration() {
			t.Errorf("expected default calibration, got %s", cfg.CalibrationFor(cfg.Encoders[0]))
		}
		if cal := cfg.CalibrationFor(cfg.Encoders[1]); cal.RawMin != 10 || cal.CrossoverThreshold != 400 {
			t.Errorf("expected encoder2 override, got %s", cal)
		}
		if !cfg.Encoders[1].Reversed {
			t.Error("expected encoder2 to be reversed")
		}
		if p := cfg.Encoders[1].Pair(); p != ads1256.SingleEnded(ads1256.AIN1) {
			t.Errorf("unexpected pair %s", p)
		}
		if adc := cfg.ADS1256(); adc.PGA != ads1256.PGA4 || adc.DataRate != ads1256.DRate1000SPS {
			t.Errorf("unexpected ADC config %+v", adc)
		}
	})

	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Parse(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Interval != DefaultInterval || len(cfg.Encoders) != 1 {
			t.Errorf("unexpected defaults: %+v", cfg)
		}
		if cfg.Calibration != absenc.DefaultCalibration() {
			t.Errorf("expected default calibration, got %s", cfg.Calibration)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		for name, doc := range map[string]string{
			"SameInputs":      "encoders: [{name: a, pos: 1, neg: 1}]",
			"NoName":          "encoders: [{pos: 1, neg: 8}]",
			"DuplicateName":   "encoders: [{name: a, pos: 1, neg: 8}, {name: a, pos: 2, neg: 8}]",
			"BadChannel":      "encoders: [{name: a, pos: 9, neg: 8}]",
			"BadPGA":          "adc: {pga: 3}",
			"InvertedRange":   "calibration: {raw_min: 900, raw_max: 100, crossover_threshold: 500, full_scale: 1024}",
			"ZeroThreshold":   "calibration: {raw_min: 3, raw_max: 1021, crossover_threshold: 0, full_scale: 1024}",
			"EncoderOverride": "encoders: [{name: a, pos: 1, neg: 8, calibration: {raw_min: 3, raw_max: 1021, full_scale: 1024}}]",
			"Garbage":         "interval: [",
		} {
			t.Run(name, func(t *testing.T) {
				if _, err := Parse([]byte(doc)); err == nil {
					t.Error("expected error")
				}
			})
		}
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absenc.yml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Encoders[0].Name != "encoder1" {
		t.Errorf("unexpected first encoder %q", cfg.Encoders[0].Name)
	}
	if _, err = Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("expected error for a missing file")
	}
}
