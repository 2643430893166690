package ft232h

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/yunginnanet/ft232h"
)

func TestFT232HDescriptor(t *testing.T) {
	t.Run("ByIndex", func(t *testing.T) {
		desc := ByIndex(0)
		if err := desc.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		t.Run("Invalid", func(t *testing.T) {
			desc = ByIndex(-1)
			if err := desc.Validate(); !errors.Is(err, ErrBadDescriptor) {
				t.Errorf("expected ErrBadDescriptor, got %v", err)
			}
		})
	})
	t.Run("BySerial", func(t *testing.T) {
		desc := BySerial("123456")
		if err := desc.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		t.Run("Invalid", func(t *testing.T) {
			desc = BySerial("")
			if err := desc.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	})
	t.Run("ByMask", func(t *testing.T) {
		mask := new(ft232h.Mask)
		mask.Index = "0"
		desc := ByMask(mask)
		if err := desc.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		t.Run("NotMutated", func(t *testing.T) {
			m := ByMask(mask).Mask()
			m.Serial = "changed"
			if mask.Serial != "" {
				t.Error("descriptor leaked its mask")
			}
		})
		t.Run("Invalid", func(t *testing.T) {
			desc = ByMask(nil)
			if err := desc.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	})
	t.Run("Mask", func(t *testing.T) {
		if ByIndex(5).Mask().Index != "5" {
			t.Error("unexpected mask index")
		}
		if BySerial("5").Mask().Serial != "5" {
			t.Error("unexpected mask serial")
		}
		if BySerial("5").Mask().Index != "" {
			t.Error("serial descriptor should not pin an index")
		}
	})
}

func TestHexID(t *testing.T) {
	if got := hexID(0x0403); got != "0403" {
		t.Errorf("expected 0403, got %s", got)
	}
	if got := hexID(0x6014); got != "6014" {
		t.Errorf("expected 6014, got %s", got)
	}
}

func TestPinsNotSet(t *testing.T) {
	ft := &FT232H{}
	for name, fn := range map[string]func() error{
		"WaitDRDY":  ft.WaitDRDY,
		"PowerDown": ft.PowerDown,
		"PowerUp":   ft.PowerUp,
		"SetCS":     func() error { return ft.SetCS(true) },
	} {
		if err := fn(); !errors.Is(err, ErrPinNotSet) {
			t.Errorf("%s: expected ErrPinNotSet, got %v", name, err)
		}
	}
}

func testConnect(t *testing.T, desc *Descriptor) DeviceInfo {
	t.Helper()

	var (
		ftdi *FT232H
		err  error
	)

	if desc == nil {
		ftdi, err = ConnectFT232h()
	} else {
		if err = desc.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ftdi, err = ConnectFT232h(*desc)
	}

	if err != nil {
		t.Fatalf("failed to connect to FT232H: %v", err)
	}

	info := ftdi.Info()
	t.Logf("connected to FT232H: %s", info)

	if err = ftdi.Close(); err != nil {
		t.Errorf("failed to close FT232H: %v", err)
	}

	return info
}

func TestConnectFT232h(t *testing.T) {
	if os.Getenv("TEST_FT232H") == "" {
		t.Skip("set 'TEST_FT232H' in environment to run this test")
	}

	testInfo := testConnect(t, nil)

	t.Run("ByIndex", func(t *testing.T) {
		desc := ByIndex(0)
		if os.Getenv("TEST_FT232H_INDEX") != "" {
			idx, err := strconv.Atoi(strings.TrimSpace(os.Getenv("TEST_FT232H_INDEX")))
			if err != nil {
				t.Fatalf(
					"bad 'TEST_FT232H_INDEX' environment variable: %v\nvalue: %s",
					err, os.Getenv("TEST_FT232H_INDEX"),
				)
			}
			desc = ByIndex(idx)
		}

		_ = testConnect(t, &desc)
	})

	t.Run("BySerial", func(t *testing.T) {
		serial := strings.TrimSpace(os.Getenv("TEST_FT232H_SERIAL"))
		if serial == "" {
			serial = testInfo.Serial
		}
		if serial == "" {
			t.Skip("no serial number provided, try setting 'TEST_FT232H_SERIAL' in environment")
		}

		desc := BySerial(serial)
		_ = testConnect(t, &desc)
	})
}
