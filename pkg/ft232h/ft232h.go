package ft232h

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/yunginnanet/ft232h"
)

// DeviceInfo represents a snapshot of the device information for the [FT232H] device.
type DeviceInfo struct {
	Index       int
	Serial      string
	Description string
	ProductID   string
	VendorID    string
	IsOpen      bool
	IsHighSpeed bool
}

func (ft DeviceInfo) String() string {
	return fmt.Sprintf(
		"DeviceInfo{Index:%d, Serial:%s, Description:%s, ProductID:%s, VendorID:%s, IsOpen:%t, IsHighSpeed:%t}",
		ft.Index, ft.Serial, ft.Description, ft.ProductID, ft.VendorID, ft.IsOpen, ft.IsHighSpeed,
	)
}

// FT232H is an FTDI FT232H bridge wired to an ADS1256: SPI for data, one GPIO for
// chip select, one for DRDY and one for PWDN.
type FT232H struct {
	*ft232h.FT232H
	log zerolog.Logger

	csPin   ft232h.CPin
	drdyPin ft232h.CPin
	pwdnPin ft232h.CPin
}

// hexID renders a USB vendor or product ID as 4 hex digits.
func hexID(v uint32) string {
	b := bytes.NewBuffer(nil)
	if err := binary.Write(hex.NewEncoder(b), binary.BigEndian, v); err != nil || b.Len() < 8 {
		return strconv.Itoa(int(v))
	}
	return b.String()[4:]
}

// Info returns a snapshot of the device information for the FT232H device. Read-only.
func (ft *FT232H) Info() DeviceInfo {
	return DeviceInfo{
		Index:       ft.Index(),
		Serial:      ft.Serial(),
		Description: ft.Desc(),
		ProductID:   hexID(uint32(ft.PID())),
		VendorID:    hexID(uint32(ft.VID())),
		IsOpen:      ft.IsOpen(),
		IsHighSpeed: ft.IsHiSpeed(),
	}
}

// String returns the vendor ID, product ID and description of the device.
func (ft *FT232H) String() string {
	info := ft.Info()
	return fmt.Sprintf("FT232H[%s:%s]: %s", info.VendorID, info.ProductID, info.Description)
}

// SetLogger replaces the (no-op) logger used for pin setup messages.
func (ft *FT232H) SetLogger(log zerolog.Logger) {
	ft.log = log
}

// ConnectFT232h opens the first FT232H found, or the one matching choice.
func ConnectFT232h(choice ...Descriptor) (ft *FT232H, err error) {
	ft = &FT232H{log: zerolog.Nop()}

	switch len(choice) {
	case 0:
		ft.FT232H, err = ft232h.New()
	case 1:
		if err = choice[0].Validate(); err != nil {
			return nil, err
		}
		ft.FT232H, err = ft232h.OpenMask(choice[0].Mask())
	default:
		return nil, fmt.Errorf("invalid number of arguments")
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open FT232H: %w", err)
	}
	return ft, nil
}
