package ads1256

// Convert24To32 interprets a 3-byte, 24-bit signed value
// in two's complement form, MSB first, as a 32-bit int.
func Convert24To32(data []byte) int32 {
	u32 := uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])

	// sign extension
	if u32&0x800000 != 0 {
		u32 |= 0xFF000000
	}
	return int32(u32)
}

// ConvertADCtoVolts converts the signed 24-bit code to a voltage.
// Full-scale range is ±2 * vRef / pga, 0x7FFFFF reads as +FS.
func ConvertADCtoVolts(code int32, vRef float64, pga int) float64 {
	fullScale := (2.0 * vRef) / float64(pga)
	return (float64(code) / codeFullScale) * fullScale
}

// ScaleCode maps a 24-bit conversion result onto [0, fullScale), the resolution an
// encoder tracker is calibrated for. Negative codes clamp to zero.
func ScaleCode(code int32, fullScale int) int {
	if code <= 0 || fullScale <= 0 {
		return 0
	}
	v := int(int64(code) * int64(fullScale) / (codeFullScale + 1))
	if v >= fullScale {
		v = fullScale - 1
	}
	return v
}
