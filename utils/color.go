package utils

import (
	"fmt"
	"image/color"
	"strings"
)

// HexToNRGBA converts a color expressed in hexadecimal notation (#rgb, #rgba, #rrggbb or #rrggbbaa,
// with or without the leading hash) to color.NRGBA. Colors without alpha are fully opaque.
func HexToNRGBA(hex string) (color.NRGBA, error) {
	var c color.NRGBA
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")

	digits := make([]uint8, len(hex))
	for i := 0; i < len(hex); i++ {
		d, ok := hexDigit(hex[i])
		if !ok {
			return c, fmt.Errorf("invalid hex color: %q", hex)
		}
		digits[i] = d
	}

	switch len(digits) {
	case 3, 4:
		c.R, c.G, c.B = digits[0]*0x11, digits[1]*0x11, digits[2]*0x11
		c.A = 0xff
		if len(digits) == 4 {
			c.A = digits[3] * 0x11
		}
	case 6, 8:
		c.R = digits[0]<<4 | digits[1]
		c.G = digits[2]<<4 | digits[3]
		c.B = digits[4]<<4 | digits[5]
		c.A = 0xff
		if len(digits) == 8 {
			c.A = digits[6]<<4 | digits[7]
		}
	default:
		return c, fmt.Errorf("invalid hex color length: %q", hex)
	}
	return c, nil
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
