package binary

import "math"

// DecodeFloat64 converts an 8-byte GDSII real from its big-endian bit
// pattern. The format predates IEEE 754: bit 63 is the sign, bits 62-56
// hold a base-16 exponent in excess-64 form, and the low 56 bits are an
// unsigned mantissa scaled by 2^-56, giving
//
//	value = (-1)^sign * (mantissa / 2^56) * 16^(exponent-64)
//
// A bit pattern of all zeroes decodes to exactly 0.
func DecodeFloat64(bits uint64) float64 {
	neg := bits&(1<<63) != 0
	exp := int(bits>>56&0x7F) - 64
	mantissa := bits & (1<<56 - 1)

	// 16^exp == 2^(4*exp); folding both scale factors into one Ldexp
	// keeps the conversion exact.
	val := math.Ldexp(float64(mantissa), 4*exp-56)
	if neg {
		val = -val
	}
	return val
}
