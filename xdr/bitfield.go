package xdr

// DecodeBitfieldUint32 extracts an unsigned field of width bits from a
// 32-bit register already shifted so the field occupies the low bits
// (the caller, normally aggregate.BitfieldStructDecode, is responsible
// for the shift). max carries the bit width here, not a byte count, per
// libproc's bit-packed struct codec.
func DecodeBitfieldUint32(reg uint32, width int) (value uint32) {
	if width <= 0 || width > 32 {
		return 0
	}
	mask := uint32(1)<<uint(width) - 1
	return reg & mask
}

// EncodeBitfieldUint32 masks value down to width bits.
func EncodeBitfieldUint32(value uint32, width int) uint32 {
	if width <= 0 || width > 32 {
		return 0
	}
	mask := uint32(1)<<uint(width) - 1
	return value & mask
}

// DecodeBitfieldInt32 extracts a signed field of width bits, recreating
// the sign bit from the top bit of the field.
func DecodeBitfieldInt32(reg uint32, width int) (value int32) {
	u := DecodeBitfieldUint32(reg, width)
	if width <= 0 || width >= 32 {
		return int32(u)
	}
	signBit := uint32(1) << uint(width-1)
	if u&signBit != 0 {
		u |= ^uint32(0) << uint(width)
	}
	return int32(u)
}

// EncodeBitfieldInt32 masks a signed value down to width bits, discarding
// the sign extension so it can be OR'd into the shared register.
func EncodeBitfieldInt32(value int32, width int) uint32 {
	return EncodeBitfieldUint32(uint32(value), width)
}
