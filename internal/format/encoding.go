package format

import "encoding/binary"

// Binary encoding utilities for big-endian integers.
//
// The matchy compiled database uses big-endian byte order throughout,
// matching the MaxMind DB convention its container format is descended
// from.
//
// Implementation: uses encoding/binary.BigEndian. Benchmarking against a
// hand-rolled unsafe-pointer variant showed no measurable benefit; modern Go
// compilers inline binary.BigEndian calls extremely well.

// PutU16 writes a uint16 value to the buffer at the specified offset in big-endian format.
func PutU16(b []byte, off int, v uint16) {
	binary.BigEndian.PutUint16(b[off:off+2], v)
}

// PutU32 writes a uint32 value to the buffer at the specified offset in big-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.BigEndian.PutUint32(b[off:off+4], v)
}

// PutI32 writes an int32 value to the buffer at the specified offset in big-endian format.
func PutI32(b []byte, off int, v int32) {
	binary.BigEndian.PutUint32(b[off:off+4], uint32(v))
}

// PutU64 writes a uint64 value to the buffer at the specified offset in big-endian format.
func PutU64(b []byte, off int, v uint64) {
	binary.BigEndian.PutUint64(b[off:off+8], v)
}

// PutU128 writes a uint128 value (hi, lo) to the buffer at the specified
// offset in big-endian format: the high 64 bits first, then the low 64 bits.
func PutU128(b []byte, off int, hi, lo uint64) {
	binary.BigEndian.PutUint64(b[off:off+8], hi)
	binary.BigEndian.PutUint64(b[off+8:off+16], lo)
}

// ReadU16 reads a uint16 value from the buffer at the specified offset in big-endian format.
func ReadU16(b []byte, off int) uint16 {
	return binary.BigEndian.Uint16(b[off : off+2])
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in big-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.BigEndian.Uint32(b[off : off+4])
}

// ReadI32 reads an int32 value from the buffer at the specified offset in big-endian format.
func ReadI32(b []byte, off int) int32 {
	return int32(binary.BigEndian.Uint32(b[off : off+4]))
}

// ReadU64 reads a uint64 value from the buffer at the specified offset in big-endian format.
func ReadU64(b []byte, off int) uint64 {
	return binary.BigEndian.Uint64(b[off : off+8])
}

// ReadU128 reads a uint128 value from the buffer at the specified offset in
// big-endian format, returning the high and low 64-bit halves.
func ReadU128(b []byte, off int) (hi, lo uint64) {
	hi = binary.BigEndian.Uint64(b[off : off+8])
	lo = binary.BigEndian.Uint64(b[off+8 : off+16])
	return hi, lo
}
