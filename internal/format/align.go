package format

// Alignment utilities for the matchy compiled database format.
// The builder does not call them: it writes every section and record
// without alignment padding, and readers decode multi-byte fields through
// encoding/binary, which does not depend on alignment.

const (
	// Align4Boundary is the 4-byte alignment boundary.
	Align4Boundary = 4
	// Align4Mask is the bitmask used for aligning to 4-byte boundaries.
	Align4Mask = Align4Boundary - 1

	// Align8Boundary is the 8-byte alignment boundary.
	Align8Boundary = 8
	// Align8Mask is the bitmask used for aligning to 8-byte boundaries.
	Align8Mask = Align8Boundary - 1

	// Align16Boundary is the 16-byte alignment boundary.
	Align16Boundary = 16
	// Align16Mask is the bitmask used for aligning to 16-byte boundaries.
	Align16Mask = Align16Boundary - 1
)

// Align4 returns n aligned up to the next 4-byte boundary.
//
// Example:
//
//	Align4(1) = 4
//	Align4(4) = 4
//	Align4(5) = 8
func Align4(n int) int {
	return (n + Align4Mask) & ^Align4Mask
}

// Align8 returns n aligned up to the next 8-byte boundary.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + Align8Mask) & ^Align8Mask
}

// Align16 returns n aligned up to the next 16-byte boundary.
//
// Example:
//
//	Align16(1)  = 16
//	Align16(16) = 16
//	Align16(17) = 32
func Align16(n int) int {
	return (n + Align16Mask) & ^Align16Mask
}

// Align4I32 returns n aligned up to the next 4-byte boundary. int32 version
// for use in builder layout code to avoid G115 warnings.
func Align4I32(n int32) int32 {
	return (n + Align4Mask) & ^int32(Align4Mask)
}

// Align8I32 returns n aligned up to the next 8-byte boundary. int32 version
// for use in builder layout code to avoid G115 warnings.
func Align8I32(n int32) int32 {
	return (n + Align8Mask) & ^int32(Align8Mask)
}
