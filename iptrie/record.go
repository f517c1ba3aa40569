package iptrie

import "github.com/mxydb/matchy/internal/format"

func validRecordSize(n int) bool {
	switch n {
	case format.RecordSize24, format.RecordSize28, format.RecordSize32:
		return true
	default:
		return false
	}
}

// writeNode packs left and right into dst using the MaxMind DB record
// convention for recordSize. dst must be exactly format.NodeByteSize(recordSize)
// bytes long.
func writeNode(dst []byte, recordSize int, left, right uint32) {
	switch recordSize {
	case format.RecordSize24:
		put24(dst[0:3], left)
		put24(dst[3:6], right)
	case format.RecordSize32:
		put32(dst[0:4], left)
		put32(dst[4:8], right)
	case format.RecordSize28:
		// Bytes 0-2 hold the low 24 bits of left, bytes 4-6 the low 24 bits
		// of right; byte 3 packs the two records' high nibbles (left in the
		// high nibble, right in the low nibble).
		put24(dst[0:3], left)
		dst[3] = byte((left>>24)<<4) | byte((right>>24)&0x0F)
		put24(dst[4:7], right)
	}
}

// readNode is the inverse of writeNode.
func readNode(src []byte, recordSize int) (left, right uint32, err error) {
	switch recordSize {
	case format.RecordSize24:
		if len(src) < 6 {
			return 0, 0, ErrCorrupt
		}
		return get24(src[0:3]), get24(src[3:6]), nil
	case format.RecordSize32:
		if len(src) < 8 {
			return 0, 0, ErrCorrupt
		}
		return get32(src[0:4]), get32(src[4:8]), nil
	case format.RecordSize28:
		if len(src) < 7 {
			return 0, 0, ErrCorrupt
		}
		left = get24(src[0:3]) | uint32(src[3]>>4)<<24
		right = get24(src[4:7]) | uint32(src[3]&0x0F)<<24
		return left, right, nil
	default:
		return 0, 0, ErrUnsupportedRecordSize
	}
}

func put24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func get24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func put32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func get32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
