package valuetree

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// contentHash returns a structural content hash of v, used as a dedup
// pre-filter before the exact Equal comparison. Scalars are never
// deduplicated by the encoder, but contentHash handles every kind so nested
// scalars inside arrays and maps still contribute to their container's hash.
func contentHash(v Value) uint64 {
	d := xxhash.New()
	writeHashable(d, v)
	return d.Sum64()
}

func writeHashable(d *xxhash.Digest, v Value) {
	_, _ = d.Write([]byte{byte(v.kind)})
	switch v.kind {
	case KindUint32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], v.u32)
		_, _ = d.Write(b[:])
	case KindUint64:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], v.u64)
		_, _ = d.Write(b[:])
	case KindUint128:
		var b [16]byte
		binary.BigEndian.PutUint64(b[:8], v.u128hi)
		binary.BigEndian.PutUint64(b[8:], v.u128lo)
		_, _ = d.Write(b[:])
	case KindInt32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(v.i32))
		_, _ = d.Write(b[:])
	case KindDouble:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(v.f64))
		_, _ = d.Write(b[:])
	case KindBool:
		if v.b {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
	case KindString:
		_, _ = d.Write([]byte(v.str))
	case KindBytes:
		_, _ = d.Write(v.bytes)
	case KindArray:
		for _, item := range v.arr {
			writeHashable(d, item)
		}
	case KindMap:
		for _, entry := range v.m {
			_, _ = d.Write([]byte(entry.Key))
			writeHashable(d, entry.Val)
		}
	}
}
