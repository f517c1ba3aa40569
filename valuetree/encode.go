package valuetree

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mxydb/matchy/internal/format"
)

type seenEntry struct {
	v      Value
	offset uint32
}

// Encoder builds a data section by appending values, deduplicating strings,
// byte strings, arrays, and maps by content.
type Encoder struct {
	buf  []byte
	seen map[uint64][]seenEntry
}

// NewEncoder returns an empty Encoder ready to accept Put calls.
func NewEncoder() *Encoder {
	return &Encoder{seen: make(map[uint64][]seenEntry)}
}

// Bytes returns the encoder's accumulated data section. The returned slice
// aliases the encoder's internal buffer and must not be retained across
// further Put calls.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the current size of the data section in bytes.
func (e *Encoder) Len() int { return len(e.buf) }

// Put serializes v, reusing a previous identical encoding of a string, byte
// string, array, or map rather than emitting it again, and returns the
// offset of its (possibly shared) encoding within Bytes().
func (e *Encoder) Put(v Value) (uint32, error) {
	if !dedupable(v.kind) {
		return e.write(v)
	}

	h := contentHash(v)
	for _, cand := range e.seen[h] {
		if cand.v.Equal(v) {
			return cand.offset, nil
		}
	}
	offset, err := e.write(v)
	if err != nil {
		return 0, err
	}
	e.seen[h] = append(e.seen[h], seenEntry{v: v, offset: offset})
	return offset, nil
}

func dedupable(k Kind) bool {
	switch k {
	case KindString, KindBytes, KindArray, KindMap:
		return true
	default:
		return false
	}
}

// write appends v's encoding and returns the offset of its own record (the
// position Decode must be handed back). For Array and Map, every child is
// encoded first via a recursive Put call, and only then does the
// container's own tag/count/pointer-array get appended — the container's
// record occupies the position it is AFTER its children, never before them,
// so its fixed-stride pointer array is contiguous and its reported offset
// is exactly where that record begins. Writing the header before the
// children would make the children's bodies land where contiguous pointer
// records are expected at decode time, which is structurally unsound.
func (e *Encoder) write(v Value) (uint32, error) {
	switch v.kind {
	case KindUint32:
		offset := uint32(len(e.buf))
		e.buf = append(e.buf, format.TypeUint32)
		e.buf = appendU32(e.buf, v.u32)
		return offset, e.checkSize()
	case KindUint64:
		offset := uint32(len(e.buf))
		e.buf = append(e.buf, format.TypeUint64)
		e.buf = appendU64(e.buf, v.u64)
		return offset, e.checkSize()
	case KindUint128:
		offset := uint32(len(e.buf))
		e.buf = append(e.buf, format.TypeUint128)
		e.buf = appendU64(e.buf, v.u128hi)
		e.buf = appendU64(e.buf, v.u128lo)
		return offset, e.checkSize()
	case KindInt32:
		offset := uint32(len(e.buf))
		e.buf = append(e.buf, format.TypeInt32)
		e.buf = appendU32(e.buf, uint32(v.i32))
		return offset, e.checkSize()
	case KindDouble:
		offset := uint32(len(e.buf))
		e.buf = append(e.buf, format.TypeDouble)
		e.buf = appendU64(e.buf, math.Float64bits(v.f64))
		return offset, e.checkSize()
	case KindBool:
		offset := uint32(len(e.buf))
		e.buf = append(e.buf, format.TypeBool)
		if v.b {
			e.buf = append(e.buf, 1)
		} else {
			e.buf = append(e.buf, 0)
		}
		return offset, e.checkSize()
	case KindString:
		offset := uint32(len(e.buf))
		e.buf = append(e.buf, format.TypeString)
		e.buf = binary.AppendUvarint(e.buf, uint64(len(v.str)))
		e.buf = append(e.buf, v.str...)
		return offset, e.checkSize()
	case KindBytes:
		offset := uint32(len(e.buf))
		e.buf = append(e.buf, format.TypeBytes)
		e.buf = binary.AppendUvarint(e.buf, uint64(len(v.bytes)))
		e.buf = append(e.buf, v.bytes...)
		return offset, e.checkSize()
	case KindArray:
		childOffs := make([]uint32, len(v.arr))
		for i, item := range v.arr {
			off, err := e.Put(item)
			if err != nil {
				return 0, err
			}
			childOffs[i] = off
		}
		offset := uint32(len(e.buf))
		e.buf = append(e.buf, format.TypeArray)
		e.buf = binary.AppendUvarint(e.buf, uint64(len(v.arr)))
		for _, off := range childOffs {
			e.writePointer(off)
		}
		return offset, e.checkSize()
	case KindMap:
		keyOffs := make([]uint32, len(v.m))
		valOffs := make([]uint32, len(v.m))
		for i, entry := range v.m {
			ko, err := e.Put(String(entry.Key))
			if err != nil {
				return 0, err
			}
			vo, err := e.Put(entry.Val)
			if err != nil {
				return 0, err
			}
			keyOffs[i] = ko
			valOffs[i] = vo
		}
		offset := uint32(len(e.buf))
		e.buf = append(e.buf, format.TypeMap)
		e.buf = binary.AppendUvarint(e.buf, uint64(len(v.m)))
		for i := range v.m {
			e.writePointer(keyOffs[i])
			e.writePointer(valOffs[i])
		}
		return offset, e.checkSize()
	default:
		return 0, fmt.Errorf("valuetree: unknown kind %v", v.kind)
	}
}

func (e *Encoder) checkSize() error {
	if len(e.buf) > math.MaxUint32 {
		return ErrTooLarge
	}
	return nil
}

func (e *Encoder) writePointer(offset uint32) {
	e.buf = append(e.buf, format.TypePointer)
	e.buf = appendU32(e.buf, offset)
}

func appendU32(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendU64(b []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}
