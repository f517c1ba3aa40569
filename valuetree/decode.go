package valuetree

import (
	"encoding/binary"
	"math"

	"github.com/mxydb/matchy/internal/format"
)

// maxPointerHops bounds pointer-chasing so a corrupt file with a pointer
// cycle cannot hang a query; spec requires cycles to surface as Corrupt
// rather than loop forever.
const maxPointerHops = 32

// Decode reads the value stored at offset within data, transparently
// following any pointer record encountered.
func Decode(data []byte, offset uint32) (Value, error) {
	off, err := resolvePointer(data, offset)
	if err != nil {
		return Value{}, err
	}
	if int(off) >= len(data) {
		return Value{}, ErrCorrupt
	}
	return decodeAt(data, off, data[off])
}

// Navigate resolves the offset of the value reachable from offset by
// following path, a sequence of string map keys and int array indices.
func Navigate(data []byte, offset uint32, path ...any) (uint32, error) {
	off, err := resolvePointer(data, offset)
	if err != nil {
		return 0, err
	}
	for _, step := range path {
		if int(off) >= len(data) {
			return 0, ErrCorrupt
		}
		tag := data[off]
		switch s := step.(type) {
		case string:
			if tag != format.TypeMap {
				return 0, ErrPathType
			}
			valPtrOff, found, ferr := findMapEntry(data, off, s)
			if ferr != nil {
				return 0, ferr
			}
			if !found {
				return 0, ErrNotFound
			}
			off, err = resolvePointer(data, valPtrOff)
			if err != nil {
				return 0, err
			}
		case int:
			if tag != format.TypeArray {
				return 0, ErrPathType
			}
			entryOff, ok, aerr := arrayElementOffset(data, off, s)
			if aerr != nil {
				return 0, aerr
			}
			if !ok {
				return 0, ErrNotFound
			}
			off, err = resolvePointer(data, entryOff)
			if err != nil {
				return 0, err
			}
		default:
			return 0, ErrPathType
		}
	}
	return off, nil
}

func resolvePointer(data []byte, off uint32) (uint32, error) {
	for hop := 0; ; hop++ {
		if hop > maxPointerHops {
			return 0, ErrCorrupt
		}
		if int(off) >= len(data) {
			return 0, ErrCorrupt
		}
		if data[off] != format.TypePointer {
			return off, nil
		}
		target, err := readPointer(data, off)
		if err != nil {
			return 0, err
		}
		off = target
	}
}

func readPointer(data []byte, off uint32) (uint32, error) {
	end := int(off) + format.ValuePointerRecordSize
	if end > len(data) {
		return 0, ErrCorrupt
	}
	return binary.BigEndian.Uint32(data[off+1 : end]), nil
}

func decodeAt(data []byte, off uint32, tag byte) (Value, error) {
	body := data[off+1:]
	switch tag {
	case format.TypeUint32:
		if len(body) < 4 {
			return Value{}, ErrCorrupt
		}
		return Uint32(binary.BigEndian.Uint32(body[:4])), nil
	case format.TypeUint64:
		if len(body) < 8 {
			return Value{}, ErrCorrupt
		}
		return Uint64(binary.BigEndian.Uint64(body[:8])), nil
	case format.TypeUint128:
		if len(body) < 16 {
			return Value{}, ErrCorrupt
		}
		hi := binary.BigEndian.Uint64(body[:8])
		lo := binary.BigEndian.Uint64(body[8:16])
		return Uint128(hi, lo), nil
	case format.TypeInt32:
		if len(body) < 4 {
			return Value{}, ErrCorrupt
		}
		return Int32(int32(binary.BigEndian.Uint32(body[:4]))), nil
	case format.TypeDouble:
		if len(body) < 8 {
			return Value{}, ErrCorrupt
		}
		return Double(math.Float64frombits(binary.BigEndian.Uint64(body[:8]))), nil
	case format.TypeBool:
		if len(body) < 1 {
			return Value{}, ErrCorrupt
		}
		return Bool(body[0] != 0), nil
	case format.TypeString:
		s, _, err := readLenPrefixed(data, off)
		if err != nil {
			return Value{}, err
		}
		return String(string(s)), nil
	case format.TypeBytes:
		b, _, err := readLenPrefixed(data, off)
		if err != nil {
			return Value{}, err
		}
		return Bytes(b), nil
	case format.TypeArray:
		count, headerLen, err := readCount(data, off)
		if err != nil {
			return Value{}, err
		}
		items := make([]Value, 0, count)
		cursor := off + 1 + uint32(headerLen)
		for i := uint64(0); i < count; i++ {
			item, derr := Decode(data, cursor)
			if derr != nil {
				return Value{}, derr
			}
			items = append(items, item)
			cursor += format.ValueArrayEntrySize
		}
		return Array(items...), nil
	case format.TypeMap:
		count, headerLen, err := readCount(data, off)
		if err != nil {
			return Value{}, err
		}
		entries := make([]MapEntry, 0, count)
		cursor := off + 1 + uint32(headerLen)
		for i := uint64(0); i < count; i++ {
			keyVal, derr := Decode(data, cursor)
			if derr != nil {
				return Value{}, derr
			}
			key, ok := keyVal.AsString()
			if !ok {
				return Value{}, ErrCorrupt
			}
			valOff := cursor + format.ValuePointerRecordSize
			val, verr := Decode(data, valOff)
			if verr != nil {
				return Value{}, verr
			}
			entries = append(entries, MapEntry{Key: key, Val: val})
			cursor += format.ValueMapEntrySize
		}
		return Map(entries...), nil
	default:
		return Value{}, ErrCorrupt
	}
}

func readCount(data []byte, off uint32) (count uint64, headerLen int, err error) {
	if int(off)+1 > len(data) {
		return 0, 0, ErrCorrupt
	}
	count, n := binary.Uvarint(data[off+1:])
	if n <= 0 {
		return 0, 0, ErrCorrupt
	}
	return count, n, nil
}

func readLenPrefixed(data []byte, off uint32) (payload []byte, totalLen int, err error) {
	if int(off)+1 > len(data) {
		return nil, 0, ErrCorrupt
	}
	length, n := binary.Uvarint(data[off+1:])
	if n <= 0 {
		return nil, 0, ErrCorrupt
	}
	start := int(off) + 1 + n
	end := start + int(length)
	if end > len(data) || end < start {
		return nil, 0, ErrCorrupt
	}
	return data[start:end], 1 + n + int(length), nil
}

func arrayElementOffset(data []byte, off uint32, index int) (uint32, bool, error) {
	count, headerLen, err := readCount(data, off)
	if err != nil {
		return 0, false, err
	}
	if index < 0 || uint64(index) >= count {
		return 0, false, nil
	}
	entryOff := off + 1 + uint32(headerLen) + uint32(index)*format.ValueArrayEntrySize
	if int(entryOff)+format.ValuePointerRecordSize > len(data) {
		return 0, false, ErrCorrupt
	}
	return entryOff, true, nil
}

func findMapEntry(data []byte, off uint32, key string) (uint32, bool, error) {
	count, headerLen, err := readCount(data, off)
	if err != nil {
		return 0, false, err
	}
	cursor := off + 1 + uint32(headerLen)
	for i := uint64(0); i < count; i++ {
		keyOff, rerr := resolvePointer(data, cursor)
		if rerr != nil {
			return 0, false, rerr
		}
		if int(keyOff) >= len(data) || data[keyOff] != format.TypeString {
			return 0, false, ErrCorrupt
		}
		kbytes, _, lerr := readLenPrefixed(data, keyOff)
		if lerr != nil {
			return 0, false, lerr
		}
		if string(kbytes) == key {
			return cursor + format.ValuePointerRecordSize, true, nil
		}
		cursor += format.ValueMapEntrySize
	}
	return 0, false, nil
}
