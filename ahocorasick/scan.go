package ahocorasick

import (
	"encoding/binary"

	"github.com/mxydb/matchy/internal/format"
)

// Scan walks text through the automaton stored in data and appends every
// matched pattern ID to out, returning the extended slice. out may be a
// reused buffer from a previous call (truncated to length zero by the
// caller) to avoid per-query allocation.
func Scan(data []byte, nodeCount uint32, text []byte, out []uint32) ([]uint32, error) {
	maxHops := uint64(nodeCount) + 1
	cur := uint32(format.ACRootOffset)

	for _, b := range text {
		next, err := transition(data, cur, b, maxHops)
		if err != nil {
			return out, err
		}
		cur = next

		out, err = appendOutputs(data, cur, maxHops, out)
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// transition follows the goto function for byte b from node cur, falling
// back along failure links until an edge is found or the root is reached.
func transition(data []byte, cur uint32, b byte, maxHops uint64) (uint32, error) {
	for hops := uint64(0); ; hops++ {
		if hops > maxHops {
			return 0, ErrCorrupt
		}
		rec, err := readNode(data, cur)
		if err != nil {
			return 0, err
		}
		if child, found, err := lookupEdge(data, rec.edgesOffset, rec.edgeCount, b); err != nil {
			return 0, err
		} else if found {
			return child, nil
		}
		if cur == format.ACRootOffset {
			return cur, nil
		}
		if rec.failOffset == format.ACNoFail {
			return 0, ErrCorrupt
		}
		cur = rec.failOffset
	}
}

// appendOutputs walks the failure chain from cur, appending every output
// pattern ID encountered, and stops once the root has been processed.
func appendOutputs(data []byte, cur uint32, maxHops uint64, out []uint32) ([]uint32, error) {
	walk := cur
	for hops := uint64(0); ; hops++ {
		if hops > maxHops {
			return out, ErrCorrupt
		}
		rec, err := readNode(data, walk)
		if err != nil {
			return out, err
		}
		for i := uint32(0); i < rec.outputCount; i++ {
			off := int(rec.outputOffset) + int(i)*format.ACOutputEntrySize
			if off+4 > len(data) {
				return out, ErrCorrupt
			}
			out = append(out, binary.BigEndian.Uint32(data[off:off+4]))
		}
		if walk == format.ACRootOffset {
			return out, nil
		}
		if rec.failOffset == format.ACNoFail {
			return out, ErrCorrupt
		}
		walk = rec.failOffset
	}
}

type nodeRecord struct {
	failOffset   uint32
	edgesOffset  uint32
	edgeCount    uint32
	outputOffset uint32
	outputCount  uint32
}

func readNode(data []byte, off uint32) (nodeRecord, error) {
	end := int(off) + format.ACNodeRecordSize
	if end > len(data) {
		return nodeRecord{}, ErrCorrupt
	}
	rec := data[off:end]
	return nodeRecord{
		failOffset:   binary.BigEndian.Uint32(rec[0:4]),
		edgesOffset:  binary.BigEndian.Uint32(rec[4:8]),
		edgeCount:    binary.BigEndian.Uint32(rec[8:12]),
		outputOffset: binary.BigEndian.Uint32(rec[12:16]),
		outputCount:  binary.BigEndian.Uint32(rec[16:20]),
	}, nil
}

// lookupEdge binary-searches the sorted edge array for byte b.
func lookupEdge(data []byte, edgesOffset, edgeCount uint32, b byte) (uint32, bool, error) {
	lo, hi := 0, int(edgeCount)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		entryOff := int(edgesOffset) + mid*format.ACEdgeEntrySize
		if entryOff+format.ACEdgeEntrySize > len(data) {
			return 0, false, ErrCorrupt
		}
		entry := data[entryOff : entryOff+format.ACEdgeEntrySize]
		switch eb := entry[0]; {
		case eb == b:
			return binary.BigEndian.Uint32(entry[4:8]), true, nil
		case eb < b:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return 0, false, nil
}
