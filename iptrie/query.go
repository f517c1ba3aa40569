package iptrie

import (
	"net/netip"

	"github.com/mxydb/matchy/internal/format"
)

// LongestPrefixMatch walks the packed node array starting at node 0 and
// returns the data-section offset and prefix length of the most specific
// rule covering addr. ok is false if no rule covers addr; err is non-nil
// only when the node array itself cannot be trusted.
func LongestPrefixMatch(data []byte, recordSize int, nodeCount uint32, addr netip.Addr) (dataOffset uint32, prefixLen int, ok bool, err error) {
	if !validRecordSize(recordSize) {
		return 0, 0, false, ErrUnsupportedRecordSize
	}
	nodeSize := format.NodeByteSize(recordSize)
	if int(nodeCount)*nodeSize > len(data) {
		return 0, 0, false, ErrCorrupt
	}

	bits := queryBits(addr)
	cur := uint32(0)
	for depth := 0; depth < format.IPv6BitWidth; depth++ {
		if cur >= nodeCount {
			return 0, 0, false, ErrCorrupt
		}
		off := int(cur) * nodeSize
		left, right, rerr := readNode(data[off:off+nodeSize], recordSize)
		if rerr != nil {
			return 0, 0, false, rerr
		}

		var value uint32
		if bitAt(bits, depth) == 0 {
			value = left
		} else {
			value = right
		}

		switch {
		case value == nodeCount:
			return 0, 0, false, nil
		case value < nodeCount:
			cur = value
		default:
			return value - nodeCount - format.DataSectionSeparatorSize, depth + 1, true, nil
		}
	}
	// Walked every address bit without hitting a data-offset or absent
	// child; a well-formed tree never does this since depth 128 leaves no
	// further bit to examine.
	return 0, 0, false, ErrCorrupt
}
