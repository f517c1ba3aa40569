package iptrie

import (
	"net/netip"

	"github.com/mxydb/matchy/internal/format"
)

// prefixBits returns the 16-byte big-endian address representation of
// prefix's network address (IPv4 addresses embedded via the ::ffff:0:0/96
// mapping, matching netip.Addr.As16's behavior) together with the absolute
// bit depth the prefix covers within that 128-bit space.
func prefixBits(p netip.Prefix) (bits [16]byte, depth int) {
	addr := p.Addr()
	bits = addr.As16()
	depth = p.Bits()
	if addr.Is4() {
		depth += format.IPv4InIPv6PrefixBits
	}
	return bits, depth
}

// queryBits performs the same conversion for a bare address at lookup time.
func queryBits(addr netip.Addr) [16]byte {
	return addr.As16()
}

// bitAt returns the bit at index (0 = most significant bit of byte 0).
func bitAt(bits [16]byte, index int) int {
	byteIdx := index / 8
	bitIdx := 7 - uint(index%8)
	return int((bits[byteIdx] >> bitIdx) & 1)
}
