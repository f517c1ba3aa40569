package router

import (
	"encoding/binary"
	"net/netip"

	"github.com/mxydb/matchy/ahocorasick"
	"github.com/mxydb/matchy/glob"
	"github.com/mxydb/matchy/internal/format"
	"github.com/mxydb/matchy/iptrie"
	"github.com/mxydb/matchy/litindex"
)

// Lookup answers a single query against the trie, the literal index, and
// the pattern automaton. A query that parses as an IPv4 or IPv6 address
// (optionally bracketed, e.g. "[::1]") is resolved by longest-prefix match
// against the IP trie alone; any other query is resolved against the
// literal index and the glob patterns together, and may come back with
// more than one rule_id. Lookup returns (nil, nil) when nothing matches.
func (db *Database) Lookup(query []byte) (*Match, error) {
	if err := db.ensureMapped(); err != nil {
		return nil, err
	}
	if len(query) == 0 {
		return nil, ErrInvalidQuery
	}
	if addr, ok := parseQueryAddr(query); ok {
		return db.lookupIP(addr)
	}
	return db.lookupString(query)
}

func parseQueryAddr(query []byte) (netip.Addr, bool) {
	s := string(query)
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		s = s[1 : len(s)-1]
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr, true
}

func (db *Database) lookupIP(addr netip.Addr) (*Match, error) {
	dataOffset, prefixLen, ok, err := iptrie.LongestPrefixMatch(db.data, db.recordSize, db.nodeCount, addr)
	if err != nil {
		db.recordFault(err)
		return nil, ErrCorrupt
	}
	if !ok {
		return nil, nil
	}
	ruleID, err := db.envelopeRuleID(dataOffset)
	if err != nil {
		db.recordFault(err)
		return nil, ErrCorrupt
	}
	// prefixLen counts bits of the 128-bit trie space, in which an IPv4
	// address sits under the ::ffff:0:0/96 mapping.
	selAddr, selBits := addr, prefixLen
	if addr.Is4() {
		if prefixLen >= format.IPv4InIPv6PrefixBits {
			selBits -= format.IPv4InIPv6PrefixBits
		} else {
			selAddr = netip.AddrFrom16(addr.As16())
		}
	}
	selector := netip.PrefixFrom(selAddr, selBits).Masked().String()
	return &Match{
		RuleIDs:         []uint32{ruleID},
		Selectors:       []string{selector},
		db:              db,
		envelopeOffsets: []uint32{dataOffset},
	}, nil
}

func (db *Database) lookupString(query []byte) (*Match, error) {
	m := &Match{db: db}
	if !db.hasParaglob {
		return finalizeMatch(m)
	}

	if db.litCapacity > 0 {
		// Text offsets in the literal index address the whole file, not the
		// shared data section, since literal text lives in the PARAGLOB
		// suffix rather than alongside the IP trie's rule values.
		valOff, found, err := litindex.Lookup(db.litTable, db.litCapacity, db.data, db.litSeed, query, db.litCI)
		if err != nil {
			db.recordFault(err)
		} else if found {
			if addErr := db.appendEnvelopeMatch(m, valOff, string(query)); addErr != nil {
				db.recordFault(addErr)
			}
		}
	}

	seen := make(map[uint32]bool, 8)

	candidates, err := ahocorasick.Scan(db.acData, db.acNodeCount, query, nil)
	if err != nil {
		db.recordFault(err)
		candidates = nil
	}
	for _, descOff := range candidates {
		if seen[descOff] {
			continue
		}
		seen[descOff] = true
		if _, vErr := db.verifyPattern(descOff, query, m); vErr != nil {
			db.recordFault(vErr)
		}
	}

	for _, descOff := range db.unconditionalDescs {
		if seen[descOff] {
			continue
		}
		seen[descOff] = true
		if _, vErr := db.verifyPattern(descOff, query, m); vErr != nil {
			db.recordFault(vErr)
		}
	}

	return finalizeMatch(m)
}

// verifyPattern reads the pattern descriptor at the absolute offset descOff,
// re-checks its pattern text against query with the glob engine, and on a
// real match appends it to m. The bool return reports whether it matched;
// the error return reports only descriptor/text corruption, never a glob
// mismatch.
func (db *Database) verifyPattern(descOff uint32, query []byte, m *Match) (bool, error) {
	end := uint64(descOff) + uint64(format.PatternDescriptorSize)
	if end > uint64(len(db.data)) {
		return false, ErrCorrupt
	}
	desc := db.data[descOff:end]
	textOff := binary.BigEndian.Uint32(desc[0:4])
	textLen := binary.BigEndian.Uint32(desc[4:8])
	valueOff := binary.BigEndian.Uint32(desc[8:12])
	ruleID := binary.BigEndian.Uint32(desc[12:16])
	flags := desc[16]

	textEnd := uint64(textOff) + uint64(textLen)
	if textEnd > uint64(len(db.data)) {
		return false, ErrCorrupt
	}
	text := db.data[textOff:textEnd]
	caseInsensitive := flags&format.PatternFlagCaseInsensitive != 0

	matched, err := glob.Match(string(text), string(query), caseInsensitive)
	if err != nil {
		return false, ErrCorrupt
	}
	if !matched {
		return false, nil
	}
	m.RuleIDs = append(m.RuleIDs, ruleID)
	m.Selectors = append(m.Selectors, string(text))
	m.envelopeOffsets = append(m.envelopeOffsets, valueOff)
	return true, nil
}

func (db *Database) appendEnvelopeMatch(m *Match, envelopeOff uint32, selector string) error {
	ruleID, err := db.envelopeRuleID(envelopeOff)
	if err != nil {
		return err
	}
	m.RuleIDs = append(m.RuleIDs, ruleID)
	m.Selectors = append(m.Selectors, selector)
	m.envelopeOffsets = append(m.envelopeOffsets, envelopeOff)
	return nil
}

func finalizeMatch(m *Match) (*Match, error) {
	if len(m.RuleIDs) == 0 {
		return nil, nil
	}
	return m, nil
}
