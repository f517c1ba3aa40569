package builder

import (
	"encoding/binary"
	"fmt"
	"sort"
	"time"

	"github.com/mxydb/matchy/ahocorasick"
	"github.com/mxydb/matchy/internal/format"
	"github.com/mxydb/matchy/iptrie"
	"github.com/mxydb/matchy/litindex"
	"github.com/mxydb/matchy/valuetree"
)

// Build finalizes every accumulated rule into a single immutable byte
// image: the mandatory MaxMind-compatible prefix (IP trie, 16-byte
// separator, shared data section, metadata marker, metadata map) followed,
// only when at least one literal or pattern rule was added, by the
// PARAGLOB suffix (automaton, literal index, and a data section holding
// the unconditional-pattern list, literal/pattern text, and pattern
// descriptors).
//
// All inter-structure offsets referencing the shared data section (IP
// trie leaves, literal index value_offset, pattern descriptor
// value_offset) are relative to that section's own start. The offsets
// that literal table slots, pattern descriptor records, AC output entries,
// and the unconditional-pattern list store are absolute offsets into the
// whole file, since the suffix is self-contained and not preceded by
// anything playing the IP tree's "data section separator" role. The
// automaton's own node, edge, and output offsets are relative to the start
// of the automaton blob.
//
// Every data-section offset referenced by a trie leaf, a literal index
// entry, or a pattern descriptor addresses an envelope (see envelope)
// rather than the caller's value directly, so rule_id survives content
// deduplication.
func (b *Builder) Build() ([]byte, error) {
	var prefixRules, literalRules, patternRules []rule
	for _, r := range b.rules {
		switch r.kind {
		case kindPrefix:
			prefixRules = append(prefixRules, r)
		case kindLiteral:
			literalRules = append(literalRules, r)
		case kindPattern:
			patternRules = append(patternRules, r)
		}
	}
	// iptrie.Builder.Insert requires prefixes in non-decreasing length
	// order so a more specific prefix always overrides only the leaf it
	// splits, never a sibling a shorter prefix already owns.
	sort.SliceStable(prefixRules, func(i, j int) bool {
		return prefixRules[i].prefix.Bits() < prefixRules[j].prefix.Bits()
	})

	enc := valuetree.NewEncoder()
	trie := iptrie.NewBuilder()
	for _, r := range prefixRules {
		off, err := enc.Put(envelope(r.ruleID, r.value))
		if err != nil {
			return nil, wrapTooLarge(err)
		}
		trie.Insert(r.prefix, off)
	}
	ipTreeBytes, err := trie.Finalize(int(b.opts.RecordSize))
	if err != nil {
		return nil, wrapTooLarge(err)
	}

	type litWork struct {
		text []byte
		hash uint64
		val  uint32
	}
	litWorks := make([]litWork, 0, len(literalRules))
	for _, r := range literalRules {
		valOff, err := enc.Put(envelope(r.ruleID, r.value))
		if err != nil {
			return nil, wrapTooLarge(err)
		}
		litWorks = append(litWorks, litWork{
			text: r.literal,
			hash: litindex.Fingerprint(b.opts.LiteralSeed, r.literal, b.opts.LiteralCaseInsensitive),
			val:  valOff,
		})
	}

	type patWork struct {
		text            []byte
		val             uint32
		ruleID          uint32
		caseInsensitive bool
		unconditional   bool
		literals        [][]byte
	}
	patWorks := make([]patWork, 0, len(patternRules))
	unconditionalCount := 0
	for _, r := range patternRules {
		valOff, err := enc.Put(envelope(r.ruleID, r.value))
		if err != nil {
			return nil, wrapTooLarge(err)
		}
		literals := r.pattern.Literals()
		w := patWork{
			text:            []byte(r.patternText),
			val:             valOff,
			ruleID:          r.ruleID,
			caseInsensitive: r.caseInsensitive,
			unconditional:   len(literals) == 0,
			literals:        literals,
		}
		if w.unconditional {
			unconditionalCount++
		}
		patWorks = append(patWorks, w)
	}

	var image []byte
	image = append(image, ipTreeBytes...)
	image = append(image, make([]byte, format.DataSectionSeparatorSize)...)
	image = append(image, enc.Bytes()...)
	image = append(image, format.MetadataMarker...)

	meta := map[string]valuetree.Value{
		"binary_format_major_version": valuetree.Uint32(1),
		"binary_format_minor_version": valuetree.Uint32(0),
		"build_epoch":                 valuetree.Uint64(uint64(time.Now().Unix())),
		"database_type":               valuetree.String(b.opts.DatabaseType),
		"node_count":                  valuetree.Uint32(uint32(trie.NodeCount())),
		"record_size":                 valuetree.Uint32(uint32(b.opts.RecordSize)),
		"ip_version":                  valuetree.Uint32(6),
		"literal_seed":                valuetree.Uint64(b.opts.LiteralSeed),
		"literal_case_insensitive":    valuetree.Bool(b.opts.LiteralCaseInsensitive),
		"has_paraglob":                valuetree.Bool(len(litWorks) > 0 || len(patWorks) > 0),
	}
	if len(b.opts.Languages) > 0 {
		langs := make([]valuetree.Value, len(b.opts.Languages))
		for i, l := range b.opts.Languages {
			langs[i] = valuetree.String(l)
		}
		meta["languages"] = valuetree.Array(langs...)
	}
	metaBytes, rootOffset, err := encodeMetadata(meta)
	if err != nil {
		return nil, fmt.Errorf("builder: encode metadata: %w", err)
	}
	var metaHeader [format.MetadataHeaderSize]byte
	binary.BigEndian.PutUint32(metaHeader[0:4], uint32(len(metaBytes)))
	binary.BigEndian.PutUint32(metaHeader[4:8], rootOffset)
	image = append(image, metaHeader[:]...)
	image = append(image, metaBytes...)

	if len(litWorks) == 0 && len(patWorks) == 0 {
		if len(image) > 1<<32-1 {
			return nil, ErrTooLarge
		}
		return image, nil
	}

	paraglobStart := len(image)
	dataBase := uint32(paraglobStart + format.ParaglobHeaderSize)

	// The suffix data section opens with a small fixed header of its own:
	// a count followed by that many absolute descriptor offsets for
	// patterns with no extractable literal, which must be verified on
	// every string query regardless of what the automaton surfaces.
	suffixData := make([]byte, 4+4*unconditionalCount)
	unconditionalIdx := 0

	var litEntries []litindex.Entry
	for _, w := range litWorks {
		textOff := dataBase + uint32(len(suffixData))
		suffixData = append(suffixData, w.text...)
		litEntries = append(litEntries, litindex.Entry{
			Hash:        w.hash,
			TextOffset:  textOff,
			TextLen:     uint32(len(w.text)),
			ValueOffset: w.val,
		})
	}

	acBuilder := ahocorasick.NewBuilder()
	for _, w := range patWorks {
		textOff := dataBase + uint32(len(suffixData))
		suffixData = append(suffixData, w.text...)

		descOff := dataBase + uint32(len(suffixData))
		var flags byte
		if w.caseInsensitive {
			flags |= format.PatternFlagCaseInsensitive
		}
		if w.unconditional {
			flags |= format.PatternFlagUnconditional
		}
		desc := make([]byte, format.PatternDescriptorSize)
		binary.BigEndian.PutUint32(desc[0:4], textOff)
		binary.BigEndian.PutUint32(desc[4:8], uint32(len(w.text)))
		binary.BigEndian.PutUint32(desc[8:12], w.val)
		binary.BigEndian.PutUint32(desc[12:16], w.ruleID)
		desc[16] = flags
		suffixData = append(suffixData, desc...)

		if w.unconditional {
			off := 4 + 4*unconditionalIdx
			binary.BigEndian.PutUint32(suffixData[off:off+4], descOff)
			unconditionalIdx++
			continue
		}
		for _, lit := range w.literals {
			acBuilder.AddPattern(lit, descOff)
		}
	}
	binary.BigEndian.PutUint32(suffixData[0:4], uint32(unconditionalCount))

	acBytes, err := acBuilder.Finalize()
	if err != nil {
		return nil, fmt.Errorf("builder: finalize automaton: %w", err)
	}
	litTable, litCapacity, err := litindex.Build(litEntries)
	if err != nil {
		return nil, fmt.Errorf("builder: build literal index: %w", err)
	}

	acBase := dataBase + uint32(len(suffixData))
	litBase := acBase + uint32(len(acBytes))

	header := make([]byte, format.ParaglobHeaderSize)
	copy(header[0:format.ParaglobMagicSize], format.ParaglobMagic)
	binary.BigEndian.PutUint32(header[format.ParaglobMagicSize:format.ParaglobMagicSize+4], format.ParaglobVersion)
	fields := header[format.ParaglobMagicSize+4:]
	binary.BigEndian.PutUint32(fields[0:4], uint32(acBuilder.NodeCount()))
	binary.BigEndian.PutUint32(fields[4:8], acBase)
	binary.BigEndian.PutUint32(fields[8:12], litCapacity)
	binary.BigEndian.PutUint32(fields[12:16], litBase)
	binary.BigEndian.PutUint32(fields[16:20], dataBase)

	image = append(image, header...)
	image = append(image, suffixData...)
	image = append(image, acBytes...)
	image = append(image, litTable...)

	if len(image) > 1<<32-1 {
		return nil, ErrTooLarge
	}
	return image, nil
}

// encodeMetadata encodes m as a standalone valuetree Map in a fresh encoder
// and returns its bytes together with the root Map's offset within them.
// The Map's own header record is appended only after all of its entries are
// encoded (see valuetree.Encoder.write), so the root is not reliably at
// offset 0 for a non-empty map; callers must carry the returned offset
// alongside the bytes rather than assume a fixed position.
func encodeMetadata(m map[string]valuetree.Value) ([]byte, uint32, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	entries := make([]valuetree.MapEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, valuetree.MapEntry{Key: k, Val: m[k]})
	}
	enc := valuetree.NewEncoder()
	off, err := enc.Put(valuetree.Map(entries...))
	if err != nil {
		return nil, 0, err
	}
	return enc.Bytes(), off, nil
}

// envelope wraps a rule's value with its rule_id before it enters the
// shared data section. Encoder.Put deduplicates by content, so two rules
// that happen to carry an identical caller value would otherwise collapse
// onto the same data-section offset and lose their distinct rule_ids; every
// envelope differs by rule_id, so it never does. The inner "value" is still
// deduplicated normally, since it is encoded via its own recursive Put call.
func envelope(ruleID uint32, value valuetree.Value) valuetree.Value {
	return valuetree.Map(
		valuetree.MapEntry{Key: "rule_id", Val: valuetree.Uint32(ruleID)},
		valuetree.MapEntry{Key: "value", Val: value},
	)
}

func wrapTooLarge(err error) error {
	if err == valuetree.ErrTooLarge || err == iptrie.ErrTooManyNodes {
		return ErrTooLarge
	}
	return err
}
