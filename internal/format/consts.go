// Package format houses low-level encoders/decoders for the matchy compiled
// database binary layout. The goal is to keep parsing focused,
// allocation-free where possible, and independent of the public API so
// higher-level packages can orchestrate the data in a more ergonomic form.
//
// All multi-byte integers in the matchy format are big-endian.
package format

// MetadataMarker is the MaxMind-compatible marker that precedes the metadata
// map in the mandatory prefix. A reader unaware of anything else about the
// file can locate the metadata section by scanning backward for this
// sequence.
var MetadataMarker = []byte{0xab, 0xcd, 0xef, 'M', 'a', 'x', 'M', 'i', 'n', 'd', '.', 'c', 'o', 'm'}

// ParaglobMagic introduces the optional suffix section carrying the
// Aho-Corasick automaton, the literal index, and the pattern/literal data
// used by string and glob rules. A reader unaware of this magic simply stops
// after the mandatory MaxMind-compatible prefix.
var ParaglobMagic = []byte{'P', 'A', 'R', 'A', 'G', 'L', 'O', 'B'}

const (
	// MetadataMarkerSize is the length of MetadataMarker in bytes.
	MetadataMarkerSize = 14

	// MetadataHeaderSize is the size of the two fixed fields immediately
	// following MetadataMarker: metadata_length(4) + root_offset(4).
	// Unlike the MaxMind format this descends from, the metadata map is
	// encoded through the same fixed-stride valuetree encoder the rest of
	// the database uses, which writes a composite's children before its
	// own header — so the root Map's record does not sit at a fixed,
	// predictable offset the way a hand-rolled metadata encoder's would.
	// These two fields let a reader locate and bound it without scanning.
	MetadataHeaderSize = 8

	// DataSectionSeparatorSize is the number of zero bytes separating the IP
	// tree from the shared data section, matching the MaxMind DB convention.
	// Data-section offsets count from the first byte after the separator; an
	// IP-tree record stores such an offset as node count + this size +
	// offset, and "absent" is the record value equal to the node count.
	DataSectionSeparatorSize = 16

	// ParaglobMagicSize is the length of ParaglobMagic in bytes.
	ParaglobMagicSize = 8

	// ParaglobVersion is the only PARAGLOB layout version this package
	// writes and understands.
	ParaglobVersion uint32 = 1

	// ParaglobFixedFieldsSize is the size of the five uint32 fields
	// following the magic and version: node_count, nodes_offset,
	// literal_count, literals_offset, data_offset.
	ParaglobFixedFieldsSize = 5 * 4

	// ParaglobHeaderSize is the total size of the PARAGLOB header: magic +
	// version + fixed fields.
	ParaglobHeaderSize = ParaglobMagicSize + 4 + ParaglobFixedFieldsSize
)

// Record sizes supported for IP-tree node records, matching the MaxMind DB
// spec's record_size metadata field.
const (
	RecordSize24 = 24
	RecordSize28 = 28
	RecordSize32 = 32
)

// NodeByteSize returns the number of bytes a single tree node (two packed
// records) occupies on disk for the given record size.
func NodeByteSize(recordSize int) int {
	return (recordSize * 2) / 8
}

// IP version / family widths, in bits.
const (
	IPv4BitWidth = 32
	IPv6BitWidth = 128

	// IPv4InIPv6PrefixBits is the depth of the ::ffff:0:0/96 mapping prefix
	// that embeds an IPv4 search into the IPv6-shaped tree.
	IPv4InIPv6PrefixBits = 96
)

// AC automaton node/edge layout. Each node is a fixed-size record
// (fail_offset, edges_offset, edge_count, output_offset, output_count)
// followed elsewhere by a variable-length, sorted edge array and output list
// addressed by those offsets.
const (
	// ACNodeRecordSize is the fixed size of one AC node record:
	// fail_offset(4) + edges_offset(4) + edge_count(4) + output_offset(4) +
	// output_count(4).
	ACNodeRecordSize = 20

	// ACEdgeEntrySize is the size of one (byte, child_offset) edge entry:
	// the matched byte packed into 1 byte plus 3 bytes padding, then a
	// 4-byte child node offset, kept 4-byte aligned for cheap binary search.
	ACEdgeEntrySize = 8

	// ACOutputEntrySize is the size of one output entry: a 4-byte pattern
	// ID, which the builder sets to the absolute file offset of the
	// pattern's descriptor.
	ACOutputEntrySize = 4

	// ACRootOffset is the offset of the root node within the AC node array;
	// it is always the first node written.
	ACRootOffset = 0

	// ACNoFail marks a fail-link slot with no parent automaton to fall back
	// to (only the root has this).
	ACNoFail = 0xFFFFFFFF
)

// Literal index layout: an open-addressed table of fixed-size entries.
const (
	// LiteralEntrySize is the size of one literal-index entry: hash(8) +
	// literal_offset(4) + literal_len(4) + value_offset(4) + occupied(1) +
	// pad(3).
	LiteralEntrySize = 24

	// LiteralEmptySlot marks an unoccupied entry slot.
	LiteralEmptySlot = 0
	// LiteralOccupiedSlot marks an occupied entry slot.
	LiteralOccupiedSlot = 1
)

// Pattern descriptor table entry layout (fixed-size, variable text stored in
// the suffix data section and referenced by offset+length).
const (
	// PatternDescriptorSize is the size of one pattern descriptor entry:
	// text_offset(4) + text_len(4) + value_offset(4) + rule_id(4) +
	// flags(1) + pad(3).
	PatternDescriptorSize = 20

	// PatternFlagCaseInsensitive marks a pattern as ASCII case-insensitive.
	PatternFlagCaseInsensitive = 0x01

	// PatternFlagUnconditional marks a pattern with no extractable literal
	// segment; it must be verified on every string query regardless of
	// Aho-Corasick candidate output.
	PatternFlagUnconditional = 0x02
)

// Value tree control-byte type tags, carried in the high bits of each
// encoded value's header byte. Kept disjoint from the MaxMind data-section
// tags this format is descended from, but the scalar/composite split mirrors
// it closely.
const (
	TypePointer byte = iota + 1
	TypeString
	TypeDouble
	TypeBytes
	TypeUint32
	TypeUint64
	TypeUint128
	TypeInt32
	TypeArray
	TypeMap
	TypeBool
)

// Uint128ByteWidth is the on-disk width, in bytes, of a uint128 scalar.
const Uint128ByteWidth = 16

// ValuePointerRecordSize is the fixed size of a pointer record within the
// value tree: a one-byte TypePointer tag followed by a 4-byte big-endian
// offset. Array and map members are always stored as pointer records
// (even freshly-written, non-deduplicated children) so that array indexing
// is O(1) and map scanning advances in fixed-size strides.
const ValuePointerRecordSize = 5

// ValueArrayEntrySize is the stride of one array element slot: a single
// pointer record.
const ValueArrayEntrySize = ValuePointerRecordSize

// ValueMapEntrySize is the stride of one map entry slot: a key pointer
// record followed by a value pointer record.
const ValueMapEntrySize = 2 * ValuePointerRecordSize
