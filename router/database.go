package router

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/mxydb/matchy/internal/format"
	"github.com/mxydb/matchy/internal/mmfile"
	"github.com/mxydb/matchy/valuetree"
)

type handleState int32

const (
	stateClosed handleState = iota
	stateMapped
	stateFaulted
)

// Database is an opened, memory-mapped compiled database handle. Once
// Mapped it is immutable and safe to query concurrently from multiple
// goroutines; Close is not safe to call concurrently with queries or with
// itself.
type Database struct {
	opts *OpenOptions

	data  []byte
	unmap func() error

	state atomic.Int32

	recordSize int
	nodeCount  uint32

	dataSection []byte // shared data section; IP trie and rule value offsets are relative to this

	metadata valuetree.Value

	hasParaglob bool
	acData      []byte // AC automaton blob; node/edge/output offsets are relative to this
	acNodeCount uint32
	litTable    []byte
	litCapacity uint32
	litSeed     uint64
	litCI       bool
	suffixData  []byte   // unconditional list + literal/pattern text + descriptors, absolute-addressed
	dataBase    uint32   // absolute file offset suffixData starts at
	unconditionalDescs []uint32 // absolute descriptor offsets

	// firstFault records the first corruption observed on this handle, for
	// diagnostics; it does not affect subsequent queries (spec: a corrupt
	// interior node isolates its own traversal, not the handle).
	firstFault atomic.Pointer[faultRecord]
}

// faultRecord boxes an error so firstFault's atomic.Pointer always stores
// the same concrete type regardless of which error is recorded.
type faultRecord struct{ err error }

// Open memory-maps the file at path and validates it into a Mapped handle.
// A nil opts selects DefaultOpenOptions.
func Open(path string, opts *OpenOptions) (*Database, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	db, openErr := open(data, unmap, opts)
	if openErr != nil {
		if unmap != nil {
			_ = unmap()
		}
		return nil, openErr
	}
	return db, nil
}

// OpenBytes validates and wraps an in-memory byte image (e.g. one just
// produced by builder.Build) without touching the filesystem. Close is a
// no-op on the underlying bytes, which the caller continues to own.
func OpenBytes(image []byte, opts *OpenOptions) (*Database, error) {
	return open(image, func() error { return nil }, opts)
}

func open(data []byte, unmap func() error, opts *OpenOptions) (*Database, error) {
	if opts == nil {
		opts = DefaultOpenOptions()
	}
	opts.Logger = loggerOrDiscard(opts.Logger)

	db := &Database{opts: opts, data: data, unmap: unmap}

	if err := db.parse(); err != nil {
		db.state.Store(int32(stateFaulted))
		return nil, err
	}
	db.state.Store(int32(stateMapped))

	if opts.PreFault {
		if err := mmfile.PreFault(data); err != nil {
			opts.Logger.Warn("prefault failed", "error", err)
		}
	}
	if err := mmfile.Advise(data); err != nil {
		opts.Logger.Warn("madvise failed", "error", err)
	}

	return db, nil
}

func (db *Database) parse() error {
	markerIdx := bytes.Index(db.data, format.MetadataMarker)
	if markerIdx < 0 {
		return ErrBadMagic
	}

	headerStart := markerIdx + format.MetadataMarkerSize
	if headerStart+format.MetadataHeaderSize > len(db.data) {
		return ErrCorrupt
	}
	metaLen := binary.BigEndian.Uint32(db.data[headerStart : headerStart+4])
	rootOffset := binary.BigEndian.Uint32(db.data[headerStart+4 : headerStart+8])

	metaBlobStart := headerStart + format.MetadataHeaderSize
	metaBlobEnd := metaBlobStart + int(metaLen)
	if metaBlobEnd < metaBlobStart || metaBlobEnd > len(db.data) {
		return ErrCorrupt
	}
	metaBlob := db.data[metaBlobStart:metaBlobEnd]

	metadata, err := valuetree.Decode(metaBlob, rootOffset)
	if err != nil {
		return ErrCorrupt
	}
	if metadata.Kind() != valuetree.KindMap {
		return ErrCorrupt
	}
	db.metadata = metadata

	nodeCount, ok := metaUint32(metadata, "node_count")
	if !ok {
		return ErrCorrupt
	}
	recordSizeU32, ok := metaUint32(metadata, "record_size")
	if !ok {
		return ErrCorrupt
	}
	recordSize := int(recordSizeU32)
	if recordSize != format.RecordSize24 && recordSize != format.RecordSize28 && recordSize != format.RecordSize32 {
		return ErrCorrupt
	}
	db.nodeCount = nodeCount
	db.recordSize = recordSize

	ipTreeLen := int(nodeCount) * format.NodeByteSize(recordSize)
	dataSectionStart := ipTreeLen + format.DataSectionSeparatorSize
	if dataSectionStart > markerIdx {
		return ErrCorrupt
	}
	db.dataSection = db.data[dataSectionStart:markerIdx]

	if litSeed, ok := metaUint64(metadata, "literal_seed"); ok {
		db.litSeed = litSeed
	}
	if litCI, ok := metaBool(metadata, "literal_case_insensitive"); ok {
		db.litCI = litCI
	}

	paraglobStart := metaBlobEnd
	if paraglobStart == len(db.data) {
		db.hasParaglob = false
		return nil
	}
	return db.parseParaglob(paraglobStart)
}

func (db *Database) parseParaglob(start int) error {
	if start+format.ParaglobHeaderSize > len(db.data) {
		return ErrCorrupt
	}
	if !bytes.Equal(db.data[start:start+format.ParaglobMagicSize], format.ParaglobMagic) {
		return ErrBadMagic
	}
	versionOff := start + format.ParaglobMagicSize
	version := binary.BigEndian.Uint32(db.data[versionOff : versionOff+4])
	if version != format.ParaglobVersion {
		return ErrUnsupportedVersion
	}

	fields := db.data[versionOff+4 : versionOff+4+format.ParaglobFixedFieldsSize]
	acNodeCount := binary.BigEndian.Uint32(fields[0:4])
	acBase := binary.BigEndian.Uint32(fields[4:8])
	litCapacity := binary.BigEndian.Uint32(fields[8:12])
	litBase := binary.BigEndian.Uint32(fields[12:16])
	dataBase := binary.BigEndian.Uint32(fields[16:20])

	// Spot-check every offset in the fixed fields lies within the file, per
	// the open-time validation spec requires; interior node/edge offsets
	// within the automaton are validated lazily, at traversal.
	size := uint32(len(db.data))
	if acBase > size || litBase > size || dataBase > size {
		return ErrCorrupt
	}
	if acBase > litBase || dataBase > acBase {
		return ErrCorrupt
	}

	litTableEnd := uint64(litBase) + uint64(litCapacity)*format.LiteralEntrySize
	if litTableEnd > uint64(size) {
		return ErrCorrupt
	}

	db.hasParaglob = true
	db.acData = db.data[acBase:litBase]
	db.acNodeCount = acNodeCount
	db.litTable = db.data[litBase:litTableEnd]
	db.litCapacity = litCapacity
	db.dataBase = dataBase
	db.suffixData = db.data[dataBase:acBase]

	if len(db.suffixData) < 4 {
		return ErrCorrupt
	}
	unconditionalCount := binary.BigEndian.Uint32(db.suffixData[0:4])
	need := uint64(4) + uint64(unconditionalCount)*4
	if need > uint64(len(db.suffixData)) {
		return ErrCorrupt
	}
	db.unconditionalDescs = make([]uint32, unconditionalCount)
	for i := range db.unconditionalDescs {
		off := 4 + i*4
		db.unconditionalDescs[i] = binary.BigEndian.Uint32(db.suffixData[off : off+4])
	}
	return nil
}

func metaUint32(m valuetree.Value, key string) (uint32, bool) {
	entries, ok := m.AsMap()
	if !ok {
		return 0, false
	}
	for _, e := range entries {
		if e.Key == key {
			return e.Val.AsUint32()
		}
	}
	return 0, false
}

func metaUint64(m valuetree.Value, key string) (uint64, bool) {
	entries, ok := m.AsMap()
	if !ok {
		return 0, false
	}
	for _, e := range entries {
		if e.Key == key {
			return e.Val.AsUint64()
		}
	}
	return 0, false
}

func metaBool(m valuetree.Value, key string) (bool, bool) {
	entries, ok := m.AsMap()
	if !ok {
		return false, false
	}
	for _, e := range entries {
		if e.Key == key {
			return e.Val.AsBool()
		}
	}
	return false, false
}

// Metadata returns the decoded metadata map stored in the mandatory prefix.
func (db *Database) Metadata() valuetree.Value { return db.metadata }

func (db *Database) ensureMapped() error {
	switch handleState(db.state.Load()) {
	case stateMapped:
		return nil
	case stateFaulted:
		return ErrCorrupt
	default:
		return ErrClosed
	}
}

func (db *Database) recordFault(err error) {
	if err == nil {
		return
	}
	db.opts.Logger.Warn("corrupt traversal isolated", "error", err)
	db.firstFault.CompareAndSwap(nil, &faultRecord{err: err})
}

// FirstFault returns the first corruption observed during a query on this
// handle, or nil if none has occurred. Diagnostic only: a corrupt interior
// node isolates its own traversal and does not fault the handle itself.
func (db *Database) FirstFault() error {
	rec := db.firstFault.Load()
	if rec == nil {
		return nil
	}
	return rec.err
}

// Close releases the memory mapping of a file-backed Database (its file
// descriptor was already closed once the mapping was made) and transitions
// the handle to Closed. Queries after Close return ErrClosed.
func (db *Database) Close() error {
	db.state.Store(int32(stateClosed))
	if db.unmap == nil {
		return nil
	}
	return db.unmap()
}
