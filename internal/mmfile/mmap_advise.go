//go:build unix

package mmfile

import "golang.org/x/sys/unix"

// Advise applies madvise hints appropriate for a read-mostly, randomly
// accessed lookup structure. Unlike a mutable, sequentially-grown hive file,
// a compiled matchy database is read far more than it changes shape: queries
// jump between the IP tree, the data section, and the PARAGLOB suffix in no
// particular order, so MADV_RANDOM disables the kernel's readahead heuristic
// that would otherwise fault in pages the query never touches.
//
// Advise is best-effort: a failure here does not affect correctness, only
// page-fault behavior, so callers should log a failure rather than treat it
// as fatal.
func Advise(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return unix.Madvise(data, unix.MADV_RANDOM)
}

// PreFault touches every page of data to fault it into the process's
// resident set up front, trading startup latency for predictable per-query
// latency. Callers opening a database that will be queried heavily and
// immediately (rather than mapped once and queried occasionally) may prefer
// this over lazy, on-demand faulting.
func PreFault(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := unix.Madvise(data, unix.MADV_WILLNEED); err != nil {
		return err
	}
	const pageStride = 4096
	sum := byte(0)
	for off := 0; off < len(data); off += pageStride {
		sum += data[off]
	}
	_ = sum
	return nil
}
