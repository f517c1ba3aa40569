//go:build !unix

package mmfile

// Advise is a no-op on platforms without madvise; the kernel's default
// paging behavior applies.
func Advise(data []byte) error { return nil }

// PreFault is a no-op on platforms without madvise.
func PreFault(data []byte) error { return nil }
