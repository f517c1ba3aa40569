package valuetree

import "errors"

var (
	// ErrCorrupt indicates a malformed type tag, a length that overflows
	// the buffer, or a pointer that resolves outside the section or cycles.
	ErrCorrupt = errors.New("valuetree: corrupt encoding")
	// ErrNotFound indicates Navigate reached an unknown map key or an
	// out-of-range array index.
	ErrNotFound = errors.New("valuetree: path not found")
	// ErrPathType indicates Navigate attempted to index into a value that
	// is neither an array nor a map.
	ErrPathType = errors.New("valuetree: path element does not match value shape")
	// ErrTooLarge indicates the encoded data section would exceed the
	// 32-bit offset space.
	ErrTooLarge = errors.New("valuetree: data section exceeds 4GiB")
)
