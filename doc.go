// Package matchy is an embedded, read-only lookup engine that answers a
// single question for each query string: which rules in a compiled database
// match? A rule's selector is an IP/CIDR prefix, an exact string literal, or
// a glob pattern; each selector carries an associated typed value.
//
// A compiled database is a single ".mxy" file built once with a Builder and
// thereafter opened read-only with Open. Open memory-maps the file; queries
// made through the returned Database copy none of the underlying bytes.
// Multiple processes may map the same file concurrently, and a single open
// Database is safe to query from multiple goroutines.
//
//	b := matchy.NewBuilder(nil)
//	b.AddLiteral("example.com", matchy.String("no-tag"))
//	b.AddPattern("*.example.com", matchy.String("phish"))
//	b.AddPrefix("8.8.8.0/24", matchy.Uint32(15169))
//	image, err := b.Build()
//
//	db, err := matchy.OpenBytes(image, nil)
//	defer db.Close()
//	match, err := db.Lookup([]byte("login.example.com"))
//
// The database is immutable once written: there is no in-place update, no
// concurrent writer, and no transaction log. Hot-reload is the caller's
// responsibility — atomically rename a new file into place, Open a new
// handle, swap a pointer, Close the old handle.
package matchy
