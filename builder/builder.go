package builder

import (
	"fmt"
	"net/netip"

	"github.com/mxydb/matchy/glob"
	"github.com/mxydb/matchy/valuetree"
)

type ruleKind uint8

const (
	kindPrefix ruleKind = iota
	kindLiteral
	kindPattern
)

type rule struct {
	kind   ruleKind
	ruleID uint32
	value  valuetree.Value

	prefix netip.Prefix // kindPrefix

	literal []byte // kindLiteral

	pattern         *glob.Pattern // kindPattern
	patternText     string        // kindPattern
	caseInsensitive bool          // kindPattern
}

// Builder provides a single-threaded, path-based API for accumulating
// IP/CIDR, literal, and glob rules and finalizing them into one immutable
// compiled database image.
//
// Example usage:
//
//	b := builder.New(nil)
//	b.AddLiteral("example.com", valuetree.String("no-tag"))
//	b.AddPattern("*.example.com", valuetree.String("phish"))
//	b.AddPrefix("8.8.8.0/24", valuetree.Uint32(15169))
//	image, err := b.Build()
//
// Builder is NOT safe for concurrent use; one caller accumulates rules and
// then drops the Builder after Build returns.
type Builder struct {
	opts *Options

	selectors map[string]int // selector key -> index into rules
	rules     []rule
	nextID    uint32

	warnings []string
}

// New returns an empty Builder. A nil opts selects DefaultOptions.
func New(opts *Options) *Builder {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger
	}
	return &Builder{
		opts:      opts,
		selectors: make(map[string]int),
	}
}

// Warnings returns every duplicate-selector overwrite recorded since New,
// in the order they occurred. Only populated under PolicyLastWriteWins;
// PolicyReject surfaces duplicates as ErrDuplicateSelector instead.
func (b *Builder) Warnings() []string { return b.warnings }

// AddPrefix registers value under the IP/CIDR prefix parsed from text. The
// prefix is canonicalized (host bits masked off) before being used as the
// dedup key, so "10.0.0.1/8" and "10.0.0.0/8" collide.
func (b *Builder) AddPrefix(text string, value valuetree.Value) (uint32, error) {
	p, err := netip.ParsePrefix(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadPrefix, err)
	}
	p = p.Masked()
	return b.add(kindPrefix, "ip:"+p.String(), rule{kind: kindPrefix, prefix: p, value: value})
}

// AddLiteral registers value under the exact string text. An empty literal
// is rejected.
func (b *Builder) AddLiteral(text string, value valuetree.Value) (uint32, error) {
	if text == "" {
		return 0, ErrEmptyLiteral
	}
	key := text
	if b.opts.LiteralCaseInsensitive {
		key = foldASCIIString(text)
	}
	return b.add(kindLiteral, "lit:"+key, rule{kind: kindLiteral, literal: []byte(text), value: value})
}

// AddPattern registers value under a case-sensitive glob pattern.
func (b *Builder) AddPattern(pattern string, value valuetree.Value) (uint32, error) {
	return b.addPattern(pattern, false, value)
}

// AddPatternCI registers value under an ASCII case-insensitive glob
// pattern.
func (b *Builder) AddPatternCI(pattern string, value valuetree.Value) (uint32, error) {
	return b.addPattern(pattern, true, value)
}

func (b *Builder) addPattern(pattern string, caseInsensitive bool, value valuetree.Value) (uint32, error) {
	compiled, err := glob.Compile(pattern, caseInsensitive)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadGlob, err)
	}
	key := fmt.Sprintf("pat:%t:%s", caseInsensitive, pattern)
	return b.add(kindPattern, key, rule{
		kind:            kindPattern,
		pattern:         compiled,
		patternText:     pattern,
		caseInsensitive: caseInsensitive,
		value:           value,
	})
}

func (b *Builder) add(kind ruleKind, key string, r rule) (uint32, error) {
	if idx, exists := b.selectors[key]; exists {
		switch b.opts.DuplicatePolicy {
		case PolicyReject:
			return 0, ErrDuplicateSelector
		default:
			existing := b.rules[idx]
			r.ruleID = existing.ruleID
			b.rules[idx] = r
			msg := fmt.Sprintf("builder: overwriting duplicate selector %q", key)
			b.warnings = append(b.warnings, msg)
			b.opts.Logger.Warn("duplicate selector overwritten", "selector", key, "rule_id", existing.ruleID)
			return existing.ruleID, nil
		}
	}
	r.ruleID = b.nextID
	b.nextID++
	b.rules = append(b.rules, r)
	b.selectors[key] = len(b.rules) - 1
	return r.ruleID, nil
}

func foldASCIIString(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'A' && c <= 'Z' {
			out[i] = c + 32
		}
	}
	return string(out)
}
