package glob

import "unicode/utf8"

// Match reports whether text matches the pattern under full-string,
// anchored semantics: the entire text must be consumed by the entire
// pattern. `*` may match the empty byte run.
func (p *Pattern) Match(text string) bool {
	return matchFrom(p.segments, 0, []byte(text), 0, p.caseInsensitive)
}

// Match compiles pattern and matches text against it in one step.
func Match(pattern, text string, caseInsensitive bool) (bool, error) {
	p, err := Compile(pattern, caseInsensitive)
	if err != nil {
		return false, err
	}
	return p.Match(text), nil
}

// matchFrom walks segs and text in lockstep. A '*' is matched shortest
// first: it first tries consuming zero bytes and, on failure of the
// remaining segments, backtracks by growing its consumption one byte at a
// time. Literal and '*' segments operate at byte granularity, '?' and
// character classes at UTF-8 scalar granularity so they never split a
// multi-byte scalar.
func matchFrom(segs []segment, si int, text []byte, ti int, ci bool) bool {
	for si < len(segs) {
		seg := segs[si]
		switch seg.kind {
		case segLiteral:
			if !matchLiteral(seg.lit, text, ti, ci) {
				return false
			}
			ti += len(seg.lit)
			si++
		case segAny:
			if ti >= len(text) {
				return false
			}
			_, size := utf8.DecodeRune(text[ti:])
			ti += size
			si++
		case segClass:
			if ti >= len(text) {
				return false
			}
			r, size := utf8.DecodeRune(text[ti:])
			if !matchClass(seg.cls, r, ci) {
				return false
			}
			ti += size
			si++
		case segStar:
			for extra := 0; ; extra++ {
				if matchFrom(segs, si+1, text, ti+extra, ci) {
					return true
				}
				if ti+extra >= len(text) {
					return false
				}
			}
		}
	}
	return ti == len(text)
}

func matchLiteral(lit, text []byte, ti int, ci bool) bool {
	if ti+len(lit) > len(text) {
		return false
	}
	for i, b := range lit {
		tb := text[ti+i]
		if ci {
			if foldASCII(b) != foldASCII(tb) {
				return false
			}
		} else if b != tb {
			return false
		}
	}
	return true
}

func matchClass(cls classSpec, r rune, ci bool) bool {
	check := func(x rune) bool {
		for _, rg := range cls.ranges {
			if x >= rg[0] && x <= rg[1] {
				return true
			}
		}
		return false
	}
	in := check(r)
	if !in && ci {
		if alt, ok := asciiSwapCase(r); ok {
			in = check(alt)
		}
	}
	if cls.negate {
		return !in
	}
	return in
}

func foldASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + 32
	}
	return b
}

func asciiSwapCase(r rune) (rune, bool) {
	switch {
	case r >= 'A' && r <= 'Z':
		return r + 32, true
	case r >= 'a' && r <= 'z':
		return r - 32, true
	}
	return 0, false
}
