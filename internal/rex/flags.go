package rex

import "fmt"

// Flags mirrors OX_ReFlag: "flag bits (ignore-case, multi-line,
// dot-all, unicode, perfect/anchored)" (spec.md §3).
type Flags struct {
	IgnoreCase bool // i
	Multiline  bool // m: ^/$ match at internal line boundaries too
	DotAll     bool // s: '.' also matches newline
	Unicode    bool // u: recorded and rendered only; matching always works on runes
	Perfect    bool // p: match must consume the entire string
}

// String renders f's set flags as letters in the fixed order spec.md
// §8 requires for `to_str(R) == "/" + T + "/" + F`: i, m, s, u, p.
func (f Flags) String() string {
	var b []byte
	if f.IgnoreCase {
		b = append(b, 'i')
	}
	if f.Multiline {
		b = append(b, 'm')
	}
	if f.DotAll {
		b = append(b, 's')
	}
	if f.Unicode {
		b = append(b, 'u')
	}
	if f.Perfect {
		b = append(b, 'p')
	}
	return string(b)
}

// ParseFlags reads the trailing flag letters off a regex literal
// (`/pattern/imsup`).
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for _, r := range s {
		switch r {
		case 'i':
			f.IgnoreCase = true
		case 'm':
			f.Multiline = true
		case 's':
			f.DotAll = true
		case 'u':
			f.Unicode = true
		case 'p':
			f.Perfect = true
		default:
			return f, fmt.Errorf("rex: unknown flag %q", r)
		}
	}
	return f, nil
}
