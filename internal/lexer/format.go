package lexer

// FormatKind is the conversion kind encoded in a string-format token
// (`%5d`, `%-10.3f`, `%x`, ...), spec.md §4.2.
type FormatKind byte

const (
	FormatDecimal     FormatKind = 'd'
	FormatHex         FormatKind = 'x'
	FormatOctal       FormatKind = 'o'
	FormatChar        FormatKind = 'c'
	FormatString      FormatKind = 's'
	FormatFloat       FormatKind = 'f'
	FormatExponent    FormatKind = 'e'
	FormatNamedArg    FormatKind = 'n'
)

// FormatSpec is a string-format token's fields, packed by spec.md §4.2
// into "a single integer flag word" in the original; Flags() reproduces
// that packed word for anything that wants the original's bit layout
// (e.g. a bytecode compiler constant pool entry), while the struct
// fields are what this package's own consumers use directly.
type FormatSpec struct {
	Width      int
	Precision  int
	Kind       FormatKind
	LeftAlign  bool
	ZeroPad    bool
	HasWidth   bool
	HasPrec    bool
}

const (
	flagLeftAlign = 1 << 0
	flagZeroPad   = 1 << 1
	flagHasWidth  = 1 << 2
	flagHasPrec   = 1 << 3
	widthShift    = 8
	precShift     = 20
)

// Flags packs the spec into one integer word: bits 0-3 are the boolean
// flags, bits 8-19 the width, and bits 20-31 the precision. The
// conversion kind is not part of the word; it is only in the Kind field.
func (f FormatSpec) Flags() uint32 {
	var w uint32
	if f.LeftAlign {
		w |= flagLeftAlign
	}
	if f.ZeroPad {
		w |= flagZeroPad
	}
	if f.HasWidth {
		w |= flagHasWidth
	}
	if f.HasPrec {
		w |= flagHasPrec
	}
	w |= uint32(f.Width&0xFFF) << widthShift
	w |= uint32(f.Precision&0xFFF) << precShift
	return w
}

// ParseFormatToken parses a format specifier's text (without the
// leading `%` or `!`, e.g. "5d", "-10.3f", "x") into a FormatSpec. It is
// invoked on demand by the parser when it recognizes a format-string
// literal, per spec.md §4.2 ("parsed on demand").
func ParseFormatToken(text string) (FormatSpec, bool) {
	var spec FormatSpec
	i := 0
	if i < len(text) && text[i] == '-' {
		spec.LeftAlign = true
		i++
	}
	if i < len(text) && text[i] == '0' {
		spec.ZeroPad = true
		i++
	}
	widthStart := i
	for i < len(text) && isASCIIDigit(text[i]) {
		i++
	}
	if i > widthStart {
		spec.HasWidth = true
		spec.Width = atoiSimple(text[widthStart:i])
	}
	if i < len(text) && text[i] == '.' {
		i++
		precStart := i
		for i < len(text) && isASCIIDigit(text[i]) {
			i++
		}
		spec.HasPrec = true
		spec.Precision = atoiSimple(text[precStart:i])
	}
	if i >= len(text) {
		return spec, false
	}
	switch text[i] {
	case 'd', 'x', 'o', 'c', 's', 'f', 'e', 'n':
		spec.Kind = FormatKind(text[i])
	default:
		return spec, false
	}
	return spec, true
}

func isASCIIDigit(b byte) bool { return b >= '0' && b <= '9' }

func atoiSimple(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
