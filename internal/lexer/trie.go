package lexer

// trie is the precomputed matcher spec.md §4.2 calls for: keywords are
// matched by one trie, punctuation (1-3 character operators, including
// compound-assignment forms) by another. Both are built once at package
// init from a literal table, then walked byte by byte against the
// source.
type trie struct {
	children map[byte]*trie
	kind     TokenKind
	terminal bool
}

func newTrie() *trie {
	return &trie{children: make(map[byte]*trie)}
}

func (t *trie) add(s string, kind TokenKind) {
	n := t
	for i := 0; i < len(s); i++ {
		c := s[i]
		child, ok := n.children[c]
		if !ok {
			child = newTrie()
			n.children[c] = child
		}
		n = child
	}
	n.terminal = true
	n.kind = kind
}

// longestMatch walks s from the start, returning the kind and length of
// the longest prefix of s that is a complete entry in the trie. ok is
// false if no prefix of s matches at all.
func (t *trie) longestMatch(s string) (kind TokenKind, length int, ok bool) {
	n := t
	bestLen := 0
	var bestKind TokenKind
	for i := 0; i < len(s); i++ {
		child, exists := n.children[s[i]]
		if !exists {
			break
		}
		n = child
		if n.terminal {
			bestLen = i + 1
			bestKind = n.kind
		}
	}
	if bestLen == 0 {
		return 0, 0, false
	}
	return bestKind, bestLen, true
}

var keywordTrie = newTrie()
var punctTrie = newTrie()

func init() {
	for kw, kind := range keywords {
		keywordTrie.add(kw, kind)
	}
	for _, p := range punctuationTable {
		punctTrie.add(p.text, p.kind)
	}
}

var keywords = map[string]TokenKind{
	"func":       TokFunc,
	"class":      TokClass,
	"enum":       TokEnum,
	"bitfield":   TokBitfield,
	"public":     TokPublic,
	"ref":        TokRef,
	"const":      TokConst,
	"var":        TokVar,
	"textdomain": TokTextdomain,
	"if":         TokIf,
	"elif":       TokElif,
	"else":       TokElse,
	"do":         TokDo,
	"while":      TokWhile,
	"for":        TokFor,
	"as":         TokAs,
	"sched":      TokSched,
	"case":       TokCase,
	"try":        TokTry,
	"catch":      TokCatch,
	"finally":    TokFinally,
	"return":     TokReturn,
	"throw":      TokThrow,
	"break":      TokBreak,
	"continue":   TokContinue,
	"yield":      TokYield,
	"true":       TokTrue,
	"false":      TokFalse,
	"null":       TokNull,
	"this":       TokThis,
	"in":         TokIn,
}

type punctEntry struct {
	text string
	kind TokenKind
}

// punctuationTable is ordered longest-first only for readability; the
// trie's longestMatch doesn't care about table order.
var punctuationTable = []punctEntry{
	{"...", TokEllipsis},
	{"??=", TokNullCoalesceAssign},
	{"<<=", TokShlAssign},
	{">>=", TokShrAssign},
	{"**=", TokPowAssign},
	{"?.", TokOptDot},
	{"?(", TokOptCall},
	{"?[", TokOptIndex},
	{"??", TokNullCoalesce},
	{"==", TokEq},
	{"!=", TokNe},
	{"<=", TokLe},
	{">=", TokGe},
	{"&&", TokAndAnd},
	{"||", TokOrOr},
	{"=>", TokArrow},
	{"::", TokColonColon},
	{"++", TokIncr},
	{"--", TokDecr},
	{"+=", TokPlusAssign},
	{"-=", TokMinusAssign},
	{"*=", TokStarAssign},
	{"/=", TokSlashAssign},
	{"%=", TokPercentAssign},
	{"&=", TokAndAssign},
	{"|=", TokOrAssign},
	{"^=", TokCaretAssign},
	{"<<", TokShl},
	{">>", TokShr},
	{"**", TokPow},
	{"+", TokPlus},
	{"-", TokMinus},
	{"*", TokStar},
	{"/", TokSlash},
	{"%", TokPercent},
	{"=", TokAssign},
	{"<", TokLt},
	{">", TokGt},
	{"!", TokBang},
	{"&", TokAnd},
	{"|", TokOr},
	{"^", TokCaret},
	{"~", TokTilde},
	{"(", TokLParen},
	{")", TokRParen},
	{"{", TokLBrace},
	{"}", TokRBrace},
	{"[", TokLBracket},
	{"]", TokRBracket},
	{",", TokComma},
	{".", TokDot},
	{":", TokColon},
	{";", TokSemicolon},
	{"?", TokQuestion},
}
