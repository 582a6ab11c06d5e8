package inline

// TokenKind classifies a lexical token of inline content.
type TokenKind uint8

// Token kinds.
const (
	// TokText is a run of ordinary characters.
	TokText TokenKind = iota

	// Delimiter runs; Count holds the run length.
	TokStar
	TokUnderscore
	TokTilde
	TokBacktick
	TokDollar

	TokOpenBracket
	TokCloseBracket
	TokBang
	TokOpenParen
	TokCloseParen

	// TokBackslash is a backslash escape of ASCII punctuation; Char holds
	// the escaped byte.
	TokBackslash

	// TokEntity is a valid entity or numeric character reference.
	TokEntity

	// TokHTML is a raw HTML tag or an autolink.
	TokHTML

	// TokAttributeBlock is a well-formed {#id .class k=v} block.
	TokAttributeBlock

	TokSoftBreak
	TokHardBreak
)

//nolint:gochecknoglobals // lookup table
var tokenKindNames = [...]string{
	TokText:           "Text",
	TokStar:           "Star",
	TokUnderscore:     "Underscore",
	TokTilde:          "Tilde",
	TokBacktick:       "Backtick",
	TokDollar:         "Dollar",
	TokOpenBracket:    "OpenBracket",
	TokCloseBracket:   "CloseBracket",
	TokBang:           "Bang",
	TokOpenParen:      "OpenParen",
	TokCloseParen:     "CloseParen",
	TokBackslash:      "Backslash",
	TokEntity:         "Entity",
	TokHTML:           "HTML",
	TokAttributeBlock: "AttributeBlock",
	TokSoftBreak:      "SoftBreak",
	TokHardBreak:      "HardBreak",
}

// String returns the kind name.
func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "Unknown"
}

// IsDelimiter returns true for kinds produced from runs of one character.
func (k TokenKind) IsDelimiter() bool {
	return k >= TokStar && k <= TokDollar
}

// Token is a lexical unit of inline content. Start and End are byte
// offsets into the source; concatenating the source slices of all tokens
// reproduces the input.
type Token struct {
	Kind  TokenKind
	Start int
	End   int

	// Count is the run length of delimiter tokens.
	Count int

	// Char is the escaped byte of TokBackslash.
	Char byte

	// Autolink is set on TokHTML tokens that are <scheme:...> or
	// <user@host> autolinks; Email marks the latter.
	Autolink bool
	Email    bool
}

// Literal returns the source text of the token.
func (t Token) Literal(src string) string {
	return src[t.Start:t.End]
}
