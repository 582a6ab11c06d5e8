package inline

// Lexer splits inline content into tokens. It never fails: every byte of
// the input ends up in exactly one token.
type Lexer struct {
	src string
	pos int
}

// NewLexer creates a lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Pos returns the offset of the next token.
func (l *Lexer) Pos() int {
	return l.pos
}

// Reset moves the lexer to offset pos. The parser uses it to resume after
// consuming raw source directly, as for code spans and link destinations.
func (l *Lexer) Reset(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(l.src) {
		pos = len(l.src)
	}
	l.pos = pos
}

// Next returns the next token, or false at end of input.
func (l *Lexer) Next() (Token, bool) {
	if l.pos >= len(l.src) {
		return Token{}, false
	}

	tok := l.scan(l.pos)
	l.pos = tok.End
	return tok, true
}

// Tokenize returns every token of src.
func Tokenize(src string) []Token {
	lexer := NewLexer(src)
	var tokens []Token
	for {
		tok, ok := lexer.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) scan(start int) Token {
	src := l.src
	c := src[start]

	switch c {
	case '*':
		return l.run(start, TokStar)
	case '_':
		return l.run(start, TokUnderscore)
	case '~':
		return l.run(start, TokTilde)
	case '`':
		return l.run(start, TokBacktick)
	case '$':
		return l.run(start, TokDollar)
	case '[':
		return Token{Kind: TokOpenBracket, Start: start, End: start + 1}
	case ']':
		return Token{Kind: TokCloseBracket, Start: start, End: start + 1}
	case '!':
		return Token{Kind: TokBang, Start: start, End: start + 1}
	case '(':
		return Token{Kind: TokOpenParen, Start: start, End: start + 1}
	case ')':
		return Token{Kind: TokCloseParen, Start: start, End: start + 1}
	case '\\':
		if start+1 < len(src) {
			next := src[start+1]
			if next == '\n' {
				return Token{Kind: TokHardBreak, Start: start, End: start + 2}
			}
			if isASCIIPunct(next) {
				return Token{Kind: TokBackslash, Start: start, End: start + 2, Char: next}
			}
		}
		return Token{Kind: TokText, Start: start, End: start + 1}
	case '&':
		if end, ok := scanEntity(src, start); ok {
			return Token{Kind: TokEntity, Start: start, End: end}
		}
		return Token{Kind: TokText, Start: start, End: start + 1}
	case '<':
		if end, email, ok := scanAutolink(src, start); ok {
			return Token{Kind: TokHTML, Start: start, End: end, Autolink: true, Email: email}
		}
		if end, ok := ScanHTMLTag(src, start); ok {
			return Token{Kind: TokHTML, Start: start, End: end}
		}
		return Token{Kind: TokText, Start: start, End: start + 1}
	case '{':
		if end, ok := scanAttributeBlock(src, start); ok {
			return Token{Kind: TokAttributeBlock, Start: start, End: end}
		}
		return Token{Kind: TokText, Start: start, End: start + 1}
	case '\n':
		return Token{Kind: TokSoftBreak, Start: start, End: start + 1}
	case ' ', '\t':
		if end, spaces, ok := spacesBeforeNewline(src, start); ok {
			kind := TokSoftBreak
			if spaces >= 2 {
				kind = TokHardBreak
			}
			return Token{Kind: kind, Start: start, End: end}
		}
	}

	return Token{Kind: TokText, Start: start, End: l.textEnd(start)}
}

func (l *Lexer) run(start int, kind TokenKind) Token {
	c := l.src[start]
	end := start
	for end < len(l.src) && l.src[end] == c {
		end++
	}
	return Token{Kind: kind, Start: start, End: end, Count: end - start}
}

// textEnd returns the end of an ordinary text run beginning at start.
func (l *Lexer) textEnd(start int) int {
	src := l.src
	end := start + 1
	for end < len(src) {
		c := src[end]
		if isSpecial(c) {
			return end
		}
		if c == ' ' || c == '\t' {
			if _, _, ok := spacesBeforeNewline(src, end); ok {
				return end
			}
		}
		end++
	}
	return end
}

// spacesBeforeNewline reports whether the whitespace run at start ends in
// a newline. end is the offset after the newline; spaces counts the
// space characters in the run.
func spacesBeforeNewline(src string, start int) (int, int, bool) {
	spaces := 0
	idx := start
	for idx < len(src) && (src[idx] == ' ' || src[idx] == '\t') {
		if src[idx] == ' ' {
			spaces++
		}
		idx++
	}
	if idx < len(src) && src[idx] == '\n' {
		return idx + 1, spaces, true
	}
	return 0, 0, false
}

func isSpecial(c byte) bool {
	switch c {
	case '*', '_', '~', '`', '$', '[', ']', '!', '(', ')', '\\', '&', '<', '{', '\n':
		return true
	default:
		return false
	}
}

func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') ||
		(c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}
