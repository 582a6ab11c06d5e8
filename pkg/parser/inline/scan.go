package inline

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"
	"golang.org/x/text/cases"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

const (
	maxLabelLength = 999
	maxSchemeLen   = 32
)

// NormalizeLabel returns the matching key of a link or footnote label:
// Unicode case folded, trimmed, with internal whitespace runs collapsed to
// one space.
func NormalizeLabel(label string) string {
	return cases.Fold().String(strings.Join(strings.Fields(label), " "))
}

// Unescape resolves backslash escapes and character references.
func Unescape(text string) string {
	if !strings.ContainsAny(text, "\\&") {
		return text
	}

	var sb strings.Builder
	for idx := 0; idx < len(text); {
		c := text[idx]
		if c == '\\' && idx+1 < len(text) && isASCIIPunct(text[idx+1]) {
			sb.WriteByte(text[idx+1])
			idx += 2
			continue
		}
		if c == '&' {
			if end, ok := scanEntity(text, idx); ok {
				sb.WriteString(decodeEntity(text[idx:end]))
				idx = end
				continue
			}
		}
		sb.WriteByte(c)
		idx++
	}
	return sb.String()
}

// scanEntity recognizes &name;, &#123; and &#x1F; at start.
func scanEntity(src string, start int) (int, bool) {
	idx := start + 1
	if idx >= len(src) {
		return 0, false
	}

	if src[idx] == '#' {
		idx++
		hex := idx < len(src) && (src[idx] == 'x' || src[idx] == 'X')
		if hex {
			idx++
		}
		digitsStart := idx
		for idx < len(src) && (isDigit(src[idx]) || (hex && isHexLetter(src[idx]))) {
			idx++
		}
		n := idx - digitsStart
		if n == 0 || (hex && n > 6) || (!hex && n > 7) {
			return 0, false
		}
		if idx < len(src) && src[idx] == ';' {
			return idx + 1, true
		}
		return 0, false
	}

	nameStart := idx
	for idx < len(src) && isAlnum(src[idx]) {
		idx++
	}
	if idx == nameStart || idx >= len(src) || src[idx] != ';' {
		return 0, false
	}
	if _, ok := util.LookUpHTML5EntityByName(src[nameStart:idx]); !ok {
		return 0, false
	}
	return idx + 1, true
}

// decodeEntity converts a reference recognized by scanEntity to text.
// Invalid code points become U+FFFD.
func decodeEntity(lit string) string {
	body := lit[1 : len(lit)-1]
	if body[0] != '#' {
		if entity, ok := util.LookUpHTML5EntityByName(body); ok {
			return string(entity.Characters)
		}
		return lit
	}

	base, digits := 10, body[1:]
	if digits != "" && (digits[0] == 'x' || digits[0] == 'X') {
		base, digits = 16, digits[1:]
	}
	value, err := strconv.ParseUint(digits, base, 32)
	r := rune(value)
	if err != nil || value == 0 || !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	return string(r)
}

// scanAutolink recognizes <scheme:rest> and <local@domain>.
func scanAutolink(src string, start int) (int, bool, bool) {
	idx := start + 1

	// URI autolink.
	schemeStart := idx
	for idx < len(src) && (isAlnum(src[idx]) || src[idx] == '+' || src[idx] == '.' || src[idx] == '-') {
		idx++
	}
	schemeLen := idx - schemeStart
	if schemeLen >= 2 && schemeLen <= maxSchemeLen && isAlpha(src[schemeStart]) &&
		idx < len(src) && src[idx] == ':' {
		idx++
		for idx < len(src) {
			c := src[idx]
			if c == '>' {
				return idx + 1, false, true
			}
			if c <= ' ' || c == '<' || c == 0x7f {
				break
			}
			idx++
		}
	}

	// Email autolink.
	idx = start + 1
	localStart := idx
	for idx < len(src) && isEmailLocal(src[idx]) {
		idx++
	}
	if idx == localStart || idx >= len(src) || src[idx] != '@' {
		return 0, false, false
	}
	idx++
	end, ok := scanDomain(src, idx)
	if !ok || end >= len(src) || src[end] != '>' {
		return 0, false, false
	}
	return end + 1, true, true
}

func scanDomain(src string, start int) (int, bool) {
	idx := start
	for {
		labelStart := idx
		for idx < len(src) && (isAlnum(src[idx]) || src[idx] == '-') && idx-labelStart < 63 {
			idx++
		}
		if idx == labelStart || src[labelStart] == '-' || src[idx-1] == '-' {
			return 0, false
		}
		if idx+1 < len(src) && src[idx] == '.' && isAlnum(src[idx+1]) {
			idx++
			continue
		}
		return idx, true
	}
}

func isEmailLocal(c byte) bool {
	return isAlnum(c) || strings.IndexByte(".!#$%&'*+/=?^_`{|}~-", c) >= 0
}

// ScanHTMLTag recognizes a raw HTML open tag, closing tag, comment,
// processing instruction, declaration or CDATA section at start and
// returns the offset after it.
func ScanHTMLTag(src string, start int) (int, bool) {
	if start+1 >= len(src) || src[start] != '<' {
		return 0, false
	}

	rest := src[start:]
	switch {
	case strings.HasPrefix(rest, "<!-->"):
		return start + 5, true
	case strings.HasPrefix(rest, "<!--->"):
		return start + 6, true
	case strings.HasPrefix(rest, "<!--"):
		return scanUntil(src, start+4, "-->")
	case strings.HasPrefix(rest, "<?"):
		return scanUntil(src, start+2, "?>")
	case strings.HasPrefix(rest, "<![CDATA["):
		return scanUntil(src, start+9, "]]>")
	case strings.HasPrefix(rest, "<!") && len(rest) > 2 && isAlpha(rest[2]):
		return scanUntil(src, start+2, ">")
	case strings.HasPrefix(rest, "</"):
		return scanClosingTag(src, start+2)
	default:
		return scanOpenTag(src, start+1)
	}
}

func scanUntil(src string, from int, marker string) (int, bool) {
	idx := strings.Index(src[from:], marker)
	if idx < 0 {
		return 0, false
	}
	return from + idx + len(marker), true
}

func scanTagName(src string, start int) int {
	if start >= len(src) || !isAlpha(src[start]) {
		return start
	}
	idx := start + 1
	for idx < len(src) && (isAlnum(src[idx]) || src[idx] == '-') {
		idx++
	}
	return idx
}

func scanClosingTag(src string, start int) (int, bool) {
	idx := scanTagName(src, start)
	if idx == start {
		return 0, false
	}
	idx = skipHTMLSpace(src, idx)
	if idx < len(src) && src[idx] == '>' {
		return idx + 1, true
	}
	return 0, false
}

func scanOpenTag(src string, start int) (int, bool) {
	idx := scanTagName(src, start)
	if idx == start {
		return 0, false
	}

	for {
		afterSpace := skipHTMLSpace(src, idx)
		if afterSpace >= len(src) {
			return 0, false
		}
		switch src[afterSpace] {
		case '>':
			return afterSpace + 1, true
		case '/':
			if afterSpace+1 < len(src) && src[afterSpace+1] == '>' {
				return afterSpace + 2, true
			}
			return 0, false
		}
		if afterSpace == idx {
			return 0, false
		}
		next, ok := scanHTMLAttribute(src, afterSpace)
		if !ok {
			return 0, false
		}
		idx = next
	}
}

func scanHTMLAttribute(src string, start int) (int, bool) {
	c := src[start]
	if !isAlpha(c) && c != '_' && c != ':' {
		return 0, false
	}
	idx := start + 1
	for idx < len(src) && (isAlnum(src[idx]) || strings.IndexByte("_.:-", src[idx]) >= 0) {
		idx++
	}

	valueStart := skipHTMLSpace(src, idx)
	if valueStart >= len(src) || src[valueStart] != '=' {
		return idx, true
	}
	valueStart = skipHTMLSpace(src, valueStart+1)
	if valueStart >= len(src) {
		return 0, false
	}

	switch quote := src[valueStart]; quote {
	case '"', '\'':
		end := strings.IndexByte(src[valueStart+1:], quote)
		if end < 0 {
			return 0, false
		}
		return valueStart + end + 2, true
	default:
		end := valueStart
		for end < len(src) && strings.IndexByte(" \t\n\r\f\"'=<>`", src[end]) < 0 {
			end++
		}
		if end == valueStart {
			return 0, false
		}
		return end, true
	}
}

func skipHTMLSpace(src string, idx int) int {
	for idx < len(src) && (src[idx] == ' ' || src[idx] == '\t' || src[idx] == '\n' || src[idx] == '\r' || src[idx] == '\f') {
		idx++
	}
	return idx
}

// scanAttributeBlock recognizes a well-formed {...} block on one line.
func scanAttributeBlock(src string, start int) (int, bool) {
	end := strings.IndexAny(src[start:], "}\n")
	if end < 0 || src[start+end] != '}' {
		return 0, false
	}
	end += start + 1
	if _, ok := mdast.ParseAttributes(src[start:end]); !ok {
		return 0, false
	}
	return end, true
}

// ScanLinkLabel scans a [label] at start. It returns the offset after the
// closing bracket and the raw label text.
func ScanLinkLabel(src string, start int) (int, string, bool) {
	if start >= len(src) || src[start] != '[' {
		return 0, "", false
	}

	for idx := start + 1; idx < len(src) && idx-start <= maxLabelLength+1; idx++ {
		switch src[idx] {
		case '\\':
			if idx+1 < len(src) && isASCIIPunct(src[idx+1]) {
				idx++
			}
		case '[':
			return 0, "", false
		case ']':
			label := src[start+1 : idx]
			if strings.TrimSpace(label) == "" {
				return 0, "", false
			}
			return idx + 1, label, true
		}
	}
	return 0, "", false
}

// ScanLinkDestination scans a link destination at start and returns the
// offset after it and the unescaped destination.
func ScanLinkDestination(src string, start int) (int, string, bool) {
	if start >= len(src) {
		return 0, "", false
	}

	if src[start] == '<' {
		for idx := start + 1; idx < len(src); idx++ {
			switch src[idx] {
			case '\\':
				if idx+1 < len(src) && isASCIIPunct(src[idx+1]) {
					idx++
				}
			case '\n', '<':
				return 0, "", false
			case '>':
				return idx + 1, Unescape(src[start+1 : idx]), true
			}
		}
		return 0, "", false
	}

	depth := 0
	idx := start
loop:
	for idx < len(src) {
		c := src[idx]
		switch {
		case c == '\\' && idx+1 < len(src) && isASCIIPunct(src[idx+1]):
			idx += 2
			continue
		case c == '(':
			depth++
		case c == ')':
			if depth == 0 {
				break loop
			}
			depth--
		case c <= ' ' || c == 0x7f:
			break loop
		}
		idx++
	}

	if idx == start || depth != 0 {
		return 0, "", false
	}
	return idx, Unescape(src[start:idx]), true
}

// ScanLinkTitle scans a "title", 'title' or (title) at start and returns
// the offset after it and the unescaped title.
func ScanLinkTitle(src string, start int) (int, string, bool) {
	if start >= len(src) {
		return 0, "", false
	}

	closer := src[start]
	switch closer {
	case '"', '\'':
	case '(':
		closer = ')'
	default:
		return 0, "", false
	}

	for idx := start + 1; idx < len(src); idx++ {
		c := src[idx]
		switch {
		case c == '\\' && idx+1 < len(src) && isASCIIPunct(src[idx+1]):
			idx++
		case c == closer:
			return idx + 1, Unescape(src[start+1 : idx]), true
		case closer == ')' && c == '(':
			return 0, "", false
		}
	}
	return 0, "", false
}

// skipLinkSpace skips spaces, tabs and at most one line ending.
func skipLinkSpace(src string, idx int) int {
	newline := false
	for idx < len(src) {
		switch src[idx] {
		case ' ', '\t':
		case '\n':
			if newline {
				return idx
			}
			newline = true
		default:
			return idx
		}
		idx++
	}
	return idx
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexLetter(c byte) bool {
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
