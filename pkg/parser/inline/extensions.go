package inline

import (
	"strings"

	"github.com/yaklabco/gomdrender/pkg/mdast"
)

// handleText emits a text token, recognizing mentions, emoji shortcodes,
// bare URLs and the "^[" inline footnote opener inside it. When a
// construct is found the lexer resumes after it.
func (s *state) handleText(tok Token) {
	src := s.src
	opts := s.p.opts
	from := tok.Start

	for idx := tok.Start; idx < tok.End; idx++ {
		switch c := src[idx]; {
		case c == '^' && opts.Footnotes && idx+1 == tok.End && idx+1 < len(src) && src[idx+1] == '[':
			s.flushText(from, idx)
			node := s.appendText("^[", idx)
			s.pushBracket(node, idx+2, false, true)
			s.lexer.Reset(idx + 2)
			return

		case c == '@' && opts.Mentions:
			if end, mention, ok := scanMention(src, idx); ok {
				s.flushText(from, idx)
				node := s.appendNode(mdast.NodeMention, idx)
				node.Inline = mdast.NewInlineAttrs().WithMention(mention)
				s.lexer.Reset(end)
				return
			}
			if opts.AutolinkLiterals && len(s.brackets) == 0 {
				if start, end, ok := scanEmailLiteral(src, tok.Start, idx); ok {
					s.flushText(from, start)
					addr := src[start:end]
					s.appendLink(start, addr, &mdast.LinkAttrs{
						Destination:    "mailto:" + addr,
						ReferenceStyle: mdast.RefStyleLiteral,
						Email:          true,
					})
					s.lexer.Reset(end)
					return
				}
			}

		case c == ':' && opts.Emoji && s.p.emoji != nil:
			if end, name, ok := scanShortcode(src, idx); ok {
				if chars, found := s.p.emoji(name); found {
					s.flushText(from, idx)
					node := s.appendNode(mdast.NodeEmoji, idx)
					node.Literal = chars
					node.Inline = &mdast.InlineAttrs{Shortcode: name}
					s.lexer.Reset(end)
					return
				}
			}

		case (c == 'h' || c == 'w') && opts.AutolinkLiterals && len(s.brackets) == 0:
			if idx > 0 && !literalBoundary(src[idx-1]) {
				continue
			}
			if end, dest, ok := scanURLLiteral(src, idx); ok {
				s.flushText(from, idx)
				s.appendLink(idx, src[idx:end], &mdast.LinkAttrs{
					Destination:    dest,
					ReferenceStyle: mdast.RefStyleLiteral,
				})
				s.lexer.Reset(end)
				return
			}
		}
	}

	s.flushText(from, tok.End)
}

func (s *state) flushText(from, to int) {
	if to > from {
		s.appendText(s.src[from:to], from)
	}
}

// scanMention recognizes @user[platform] and @user[platform](Display).
func scanMention(src string, start int) (int, *mdast.MentionAttrs, bool) {
	if start > 0 && (isAlnum(src[start-1]) || src[start-1] == '@') {
		return 0, nil, false
	}

	idx := start + 1
	for idx < len(src) && (isAlnum(src[idx]) || src[idx] == '_' || src[idx] == '-' || src[idx] == '.') {
		idx++
	}
	username := strings.TrimRight(src[start+1:idx], ".")
	if username == "" || idx >= len(src) || src[idx] != '[' {
		return 0, nil, false
	}

	platformStart := idx + 1
	idx = platformStart
	for idx < len(src) && (isAlnum(src[idx]) || src[idx] == '_' || src[idx] == '-') {
		idx++
	}
	if idx == platformStart || idx >= len(src) || src[idx] != ']' {
		return 0, nil, false
	}

	mention := &mdast.MentionAttrs{
		Username: username,
		Platform: strings.ToLower(src[platformStart:idx]),
	}
	idx++

	if idx < len(src) && src[idx] == '(' {
		end := strings.IndexAny(src[idx+1:], ")\n")
		if end > 0 && src[idx+1+end] == ')' {
			mention.Display = strings.TrimSpace(src[idx+1 : idx+1+end])
			idx += end + 2
		}
	}

	return idx, mention, true
}

// scanShortcode recognizes :name: and returns the name.
func scanShortcode(src string, start int) (int, string, bool) {
	idx := start + 1
	for idx < len(src) {
		c := src[idx]
		if (c >= 'a' && c <= 'z') || isDigit(c) || c == '_' || c == '+' || c == '-' {
			idx++
			continue
		}
		break
	}
	if idx == start+1 || idx >= len(src) || src[idx] != ':' {
		return 0, "", false
	}
	return idx + 1, src[start+1 : idx], true
}

func literalBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '(', '*', '_', '~':
		return true
	default:
		return false
	}
}

// scanURLLiteral recognizes http://, https:// and www. links in text and
// returns the end offset and the link destination.
func scanURLLiteral(src string, start int) (int, string, bool) {
	rest := src[start:]
	var prefix, scheme string
	switch {
	case strings.HasPrefix(rest, "https://"):
		prefix = "https://"
	case strings.HasPrefix(rest, "http://"):
		prefix = "http://"
	case strings.HasPrefix(rest, "www."):
		prefix, scheme = "www.", "http://"
	default:
		return 0, "", false
	}

	domainEnd, ok := scanLiteralDomain(src, start+len(prefix), prefix == "www.")
	if !ok {
		return 0, "", false
	}

	end := domainEnd
	for end < len(src) && src[end] != ' ' && src[end] != '\t' && src[end] != '\n' && src[end] != '<' {
		end++
	}
	end = trimLiteralTail(src, domainEnd, end)

	return end, scheme + src[start:end], true
}

// scanLiteralDomain scans dot-separated segments of letters, digits, '-'
// and '_'. Underscores are not allowed in the last two segments.
func scanLiteralDomain(src string, start int, needDot bool) (int, bool) {
	idx := start
	var segments []string
	segStart := idx
	for idx < len(src) {
		c := src[idx]
		if isAlnum(c) || c == '-' || c == '_' || c >= 0x80 {
			idx++
			continue
		}
		if c == '.' && idx+1 < len(src) && (isAlnum(src[idx+1]) || src[idx+1] == '-' || src[idx+1] == '_') {
			segments = append(segments, src[segStart:idx])
			idx++
			segStart = idx
			continue
		}
		break
	}
	if idx == start {
		return 0, false
	}
	segments = append(segments, src[segStart:idx])

	if needDot && len(segments) < 2 {
		return 0, false
	}
	for i := max(0, len(segments)-2); i < len(segments); i++ {
		if strings.Contains(segments[i], "_") {
			return 0, false
		}
	}
	return idx, true
}

// trimLiteralTail drops trailing punctuation, unbalanced closing parens
// and a trailing entity-like reference from a bare URL.
func trimLiteralTail(src string, minEnd, end int) int {
	for end > minEnd {
		c := src[end-1]
		switch {
		case strings.IndexByte("?!.,:*_~'\"", c) >= 0:
			end--
		case c == ')':
			text := src[:end]
			if strings.Count(text[minEnd:], ")") > strings.Count(text[minEnd:], "(") {
				end--
				continue
			}
			return end
		case c == ';':
			amp := strings.LastIndexByte(src[minEnd:end], '&')
			if amp < 0 {
				return end
			}
			amp += minEnd
			name := src[amp+1 : end-1]
			if name == "" || strings.IndexFunc(name, func(r rune) bool {
				return !(r < 0x80 && isAlnum(byte(r)))
			}) >= 0 {
				return end
			}
			end = amp
		default:
			return end
		}
	}
	return end
}

// scanEmailLiteral recognizes a bare email address around the '@' at at.
// The local part may not extend before lower.
func scanEmailLiteral(src string, lower, at int) (int, int, bool) {
	start := at
	for start > lower {
		c := src[start-1]
		if isAlnum(c) || c == '.' || c == '+' || c == '-' || c == '_' {
			start--
			continue
		}
		break
	}
	if start == at {
		return 0, 0, false
	}

	idx := at + 1
	dots := 0
	for idx < len(src) {
		c := src[idx]
		if isAlnum(c) || c == '-' || c == '_' {
			idx++
			continue
		}
		if c == '.' && idx+1 < len(src) && isAlnum(src[idx+1]) {
			dots++
			idx++
			continue
		}
		break
	}
	if dots == 0 || idx == at+1 {
		return 0, 0, false
	}
	if last := src[idx-1]; last == '-' || last == '_' {
		return 0, 0, false
	}
	return start, idx, true
}
