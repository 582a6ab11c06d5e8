package html

import (
	"net/url"
	"strings"

	nethtml "golang.org/x/net/html"
)

// Elements removed together with their content.
//
//nolint:gochecknoglobals // lookup table
var droppedWithContent = map[string]bool{
	"script":    true,
	"style":     true,
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"xmp":       true,
	"plaintext": true,
	"template":  true,
}

// Elements removed while their content is kept.
//
//nolint:gochecknoglobals // lookup table
var droppedTags = map[string]bool{
	"object":   true,
	"embed":    true,
	"applet":   true,
	"base":     true,
	"meta":     true,
	"link":     true,
	"frame":    true,
	"frameset": true,
}

//nolint:gochecknoglobals // lookup table
var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"poster":     true,
	"background": true,
	"cite":       true,
	"data":       true,
	"xlink:href": true,
}

// Sanitize filters an HTML fragment. It drops scripting elements, event
// handler attributes and attributes holding unsafe URLs. Everything else
// is written back as it was tokenized.
func Sanitize(fragment string) string {
	tokenizer := nethtml.NewTokenizer(strings.NewReader(fragment))

	var sb strings.Builder
	sb.Grow(len(fragment))
	skipping := ""

	for {
		tt := tokenizer.Next()
		if tt == nethtml.ErrorToken {
			return sb.String()
		}

		if skipping != "" {
			if tt == nethtml.EndTagToken {
				if name, _ := tokenizer.TagName(); string(name) == skipping {
					skipping = ""
				}
			}
			continue
		}

		switch tt {
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			tok := tokenizer.Token()
			if droppedWithContent[tok.Data] {
				if tt == nethtml.StartTagToken {
					skipping = tok.Data
				}
				continue
			}
			if droppedTags[tok.Data] {
				continue
			}
			tok.Attr = safeAttrs(tok.Attr)
			sb.WriteString(tok.String())

		case nethtml.EndTagToken:
			name, _ := tokenizer.TagName()
			if droppedWithContent[string(name)] || droppedTags[string(name)] {
				continue
			}
			sb.Write(tokenizer.Raw())

		default:
			sb.Write(tokenizer.Raw())
		}
	}
}

func safeAttrs(attrs []nethtml.Attribute) []nethtml.Attribute {
	kept := attrs[:0]
	for _, attr := range attrs {
		if unsafeAttr(attr.Key, attr.Val) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

// unsafeAttr reports event handlers, inline frames and attributes whose
// URL uses a scripting scheme.
func unsafeAttr(key, value string) bool {
	key = strings.ToLower(key)
	switch {
	case strings.HasPrefix(key, "on"), key == "srcdoc":
		return true
	case urlAttrs[key]:
		return unsafeURL(value)
	case key == "style":
		lower := strings.ToLower(value)
		return strings.Contains(lower, "expression(") || strings.Contains(lower, "javascript:")
	}
	return false
}

//nolint:gochecknoglobals // lookup table
var safeDataImages = []string{"data:image/png", "data:image/gif", "data:image/jpeg", "data:image/jpg", "data:image/webp"}

// unsafeURL reports URLs with a javascript, vbscript or non-image data
// scheme. Control characters and spaces are ignored when reading the
// scheme, as browsers do.
func unsafeURL(dest string) bool {
	var sb strings.Builder
	for _, r := range dest {
		if r <= ' ' || r == 0x7f {
			continue
		}
		sb.WriteRune(r)
	}
	lower := strings.ToLower(sb.String())

	switch {
	case strings.HasPrefix(lower, "javascript:"), strings.HasPrefix(lower, "vbscript:"):
		return true
	case strings.HasPrefix(lower, "data:"):
		for _, prefix := range safeDataImages {
			if strings.HasPrefix(lower, prefix) {
				return false
			}
		}
		return true
	}
	return false
}

// youTubeID returns the video id of a YouTube watch, shorts, embed or
// youtu.be URL.
func youTubeID(dest string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(dest))
	if err != nil || (parsed.Scheme != "https" && parsed.Scheme != "http") {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	path := strings.Trim(parsed.Path, "/")

	var id string
	switch host {
	case "youtu.be":
		id = path
	case "youtube.com", "m.youtube.com", "youtube-nocookie.com":
		switch {
		case path == "watch":
			id = parsed.Query().Get("v")
		case strings.HasPrefix(path, "shorts/"):
			id = strings.TrimPrefix(path, "shorts/")
		case strings.HasPrefix(path, "embed/"):
			id = strings.TrimPrefix(path, "embed/")
		}
	}

	if !validVideoID(id) {
		return "", false
	}
	return id, true
}

func validVideoID(id string) bool {
	if len(id) < 6 || len(id) > 64 {
		return false
	}
	for i := range len(id) {
		c := id[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}
