// Package highlight guesses the language of fenced code and turns code
// into highlighted HTML for the renderer.
package highlight

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Fence tags returned by Detect.
const (
	LangGo         = "go"
	LangPython     = "python"
	LangJavaScript = "javascript"
	LangJSON       = "json"
	LangYAML       = "yaml"
	LangHTML       = "html"
	LangSQL        = "sql"
	LangRust       = "rust"
	LangDockerfile = "dockerfile"
	LangBash       = "bash"
	LangText       = "text"
)

//nolint:gochecknoglobals // classifier candidates
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// detector returns a fence tag or "" when the code does not match.
type detector func(code, trimmed string) string

//nolint:gochecknoglobals // ordered from most to least specific
var detectors = []detector{
	detectGo,
	detectPython,
	detectHTML,
	detectJSON,
	detectDockerfile,
	detectSQL,
	detectRust,
	detectJavaScript,
	detectYAML,
}

// Detect guesses the fence tag of a code block that has no info string.
// It returns LangText when no guess is confident.
func Detect(code string) string {
	if strings.TrimSpace(code) == "" {
		return LangText
	}

	content := []byte(code)
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return fenceTag(lang)
	}

	trimmed := strings.TrimSpace(code)
	for _, detect := range detectors {
		if lang := detect(code, trimmed); lang != "" {
			return lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return fenceTag(lang)
	}
	return LangText
}

// Canonical maps a fence info word such as "golang" or "py" to the fence
// tag of its language. Unknown words are returned lower-cased.
func Canonical(info string) string {
	word := strings.ToLower(strings.TrimSpace(info))
	if word == "" {
		return ""
	}
	if lang, ok := enry.GetLanguageByAlias(word); ok {
		return fenceTag(lang)
	}
	return word
}

func fenceTag(lang string) string {
	if lang == "Shell" {
		return LangBash
	}
	return strings.ToLower(lang)
}

func detectGo(_, trimmed string) string {
	if strings.HasPrefix(trimmed, "package ") {
		return LangGo
	}
	return ""
}

func detectPython(code, trimmed string) string {
	switch {
	case strings.Contains(code, "def ") && strings.Contains(code, "):"):
		return LangPython
	case strings.Contains(code, "import ") && !strings.Contains(code, "import (") &&
		(strings.Contains(code, "from ") || strings.HasPrefix(trimmed, "import ")):
		return LangPython
	case strings.Contains(code, "__name__"), strings.Contains(code, "__main__"):
		return LangPython
	}
	return ""
}

func detectHTML(_, trimmed string) string {
	lower := strings.ToLower(trimmed)
	for _, marker := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
		if strings.Contains(lower, marker) {
			return LangHTML
		}
	}
	return ""
}

func detectJSON(_, trimmed string) string {
	if (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) && strings.Contains(trimmed, `"`) {
		return LangJSON
	}
	return ""
}

func detectDockerfile(code, trimmed string) string {
	if strings.HasPrefix(trimmed, "FROM ") ||
		(strings.Contains(code, "\nFROM ") && strings.Contains(code, "\nRUN ")) ||
		(strings.Contains(code, "WORKDIR ") && strings.Contains(code, "COPY ")) {
		return LangDockerfile
	}
	return ""
}

func detectSQL(_, trimmed string) string {
	upper := strings.ToUpper(trimmed)
	for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
		if strings.HasPrefix(upper, verb) {
			return LangSQL
		}
	}
	return ""
}

func detectRust(code, _ string) string {
	if strings.Contains(code, "fn main()") || strings.Contains(code, "println!") || strings.Contains(code, "let mut ") {
		return LangRust
	}
	return ""
}

func detectJavaScript(code, _ string) string {
	for _, marker := range []string{"=>", "const ", "let ", "console.log"} {
		if strings.Contains(code, marker) {
			return LangJavaScript
		}
	}
	return ""
}

// detectYAML needs at least two "key: value" pairs or root list items.
func detectYAML(code, _ string) string {
	pairs := 0
	for line := range strings.SplitSeq(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, ": ") && !strings.ContainsAny(line, "({") && !strings.HasPrefix(line, `"`) {
			pairs++
		}
		if strings.HasPrefix(line, "- ") {
			pairs++
		}
	}
	if pairs >= 2 {
		return LangYAML
	}
	return ""
}
