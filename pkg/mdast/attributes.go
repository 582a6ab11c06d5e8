package mdast

import "strings"

// KeyValue is a single key=value attribute.
type KeyValue struct {
	Key   string
	Value string
}

// Attributes holds the identifier, classes and key/value pairs written
// in a {#id .class key=value} block. Order of classes and pairs follows
// the source.
type Attributes struct {
	ID      string
	Classes []string
	Pairs   []KeyValue
}

// IsEmpty returns true if no attribute is set.
func (a *Attributes) IsEmpty() bool {
	return a == nil || (a.ID == "" && len(a.Classes) == 0 && len(a.Pairs) == 0)
}

// AddClass appends a class unless it is already present.
func (a *Attributes) AddClass(class string) {
	if class == "" {
		return
	}
	for _, c := range a.Classes {
		if c == class {
			return
		}
	}
	a.Classes = append(a.Classes, class)
}

// Set stores a pair. The keys "id" and "class" update ID and Classes.
func (a *Attributes) Set(key, value string) {
	switch key {
	case "id":
		a.ID = value
		return
	case "class":
		for _, c := range strings.Fields(value) {
			a.AddClass(c)
		}
		return
	}
	for i := range a.Pairs {
		if a.Pairs[i].Key == key {
			a.Pairs[i].Value = value
			return
		}
	}
	a.Pairs = append(a.Pairs, KeyValue{Key: key, Value: value})
}

// Get returns the value of a pair.
func (a *Attributes) Get(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	for _, kv := range a.Pairs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Merge copies every attribute of other into a; other wins on conflicts.
func (a *Attributes) Merge(other *Attributes) {
	if other == nil {
		return
	}
	if other.ID != "" {
		a.ID = other.ID
	}
	for _, c := range other.Classes {
		a.AddClass(c)
	}
	for _, kv := range other.Pairs {
		a.Set(kv.Key, kv.Value)
	}
}

// Clone returns a deep copy.
func (a *Attributes) Clone() *Attributes {
	if a == nil {
		return nil
	}
	return &Attributes{
		ID:      a.ID,
		Classes: append([]string(nil), a.Classes...),
		Pairs:   append([]KeyValue(nil), a.Pairs...),
	}
}

// ParseAttributes parses a complete "{...}" block. It returns false when
// the text is not a well-formed, non-empty attribute block.
func ParseAttributes(text string) (*Attributes, bool) {
	if len(text) < 2 || text[0] != '{' || text[len(text)-1] != '}' {
		return nil, false
	}

	body := text[1 : len(text)-1]
	attrs := &Attributes{}
	idx := 0

	for {
		for idx < len(body) && isAttrSpace(body[idx]) {
			idx++
		}
		if idx >= len(body) {
			break
		}

		switch body[idx] {
		case '#':
			name, next := scanAttrName(body, idx+1)
			if name == "" {
				return nil, false
			}
			attrs.ID = name
			idx = next
		case '.':
			name, next := scanAttrName(body, idx+1)
			if name == "" {
				return nil, false
			}
			attrs.AddClass(name)
			idx = next
		default:
			key, next := scanAttrKey(body, idx)
			if key == "" || next >= len(body) || body[next] != '=' {
				return nil, false
			}
			value, after, ok := scanAttrValue(body, next+1)
			if !ok {
				return nil, false
			}
			attrs.Set(key, value)
			idx = after
		}

		if idx < len(body) && !isAttrSpace(body[idx]) {
			return nil, false
		}
	}

	if attrs.IsEmpty() {
		return nil, false
	}
	return attrs, true
}

func isAttrSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func scanAttrName(s string, start int) (string, int) {
	end := start
	for end < len(s) && !isAttrSpace(s[end]) && s[end] != '{' && s[end] != '}' &&
		s[end] != '#' && s[end] != '.' && s[end] != '"' && s[end] != '\'' && s[end] != '=' {
		end++
	}
	return s[start:end], end
}

func scanAttrKey(s string, start int) (string, int) {
	end := start
	for end < len(s) {
		c := s[end]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
			c == '-' || c == '_' || c == ':' {
			end++
			continue
		}
		break
	}
	return s[start:end], end
}

func scanAttrValue(s string, start int) (string, int, bool) {
	if start >= len(s) {
		return "", start, false
	}

	if quote := s[start]; quote == '"' || quote == '\'' {
		end := strings.IndexByte(s[start+1:], quote)
		if end < 0 {
			return "", start, false
		}
		return s[start+1 : start+1+end], start + end + 2, true
	}

	end := start
	for end < len(s) && !isAttrSpace(s[end]) && s[end] != '"' && s[end] != '\'' {
		end++
	}
	if end == start {
		return "", start, false
	}
	return s[start:end], end, true
}
