package llm

import (
	"strings"

	jsoniter "github.com/json-iterator/go"

	"mirrorscope-api/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ExtractJSONObject returns the first JSON object embedded in text. Surrounding prose and
// markdown fences are ignored. On any failure it logs a warning tagged with label and
// returns an empty, non-nil map.
func ExtractJSONObject(text, label string) map[string]any {
	var lastErr error

	for start := strings.IndexByte(text, '{'); start >= 0; {
		if end := matchingBrace(text, start); end > start {
			var obj map[string]any
			err := json.Unmarshal([]byte(text[start:end+1]), &obj)
			if err == nil && obj != nil {
				return obj
			}
			lastErr = err
		}

		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}

	if lastErr != nil {
		logger.LogWarn("%s JSON parse error: %v", label, lastErr)
	} else {
		logger.LogWarn("%s JSON parse error: no JSON object in model output", label)
	}
	return map[string]any{}
}

// StringField returns m[key] when it is a string, and false otherwise.
func StringField(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

// matchingBrace returns the index of the brace closing the one at open, honouring JSON
// string literals, or -1 when the text ends first.
func matchingBrace(text string, open int) int {
	depth := 0
	inString := false
	escaped := false

	for i := open; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
