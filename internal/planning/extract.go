package planning

import (
	"encoding/json"
	"strings"
)

// extractJSON applies the three fallback extraction strategies in order
// and returns the first successfully decoded object.
func extractJSON(text string) (map[string]any, error) {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "{") {
		if obj, err := decodeObject(trimmed); err == nil {
			return obj, nil
		}
	}

	if body, ok := fencedBody(trimmed); ok {
		if obj, err := decodeObject(body); err == nil {
			return obj, nil
		}
	}

	if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			if obj, err := decodeObject(trimmed[start : end+1]); err == nil {
				return obj, nil
			}
		}
	}

	return nil, ErrNoJSON
}

// fencedBody locates the first ``` or ```json fenced block and returns
// its body, trimmed.
func fencedBody(text string) (string, bool) {
	const fence = "```"
	start := strings.Index(text, fence)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(fence):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// Skip an optional language tag on the fence's opening line
		// (e.g. "json").
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, fence)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

func decodeObject(text string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}
