package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidResponse means a structured reply could not be parsed as JSON.
// This is fatal and user-visible; the caller must never substitute a default.
var ErrInvalidResponse = errors.New("invalid AI response format")

// ParseJSON decodes a structured model reply into T. Models routinely wrap
// JSON in a fenced code block; the fence is stripped before decoding.
func ParseJSON[T any](raw string) (T, error) {
	var result T
	cleaned := stripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return result, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return result, nil
}

// stripFences removes a surrounding ``` or ```json fence, if any.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		s = s[idx+1:]
	} else {
		return strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}

	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
