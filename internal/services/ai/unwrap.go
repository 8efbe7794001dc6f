package ai

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSONObject is returned when model output holds no {...} span.
var ErrNoJSONObject = errors.New("no JSON object in model response")

var (
	leadingFence  = regexp.MustCompile("^```(?:json|JSON)?[ \t]*\r?\n?")
	trailingFence = regexp.MustCompile("\r?\n?```$")
	// Greedy: first '{' through last '}'.
	jsonObjectSpan = regexp.MustCompile(`(?s)\{.*\}`)
)

// StripCodeFence removes a markdown code fence wrapped around model output.
// Unfenced input is returned trimmed and otherwise unchanged.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the span from the first '{' to the last '}' in s.
func ExtractJSONObject(s string) (string, error) {
	match := jsonObjectSpan.FindString(s)
	if match == "" {
		return "", ErrNoJSONObject
	}
	return match, nil
}
