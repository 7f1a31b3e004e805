package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractJSON decodes a structured payload out of untrusted model output.
// Models frequently wrap JSON in markdown code fences or surround it with
// prose, so the raw text is tried first and then progressively cleaned:
// fences stripped, then the outermost object or array isolated. The
// candidate is validated with gjson before unmarshaling so that prose
// containing stray braces is rejected rather than partially decoded.
// Returns ErrInvalidResponse (wrapped) when no well-formed payload can be
// recovered.
func ExtractJSON(text string, v any) error {
	candidate := strings.TrimSpace(text)
	if candidate == "" {
		return fmt.Errorf("%w: empty response text", ErrInvalidResponse)
	}

	if gjson.Valid(candidate) {
		return unmarshalPayload(candidate, v)
	}

	cleaned := stripCodeFences(candidate)
	if gjson.Valid(cleaned) {
		return unmarshalPayload(cleaned, v)
	}

	isolated, ok := isolatePayload(cleaned)
	if ok && gjson.Valid(isolated) {
		return unmarshalPayload(isolated, v)
	}

	return fmt.Errorf("%w: no JSON payload found in response", ErrInvalidResponse)
}

func unmarshalPayload(candidate string, v any) error {
	if err := json.Unmarshal([]byte(candidate), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// stripCodeFences removes markdown code-fence markers while keeping the
// fenced content.
func stripCodeFences(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// isolatePayload cuts the outermost JSON object or array out of the
// surrounding prose. When both an object and an array appear, the one
// that starts first wins.
func isolatePayload(text string) (string, bool) {
	firstBrace := strings.IndexByte(text, '{')
	firstBracket := strings.IndexByte(text, '[')

	start, end := -1, -1
	switch {
	case firstBrace != -1 && (firstBracket == -1 || firstBrace < firstBracket):
		start = firstBrace
		end = strings.LastIndexByte(text, '}')
	case firstBracket != -1:
		start = firstBracket
		end = strings.LastIndexByte(text, ']')
	}

	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
