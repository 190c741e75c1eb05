package ai

import (
	"encoding/json"
	"strings"
)

// ExtractJSON strips markdown code fences from a model reply and slices out
// the outermost JSON object or array. Models routinely wrap JSON in prose or
// fences despite being told not to.
func ExtractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")

	start, end := -1, -1
	switch {
	case objStart >= 0 && (arrStart < 0 || objStart < arrStart):
		start = objStart
		end = strings.LastIndex(text, "}")
	case arrStart >= 0:
		start = arrStart
		end = strings.LastIndex(text, "]")
	}
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}

// decodeReply parses a model reply into v, applying fence stripping and
// delimiter slicing first. A decode failure is a malformed response.
func decodeReply(text string, v interface{}) error {
	if err := json.Unmarshal([]byte(ExtractJSON(text)), v); err != nil {
		return ErrMalformedResponse
	}
	return nil
}
