package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON parses a model reply into v. Replies wrapped in markdown fences
// or surrounded by chatter are trimmed to the outermost JSON object first.
func DecodeJSON(reply string, v interface{}) error {
	body := strings.TrimSpace(reply)
	if start := strings.Index(body, "{"); start >= 0 {
		if end := strings.LastIndex(body, "}"); end > start {
			body = body[start : end+1]
		}
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		preview := reply
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return fmt.Errorf("failed to parse llm reply (body: %s): %w", preview, err)
	}
	return nil
}

// CleanLabel strips quotes, backticks and trailing punctuation from a
// one-line answer.
func CleanLabel(reply string) string {
	label := strings.TrimSpace(reply)
	if i := strings.IndexByte(label, '\n'); i >= 0 {
		label = label[:i]
	}
	return strings.Trim(label, "\"'`. ")
}
