package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// decodeResponse parses a JSON response, failing on any required field that is
// missing or null before decoding into out
func decodeResponse(text string, schema *Schema, out any) error {
	body := []byte(stripFence(text))

	var object map[string]json.RawMessage
	if err := json.Unmarshal(body, &object); err != nil {
		return fmt.Errorf("response is not a JSON object: %w", err)
	}

	for _, key := range schema.Required {
		value, ok := object[key]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return fmt.Errorf("response is missing required field %q", key)
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("response does not match the expected shape: %w", err)
	}

	return nil
}

// stripFence removes a markdown code fence some models wrap JSON in
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}

// metaText accepts meta_json either as a JSON string or as an inline object
type metaText string

func (m *metaText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = metaText(s)
		return nil
	}

	*m = metaText(data)
	return nil
}
