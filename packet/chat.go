package packet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// WriteChat writes v as a JSON text component. Plain strings are valid
// components.
func WriteChat(w io.Writer, v any) (err error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err = enc.Encode(v); err != nil {
		return
	}
	return WriteString(w, string(bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})))
}

// ReadChat decodes a JSON text component into a generic tree of maps,
// slices, strings, bools and json.Number.
func ReadChat(r Reader) (v any, err error) {
	s, err := ReadString(r)
	if err != nil {
		return
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	if err = dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: chat component: %w", ErrMalformed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: chat component has trailing data", ErrMalformed)
	}
	return
}

// ChatText returns the plain text of a component, ignoring styling.
func ChatText(v any) string {
	var sb bytes.Buffer
	appendChatText(&sb, v)
	return sb.String()
}

func appendChatText(sb *bytes.Buffer, v any) {
	switch c := v.(type) {
	case string:
		sb.WriteString(c)
	case []any:
		for _, part := range c {
			appendChatText(sb, part)
		}
	case map[string]any:
		if text, ok := c["text"].(string); ok {
			sb.WriteString(text)
		} else if key, ok := c["translate"].(string); ok {
			sb.WriteString(key)
		}
		if extra, ok := c["extra"].([]any); ok {
			appendChatText(sb, extra)
		}
	}
}
