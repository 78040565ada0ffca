package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// RichText is CMS text flattened to paragraphs. It decodes a plain string, a
// list of strings, or Portable Text blocks.
type RichText []string

// UnmarshalJSON never fails on unexpected shapes; they decode as empty.
func (t *RichText) UnmarshalJSON(data []byte) error {
	*t = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil && s != "" {
			*t = RichText{s}
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		for _, item := range items {
			if p := paragraph(item); p != "" {
				*t = append(*t, p)
			}
		}
	}
	return nil
}

// paragraph reads a string or a Portable Text block ({children: [{text}]}).
func paragraph(data json.RawMessage) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	var block struct {
		Children []struct {
			Text string `json:"text"`
		} `json:"children"`
	}
	if err := json.Unmarshal(data, &block); err != nil {
		return ""
	}
	var b strings.Builder
	for _, c := range block.Children {
		b.WriteString(c.Text)
	}
	return b.String()
}

// String joins paragraphs with blank lines.
func (t RichText) String() string {
	return strings.Join(t, "\n\n")
}
