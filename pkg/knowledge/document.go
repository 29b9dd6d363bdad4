package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

// Document is a piece of text with free-form string metadata.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// NewDocument copies metadata so the caller cannot mutate a stored document.
func NewDocument(content string, metadata map[string]string) Document {
	return Document{Content: content, Metadata: cloneMetadata(metadata)}
}

// UnmarshalJSON accepts persisted documents leniently: content must be a
// string, metadata values of any JSON type are stringified and a metadata
// field that is not an object is ignored.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Content  *json.RawMessage `json:"content"`
		Metadata json.RawMessage  `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Content == nil {
		return errors.New("document has no content")
	}

	var content string
	if err := json.Unmarshal(*raw.Content, &content); err != nil {
		return fmt.Errorf("document content is not a string: %w", err)
	}

	metadata := map[string]string{}
	var fields map[string]any
	if len(raw.Metadata) > 0 && json.Unmarshal(raw.Metadata, &fields) == nil {
		for k, v := range fields {
			metadata[k] = stringify(v)
		}
	}

	d.Content = content
	d.Metadata = metadata
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}

func cloneMetadata(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	maps.Copy(out, m)
	return out
}

func cloneDocuments(docs []Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = NewDocument(d.Content, d.Metadata)
	}
	return out
}
