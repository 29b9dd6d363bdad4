package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Normalizer is implemented by record types that fill defaults after being
// decoded.
type Normalizer interface {
	Normalize()
}

// Encode renders records as an indented JSON array.
func Encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding records: %w", err)
	}
	return data, nil
}

// Decode parses a JSON array of records. Elements that do not decode into T
// are skipped. A payload that is not an array is an error.
func Decode[T any](data []byte) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("decoding records: %w", ErrNotList)
	}
	if data[0] != '[' {
		if !json.Valid(data) {
			return nil, fmt.Errorf("decoding records: invalid JSON")
		}
		return nil, fmt.Errorf("decoding records: %w", ErrNotList)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}

	records := make([]T, 0, len(raw))
	for _, item := range raw {
		if bytes.Equal(item, []byte("null")) {
			continue
		}
		var rec T
		if err := json.Unmarshal(item, &rec); err != nil {
			continue
		}
		if n, ok := any(&rec).(Normalizer); ok {
			n.Normalize()
		}
		records = append(records, rec)
	}
	return records, nil
}
