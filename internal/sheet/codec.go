package sheet

import (
	"encoding/json"
	"fmt"
)

// Marshal serializes the whole collection in order.
func Marshal(sheets []Sheet) (string, error) {
	if sheets == nil {
		sheets = []Sheet{}
	}
	data, err := json.Marshal(sheets)
	if err != nil {
		return "", fmt.Errorf("marshal sheets: %w", err)
	}
	return string(data), nil
}

// Unmarshal parses a serialized collection. On malformed input it returns
// an empty collection along with the parse error so callers can report it.
func Unmarshal(data string) ([]Sheet, error) {
	if data == "" {
		return []Sheet{}, nil
	}
	var sheets []Sheet
	if err := json.Unmarshal([]byte(data), &sheets); err != nil {
		return []Sheet{}, fmt.Errorf("unmarshal sheets: %w", err)
	}
	if sheets == nil {
		sheets = []Sheet{}
	}
	return sheets, nil
}
