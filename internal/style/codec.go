package style

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Decode parses a configuration object from JSON or YAML. Scalar values
// are converted to strings; null values are dropped. Nested objects and
// lists are rejected.
func Decode(data []byte) (Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty configuration")
	}
	// JSON goes through encoding/json so a repeated key keeps its last value;
	// yaml.v3 rejects duplicate mapping keys.
	var raw any
	if json.Valid(data) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse configuration: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("configuration must be an object")
	}

	c := make(Config, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			c[k] = val
		case bool:
			c[k] = strconv.FormatBool(val)
		case int:
			c[k] = strconv.Itoa(val)
		case int64:
			c[k] = strconv.FormatInt(val, 10)
		case uint64:
			c[k] = strconv.FormatUint(val, 10)
		case float64:
			c[k] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("configuration key %q: value must be a scalar", k)
		}
	}
	return c, nil
}

// Encode renders c as 2-space indented JSON with sorted keys.
func (c Config) Encode() ([]byte, error) {
	if c == nil {
		c = Config{}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode configuration: %w", err)
	}
	return append(data, '\n'), nil
}
