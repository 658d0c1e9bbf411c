package oembed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ParseJSON decodes a JSON object into a Response.
//
// null, malformed input and non-object documents are parse failures. Values
// are flattened to strings: strings as-is, numbers in their literal form,
// booleans as "true"/"false", null as "" and nested objects or arrays as
// compact JSON.
func ParseJSON(raw []byte) (*Response, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, parseFailure(FormatJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, parseFailure(FormatJSON, errors.New("trailing data after top-level value"))
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		if doc == nil {
			return nil, parseFailure(FormatJSON, errors.New("null document"))
		}
		return nil, parseFailure(FormatJSON, fmt.Errorf("top-level %T is not an object", doc))
	}

	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		s, err := jsonString(v)
		if err != nil {
			return nil, parseFailure(FormatJSON, fmt.Errorf("field %q: %w", k, err))
		}
		fields[k] = s
	}
	return &Response{fields: fields}, nil
}

func jsonString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool:
		if val {
			return "true", nil
		}
		return "false", nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
