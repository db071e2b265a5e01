package tools

import "fmt"

// stringField extracts a required string field from a tool call's input.
func stringField(input map[string]any, name string) (string, error) {
	v, ok := input[name]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrInvalidInput, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q must be a string", ErrInvalidInput, name)
	}
	if s == "" {
		return "", fmt.Errorf("%w: field %q must not be empty", ErrInvalidInput, name)
	}
	return s, nil
}

// optionalString extracts an optional string field. Absent fields yield "".
func optionalString(input map[string]any, name string) (string, error) {
	v, ok := input[name]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q must be a string", ErrInvalidInput, name)
	}
	return s, nil
}

// numberField extracts a required numeric field. JSON decoding yields
// float64 for numbers, but handlers built in-process may pass int values.
func numberField(input map[string]any, name string) (float64, error) {
	v, ok := input[name]
	if !ok {
		return 0, fmt.Errorf("%w: missing field %q", ErrInvalidInput, name)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: field %q must be a number", ErrInvalidInput, name)
	}
}
