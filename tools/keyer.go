package tools

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// InputDigest produces a short deterministic digest of a tool call's input.
//
// The input is serialized to canonical JSON (object keys sorted, regardless
// of map iteration order) and hashed with SHA-256; the first 8 bytes are
// returned as 16 hex characters. Two calls with equal inputs always yield
// the same digest, which makes the digest safe to use as a cache key
// segment.
func InputDigest(input map[string]any) (string, error) {
	canonical, err := canonicalize(input)
	if err != nil {
		return "", fmt.Errorf("tools: canonicalize input: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:8]), nil
}

// canonicalize produces a deterministic JSON representation of the value.
// Maps are serialized with sorted keys; everything else uses standard JSON
// encoding.
func canonicalize(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case map[string]any:
		return canonicalizeMap(val)
	case []any:
		return canonicalizeSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalizeMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := []byte("{")
	for i, k := range keys {
		if i > 0 {
			out = append(out, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		out = append(out, kb...)
		out = append(out, ':')
		vb, err := canonicalize(m[k])
		if err != nil {
			return nil, err
		}
		out = append(out, vb...)
	}
	return append(out, '}'), nil
}

func canonicalizeSlice(s []any) ([]byte, error) {
	out := []byte("[")
	for i, v := range s {
		if i > 0 {
			out = append(out, ',')
		}
		vb, err := canonicalize(v)
		if err != nil {
			return nil, err
		}
		out = append(out, vb...)
	}
	return append(out, ']'), nil
}
