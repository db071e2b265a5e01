package cache

import (
	"fmt"
	"strconv"
	"strings"
)

// KeySeparator joins the namespace prefix and parts of a cache key.
const KeySeparator = ":"

// Key builds a deterministic cache key from a namespace prefix and scalar
// parts, joined with KeySeparator. Nil parts are skipped. Equal inputs in
// the same order always produce equal keys; callers are responsible for
// picking prefixes distinct enough that unrelated data cannot collide.
func Key(prefix string, parts ...any) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, part := range parts {
		if part == nil {
			continue
		}
		b.WriteString(KeySeparator)
		b.WriteString(formatPart(part))
	}
	return b.String()
}

func formatPart(part any) string {
	switch v := part.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
