package secret

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// ErrUnknownProvider indicates a secretref named a provider that was never
// registered with the resolver.
var ErrUnknownProvider = errors.New("secret: provider is not registered")

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnv expands ${VAR} references in s, erroring when a referenced
// variable is missing from the environment. "$$" emits a literal "$".
func ExpandEnv(s string) (string, error) {
	const dollarSentinel = "\x00BUDGETOPS_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	missing := make(map[string]struct{})
	for _, match := range envVarPattern.FindAllStringSubmatch(s, -1) {
		if _, ok := os.LookupEnv(match[1]); !ok {
			missing[match[1]] = struct{}{}
		}
	}
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("secret: missing environment variables: %s", strings.Join(keys, ", "))
	}

	s = os.ExpandEnv(s)
	return strings.ReplaceAll(s, dollarSentinel, "$"), nil
}

// Resolver resolves configuration values that may be plain strings with
// ${VAR} references or full "secretref:<provider>:<ref>" references.
type Resolver struct {
	providers map[string]Provider
}

// NewResolver creates a resolver with the given providers. EnvProvider is
// always registered.
func NewResolver(providers ...Provider) *Resolver {
	r := &Resolver{providers: map[string]Provider{}}
	r.providers["env"] = EnvProvider{}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// Resolve expands environment references in value and then resolves a
// secretref if the value is one.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnv(value)
	if err != nil {
		return "", err
	}

	name, ref, ok := ParseRef(expanded)
	if !ok {
		return expanded, nil
	}
	provider, exists := r.providers[name]
	if !exists {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	resolved, err := provider.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if resolved == "" {
		return "", fmt.Errorf("secret: provider %q returned an empty value", name)
	}
	return resolved, nil
}

// ParseRef parses a full secret reference of the form
// "secretref:<provider>:<ref>".
func ParseRef(value string) (provider, ref string, ok bool) {
	const prefix = "secretref:"
	if !strings.HasPrefix(value, prefix) {
		return "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(value, prefix), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
