package secret

import (
	"context"
	"fmt"
	"os"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret
// values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
}

// EnvProvider resolves references as environment variable names, e.g.
// "secretref:env:BUDGET_API_TOKEN".
type EnvProvider struct{}

// Name returns "env".
func (EnvProvider) Name() string { return "env" }

// Resolve looks the reference up in the environment. A missing variable is
// an error; resolution must never silently produce an empty credential.
func (EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	value, ok := os.LookupEnv(ref)
	if !ok {
		return "", fmt.Errorf("secret: environment variable %s is not set", ref)
	}
	return value, nil
}
