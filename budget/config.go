package budget

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/jonwraymond/budgetops/resilience"
	"github.com/jonwraymond/budgetops/secret"
)

// Environment settings for the budgeting API client.
const (
	// EnvToken holds the API token, a ${VAR} reference, or a
	// "secretref:<provider>:<ref>" value.
	EnvToken   = "BUDGETOPS_API_TOKEN"
	EnvBaseURL = "BUDGETOPS_API_BASE_URL"
	EnvTimeout = "BUDGETOPS_API_TIMEOUT"

	// EnvRateLimit holds the client-side request rate in requests per
	// second. Unset or invalid disables client-side limiting.
	EnvRateLimit = "BUDGETOPS_API_RATE_LIMIT"
)

// ConfigFromEnv builds a ClientConfig from environment settings, resolving
// the token through the secret resolver. A missing token is not an error
// here; NewClient rejects it so the failure carries the right sentinel.
func ConfigFromEnv(ctx context.Context, resolver *secret.Resolver) ClientConfig {
	if resolver == nil {
		resolver = secret.NewResolver()
	}

	token := os.Getenv(EnvToken)
	if token != "" {
		if resolved, err := resolver.Resolve(ctx, token); err == nil {
			token = resolved
		}
	}

	cfg := ClientConfig{
		Token:   token,
		BaseURL: os.Getenv(EnvBaseURL),
	}
	if raw := os.Getenv(EnvTimeout); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if raw := os.Getenv(EnvRateLimit); raw != "" {
		if rate, err := strconv.ParseFloat(raw, 64); err == nil && rate > 0 {
			cfg.Limiter = resilience.NewLimiter(rate, int(rate)+1)
		}
	}
	return cfg
}
