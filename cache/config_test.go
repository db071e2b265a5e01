package cache

import (
	"testing"
	"time"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	// No variables set: everything falls back.
	t.Setenv(EnvMaxEntries, "")
	t.Setenv(EnvDefaultTTL, "")
	t.Setenv(EnvDefaultStaleWindow, "")
	cfg := ConfigFromEnv()
	if cfg.MaxEntries != DefaultMaxEntries {
		t.Errorf("MaxEntries = %d, want %d", cfg.MaxEntries, DefaultMaxEntries)
	}
	if cfg.DefaultTTL != DefaultTTL {
		t.Errorf("DefaultTTL = %v, want %v", cfg.DefaultTTL, DefaultTTL)
	}
	if cfg.DefaultStaleWindow != DefaultStaleWindow {
		t.Errorf("DefaultStaleWindow = %v, want %v", cfg.DefaultStaleWindow, DefaultStaleWindow)
	}
}

func TestConfigFromEnv_Values(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{
			name: "explicit values",
			env: map[string]string{
				EnvMaxEntries:         "100",
				EnvDefaultTTL:         "2m",
				EnvDefaultStaleWindow: "45s",
			},
			want: Config{MaxEntries: 100, DefaultTTL: 2 * time.Minute, DefaultStaleWindow: 45 * time.Second},
		},
		{
			name: "bare seconds accepted for durations",
			env: map[string]string{
				EnvDefaultTTL:         "120",
				EnvDefaultStaleWindow: "60",
			},
			want: Config{MaxEntries: DefaultMaxEntries, DefaultTTL: 2 * time.Minute, DefaultStaleWindow: time.Minute},
		},
		{
			name: "invalid values fall back silently",
			env: map[string]string{
				EnvMaxEntries:         "lots",
				EnvDefaultTTL:         "soon",
				EnvDefaultStaleWindow: "-5s",
			},
			want: Config{MaxEntries: DefaultMaxEntries, DefaultTTL: DefaultTTL, DefaultStaleWindow: DefaultStaleWindow},
		},
		{
			name: "zero max entries disables caching",
			env:  map[string]string{EnvMaxEntries: "0"},
			want: Config{MaxEntries: 0, DefaultTTL: DefaultTTL, DefaultStaleWindow: DefaultStaleWindow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := ConfigFromEnv()
			if cfg.MaxEntries != tt.want.MaxEntries {
				t.Errorf("MaxEntries = %d, want %d", cfg.MaxEntries, tt.want.MaxEntries)
			}
			if cfg.DefaultTTL != tt.want.DefaultTTL {
				t.Errorf("DefaultTTL = %v, want %v", cfg.DefaultTTL, tt.want.DefaultTTL)
			}
			if cfg.DefaultStaleWindow != tt.want.DefaultStaleWindow {
				t.Errorf("DefaultStaleWindow = %v, want %v", cfg.DefaultStaleWindow, tt.want.DefaultStaleWindow)
			}
		})
	}
}

func TestTTLFor(t *testing.T) {
	if got := TTLFor("budgets"); got != time.Hour {
		t.Errorf("TTLFor(budgets) = %v, want 1h", got)
	}
	if got := TTLFor("transactions"); got != 2*time.Minute {
		t.Errorf("TTLFor(transactions) = %v, want 2m", got)
	}
	if got := TTLFor("nonsense"); got != DefaultTTL {
		t.Errorf("TTLFor(unknown) = %v, want the default TTL", got)
	}
}
