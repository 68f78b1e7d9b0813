package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// EnvFetcher resolves secret references from environment variables, loaded
// from a .env file on construction if one is present. This is the local
// development fallback for GCPFetcher: a reference is treated as an
// environment variable name directly (e.g. "ANTHROPIC_API_KEY"), mirroring
// the teacher's own env-first LoadConfigFromEnv pattern before it falls back
// to a mounted file.
type EnvFetcher struct{}

// NewEnvFetcher loads variables from envFile (if non-empty and present)
// into the process environment and returns a Fetcher backed by it.
func NewEnvFetcher(envFile string) (*EnvFetcher, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
		}
	}
	return &EnvFetcher{}, nil
}

func (f *EnvFetcher) FetchSecret(_ context.Context, ref string) (string, error) {
	v := os.Getenv(ref)
	if v == "" {
		return "", fmt.Errorf("environment variable %s is unset or empty", ref)
	}
	return v, nil
}

func (f *EnvFetcher) Close() error { return nil }
