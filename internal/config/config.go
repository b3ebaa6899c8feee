// Package config loads the application configuration from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the runtime configuration. The encryption key and JWT secret
// are required; everything else has a working default.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"SERVER_ADDRESS,default=:8080"`
	// DatabaseDSN is the PostgreSQL connection string.
	DatabaseDSN string `env:"DATABASE_DSN"`
	// EncryptionKey is the process-wide secret the credential codec derives
	// its key from. Loaded once at start, never mutated.
	EncryptionKey string `env:"ENCRYPTION_KEY"`
	// JWTSecret verifies bearer tokens issued by the auth service.
	JWTSecret string `env:"JWT_SECRET"`
	// SchedulerToken guards the internal batch-trigger endpoint.
	SchedulerToken string `env:"SCHEDULER_TOKEN"`
	// TwitterBaseURL overrides the X API endpoint, for testing.
	TwitterBaseURL string `env:"TWITTER_API_BASE"`
	// PublishTimeout bounds a single X API call.
	PublishTimeout time.Duration `env:"PUBLISH_TIMEOUT,default=10s"`
	// SchedulerEnabled turns the in-process batch ticker on or off. Deployments
	// using an external trigger hit the HTTP endpoint instead.
	SchedulerEnabled bool `env:"SCHEDULER_ENABLED,default=true"`
	// SchedulerInterval is how often the batch ticker fires.
	SchedulerInterval time.Duration `env:"SCHEDULER_INTERVAL,default=1h"`
	// BatchParallelism bounds how many due posts are published concurrently.
	BatchParallelism int `env:"BATCH_PARALLELISM,default=4"`
}

// Load reads the configuration from environment variables.
func Load(ctx context.Context) (Config, error) {
	config := Config{}
	if err := envconfig.Process(ctx, &config); err != nil {
		return Config{}, fmt.Errorf("parsing env vars: %w", err)
	}
	return config, nil
}
