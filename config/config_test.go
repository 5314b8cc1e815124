package config

import (
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		ServerPort:            8080,
		SecurityJWTSecret:     "a-development-secret",
		SecurityTokenTTLHours: 24,
	}
}

func TestValidateConfig(t *testing.T) {
	log := logger.New("test")

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "missing port",
			mutate:      func(c *Config) { c.ServerPort = 0 },
			expectError: true,
		},
		{
			name:        "missing jwt secret",
			mutate:      func(c *Config) { c.SecurityJWTSecret = "" },
			expectError: true,
		},
		{
			name: "short secret in production",
			mutate: func(c *Config) {
				c.Environment = "production"
			},
			expectError: true,
		},
		{
			name:        "invalid token ttl",
			mutate:      func(c *Config) { c.SecurityTokenTTLHours = 0 },
			expectError: true,
		},
		{
			name: "storage endpoint without credentials",
			mutate: func(c *Config) {
				c.StorageEndpoint = "localhost:9000"
			},
			expectError: true,
		},
		{
			name: "storage endpoint with credentials",
			mutate: func(c *Config) {
				c.StorageEndpoint = "localhost:9000"
				c.StorageAccessKey = "minio"
				c.StorageSecretKey = "minio123"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := validateConfig(cfg, log)
			if tt.expectError {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, cfg, GetConfig())
		})
	}
}
