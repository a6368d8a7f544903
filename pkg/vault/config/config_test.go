package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withAdmin(c *ServerConfig) error {
	c.AdminUsername = "admin"
	c.AdminPassword = "secret"
	return nil
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(withAdmin)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.Equal(t, "memory", cfg.DefaultStorageBackend)
	assert.Equal(t, "jeevault", cfg.MongoDatabase)
}

func TestLoadRequiresAdminCredentials(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ServerConfig)
		expectError bool
	}{
		{"defaults with admin", func(c *ServerConfig) {}, false},
		{"missing port", func(c *ServerConfig) { c.Port = "" }, true},
		{"unknown database type", func(c *ServerConfig) { c.DatabaseType = "sqlite" }, true},
		{"postgres without url", func(c *ServerConfig) { c.DatabaseType = "postgres" }, true},
		{"mongo without url", func(c *ServerConfig) { c.DatabaseType = "mongo" }, true},
		{"mongo with url", func(c *ServerConfig) {
			c.DatabaseType = "mongo"
			c.DatabaseURL = "mongodb://localhost:27017"
		}, false},
		{"unregistered default backend", func(c *ServerConfig) { c.DefaultStorageBackend = "s3" }, true},
		{"missing admin password", func(c *ServerConfig) { c.AdminPassword = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			_ = withAdmin(&cfg)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildService_Memory(t *testing.T) {
	cfg, err := Load(withAdmin)
	require.NoError(t, err)

	svc, err := cfg.BuildService()
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestBuildStorageBackend_FS(t *testing.T) {
	tmp := t.TempDir()
	store, err := buildStorageBackend(StorageBackendConfig{
		Name:   "fs",
		Type:   "fs",
		Config: map[string]interface{}{"base_dir": tmp},
	})
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestBuildStorageBackend_Unknown(t *testing.T) {
	_, err := buildStorageBackend(StorageBackendConfig{Name: "x", Type: "gcs"})
	assert.Error(t, err)
}
