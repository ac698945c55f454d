package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_Defaults(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	cfg := manager.GetConfig()
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sehha", cfg.Database.Database)
	assert.Equal(t, "redis://localhost:6379", cfg.Cache.RedisURL)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.Groq.BaseURL)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.LLM.Groq.Model)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestManager_Validate(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	assert.NoError(t, manager.Validate())

	manager.config.Server.Port = -1
	assert.Error(t, manager.Validate())
	manager.config.Server.Port = 8080

	manager.config.Logging.Level = "verbose"
	assert.Error(t, manager.Validate())
}

func TestManager_GetDatabaseURL(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	url := manager.GetDatabaseURL()
	assert.Contains(t, url, "postgres://")
	assert.Contains(t, url, "/sehha")
	assert.Contains(t, url, "sslmode=disable")
}
