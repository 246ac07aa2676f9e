package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_BACKEND", "WORKERS", "ROOT_POLICY"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	assert := assert.New(t)
	assert.Equal("8080", cfg.Port)
	assert.Equal(StoreSQLite, cfg.StoreBackend)
	assert.Equal(0, cfg.Workers)
	assert.Equal("tertian", cfg.RootPolicy)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_BACKEND", StoreDynamo)
	t.Setenv("WORKERS", "3")
	t.Setenv("ENVIRONMENT", "production")
	cfg := Load()

	assert := assert.New(t)
	assert.Equal("9000", cfg.Port)
	assert.Equal(StoreDynamo, cfg.StoreBackend)
	assert.Equal(3, cfg.Workers)
	assert.True(cfg.IsProduction())
}

func TestBadIntFallsBack(t *testing.T) {
	t.Setenv("WORKERS", "many")
	assert.Equal(t, 0, Load().Workers)
}
