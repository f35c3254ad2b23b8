package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load looks at so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range defaults {
		t.Setenv(key, "")
	}
	for _, names := range aliases {
		for _, name := range names {
			t.Setenv(name, "")
		}
	}
}

func TestLoadFrom(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := LoadFrom(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, BackendPostgres, cfg.GraphBackend)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 168*time.Hour, cfg.InviteTTL)
		assert.Equal(t, 50.0, cfg.RateLimitRPS)
		assert.Equal(t, 100, cfg.RateLimitBurst)
		assert.Equal(t, "*", cfg.CORSAllowedOrigin)
		assert.Equal(t, "none", cfg.TracingExporter)
	})

	t.Run("environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GRAPH_BACKEND", "Neo4j")
		t.Setenv("GRAPH_URI", "neo4j://db:7687")
		t.Setenv("REQUEST_TIMEOUT", "3s")
		t.Setenv("RATE_LIMIT_RPS", "2.5")

		cfg, err := LoadFrom(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, BackendNeo4j, cfg.GraphBackend)
		assert.Equal(t, "neo4j://db:7687", cfg.GraphURI)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 2.5, cfg.RateLimitRPS)
	})

	t.Run("legacy variable names", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NEO_URI", "neo4j://legacy:7687")
		t.Setenv("NEO_USER", "neo4j")
		t.Setenv("NEO_PASS", "secret")
		t.Setenv("JWT_SECRET", "signing-key")

		cfg, err := LoadFrom(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "neo4j://legacy:7687", cfg.GraphURI)
		assert.Equal(t, "neo4j", cfg.GraphUser)
		assert.Equal(t, "secret", cfg.GraphPassword)
		assert.Equal(t, "signing-key", cfg.InviteSecret)
	})

	t.Run("env file", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		env := "DATABASE_URL=postgres://db:5432/connect3\nGRAPH_USER=app\nPORT=9000\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
		t.Setenv("PORT", "9100")

		cfg, err := LoadFrom(dir)
		require.NoError(t, err)

		assert.Equal(t, "postgres://db:5432/connect3", cfg.GraphURI)
		assert.Equal(t, "app", cfg.GraphUser)
		assert.Equal(t, "9100", cfg.Port, "environment overrides the file")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			GraphBackend:   BackendPostgres,
			GraphURI:       "postgres://db:5432/connect3",
			GraphUser:      "app",
			GraphPassword:  "secret",
			RequestTimeout: time.Second,
			RateLimitRPS:   1,
			RateLimitBurst: 1,
		}
	}

	t.Run("complete configuration", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing connection parameters", func(t *testing.T) {
		cfg := valid()
		cfg.GraphUser = ""
		cfg.GraphPassword = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GRAPH_USER")
		assert.Contains(t, err.Error(), "GRAPH_PASSWORD")
	})

	t.Run("memory backend needs no connection", func(t *testing.T) {
		cfg := valid()
		cfg.GraphBackend = BackendMemory
		cfg.GraphURI, cfg.GraphUser, cfg.GraphPassword = "", "", ""

		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := valid()
		cfg.GraphBackend = "redis"

		assert.ErrorContains(t, cfg.Validate(), "GRAPH_BACKEND")
	})
}
