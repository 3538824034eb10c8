package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("PARTSREC_ROOT", "/srv/partsrec")
	t.Setenv("PARTSREC_CONFIG_FILE", "/etc/partsrec/config.json")
	t.Setenv("LOG_NAME", "detector")
	t.Setenv("LOG_DIR", "/var/log/partsrec")

	cfg := Load()

	assert.Equal(t, "/srv/partsrec", cfg.Paths.Root)
	assert.Equal(t, "/etc/partsrec/config.json", cfg.Paths.ConfigFile)
	assert.Equal(t, "detector", cfg.Logging.Name)
	assert.Equal(t, "/var/log/partsrec", cfg.Logging.Dir)
}

func TestLoad_EmptyEnvironment(t *testing.T) {
	for _, key := range []string{"PARTSREC_ROOT", "PARTSREC_CONFIG_FILE", "LOG_NAME", "LOG_DIR"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	// Empty values are left for components to default
	assert.Empty(t, cfg.Paths.Root)
	assert.Empty(t, cfg.Paths.ConfigFile)
	assert.Empty(t, cfg.Logging.Name)
	assert.Empty(t, cfg.Logging.Dir)
}
