package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FlagOverridesEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "8081")
	t.Setenv("STORE_DRIVER", "memory")
	t.Cleanup(func() { httpPort = 0 })

	require.NoError(t, serveCmd.Flags().Set("port", "9090"))
	t.Cleanup(func() { serveCmd.Flags().Lookup("port").Changed = false })

	cfg, err := loadConfig(serveCmd)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "memory", cfg.StoreDriver)
}

func TestLoadConfig_InvalidFlagRejected(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Cleanup(func() { httpPort = 0 })

	require.NoError(t, serveCmd.Flags().Set("port", "70000"))
	t.Cleanup(func() { serveCmd.Flags().Lookup("port").Changed = false })

	_, err := loadConfig(serveCmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid flags")
}

func TestCommands_Registered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["tui"])
}
