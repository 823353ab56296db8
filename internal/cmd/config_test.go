package cmd

import (
	"bytes"
	"testing"

	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd_Set(t *testing.T) {
	captureOutput(t)
	cfg := testConfig(t)

	tests := []struct {
		key   string
		value string
	}{
		{"auto-check", "false"},
		{"interval", "120"},
		{"notify-updates", "false"},
		{"notify-no-updates", "true"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, execute(t, NewConfigCmd(cfg, discardLogger()), &buf, "set", tt.key, tt.value), tt.key)
	}

	got, err := config.NewViperStore(nil, cfg.File).Load()
	require.NoError(t, err)
	assert.Equal(t, core.Settings{
		AutoCheckEnabled:         false,
		AutoCheckIntervalMinutes: 120,
		NotifyOnUpdates:          false,
		NotifyOnNoUpdates:        true,
	}, got)
}

func TestConfigCmd_SetClampsInterval(t *testing.T) {
	out := captureOutput(t)
	cfg := testConfig(t)

	var buf bytes.Buffer
	require.NoError(t, execute(t, NewConfigCmd(cfg, discardLogger()), &buf, "set", "interval", "5"))

	got, err := config.NewViperStore(nil, cfg.File).Load()
	require.NoError(t, err)
	assert.Equal(t, core.MinCheckIntervalMinutes, got.AutoCheckIntervalMinutes)
	assert.Contains(t, out.String(), "interval clamped to 15 minutes")
}

func TestConfigCmd_SetErrors(t *testing.T) {
	captureOutput(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"set", "colour", "red"}},
		{"bad bool", []string{"set", "auto-check", "sometimes"}},
		{"bad interval", []string{"set", "interval", "hourly"}},
		{"missing value", []string{"set", "interval"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Error(t, execute(t, NewConfigCmd(testConfig(t), discardLogger()), &buf, tt.args...))
		})
	}
}

func TestConfigCmd_Show(t *testing.T) {
	out := captureOutput(t)
	cfg := testConfig(t)

	var buf bytes.Buffer
	require.NoError(t, execute(t, NewConfigCmd(cfg, discardLogger()), &buf, "show"))

	assert.Contains(t, out.String(), cfg.File)
	assert.Contains(t, out.String(), "60 minutes")
}
