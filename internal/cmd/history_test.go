package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/quantmind-br/sysupd/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCmd_Empty(t *testing.T) {
	out := captureOutput(t)
	cfg := testConfig(t)

	var buf bytes.Buffer
	require.NoError(t, execute(t, NewHistoryCmd(cfg, discardLogger()), &buf))
	assert.Contains(t, out.String(), "No checks recorded")

	out.Reset()
	require.NoError(t, execute(t, NewHistoryCmd(cfg, discardLogger()), &buf, "--installs"))
	assert.Contains(t, out.String(), "No install sessions recorded")
}

func TestHistoryCmd_Checks(t *testing.T) {
	captureOutput(t)
	cfg := testConfig(t)
	ctx := context.Background()

	database, err := db.New(ctx, cfg.Paths.DBFile)
	require.NoError(t, err)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, status := range []string{"no-updates", "updates-available", "check-failed"} {
		require.NoError(t, database.RecordCheck(ctx, &db.Check{
			CheckedAt: base.Add(time.Duration(i) * time.Hour),
			Distro:    "arch",
			Status:    status,
			Count:     i,
		}))
	}
	require.NoError(t, database.Close())

	var buf bytes.Buffer
	require.NoError(t, execute(t, NewHistoryCmd(cfg, discardLogger()), &buf))
	assert.Contains(t, buf.String(), "updates-available")
	assert.Contains(t, buf.String(), "check-failed")

	buf.Reset()
	require.NoError(t, execute(t, NewHistoryCmd(cfg, discardLogger()), &buf, "--json", "--limit", "2"))

	var checks []db.Check
	require.NoError(t, json.Unmarshal(buf.Bytes(), &checks))
	require.Len(t, checks, 2)
	assert.Equal(t, "check-failed", checks[0].Status)
	assert.Equal(t, "updates-available", checks[1].Status)
}

func TestHistoryCmd_Installs(t *testing.T) {
	captureOutput(t)
	cfg := testConfig(t)
	ctx := context.Background()

	database, err := db.New(ctx, cfg.Paths.DBFile)
	require.NoError(t, err)
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, database.StartInstall(ctx, &db.Install{
		SessionID: "0f8fad5b-d9cb-469f-a165-70867728950e",
		Distro:    "arch",
		Command:   "konsole -e sudo pacman -Syu",
		StartedAt: started,
	}))
	require.NoError(t, database.FinishInstall(ctx, "0f8fad5b-d9cb-469f-a165-70867728950e", started.Add(90*time.Second), 0, true))
	require.NoError(t, database.Close())

	var buf bytes.Buffer
	require.NoError(t, execute(t, NewHistoryCmd(cfg, discardLogger()), &buf, "--installs"))
	assert.Contains(t, buf.String(), "0f8fad5b")
	assert.Contains(t, buf.String(), "1m30s")
}
