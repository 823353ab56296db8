package app

import (
	"context"

	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/db"
	"github.com/quantmind-br/sysupd/internal/installer"
)

// HistoryRecorder persists checks and install sessions
type HistoryRecorder interface {
	RecordCheck(ctx context.Context, result core.CheckResult) error
	RecordInstallStart(ctx context.Context, session installer.Session) error
	RecordInstallFinish(ctx context.Context, completion installer.Completion, rebootRequested bool) error
}

// DBHistory records history in the sqlite database
type DBHistory struct {
	db *db.DB
}

// NewDBHistory creates a HistoryRecorder backed by database
func NewDBHistory(database *db.DB) *DBHistory {
	return &DBHistory{db: database}
}

// RecordCheck implements HistoryRecorder
func (h *DBHistory) RecordCheck(ctx context.Context, result core.CheckResult) error {
	return h.db.RecordCheck(ctx, &db.Check{
		CheckedAt: result.CheckedAt,
		Distro:    string(result.Distro),
		Status:    result.Status.String(),
		Count:     result.Count,
		Listing:   result.Listing,
		Message:   result.Message,
	})
}

// RecordInstallStart implements HistoryRecorder
func (h *DBHistory) RecordInstallStart(ctx context.Context, session installer.Session) error {
	return h.db.StartInstall(ctx, &db.Install{
		SessionID: session.ID.String(),
		Distro:    string(session.Distro),
		Command:   session.Command,
		StartedAt: session.StartedAt,
	})
}

// RecordInstallFinish implements HistoryRecorder
func (h *DBHistory) RecordInstallFinish(ctx context.Context, c installer.Completion, rebootRequested bool) error {
	return h.db.FinishInstall(ctx, c.SessionID.String(), c.FinishedAt, c.ExitCode, rebootRequested)
}

type nopHistory struct{}

func (nopHistory) RecordCheck(context.Context, core.CheckResult) error { return nil }

func (nopHistory) RecordInstallStart(context.Context, installer.Session) error { return nil }

func (nopHistory) RecordInstallFinish(context.Context, installer.Completion, bool) error {
	return nil
}
