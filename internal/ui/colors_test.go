package ui

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

// captureOutput redirects the Print helpers to buffers
func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr, oldNoColor := Output, ErrOutput, color.NoColor
	Output, ErrOutput, color.NoColor = &out, &errOut, true
	t.Cleanup(func() {
		Output, ErrOutput, color.NoColor = oldOut, oldErr, oldNoColor
	})
	return &out, &errOut
}

func TestInitColors(t *testing.T) {
	t.Run("never", func(t *testing.T) {
		color.NoColor = false
		InitColors("never")
		assert.True(t, color.NoColor)
	})

	t.Run("always", func(t *testing.T) {
		color.NoColor = true
		InitColors("always")
		assert.False(t, color.NoColor)
	})

	t.Run("auto with NO_COLOR", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		color.NoColor = false
		InitColors("auto")
		assert.True(t, color.NoColor)
	})

	t.Run("auto with TERM=dumb", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("TERM", "dumb")
		color.NoColor = false
		InitColors("auto")
		assert.True(t, color.NoColor)
	})
}

func TestPrintFunctions(t *testing.T) {
	out, errOut := captureOutput(t)

	PrintSuccess("test %s", "message")
	PrintInfo("info %d", 1)
	PrintKeyValue("Distribution", "Arch Linux")
	PrintList([]string{"pkg-a"})

	assert.Contains(t, out.String(), "test message")
	assert.Contains(t, out.String(), "info 1")
	assert.Contains(t, out.String(), "Distribution: Arch Linux")
	assert.Contains(t, out.String(), "pkg-a")

	PrintError("failed: %s", "boom")
	PrintWarning("careful")

	assert.Contains(t, errOut.String(), "Error: failed: boom")
	assert.Contains(t, errOut.String(), "Warning: careful")
}

func TestPrintHeader(t *testing.T) {
	out, _ := captureOutput(t)

	PrintHeader("History")

	assert.Contains(t, out.String(), "History")
	assert.Contains(t, out.String(), "────")
}

func TestColorizeStatus(t *testing.T) {
	captureOutput(t)

	for _, status := range []string{"updates-available", "no-updates", "check-failed", "other"} {
		t.Run(status, func(t *testing.T) {
			assert.Equal(t, status, ColorizeStatus(status))
		})
	}
}

func TestSprintOK(t *testing.T) {
	assert.Equal(t, CheckMark, SprintOK(true))
	assert.Equal(t, CrossMark, SprintOK(false))
}
