package checker

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/quantmind-br/sysupd/internal/catalog"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/helpers"
	"github.com/quantmind-br/sysupd/internal/syspkg"
	"github.com/quantmind-br/sysupd/internal/syspkg/arch"
	"github.com/quantmind-br/sysupd/internal/syspkg/debian"
	"github.com/quantmind-br/sysupd/internal/syspkg/neon"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aptWarning = "\nWARNING: apt does not have a stable CLI interface, use with caution in scripts.\n\n"

func newEngine(runner helpers.CommandRunner, timeout time.Duration) *Engine {
	logger := zerolog.Nop()
	cat := catalog.NewWithRegistry(catalog.DefaultRegistry(), catalog.DefaultOptions(), syspkg.Elevation{Command: "sudo"})
	return NewEngine(cat, runner, timeout, &logger)
}

func outputRunner(stdout, stderr string, err error) *helpers.MockCommandRunner {
	return &helpers.MockCommandRunner{
		RunCommandWithOutputFunc: func(context.Context, string, ...string) (string, string, error) {
			return stdout, stderr, err
		},
	}
}

func TestClassify(t *testing.T) {
	pacman := arch.NewPacmanProvider()
	apt := debian.NewAptProvider()
	pkcon := neon.NewPkconProvider()

	tests := []struct {
		name     string
		provider syspkg.Provider
		stdout   string
		stderr   string
		status   core.CheckStatus
		count    int
	}{
		{"pacman empty", pacman, "", "", core.StatusNoUpdates, 0},
		{"pacman whitespace", pacman, "\n  \n", "", core.StatusNoUpdates, 0},
		{"pacman two updates", pacman, "pkg-a 1.0-1 -> 1.1-1\npkg-b 2.0-1 -> 2.1-1\n", "", core.StatusUpdatesAvailable, 2},
		{"pacman blank stderr", pacman, "pkg-a 1.0-1 -> 1.1-1\n", " \n\t\n", core.StatusUpdatesAvailable, 1},
		{"pacman error", pacman, "", "==> ERROR: Cannot fetch updates\n", core.StatusCheckFailed, 0},
		{"apt header only", apt, "Listing...\n", "", core.StatusNoUpdates, 0},
		{"apt header done", apt, "Listing... Done\n", "", core.StatusNoUpdates, 0},
		{"apt header with warning", apt, "Listing...\n", aptWarning, core.StatusNoUpdates, 0},
		{"apt updates", apt, "Listing...\nvim/noble 2:9.1 amd64 [upgradable from: 2:9.0]\ncurl/noble 8.5 amd64 [upgradable from: 8.4]\n", aptWarning, core.StatusUpdatesAvailable, 2},
		{"apt real error", apt, "", "E: Could not get lock\n", core.StatusCheckFailed, 0},
		{"apt warning plus error", apt, "", aptWarning + "E: Could not get lock\n", core.StatusNoUpdates, 0},
		{"pkcon updates", pkcon, "Getting updates\nNormal  \tfirefox-1.0\n", "", core.StatusUpdatesAvailable, 2},
		{"pkcon warning is an error", pkcon, "", aptWarning, core.StatusCheckFailed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.provider, tt.stdout, tt.stderr)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, tt.count, result.Count)
			if tt.status == core.StatusUpdatesAvailable {
				assert.Equal(t, tt.stdout, result.Listing, "listing must be kept verbatim")
			} else {
				assert.Empty(t, result.Listing)
			}
			if tt.status == core.StatusCheckFailed {
				assert.True(t, errors.Is(result.Err, core.ErrCheckCommandFailed))
				assert.Contains(t, result.Message, strings.TrimSpace(tt.stderr))
			}
		})
	}
}

func TestClassify_CountLaw(t *testing.T) {
	listings := []string{
		"a\n",
		"a\nb\n",
		"a\nb\nc\nd\ne\n",
		"a\nb",
	}

	for _, out := range listings {
		newlines := strings.Count(out, "\n")

		r := Classify(arch.NewPacmanProvider(), out, "")
		assert.Equal(t, newlines, r.Count, "pacman %q", out)

		r = Classify(neon.NewPkconProvider(), out, "")
		assert.Equal(t, newlines, r.Count, "pkcon %q", out)

		aptOut := "Listing...\n" + out
		r = Classify(debian.NewAptProvider(), aptOut, "")
		assert.Equal(t, strings.Count(aptOut, "\n")-1, r.Count, "apt %q", aptOut)
	}
}

func TestEngine_ArchListing(t *testing.T) {
	out := "pkg-a 1.0-1 -> 1.1-1\npkg-b 2.0-1 -> 2.1-1\n"
	runner := outputRunner(out, "", nil)
	runner.RunCommandWithOutputFunc = func(_ context.Context, name string, args ...string) (string, string, error) {
		assert.Equal(t, "checkupdates", name)
		assert.Empty(t, args)
		return out, "", nil
	}

	result := newEngine(runner, 0).Check(context.Background(), core.DistroArch)

	assert.Equal(t, core.StatusUpdatesAvailable, result.Status)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, out, result.Listing)
	assert.Equal(t, core.DistroArch, result.Distro)
	assert.False(t, result.CheckedAt.IsZero())
}

func TestEngine_UbuntuWarningFiltered(t *testing.T) {
	runner := outputRunner("Listing...\n", "WARNING: apt does not have a stable CLI interface, use with caution in scripts.\n", nil)

	result := newEngine(runner, 0).Check(context.Background(), core.DistroUbuntu)

	assert.Equal(t, core.StatusNoUpdates, result.Status)
}

func TestEngine_UnknownSpawnsNothing(t *testing.T) {
	called := false
	runner := &helpers.MockCommandRunner{
		RunCommandWithOutputFunc: func(context.Context, string, ...string) (string, string, error) {
			called = true
			return "", "", nil
		},
	}

	result := newEngine(runner, 0).Check(context.Background(), core.DistroUnknown)

	assert.Equal(t, core.StatusCheckFailed, result.Status)
	assert.Equal(t, "unsupported distribution", result.Message)
	assert.True(t, errors.Is(result.Err, core.ErrUnsupportedDistribution))
	assert.False(t, called)
}

func TestEngine_Idempotent(t *testing.T) {
	runner := outputRunner("Listing...\nvim/noble 9.1 amd64\n", aptWarning, nil)
	engine := newEngine(runner, 0)

	first := engine.Check(context.Background(), core.DistroDebian)
	second := engine.Check(context.Background(), core.DistroDebian)

	assert.True(t, first.Equal(second))
	assert.Equal(t, 1, first.Count)
}

func TestEngine_NonZeroExitIsNotFailure(t *testing.T) {
	exitErr := exec.Command("sh", "-c", "exit 2").Run()
	require.Error(t, exitErr)

	runner := outputRunner("", "", exitErr)
	result := newEngine(runner, 0).Check(context.Background(), core.DistroArch)

	assert.Equal(t, core.StatusNoUpdates, result.Status)
}

func TestEngine_StartFailure(t *testing.T) {
	runner := outputRunner("", "", errors.New(`exec: "checkupdates": executable file not found in $PATH`))

	result := newEngine(runner, 0).Check(context.Background(), core.DistroArch)

	assert.Equal(t, core.StatusCheckFailed, result.Status)
	assert.True(t, errors.Is(result.Err, core.ErrCheckCommandFailed))
	assert.Contains(t, result.Message, "executable file not found")
}

func TestEngine_Timeout(t *testing.T) {
	runner := &helpers.MockCommandRunner{
		RunCommandWithOutputFunc: func(ctx context.Context, _ string, _ ...string) (string, string, error) {
			<-ctx.Done()
			return "", "", ctx.Err()
		},
	}

	result := newEngine(runner, 20*time.Millisecond).Check(context.Background(), core.DistroNeon)

	assert.Equal(t, core.StatusCheckFailed, result.Status)
	assert.True(t, errors.Is(result.Err, core.ErrCheckTimedOut))
}
