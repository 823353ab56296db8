package installer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/quantmind-br/sysupd/internal/catalog"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/helpers"
	"github.com/quantmind-br/sysupd/internal/syspkg"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spawnRecorder struct {
	mu    sync.Mutex
	argvs [][]string
	procs []*helpers.MockProcess
	err   error
}

func (s *spawnRecorder) runner() *helpers.MockCommandRunner {
	return &helpers.MockCommandRunner{
		StartCommandFunc: func(name string, args ...string) (helpers.Process, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.err != nil {
				return nil, s.err
			}
			s.argvs = append(s.argvs, append([]string{name}, args...))
			proc := helpers.NewMockProcess(1000 + len(s.procs))
			s.procs = append(s.procs, proc)
			return proc, nil
		},
	}
}

func (s *spawnRecorder) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.argvs)
}

func newOrchestrator(rec *spawnRecorder) *Orchestrator {
	logger := zerolog.Nop()
	cat := catalog.NewWithRegistry(catalog.DefaultRegistry(), catalog.DefaultOptions(), syspkg.Elevation{Command: "sudo"})
	return NewOrchestrator(cat, rec.runner(), &logger)
}

func TestOrchestrator_StartAndComplete(t *testing.T) {
	rec := &spawnRecorder{}
	o := newOrchestrator(rec)

	done := make(chan Completion, 1)
	session, err := o.Start(core.DistroArch, func(c Completion) { done <- c })
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"konsole", "-e", "sudo", "pacman", "-Syu"}}, rec.argvs)
	assert.Equal(t, SessionRunning, session.State)
	assert.Equal(t, 1000, session.Pid)

	active, ok := o.Active()
	assert.True(t, ok)
	assert.Equal(t, session.ID, active.ID)

	rec.procs[0].Exit(1)

	var c Completion
	select {
	case c = <-done:
	case <-time.After(time.Second):
		t.Fatal("completion callback not invoked")
	}
	assert.Equal(t, session.ID, c.SessionID)
	assert.Equal(t, 1, c.ExitCode)
	assert.Equal(t, core.DistroArch, c.Distro)

	o.Finish(c)
	_, ok = o.Active()
	assert.False(t, ok)
}

func TestOrchestrator_SessionAlreadyActive(t *testing.T) {
	rec := &spawnRecorder{}
	o := newOrchestrator(rec)

	_, err := o.Start(core.DistroUbuntu, nil)
	require.NoError(t, err)

	_, err = o.Start(core.DistroUbuntu, nil)
	assert.True(t, errors.Is(err, core.ErrSessionAlreadyActive))
	assert.Equal(t, 1, rec.count(), "no second terminal may be spawned")

	rec.procs[0].Exit(0)
}

func TestOrchestrator_AllowsNewSessionAfterFinish(t *testing.T) {
	rec := &spawnRecorder{}
	o := newOrchestrator(rec)

	done := make(chan Completion, 1)
	_, err := o.Start(core.DistroNeon, func(c Completion) { done <- c })
	require.NoError(t, err)
	rec.procs[0].Exit(0)
	o.Finish(<-done)

	_, err = o.Start(core.DistroNeon, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, rec.count())
	rec.procs[1].Exit(0)
}

func TestOrchestrator_StaleFinishIgnored(t *testing.T) {
	rec := &spawnRecorder{}
	o := newOrchestrator(rec)

	_, err := o.Start(core.DistroArch, nil)
	require.NoError(t, err)

	o.Finish(Completion{})
	_, ok := o.Active()
	assert.True(t, ok)
	rec.procs[0].Exit(0)
}

func TestOrchestrator_TerminalLaunchFailed(t *testing.T) {
	rec := &spawnRecorder{err: errors.New(`exec: "konsole": executable file not found in $PATH`)}
	o := newOrchestrator(rec)

	_, err := o.Start(core.DistroArch, nil)
	assert.True(t, errors.Is(err, core.ErrTerminalLaunchFailed))

	_, ok := o.Active()
	assert.False(t, ok, "install state must be unchanged")
}

func TestOrchestrator_UnsupportedDistribution(t *testing.T) {
	rec := &spawnRecorder{}
	o := newOrchestrator(rec)

	_, err := o.Start(core.DistroUnknown, nil)
	assert.True(t, errors.Is(err, core.ErrUnsupportedDistribution))
	assert.Equal(t, 0, rec.count())
}

func TestOrchestrator_Reboot(t *testing.T) {
	rec := &spawnRecorder{}
	o := newOrchestrator(rec)

	require.NoError(t, o.Reboot())
	assert.Equal(t, [][]string{{"konsole", "-e", "sudo", "reboot"}}, rec.argvs)
	rec.procs[0].Exit(0)

	_, ok := o.Active()
	assert.False(t, ok, "reboot is not an install session")

	failing := newOrchestrator(&spawnRecorder{err: errors.New("boom")})
	assert.True(t, errors.Is(failing.Reboot(), core.ErrTerminalLaunchFailed))
}
