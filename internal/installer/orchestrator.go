package installer

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quantmind-br/sysupd/internal/catalog"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/helpers"
	"github.com/rs/zerolog"
)

// SessionState is the lifecycle state of an install session
type SessionState int

const (
	SessionRunning SessionState = iota
	SessionExited
)

func (s SessionState) String() string {
	if s == SessionExited {
		return "exited"
	}
	return "running"
}

// Session is one in-flight interactive installation
type Session struct {
	ID        uuid.UUID
	Distro    core.Distribution
	Command   string
	Pid       int
	StartedAt time.Time
	State     SessionState
	ExitCode  int

	proc helpers.Process
}

// Completion is delivered once when the terminal process terminates
type Completion struct {
	SessionID  uuid.UUID
	Distro     core.Distribution
	StartedAt  time.Time
	FinishedAt time.Time
	ExitCode   int
	Err        error
}

// Duration returns how long the session ran
func (c Completion) Duration() time.Duration {
	return c.FinishedAt.Sub(c.StartedAt)
}

// Orchestrator launches and supervises install sessions. At most one session
// exists at a time.
type Orchestrator struct {
	catalog *catalog.Catalog
	runner  helpers.CommandRunner
	log     *zerolog.Logger
	now     func() time.Time

	mu      sync.Mutex
	session *Session
}

// NewOrchestrator creates an Orchestrator
func NewOrchestrator(cat *catalog.Catalog, runner helpers.CommandRunner, log *zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		catalog: cat,
		runner:  runner,
		log:     log,
		now:     time.Now,
	}
}

// Start spawns the terminal-wrapped install command for d. onExit is called
// exactly once from a monitor goroutine after the process terminates; the
// caller is expected to hand it back to its own event loop and call Finish.
func (o *Orchestrator) Start(d core.Distribution, onExit func(Completion)) (*Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session != nil {
		return nil, fmt.Errorf("%w (pid %d)", core.ErrSessionAlreadyActive, o.session.Pid)
	}

	cmd, err := o.catalog.Install(d)
	if err != nil {
		return nil, err
	}

	o.log.Info().Str("command", cmd.String()).Msg("launching install session")

	proc, err := o.runner.StartCommand(cmd.Name, cmd.Args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrTerminalLaunchFailed, err)
	}

	session := &Session{
		ID:        uuid.New(),
		Distro:    d,
		Command:   cmd.String(),
		Pid:       proc.Pid(),
		StartedAt: o.now(),
		State:     SessionRunning,
		proc:      proc,
	}
	o.session = session

	go o.monitor(session, onExit)

	snapshot := *session
	return &snapshot, nil
}

func (o *Orchestrator) monitor(s *Session, onExit func(Completion)) {
	code, err := s.proc.Wait()

	o.mu.Lock()
	s.State = SessionExited
	s.ExitCode = code
	o.mu.Unlock()

	o.log.Info().
		Str("session", s.ID.String()).
		Int("pid", s.Pid).
		Int("exit_code", code).
		Msg("install session terminated")

	if onExit != nil {
		onExit(Completion{
			SessionID:  s.ID,
			Distro:     s.Distro,
			StartedAt:  s.StartedAt,
			FinishedAt: o.now(),
			ExitCode:   code,
			Err:        err,
		})
	}
}

// Finish releases the session identified by c. It is a no-op for stale
// completions.
func (o *Orchestrator) Finish(c Completion) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil || o.session.ID != c.SessionID {
		return
	}
	o.session.proc = nil
	o.session = nil
}

// Active returns a copy of the current session, if any
func (o *Orchestrator) Active() (Session, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil {
		return Session{}, false
	}
	return *o.session, true
}

// Reboot launches the elevated reboot command without tracking it
func (o *Orchestrator) Reboot() error {
	cmd := o.catalog.Reboot()
	o.log.Info().Str("command", cmd.String()).Msg("launching reboot")

	proc, err := o.runner.StartCommand(cmd.Name, cmd.Args...)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrTerminalLaunchFailed, err)
	}

	// reap in the background so the child does not linger as a zombie
	go func() {
		_, _ = proc.Wait()
	}()
	return nil
}
