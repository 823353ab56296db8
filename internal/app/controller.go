// Package app hosts the update controller: a single goroutine that owns all
// mutable state and reacts to timer, user and process events.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/quantmind-br/sysupd/internal/config"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/installer"
	"github.com/quantmind-br/sysupd/internal/policy"
	"github.com/quantmind-br/sysupd/internal/scheduler"
	"github.com/rs/zerolog"
)

const (
	eventQueueSize = 16

	reasonManual      = "manual"
	reasonPostInstall = "post-install"
)

// Checker runs one blocking update check
type Checker interface {
	Check(ctx context.Context, d core.Distribution) core.CheckResult
}

// Installer supervises interactive install sessions
type Installer interface {
	Start(d core.Distribution, onExit func(installer.Completion)) (*installer.Session, error)
	Finish(c installer.Completion)
	Active() (installer.Session, bool)
	Reboot() error
}

// State is the controller's mutable record. Result is the last successful
// check; failed checks leave it untouched and set Failure instead.
type State struct {
	Distro   core.Distribution
	Result   core.CheckResult
	Known    bool
	Failure  error
	Settings core.Settings
}

// UpdatesAvailable reports whether the last known result has pending updates
func (s State) UpdatesAvailable() bool {
	return s.Known && s.Result.Status == core.StatusUpdatesAvailable
}

// Deps are the collaborators of a Controller
type Deps struct {
	Detector  core.Detector
	Checker   Checker
	Installer Installer
	Scheduler *scheduler.Scheduler
	Store     config.SettingsStore
	Surface   Surface
	History   HistoryRecorder
	Log       *zerolog.Logger
}

// Options tune the event loop
type Options struct {
	// FirstCheckDelay delays the first-launch check
	FirstCheckDelay time.Duration
	// SkipFirstCheck disables the first-launch check
	SkipFirstCheck bool
	// ExitWhenIdle makes Run return once the queued work has been handled
	// and no check or install is in flight
	ExitWhenIdle bool
	// WatchSettings re-applies external edits of the settings file
	WatchSettings bool
}

// Controller is the single mutator of State
type Controller struct {
	deps Deps
	opts Options
	log  *zerolog.Logger

	state    State
	checking bool
	handled  bool
	// recheck is set when a post-install check found another check in
	// flight; that check's result predates the install and is discarded
	recheck bool

	events      chan func(context.Context)
	checkDone   chan core.CheckResult
	installDone chan installer.Completion
	done        chan struct{}
}

// New creates a Controller. Settings start at defaults until Run loads them.
func New(deps Deps, opts Options) *Controller {
	if deps.History == nil {
		deps.History = nopHistory{}
	}
	return &Controller{
		deps:        deps,
		opts:        opts,
		log:         deps.Log,
		state:       State{Settings: core.DefaultSettings()},
		events:      make(chan func(context.Context), eventQueueSize),
		checkDone:   make(chan core.CheckResult, 1),
		installDone: make(chan installer.Completion, 1),
		done:        make(chan struct{}),
	}
}

// Prime seeds the last known result before Run, e.g. from a check the
// caller already performed. It must not be called once Run has started.
func (c *Controller) Prime(result core.CheckResult) {
	if result.Distro != "" {
		c.state.Distro = result.Distro
	}
	if result.Status != core.StatusCheckFailed {
		c.state.Result = result
		c.state.Known = true
	}
}

// State returns the controller state. Only safe to call after Run returned.
func (c *Controller) State() State {
	return c.state
}

// RequestCheck asks for an immediate update check
func (c *Controller) RequestCheck() {
	c.post(func(ctx context.Context) {
		c.startCheck(ctx, reasonManual)
	})
}

// RequestInstall asks for an interactive install session
func (c *Controller) RequestInstall() {
	c.post(c.install)
}

// RequestList asks to display the last known listing
func (c *Controller) RequestList() {
	c.post(c.showList)
}

// SaveSettings persists settings and re-applies them to the scheduler
func (c *Controller) SaveSettings(s core.Settings) {
	c.post(func(context.Context) {
		s = s.Normalize()
		if err := c.deps.Store.Save(s); err != nil {
			c.log.Error().Err(err).Msg("failed to save settings")
			c.deps.Surface.ShowNotification("Error", "Failed to save settings", policy.SeverityCritical)
			return
		}
		c.applySettings(s)
	})
}

// ReloadSettings re-reads the settings store
func (c *Controller) ReloadSettings() {
	c.post(func(context.Context) {
		s, err := c.deps.Store.Load()
		if err != nil {
			c.log.Warn().Err(err).Msg("failed to reload settings")
			return
		}
		c.applySettings(s)
	})
}

func (c *Controller) post(ev func(context.Context)) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// Run owns the event loop until ctx is cancelled or, with ExitWhenIdle, the
// queued work is finished.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	defer c.deps.Scheduler.Stop()

	settings, err := c.deps.Store.Load()
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to load settings, using defaults")
		settings = core.DefaultSettings()
	}
	c.state.Settings = settings.Normalize()

	c.refreshTray()
	c.deps.Surface.SetMenuActionEnabled(ActionCheck, true)

	if !c.opts.SkipFirstCheck {
		c.deps.Scheduler.Once(c.opts.FirstCheckDelay, scheduler.ReasonFirstLaunch)
	}
	if !c.opts.ExitWhenIdle {
		c.deps.Scheduler.Apply(c.state.Settings.AutoCheckEnabled, c.state.Settings.Interval())
	}

	if c.opts.WatchSettings {
		stop, err := c.deps.Store.Watch(func(s core.Settings) {
			c.post(func(context.Context) {
				c.log.Info().Msg("settings file changed")
				c.applySettings(s)
			})
		})
		if err != nil {
			c.log.Warn().Err(err).Msg("settings watch unavailable")
		} else {
			defer stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-c.deps.Scheduler.C():
			c.startCheck(ctx, string(t.Reason))
		case ev := <-c.events:
			ev(ctx)
		case result := <-c.checkDone:
			c.applyCheckResult(ctx, result)
		case completion := <-c.installDone:
			c.finishInstall(ctx, completion)
		}
		c.handled = true

		if c.opts.ExitWhenIdle && c.idle() {
			return nil
		}
	}
}

func (c *Controller) idle() bool {
	if !c.handled || c.checking || c.recheck || len(c.events) > 0 {
		return false
	}
	_, installing := c.deps.Installer.Active()
	return !installing
}

// startCheck detects the distribution and runs the check on a worker
// goroutine. Requests arriving while a check is in flight are dropped.
func (c *Controller) startCheck(ctx context.Context, reason string) {
	if c.checking {
		if reason == reasonPostInstall {
			c.recheck = true
		}
		c.log.Debug().Str("reason", reason).Msg("check already in flight, request coalesced")
		return
	}
	c.checking = true

	d := c.deps.Detector.Detect()
	c.state.Distro = d
	c.log.Info().Str("reason", reason).Str("distro", string(d)).Msg("checking for updates")

	go func() {
		result := c.deps.Checker.Check(ctx, d)
		select {
		case c.checkDone <- result:
		case <-c.done:
		}
	}()
}

// applyCheckResult is the only place the known availability changes
func (c *Controller) applyCheckResult(ctx context.Context, result core.CheckResult) {
	c.checking = false

	if err := c.deps.History.RecordCheck(ctx, result); err != nil {
		c.log.Warn().Err(err).Msg("failed to record check")
	}

	if c.recheck {
		c.recheck = false
		c.log.Debug().Str("status", result.Status.String()).Msg("discarding check started before install finished")
		c.startCheck(ctx, reasonPostInstall)
		return
	}

	if result.Status == core.StatusCheckFailed {
		c.state.Failure = result.Err
		c.log.Error().Err(result.Err).Str("distro", string(result.Distro)).Msg("update check failed")
	} else {
		c.state.Failure = nil
		c.state.Result = result
		c.state.Known = true
		c.refreshTray()
		c.log.Info().
			Str("status", result.Status.String()).
			Int("count", result.Count).
			Msg("update check applied")
	}

	decision := policy.Decide(result, c.state.Settings)
	switch decision.Kind {
	case policy.Notification:
		c.deps.Surface.ShowNotification(decision.Title, decision.Body, decision.Severity)
	case policy.Prompt:
		switch choice := c.deps.Surface.ShowBlockingPrompt(decision); choice {
		case policy.ChoiceInstallNow:
			c.install(ctx)
		case policy.ChoiceViewList:
			c.showList(ctx)
		default:
			c.log.Debug().Str("choice", choice.String()).Msg("update prompt dismissed")
		}
	}
}

func (c *Controller) showList(ctx context.Context) {
	if !c.state.UpdatesAvailable() {
		c.log.Debug().Msg("no listing to show")
		return
	}
	if c.deps.Surface.ShowListing(c.state.Result.Listing) {
		c.install(ctx)
	}
}

func (c *Controller) install(ctx context.Context) {
	if !c.state.UpdatesAvailable() {
		c.deps.Surface.ShowNotification("Update Checker", "No updates to install", policy.SeverityInfo)
		return
	}

	session, err := c.deps.Installer.Start(c.state.Distro, func(completion installer.Completion) {
		select {
		case c.installDone <- completion:
		case <-c.done:
		}
	})
	if err != nil {
		c.log.Error().Err(err).Msg("install not started")
		switch {
		case errors.Is(err, core.ErrSessionAlreadyActive):
			c.deps.Surface.ShowNotification("Update Checker", "An update session is already running", policy.SeverityInfo)
		case errors.Is(err, core.ErrUnsupportedDistribution):
			c.deps.Surface.ShowNotification("Error", "Unsupported distribution", policy.SeverityWarning)
		default:
			c.deps.Surface.ShowNotification("Error", "Failed to launch terminal", policy.SeverityCritical)
		}
		return
	}

	if err := c.deps.History.RecordInstallStart(ctx, *session); err != nil {
		c.log.Warn().Err(err).Msg("failed to record install start")
	}

	c.deps.Surface.ShowCountdown()
	c.refreshTray()
}

func (c *Controller) finishInstall(ctx context.Context, completion installer.Completion) {
	c.deps.Installer.Finish(completion)
	c.refreshTray()

	c.log.Info().
		Str("session", completion.SessionID.String()).
		Int("exit_code", completion.ExitCode).
		Dur("duration", completion.Duration()).
		Msg("install session finished")

	reboot := c.deps.Surface.ShowCompletionDialog()
	if reboot {
		if err := c.deps.Installer.Reboot(); err != nil {
			c.log.Error().Err(err).Msg("reboot not started")
			c.deps.Surface.ShowNotification("Error", "Failed to launch reboot", policy.SeverityCritical)
		}
	}

	if err := c.deps.History.RecordInstallFinish(ctx, completion, reboot); err != nil {
		c.log.Warn().Err(err).Msg("failed to record install finish")
	}

	c.startCheck(ctx, reasonPostInstall)
}

func (c *Controller) applySettings(s core.Settings) {
	s = s.Normalize()
	c.state.Settings = s
	if !c.opts.ExitWhenIdle {
		c.deps.Scheduler.Apply(s.AutoCheckEnabled, s.Interval())
	}
	c.log.Info().
		Bool("auto_check", s.AutoCheckEnabled).
		Int("interval_minutes", s.AutoCheckIntervalMinutes).
		Msg("settings applied")
}

func (c *Controller) refreshTray() {
	_, installing := c.deps.Installer.Active()
	tray := core.DeriveTrayState(c.state.Result, installing)

	c.deps.Surface.SetIconState(tray)
	c.deps.Surface.SetTooltip(tray.Tooltip())
	c.deps.Surface.SetMenuActionEnabled(ActionList, c.state.UpdatesAvailable())
	c.deps.Surface.SetMenuActionEnabled(ActionInstall, c.state.UpdatesAvailable() && !installing)
}
