package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/sysupd/internal/app"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/notify"
	"github.com/quantmind-br/sysupd/internal/policy"
	"github.com/rs/zerolog"
)

const notifyTimeout = 5 * time.Second

var _ app.Surface = (*Terminal)(nil)

// TerminalOptions configure a Terminal surface
type TerminalOptions struct {
	Out         io.Writer
	Progress    io.Writer
	Notifier    notify.Notifier
	Interactive bool
	Countdown   int
	Tick        time.Duration
	// ShowTooltips prints every tooltip change, used by the long-running
	// watcher where the tooltip is the status line.
	ShowTooltips bool
}

// Terminal renders the controller's surface on a terminal: colored status
// lines, promptui dialogs, a progress bar countdown and tablewriter tables.
type Terminal struct {
	opts TerminalOptions
	log  *zerolog.Logger

	mu      sync.Mutex
	icon    core.TrayState
	tooltip string
	menu    map[app.MenuAction]bool

	countdowns sync.WaitGroup

	selectFn  func(label string, items []string) (int, string, error)
	confirmFn func(label string) (bool, error)
}

// NewTerminal creates a Terminal surface
func NewTerminal(opts TerminalOptions, log *zerolog.Logger) *Terminal {
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Tick == 0 {
		opts.Tick = time.Second
	}
	return &Terminal{
		opts:      opts,
		log:       log,
		menu:      make(map[app.MenuAction]bool),
		selectFn:  SelectPrompt,
		confirmFn: ConfirmPrompt,
	}
}

// SetIconState implements app.Surface
func (t *Terminal) SetIconState(state core.TrayState) {
	t.mu.Lock()
	changed := t.icon != state
	t.icon = state
	t.mu.Unlock()

	if changed {
		t.log.Debug().Str("icon", state.String()).Msg("tray state changed")
	}
}

// SetTooltip implements app.Surface
func (t *Terminal) SetTooltip(text string) {
	t.mu.Lock()
	changed := t.tooltip != text
	t.tooltip = text
	icon := t.icon
	t.mu.Unlock()

	if !changed || !t.opts.ShowTooltips {
		return
	}
	c := Success
	switch icon.Kind {
	case core.TrayIdleUpdatesAvailable:
		c = Warning
	case core.TrayInstalling:
		c = Highlight
	}
	c.Fprintf(t.opts.Out, "%s %s\n", Bullet, text)
}

// SetMenuActionEnabled implements app.Surface
func (t *Terminal) SetMenuActionEnabled(action app.MenuAction, enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.menu[action] = enabled
}

// Enabled reports the last state set for action
func (t *Terminal) Enabled(action app.MenuAction) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.menu[action]
}

// State returns the current tray state and tooltip
func (t *Terminal) State() (core.TrayState, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.icon, t.tooltip
}

// ShowNotification implements app.Surface. The notification is printed and
// forwarded to the desktop notifier.
func (t *Terminal) ShowNotification(title, body string, severity policy.Severity) {
	switch severity {
	case policy.SeverityCritical:
		Error.Fprintf(t.opts.Out, "%s %s: %s\n", CrossMark, title, body)
	case policy.SeverityWarning:
		Warning.Fprintf(t.opts.Out, "%s: %s\n", title, body)
	default:
		Info.Fprintf(t.opts.Out, "%s %s: %s\n", Arrow, title, body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := t.opts.Notifier.Notify(ctx, notify.Notification{Title: title, Body: body, Severity: severity}); err != nil {
		t.log.Debug().Err(err).Msg("desktop notification not delivered")
	}
}

// ShowBlockingPrompt implements app.Surface. Without a terminal the prompt
// degrades to a notification and the answer is ChoiceLater.
func (t *Terminal) ShowBlockingPrompt(decision policy.Decision) policy.Choice {
	if !t.opts.Interactive {
		t.ShowNotification(decision.Title, decision.Body, policy.SeverityInfo)
		return policy.ChoiceLater
	}

	labels := make([]string, len(decision.Options))
	for i, option := range decision.Options {
		labels[i] = option.String()
	}

	index, _, err := t.selectFn(fmt.Sprintf("%s: %s", decision.Title, decision.Body), labels)
	if err != nil || index < 0 || index >= len(decision.Options) {
		t.log.Debug().Err(err).Msg("update prompt dismissed")
		return policy.ChoiceLater
	}
	return decision.Options[index]
}

// ShowCountdown implements app.Surface. The bar renders in the background.
func (t *Terminal) ShowCountdown() {
	if t.opts.Countdown <= 0 || t.opts.Progress == nil {
		return
	}

	countdown := NewCountdown(t.opts.Progress, t.opts.Countdown, t.opts.Tick, "Installing updates")
	t.countdowns.Add(1)
	go func() {
		defer t.countdowns.Done()
		if err := countdown.Run(); err != nil {
			t.log.Debug().Err(err).Msg("countdown render failed")
		}
	}()
}

// Wait blocks until running countdowns are finished
func (t *Terminal) Wait() {
	t.countdowns.Wait()
}

// ShowListing implements app.Surface
func (t *Terminal) ShowListing(listing string) bool {
	rows := ListingRows(listing)
	if len(rows) == 0 {
		Info.Fprintf(t.opts.Out, "%s No updates listed\n", Arrow)
		return false
	}

	Bold.Fprintln(t.opts.Out, "The following updates are available:")
	RenderListing(t.opts.Out, rows)

	if !t.opts.Interactive {
		return false
	}
	ok, err := t.confirmFn("Install updates now")
	if err != nil {
		t.log.Debug().Err(err).Msg("listing closed")
		return false
	}
	return ok
}

// ShowCompletionDialog implements app.Surface
func (t *Terminal) ShowCompletionDialog() bool {
	Success.Fprintf(t.opts.Out, "%s Update session finished\n", CheckMark)
	if !t.opts.Interactive {
		return false
	}
	ok, err := t.confirmFn("Reboot now")
	if err != nil {
		t.log.Debug().Err(err).Msg("completion dialog closed")
		return false
	}
	return ok
}

// ListingRows splits a raw listing into package/details rows, dropping
// blank lines and the apt header.
func ListingRows(listing string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(listing, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, core.AptListingHeader) {
			continue
		}
		name, details, _ := strings.Cut(line, " ")
		rows = append(rows, []string{name, strings.TrimSpace(details)})
	}
	return rows
}

// RenderListing prints rows as a numbered table
func RenderListing(w io.Writer, rows [][]string) {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Package", "Details"}),
		tablewriter.WithAlignment(tw.MakeAlign(3, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
	)

	for i, row := range rows {
		table.Append(fmt.Sprintf("%d", i+1), row[0], row[1])
	}

	table.Render()
}
