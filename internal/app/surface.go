package app

import (
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/policy"
)

// MenuAction identifies a user-triggerable action
type MenuAction string

const (
	ActionCheck   MenuAction = "check"
	ActionList    MenuAction = "list"
	ActionInstall MenuAction = "install"
)

// Surface is the presentation layer driven by the controller. All methods
// are called from the controller's goroutine only.
type Surface interface {
	SetIconState(state core.TrayState)
	SetTooltip(text string)
	SetMenuActionEnabled(action MenuAction, enabled bool)
	ShowNotification(title, body string, severity policy.Severity)
	// ShowBlockingPrompt returns the chosen option; dismissal is ChoiceLater.
	ShowBlockingPrompt(decision policy.Decision) policy.Choice
	// ShowCountdown starts the cosmetic countdown and returns immediately.
	ShowCountdown()
	// ShowListing displays the raw listing and reports whether the user
	// asked to install from it.
	ShowListing(listing string) bool
	// ShowCompletionDialog reports whether a reboot was requested.
	ShowCompletionDialog() bool
}
