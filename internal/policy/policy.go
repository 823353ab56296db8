package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quantmind-br/sysupd/internal/core"
)

// Kind is the UI action chosen for a check result
type Kind int

const (
	Silent Kind = iota
	Notification
	Prompt
)

func (k Kind) String() string {
	switch k {
	case Notification:
		return "notification"
	case Prompt:
		return "prompt"
	default:
		return "silent"
	}
}

// Severity of a passive notification
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "info"
	}
}

// Choice is the user's answer to the update prompt
type Choice int

const (
	ChoiceLater Choice = iota
	ChoiceInstallNow
	ChoiceViewList
)

func (c Choice) String() string {
	switch c {
	case ChoiceInstallNow:
		return "Install Now"
	case ChoiceViewList:
		return "View List"
	default:
		return "Later"
	}
}

// PromptOptions is the fixed option set of the update prompt
var PromptOptions = []Choice{ChoiceInstallNow, ChoiceViewList, ChoiceLater}

// Decision describes what the presentation layer should do
type Decision struct {
	Kind     Kind
	Title    string
	Body     string
	Severity Severity
	Options  []Choice
}

// Decide maps a check result and the user's settings to a UI action.
// Failures always notify and never prompt.
func Decide(result core.CheckResult, settings core.Settings) Decision {
	switch result.Status {
	case core.StatusCheckFailed:
		if errors.Is(result.Err, core.ErrUnsupportedDistribution) {
			return Decision{
				Kind:     Notification,
				Title:    "Error",
				Body:     "Unsupported distribution",
				Severity: SeverityWarning,
			}
		}
		return Decision{
			Kind:     Notification,
			Title:    "Error",
			Body:     failureBody(result),
			Severity: SeverityCritical,
		}

	case core.StatusNoUpdates:
		if !settings.NotifyOnNoUpdates {
			return Decision{Kind: Silent}
		}
		return Decision{
			Kind:     Notification,
			Title:    "Update Checker",
			Body:     "System is up to date",
			Severity: SeverityInfo,
		}

	case core.StatusUpdatesAvailable:
		if !settings.NotifyOnUpdates {
			return Decision{Kind: Silent}
		}
		return Decision{
			Kind:    Prompt,
			Title:   "Updates Available",
			Body:    fmt.Sprintf("%d updates are available", result.Count),
			Options: PromptOptions,
		}
	}

	return Decision{Kind: Silent}
}

func failureBody(result core.CheckResult) string {
	if result.Message == "" {
		return "Update check failed"
	}
	return "Update check failed: " + strings.TrimPrefix(result.Message, core.ErrCheckCommandFailed.Error()+": ")
}
