package core

import (
	"fmt"
	"strings"
	"time"
)

// Distribution identifies the host's package ecosystem
type Distribution string

const (
	DistroArch    Distribution = "arch"
	DistroCachyOS Distribution = "cachyos"
	DistroDebian  Distribution = "debian"
	DistroUbuntu  Distribution = "ubuntu"
	DistroNeon    Distribution = "neon"
	DistroUnknown Distribution = "unknown"
)

// Family groups distributions that share a package manager
type Family string

const (
	FamilyArch    Family = "pacman"
	FamilyDebian  Family = "apt"
	FamilyNeon    Family = "pkcon"
	FamilyUnknown Family = "unknown"
)

// Family returns the package-manager family of the distribution.
// KDE neon ships apt but is driven through PackageKit.
func (d Distribution) Family() Family {
	switch d {
	case DistroArch, DistroCachyOS:
		return FamilyArch
	case DistroDebian, DistroUbuntu:
		return FamilyDebian
	case DistroNeon:
		return FamilyNeon
	default:
		return FamilyUnknown
	}
}

// IsAptBased reports whether update listings come from apt
func (d Distribution) IsAptBased() bool {
	return d.Family() == FamilyDebian
}

// Supported reports whether commands exist for the distribution
func (d Distribution) Supported() bool {
	return d.Family() != FamilyUnknown
}

// DisplayName returns a human readable distribution name
func (d Distribution) DisplayName() string {
	switch d {
	case DistroArch:
		return "Arch Linux"
	case DistroCachyOS:
		return "CachyOS"
	case DistroDebian:
		return "Debian"
	case DistroUbuntu:
		return "Ubuntu"
	case DistroNeon:
		return "KDE neon"
	default:
		return "Unknown"
	}
}

// CheckStatus is the tag of a CheckResult
type CheckStatus int

const (
	StatusNoUpdates CheckStatus = iota
	StatusUpdatesAvailable
	StatusCheckFailed
)

func (s CheckStatus) String() string {
	switch s {
	case StatusNoUpdates:
		return "no-updates"
	case StatusUpdatesAvailable:
		return "updates-available"
	case StatusCheckFailed:
		return "check-failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// CheckResult is the classified outcome of one update check.
// Listing is only populated for StatusUpdatesAvailable.
type CheckResult struct {
	Status    CheckStatus
	Count     int
	Listing   string
	Message   string
	Err       error
	Distro    Distribution
	CheckedAt time.Time
}

// NoUpdates builds a result for an up-to-date system
func NoUpdates() CheckResult {
	return CheckResult{Status: StatusNoUpdates}
}

// UpdatesAvailable builds a result carrying the raw listing
func UpdatesAvailable(count int, listing string) CheckResult {
	if count < 0 {
		count = 0
	}
	return CheckResult{
		Status:  StatusUpdatesAvailable,
		Count:   count,
		Listing: listing,
	}
}

// CheckFailed builds a failed result from err
func CheckFailed(err error) CheckResult {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return CheckResult{
		Status:  StatusCheckFailed,
		Message: msg,
		Err:     err,
	}
}

// Lines returns the meaningful listing lines, dropping blank lines and the
// apt "Listing..." header.
func (r CheckResult) Lines() []string {
	if r.Status != StatusUpdatesAvailable {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(r.Listing, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if r.Distro.IsAptBased() && strings.HasPrefix(line, AptListingHeader) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Equal compares the classified parts of two results, ignoring timestamps
func (r CheckResult) Equal(other CheckResult) bool {
	return r.Status == other.Status &&
		r.Count == other.Count &&
		r.Listing == other.Listing &&
		r.Message == other.Message &&
		r.Distro == other.Distro
}

// AptListingHeader is the first line printed by `apt list`
const AptListingHeader = "Listing..."

// Settings is the persisted user configuration record
type Settings struct {
	AutoCheckEnabled         bool `mapstructure:"autoCheckEnabled"`
	AutoCheckIntervalMinutes int  `mapstructure:"autoCheckInterval"`
	NotifyOnUpdates          bool `mapstructure:"showUpdatesNotification"`
	NotifyOnNoUpdates        bool `mapstructure:"showNoUpdatesNotification"`
}

const (
	MinCheckIntervalMinutes     = 15
	MaxCheckIntervalMinutes     = 1440
	DefaultCheckIntervalMinutes = 60
)

// DefaultSettings returns the settings used when nothing is persisted
func DefaultSettings() Settings {
	return Settings{
		AutoCheckEnabled:         true,
		AutoCheckIntervalMinutes: DefaultCheckIntervalMinutes,
		NotifyOnUpdates:          true,
		NotifyOnNoUpdates:        false,
	}
}

// Normalize clamps the interval into the accepted range
func (s Settings) Normalize() Settings {
	switch {
	case s.AutoCheckIntervalMinutes < MinCheckIntervalMinutes:
		s.AutoCheckIntervalMinutes = MinCheckIntervalMinutes
	case s.AutoCheckIntervalMinutes > MaxCheckIntervalMinutes:
		s.AutoCheckIntervalMinutes = MaxCheckIntervalMinutes
	}
	return s
}

// Interval returns the recurring check period
func (s Settings) Interval() time.Duration {
	return time.Duration(s.AutoCheckIntervalMinutes) * time.Minute
}

// TrayKind enumerates the displayed tray states
type TrayKind int

const (
	TrayIdleNoUpdates TrayKind = iota
	TrayIdleUpdatesAvailable
	TrayInstalling
)

// TrayState is derived from the latest result and the install session
type TrayState struct {
	Kind    TrayKind
	Updates int
}

// DeriveTrayState computes the displayed state. It is never stored.
func DeriveTrayState(result CheckResult, installing bool) TrayState {
	if installing {
		return TrayState{Kind: TrayInstalling}
	}
	if result.Status == StatusUpdatesAvailable {
		return TrayState{Kind: TrayIdleUpdatesAvailable, Updates: result.Count}
	}
	return TrayState{Kind: TrayIdleNoUpdates}
}

// Tooltip returns the tooltip text for the state
func (t TrayState) Tooltip() string {
	switch t.Kind {
	case TrayInstalling:
		return "Update Checker - Installing updates"
	case TrayIdleUpdatesAvailable:
		return fmt.Sprintf("Update Checker - %d updates available", t.Updates)
	default:
		return "Update Checker - System up to date"
	}
}

func (t TrayState) String() string {
	switch t.Kind {
	case TrayInstalling:
		return "installing"
	case TrayIdleUpdatesAvailable:
		return "updates-available"
	default:
		return "no-updates"
	}
}
