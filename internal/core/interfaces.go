package core

import "errors"

var (
	// ErrUnsupportedDistribution is returned when the host ecosystem is not recognised
	ErrUnsupportedDistribution = errors.New("unsupported distribution")

	// ErrCheckCommandFailed wraps diagnostic output left after warning filtering
	ErrCheckCommandFailed = errors.New("update check failed")

	// ErrCheckTimedOut is returned when the check command exceeds check.timeout
	ErrCheckTimedOut = errors.New("update check timed out")

	// ErrTerminalLaunchFailed is returned when the install terminal cannot be spawned
	ErrTerminalLaunchFailed = errors.New("failed to launch terminal")

	// ErrSessionAlreadyActive is returned when an install is requested while one runs
	ErrSessionAlreadyActive = errors.New("an installation session is already active")
)

// Detector classifies the host distribution
type Detector interface {
	Detect() Distribution
}
