package debian

import (
	"strings"

	"github.com/quantmind-br/sysupd/internal/syspkg"
)

// BenignWarning is printed by apt whenever its output is not a terminal
const BenignWarning = "WARNING: apt does not have a stable CLI interface"

// AptProvider implements the Provider interface for Debian and Ubuntu
type AptProvider struct{}

// NewAptProvider creates a new apt provider
func NewAptProvider() *AptProvider {
	return &AptProvider{}
}

func (p *AptProvider) Name() string {
	return "apt"
}

func (p *AptProvider) CheckCommand() syspkg.Command {
	return syspkg.Command{Name: "apt", Args: []string{"list", "--upgradable"}}
}

// InstallCommand refreshes the indexes and upgrades through a shell so both
// steps share the terminal.
func (p *AptProvider) InstallCommand(elev syspkg.Elevation) syspkg.Command {
	script := elev.Prefix() + "apt update && " + elev.Prefix() + "apt upgrade -y"
	return syspkg.Command{Name: "bash", Args: []string{"-c", script}}
}

// FilterStderr discards stderr entirely when it carries the CLI stability warning
func (p *AptProvider) FilterStderr(stderr string) string {
	if strings.Contains(stderr, BenignWarning) {
		return ""
	}
	return stderr
}

// HasListingHeader is true: apt prints "Listing..." before the packages
func (p *AptProvider) HasListingHeader() bool {
	return true
}
