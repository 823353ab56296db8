package arch

import (
	"github.com/quantmind-br/sysupd/internal/syspkg"
)

// PacmanProvider implements the Provider interface for Arch Linux and derivatives
type PacmanProvider struct{}

// NewPacmanProvider creates a new Pacman provider
func NewPacmanProvider() *PacmanProvider {
	return &PacmanProvider{}
}

func (p *PacmanProvider) Name() string {
	return "pacman"
}

// CheckCommand uses checkupdates from pacman-contrib, which syncs a private
// copy of the databases and never needs root.
func (p *PacmanProvider) CheckCommand() syspkg.Command {
	return syspkg.Command{Name: "checkupdates"}
}

// InstallCommand runs a full system upgrade
func (p *PacmanProvider) InstallCommand(elev syspkg.Elevation) syspkg.Command {
	argv := elev.Wrap("pacman", "-Syu")
	return syspkg.Command{Name: argv[0], Args: argv[1:]}
}

// FilterStderr keeps everything; checkupdates only writes real errors there
func (p *PacmanProvider) FilterStderr(stderr string) string {
	return stderr
}

func (p *PacmanProvider) HasListingHeader() bool {
	return false
}
