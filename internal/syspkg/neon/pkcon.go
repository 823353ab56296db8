package neon

import (
	"github.com/quantmind-br/sysupd/internal/syspkg"
)

// PkconProvider drives PackageKit, which KDE neon expects instead of raw apt
type PkconProvider struct{}

// NewPkconProvider creates a new PackageKit provider
func NewPkconProvider() *PkconProvider {
	return &PkconProvider{}
}

func (p *PkconProvider) Name() string {
	return "pkcon"
}

func (p *PkconProvider) CheckCommand() syspkg.Command {
	return syspkg.Command{Name: "pkcon", Args: []string{"get-updates"}}
}

func (p *PkconProvider) InstallCommand(elev syspkg.Elevation) syspkg.Command {
	argv := elev.Wrap("pkcon", "update", "-y")
	return syspkg.Command{Name: argv[0], Args: argv[1:]}
}

func (p *PkconProvider) FilterStderr(stderr string) string {
	return stderr
}

func (p *PkconProvider) HasListingHeader() bool {
	return false
}
