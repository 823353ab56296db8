package distro

import (
	"strings"

	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/fsops"
	"github.com/spf13/afero"
)

// Marker files inspected during detection
const (
	ArchReleasePath   = "/etc/arch-release"
	DebianVersionPath = "/etc/debian_version"
	OSReleasePath     = "/etc/os-release"
)

// Detector classifies the host distribution from filesystem markers
type Detector struct {
	fs afero.Fs
}

// NewDetector creates a Detector reading the real filesystem
func NewDetector() *Detector {
	return NewDetectorWithFs(afero.NewOsFs())
}

// NewDetectorWithFs creates a Detector on a custom filesystem (for tests)
func NewDetectorWithFs(fs afero.Fs) *Detector {
	return &Detector{fs: fs}
}

// Detect never fails: unreadable files fall through to the next rule and
// finally to DistroUnknown.
func (d *Detector) Detect() core.Distribution {
	if fsops.Exists(d.fs, ArchReleasePath) {
		if d.osReleaseContains("CachyOS") {
			return core.DistroCachyOS
		}
		return core.DistroArch
	}

	if fsops.Exists(d.fs, DebianVersionPath) {
		content, _ := fsops.ReadString(d.fs, OSReleasePath)
		switch {
		case strings.Contains(content, "KDE neon"):
			return core.DistroNeon
		case strings.Contains(content, "Ubuntu"):
			return core.DistroUbuntu
		}
		return core.DistroDebian
	}

	return core.DistroUnknown
}

func (d *Detector) osReleaseContains(marker string) bool {
	content, ok := fsops.ReadString(d.fs, OSReleasePath)
	return ok && strings.Contains(content, marker)
}
