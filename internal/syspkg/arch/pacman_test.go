package arch

import (
	"testing"

	"github.com/quantmind-br/sysupd/internal/syspkg"
	"github.com/stretchr/testify/assert"
)

func TestPacmanProvider(t *testing.T) {
	provider := NewPacmanProvider()

	assert.Equal(t, "pacman", provider.Name())
	assert.Equal(t, []string{"checkupdates"}, provider.CheckCommand().Argv())
	assert.False(t, provider.HasListingHeader())

	t.Run("install with sudo", func(t *testing.T) {
		cmd := provider.InstallCommand(syspkg.Elevation{Command: "sudo"})
		assert.Equal(t, []string{"sudo", "pacman", "-Syu"}, cmd.Argv())
	})

	t.Run("install as root", func(t *testing.T) {
		cmd := provider.InstallCommand(syspkg.Elevation{})
		assert.Equal(t, []string{"pacman", "-Syu"}, cmd.Argv())
	})

	t.Run("stderr is kept", func(t *testing.T) {
		msg := "==> ERROR: Cannot fetch updates\n"
		assert.Equal(t, msg, provider.FilterStderr(msg))
	})
}

func TestProviderInterface(_ *testing.T) {
	var _ syspkg.Provider = &PacmanProvider{}
}
