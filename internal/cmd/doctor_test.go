package cmd

import (
	"bytes"
	"testing"

	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/helpers"
	"github.com/stretchr/testify/assert"
)

func TestDoctorCmd_Healthy(t *testing.T) {
	out := captureOutput(t)
	t.Setenv("DBUS_SESSION_BUS_ADDRESS", "unix:path=/run/user/1000/bus")

	runner := &helpers.MockCommandRunner{
		CommandExistsFunc: func(string) bool { return true },
	}

	var buf bytes.Buffer
	err := execute(t, NewDoctorCmd(testConfig(t), discardLogger(), testEnv(core.DistroArch, runner)), &buf)

	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Arch Linux")
	assert.Contains(t, out.String(), "checkupdates: found")
	assert.Contains(t, out.String(), "konsole: found")
	assert.Contains(t, out.String(), "All critical checks passed!")
}

func TestDoctorCmd_MissingCommands(t *testing.T) {
	out := captureOutput(t)

	var checked []string
	runner := &helpers.MockCommandRunner{
		CommandExistsFunc: func(name string) bool {
			checked = append(checked, name)
			return name != "konsole"
		},
	}

	var buf bytes.Buffer
	err := execute(t, NewDoctorCmd(testConfig(t), discardLogger(), testEnv(core.DistroDebian, runner)), &buf)

	assert.Error(t, err)
	assert.Contains(t, checked, "apt")
	assert.Contains(t, out.String(), "konsole: NOT FOUND")
}

func TestDoctorCmd_UnsupportedDistribution(t *testing.T) {
	out := captureOutput(t)
	runner := &helpers.MockCommandRunner{
		CommandExistsFunc: func(string) bool { return true },
	}

	var buf bytes.Buffer
	err := execute(t, NewDoctorCmd(testConfig(t), discardLogger(), testEnv(core.DistroUnknown, runner)), &buf)

	assert.Error(t, err)
	assert.Contains(t, out.String(), "unsupported distribution")
}
