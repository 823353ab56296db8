package catalog

import (
	"fmt"

	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/syspkg"
	"github.com/quantmind-br/sysupd/internal/syspkg/arch"
	"github.com/quantmind-br/sysupd/internal/syspkg/debian"
	"github.com/quantmind-br/sysupd/internal/syspkg/neon"
	"golang.org/x/sys/unix"
)

// Options controls how interactive commands are wrapped
type Options struct {
	Terminal     string
	TerminalArgs []string
	ElevateWith  string
}

// DefaultOptions mirrors the shipped configuration defaults
func DefaultOptions() Options {
	return Options{
		Terminal:     "konsole",
		TerminalArgs: []string{"-e"},
		ElevateWith:  "sudo",
	}
}

// Catalog resolves check, install and reboot command lines per distribution
type Catalog struct {
	registry *syspkg.Registry
	opts     Options
	elev     syspkg.Elevation
}

// New creates a Catalog with the built-in providers. The privilege helper is
// skipped when already running as root.
func New(opts Options) *Catalog {
	elev := syspkg.Elevation{Command: opts.ElevateWith}
	if unix.Geteuid() == 0 {
		elev = syspkg.Elevation{}
	}
	return NewWithRegistry(DefaultRegistry(), opts, elev)
}

// NewWithRegistry creates a Catalog with explicit dependencies (for tests)
func NewWithRegistry(registry *syspkg.Registry, opts Options, elev syspkg.Elevation) *Catalog {
	return &Catalog{registry: registry, opts: opts, elev: elev}
}

// DefaultRegistry registers pacman, apt and pkcon
func DefaultRegistry() *syspkg.Registry {
	r := syspkg.NewRegistry()
	r.Register(core.FamilyArch, arch.NewPacmanProvider())
	r.Register(core.FamilyDebian, debian.NewAptProvider())
	r.Register(core.FamilyNeon, neon.NewPkconProvider())
	return r
}

// Provider returns the provider for d
func (c *Catalog) Provider(d core.Distribution) (syspkg.Provider, error) {
	return c.registry.For(d)
}

// Check returns the non-interactive update listing command
func (c *Catalog) Check(d core.Distribution) (syspkg.Command, error) {
	p, err := c.registry.For(d)
	if err != nil {
		return syspkg.Command{}, err
	}
	return p.CheckCommand(), nil
}

// Install returns the upgrade command wrapped in the terminal emulator
func (c *Catalog) Install(d core.Distribution) (syspkg.Command, error) {
	p, err := c.registry.For(d)
	if err != nil {
		return syspkg.Command{}, err
	}
	return c.inTerminal(p.InstallCommand(c.elev).Argv()), nil
}

// Reboot returns the elevated reboot command. It runs in the terminal so the
// privilege helper can ask for a password.
func (c *Catalog) Reboot() syspkg.Command {
	return c.inTerminal(c.elev.Wrap("reboot"))
}

// Terminal returns the configured terminal emulator binary
func (c *Catalog) Terminal() string {
	return c.opts.Terminal
}

// Elevation returns the active privilege helper
func (c *Catalog) Elevation() syspkg.Elevation {
	return c.elev
}

func (c *Catalog) inTerminal(argv []string) syspkg.Command {
	if c.opts.Terminal == "" {
		return syspkg.Command{Name: argv[0], Args: argv[1:]}
	}
	args := make([]string, 0, len(c.opts.TerminalArgs)+len(argv))
	args = append(args, c.opts.TerminalArgs...)
	args = append(args, argv...)
	return syspkg.Command{Name: c.opts.Terminal, Args: args}
}

// Describe summarises the commands for a distribution, used by doctor
func (c *Catalog) Describe(d core.Distribution) string {
	check, err := c.Check(d)
	if err != nil {
		return err.Error()
	}
	install, _ := c.Install(d)
	return fmt.Sprintf("check: %s | install: %s", check, install)
}
