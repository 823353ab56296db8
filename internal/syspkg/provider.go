package syspkg

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/sysupd/internal/core"
)

// Command is a fully resolved argument vector
type Command struct {
	Name string
	Args []string
}

// Argv returns the command as a single slice
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command for logs and diagnostics
func (c Command) String() string {
	return strings.Join(c.Argv(), " ")
}

// Elevation prefixes privileged commands
type Elevation struct {
	// Command is the privilege helper, usually "sudo". Empty means none.
	Command string
}

// Wrap prefixes argv with the privilege helper when one is configured
func (e Elevation) Wrap(argv ...string) []string {
	if e.Command == "" {
		return argv
	}
	return append([]string{e.Command}, argv...)
}

// Prefix returns the helper followed by a space, for shell snippets
func (e Elevation) Prefix() string {
	if e.Command == "" {
		return ""
	}
	return e.Command + " "
}

// Provider defines the interface for system package management
type Provider interface {
	// Name returns the provider name (e.g., "pacman", "apt", "pkcon")
	Name() string

	// CheckCommand lists pending updates without changing the system
	CheckCommand() Command

	// InstallCommand runs an interactive full upgrade
	InstallCommand(elev Elevation) Command

	// FilterStderr drops diagnostics known to be harmless
	FilterStderr(stderr string) string

	// HasListingHeader reports whether the check output starts with a header line
	HasListingHeader() bool
}

// Registry maps package-manager families to providers
type Registry struct {
	providers map[core.Family]Provider
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{providers: make(map[core.Family]Provider)}
}

// Register associates a provider with a family
func (r *Registry) Register(family core.Family, p Provider) {
	r.providers[family] = p
}

// For returns the provider serving the distribution
func (r *Registry) For(d core.Distribution) (Provider, error) {
	p, ok := r.providers[d.Family()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedDistribution, d)
	}
	return p, nil
}
