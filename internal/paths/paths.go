package paths

import (
	"os"
	"path/filepath"

	"github.com/quantmind-br/sysupd/internal/config"
)

// Resolver centralizes sysupd's default locations.
// Configured paths win; unset ones fall back to XDG-style defaults under HOME.
type Resolver struct {
	homeDir string
	cfg     *config.Config
}

// NewResolver creates a Resolver using the current user's HOME
func NewResolver(cfg *config.Config) *Resolver {
	homeDir, _ := os.UserHomeDir()
	return &Resolver{
		homeDir: homeDir,
		cfg:     cfg,
	}
}

// NewResolverWithHome creates a Resolver with an explicit homeDir (for tests)
func NewResolverWithHome(cfg *config.Config, homeDir string) *Resolver {
	return &Resolver{
		homeDir: homeDir,
		cfg:     cfg,
	}
}

// HomeDir returns the resolved HOME directory
func (r *Resolver) HomeDir() string {
	return r.homeDir
}

// DataDir returns paths.data_dir or ~/.local/share/sysupd
func (r *Resolver) DataDir() string {
	if r.cfg != nil && r.cfg.Paths.DataDir != "" {
		return r.cfg.Paths.DataDir
	}
	return filepath.Join(r.homeDir, ".local", "share", "sysupd")
}

// DBFile returns paths.db_file or <data_dir>/history.db
func (r *Resolver) DBFile() string {
	if r.cfg != nil && r.cfg.Paths.DBFile != "" {
		return r.cfg.Paths.DBFile
	}
	return filepath.Join(r.DataDir(), "history.db")
}

// LogFile returns paths.log_file or <data_dir>/sysupd.log
func (r *Resolver) LogFile() string {
	if r.cfg != nil && r.cfg.Paths.LogFile != "" {
		return r.cfg.Paths.LogFile
	}
	return filepath.Join(r.DataDir(), "sysupd.log")
}

// ConfigFile returns the file settings are persisted to
func (r *Resolver) ConfigFile() string {
	if r.cfg != nil && r.cfg.File != "" {
		return r.cfg.File
	}
	return filepath.Join(r.configHome(), "sysupd", "config.toml")
}

// AutostartFile returns the XDG autostart entry path
func (r *Resolver) AutostartFile() string {
	return filepath.Join(r.configHome(), "autostart", "sysupd.desktop")
}

func (r *Resolver) configHome() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(r.homeDir, ".config")
}
