package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/quantmind-br/sysupd/internal/core"
	"github.com/quantmind-br/sysupd/internal/fsops"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Persisted settings keys
const (
	keyAutoCheckEnabled  = "settings.autoCheckEnabled"
	keyAutoCheckInterval = "settings.autoCheckInterval"
	keyShowUpdates       = "settings.showUpdatesNotification"
	keyShowNoUpdates     = "settings.showNoUpdatesNotification"
)

// SettingsStore is the key-value backend holding the user settings record
type SettingsStore interface {
	Load() (core.Settings, error)
	Save(s core.Settings) error
	Watch(fn func(core.Settings)) (stop func(), err error)
}

// ViperStore keeps settings in the [settings] table of the TOML config file
type ViperStore struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
	fs   afero.Fs
}

// NewViperStore creates a store writing to path. A nil viper starts from defaults.
func NewViperStore(v *viper.Viper, path string) *ViperStore {
	if v == nil {
		v = viper.New()
		v.SetConfigType("toml")
		setDefaults(v)
		v.SetConfigFile(path)
		_ = v.ReadInConfig()
	}
	return &ViperStore{v: v, path: path, fs: afero.NewOsFs()}
}

// Path returns the file settings are written to
func (s *ViperStore) Path() string {
	return s.path
}

// Load returns the current settings, normalized
func (s *ViperStore) Load() (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *ViperStore) loadLocked() (core.Settings, error) {
	var settings core.Settings
	if err := s.v.UnmarshalKey("settings", &settings); err != nil {
		return core.Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return settings.Normalize(), nil
}

// Save merges the settings into the config file, preserving other sections.
// The values are written through a scratch viper so later file edits are not
// shadowed by in-memory overrides.
func (s *ViperStore) Save(settings core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings = settings.Normalize()

	if err := fsops.EnsureParentDir(s.fs, s.path); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	w := viper.New()
	w.SetConfigType("toml")
	w.SetConfigFile(s.path)
	if fsops.Exists(s.fs, s.path) {
		if err := w.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	w.Set(keyAutoCheckEnabled, settings.AutoCheckEnabled)
	w.Set(keyAutoCheckInterval, settings.AutoCheckIntervalMinutes)
	w.Set(keyShowUpdates, settings.NotifyOnUpdates)
	w.Set(keyShowNoUpdates, settings.NotifyOnNoUpdates)

	if err := w.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	s.v.SetConfigFile(s.path)
	if err := s.v.ReadInConfig(); err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	return nil
}

// Watch calls fn with the re-read settings whenever the config file is
// written. fn runs on the watcher goroutine. The returned function stops
// watching. The parent directory is watched so editors that replace the file
// are noticed.
func (s *ViperStore) Watch(fn func(core.Settings)) (func(), error) {
	if err := fsops.EnsureParentDir(s.fs, s.path); err != nil {
		return nil, fmt.Errorf("watch settings: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	target := filepath.Clean(s.path)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case e, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(e.Name) != target || (!e.Has(fsnotify.Write) && !e.Has(fsnotify.Create)) {
					continue
				}
				settings, err := s.reload()
				if err != nil {
					continue
				}
				fn(settings)
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			watcher.Close()
		})
	}, nil
}

func (s *ViperStore) reload() (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.SetConfigFile(s.path)
	if err := s.v.ReadInConfig(); err != nil {
		return core.Settings{}, fmt.Errorf("reload config: %w", err)
	}
	return s.loadLocked()
}
