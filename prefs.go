package leaffall

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Preferences are the user-facing choices remembered between runs.
type Preferences struct {
	Season Season `yaml:"season"`
	Seed   int64  `yaml:"seed"`
	SlowMo bool   `yaml:"slowMo"`
}

// DefaultPreferences returns the preferences used before anything is saved.
func DefaultPreferences() Preferences {
	return Preferences{Season: SeasonSpring, Seed: 1}
}

const (
	prefsObject   = "preferences"
	prefsProperty = "leaffall"
)

// PrefsStore loads and saves Preferences through gdata. A store opened with
// a nil manager keeps preferences in memory only.
type PrefsStore struct {
	manager *gdata.Manager
	prefs   Preferences
}

// OpenPrefsStore opens the gdata storage for appName and loads any saved
// preferences. A storage that cannot be opened is logged and the store
// falls back to memory-only mode.
func OpenPrefsStore(appName string) *PrefsStore {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("leaffall: preferences storage unavailable: %v (using defaults)", err)
		m = nil
	}
	return NewPrefsStore(m)
}

// NewPrefsStore wraps manager, which may be nil, and loads saved
// preferences. Load failures are logged and defaults are used.
func NewPrefsStore(manager *gdata.Manager) *PrefsStore {
	s := &PrefsStore{manager: manager, prefs: DefaultPreferences()}
	if err := s.Load(); err != nil {
		log.Printf("leaffall: failed to load preferences: %v (using defaults)", err)
	}
	return s
}

// Load reads saved preferences. Missing data is not an error.
func (s *PrefsStore) Load() error {
	s.prefs = DefaultPreferences()
	if s.manager == nil || !s.manager.ObjectPropExists(prefsObject, prefsProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		return fmt.Errorf("leaffall: failed to read preferences: %w", err)
	}
	var p Preferences
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("leaffall: failed to parse preferences: %w", err)
	}
	s.prefs = p
	return nil
}

// Save writes the current preferences. It is a no-op in memory-only mode.
func (s *PrefsStore) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.prefs)
	if err != nil {
		return fmt.Errorf("leaffall: failed to encode preferences: %w", err)
	}
	if err := s.manager.SaveObjectProp(prefsObject, prefsProperty, data); err != nil {
		return fmt.Errorf("leaffall: failed to save preferences: %w", err)
	}
	return nil
}

// Preferences returns the current preferences.
func (s *PrefsStore) Preferences() Preferences { return s.prefs }

// Set replaces the in-memory preferences. Call Save to persist them.
func (s *PrefsStore) Set(p Preferences) { s.prefs = p }

// Persistent reports whether Save writes to disk.
func (s *PrefsStore) Persistent() bool { return s.manager != nil }

// Apply copies the preferences onto cfg.
func (p Preferences) Apply(cfg *Config) {
	cfg.Season = p.Season
	cfg.Seed = p.Seed
}
