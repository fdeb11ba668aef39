// Package store owns the persisted user preferences: unit, theme, last city,
// favorites, search history, and refresh settings. All mutation goes through
// the Store; nothing else writes to the persistence port.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/cloudslate/weatherdeck/internal/domain"
)

// Storage keys, one per preference field. A missing key means the documented
// default applies.
const (
	keyUnit            = "unit"
	keyDarkMode        = "dark_mode"
	keyLastCity        = "last_city"
	keyFavorites       = "favorites"
	keyHistory         = "search_history"
	keyAutoRefresh     = "auto_refresh"
	keyRefreshInterval = "auto_refresh_interval"
	keyNotifications   = "notifications"
)

// HistoryLimit caps the recent-search list.
const HistoryLimit = 10

// Preferences is the full persisted preference state. History is
// most-recent-first and deduplicated; favorites keep insertion order with set
// semantics on membership. The two lists are independent.
type Preferences struct {
	Unit                domain.Unit
	DarkMode            bool
	LastCity            string
	Favorites           []string
	History             []string
	AutoRefresh         bool
	AutoRefreshInterval time.Duration
	Notifications       bool
}

func defaultPreferences() Preferences {
	return Preferences{
		Unit:                domain.UnitCelsius,
		AutoRefreshInterval: 5 * time.Minute,
	}
}

// Port is the key-value persistence capability the store writes through.
// Get reports ok=false for absent keys.
type Port interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Store holds the in-memory preference struct and serializes every change
// back through the port. Mutators are safe for concurrent use; each applies
// its change and saves the full state before returning, so persisted state is
// never observed half-updated between two preference changes.
type Store struct {
	mu     sync.Mutex
	port   Port
	prefs  Preferences
	logger *slog.Logger
}

// New creates a Store over the given port. Call Load before first use.
func New(port Port, logger *slog.Logger) *Store {
	return &Store{
		port:   port,
		prefs:  defaultPreferences(),
		logger: logger,
	}
}

// Load reads all preference keys from the port, applying defaults for any
// missing or unparsable field. Unparsable values are logged and dropped
// rather than failing the whole load.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := defaultPreferences()

	if v, ok, err := s.port.Get(keyUnit); err != nil {
		return fmt.Errorf("load %s: %w", keyUnit, err)
	} else if ok {
		if u := domain.Unit(v); u == domain.UnitCelsius || u == domain.UnitFahrenheit {
			p.Unit = u
		} else {
			s.logger.Warn("ignoring invalid stored unit", "value", v)
		}
	}

	var err error
	if p.DarkMode, err = s.loadBool(keyDarkMode, p.DarkMode); err != nil {
		return err
	}
	if p.AutoRefresh, err = s.loadBool(keyAutoRefresh, p.AutoRefresh); err != nil {
		return err
	}
	if p.Notifications, err = s.loadBool(keyNotifications, p.Notifications); err != nil {
		return err
	}

	if v, ok, err := s.port.Get(keyLastCity); err != nil {
		return fmt.Errorf("load %s: %w", keyLastCity, err)
	} else if ok {
		p.LastCity = v
	}

	if p.Favorites, err = s.loadList(keyFavorites); err != nil {
		return err
	}
	if p.History, err = s.loadList(keyHistory); err != nil {
		return err
	}
	if len(p.History) > HistoryLimit {
		p.History = p.History[:HistoryLimit]
	}

	if v, ok, err := s.port.Get(keyRefreshInterval); err != nil {
		return fmt.Errorf("load %s: %w", keyRefreshInterval, err)
	} else if ok {
		if d, perr := time.ParseDuration(v); perr == nil && d > 0 {
			p.AutoRefreshInterval = d
		} else {
			s.logger.Warn("ignoring invalid stored refresh interval", "value", v)
		}
	}

	s.prefs = p
	return nil
}

func (s *Store) loadBool(key string, def bool) (bool, error) {
	v, ok, err := s.port.Get(key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return def, nil
	}
	b, perr := strconv.ParseBool(v)
	if perr != nil {
		s.logger.Warn("ignoring invalid stored flag", "key", key, "value", v)
		return def, nil
	}
	return b, nil
}

func (s *Store) loadList(key string) ([]string, error) {
	v, ok, err := s.port.Get(key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || v == "" {
		return nil, nil
	}
	var list []string
	if uerr := json.Unmarshal([]byte(v), &list); uerr != nil {
		s.logger.Warn("ignoring invalid stored list", "key", key, "error", uerr)
		return nil, nil
	}
	return list, nil
}

// Preferences returns a copy of the current in-memory state.
func (s *Store) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *Store) copyLocked() Preferences {
	p := s.prefs
	p.Favorites = slices.Clone(s.prefs.Favorites)
	p.History = slices.Clone(s.prefs.History)
	return p
}

// Save re-serializes the full current state to the port.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked writes every key; saves are always a full overwrite, never a
// partial patch.
func (s *Store) saveLocked() error {
	favorites, err := json.Marshal(s.prefs.Favorites)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	history, err := json.Marshal(s.prefs.History)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	pairs := []struct{ key, value string }{
		{keyUnit, string(s.prefs.Unit)},
		{keyDarkMode, strconv.FormatBool(s.prefs.DarkMode)},
		{keyLastCity, s.prefs.LastCity},
		{keyFavorites, string(favorites)},
		{keyHistory, string(history)},
		{keyAutoRefresh, strconv.FormatBool(s.prefs.AutoRefresh)},
		{keyRefreshInterval, s.prefs.AutoRefreshInterval.String()},
		{keyNotifications, strconv.FormatBool(s.prefs.Notifications)},
	}
	for _, kv := range pairs {
		if err := s.port.Set(kv.key, kv.value); err != nil {
			return fmt.Errorf("save %s: %w", kv.key, err)
		}
	}
	return nil
}

func (s *Store) mutate(fn func(*Preferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.prefs)
	return s.saveLocked()
}

// SetUnit switches the temperature unit.
func (s *Store) SetUnit(unit domain.Unit) error {
	return s.mutate(func(p *Preferences) { p.Unit = unit })
}

// ToggleDarkMode flips the dark-mode flag and returns the new value.
func (s *Store) ToggleDarkMode() (bool, error) {
	var enabled bool
	err := s.mutate(func(p *Preferences) {
		p.DarkMode = !p.DarkMode
		enabled = p.DarkMode
	})
	return enabled, err
}

// SetAutoRefresh updates the auto-refresh flag and interval together.
func (s *Store) SetAutoRefresh(enabled bool, interval time.Duration) error {
	return s.mutate(func(p *Preferences) {
		p.AutoRefresh = enabled
		if interval > 0 {
			p.AutoRefreshInterval = interval
		}
	})
}

// SetNotifications updates the notification flag.
func (s *Store) SetNotifications(enabled bool) error {
	return s.mutate(func(p *Preferences) { p.Notifications = enabled })
}

// SetLastCity remembers the most recently resolved city.
func (s *Store) SetLastCity(city string) error {
	return s.mutate(func(p *Preferences) { p.LastCity = city })
}

// RecordSearch prepends city to the history, removes any prior exact-match
// occurrence, and truncates to HistoryLimit entries.
func (s *Store) RecordSearch(city string) error {
	return s.mutate(func(p *Preferences) {
		next := make([]string, 0, len(p.History)+1)
		next = append(next, city)
		for _, h := range p.History {
			if h != city {
				next = append(next, h)
			}
		}
		if len(next) > HistoryLimit {
			next = next[:HistoryLimit]
		}
		p.History = next
	})
}

// AddFavorite appends city unless it is already a favorite.
func (s *Store) AddFavorite(city string) error {
	return s.mutate(func(p *Preferences) {
		if slices.Contains(p.Favorites, city) {
			return
		}
		p.Favorites = append(p.Favorites, city)
	})
}

// RemoveFavorite removes every exact-match occurrence of city.
func (s *Store) RemoveFavorite(city string) error {
	return s.mutate(func(p *Preferences) {
		p.Favorites = slices.DeleteFunc(p.Favorites, func(f string) bool { return f == city })
	})
}
