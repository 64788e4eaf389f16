// Package prefs keeps per-user client preferences: the UI theme and the
// pomodoro lengths used when that user starts a timer.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v3"

	"github.com/hperssn/studyboard/internal/domain"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var (
	ErrInvalidTheme    = errors.New("theme must be light or dark")
	ErrInvalidUsername = errors.New("username is required")
)

type Preferences struct {
	Theme string `json:"theme"`
	domain.TimerSettings
}

func Defaults() Preferences {
	return Preferences{Theme: ThemeLight, TimerSettings: domain.DefaultTimerSettings()}
}

func (p Preferences) Validate() error {
	if p.Theme != ThemeLight && p.Theme != ThemeDark {
		return ErrInvalidTheme
	}
	return p.TimerSettings.Validate()
}

type Store struct {
	db    *badger.DB
	timer domain.TimerSettings
}

// Open opens the store in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open preferences store: %w", err)
	}
	return &Store{db: db, timer: domain.DefaultTimerSettings()}, nil
}

// SetTimerDefaults changes the timer lengths returned for users who never
// saved their own.
func (s *Store) SetTimerDefaults(d domain.TimerSettings) {
	s.timer = d
}

func key(username string) []byte {
	return []byte("prefs/" + username)
}

// Get returns the stored preferences for username. Users who saved nothing
// get the light theme and the store's timer defaults.
func (s *Store) Get(ctx context.Context, username string) (Preferences, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Preferences{}, ErrInvalidUsername
	}
	if err := ctx.Err(); err != nil {
		return Preferences{}, err
	}

	p := Preferences{Theme: ThemeLight, TimerSettings: s.timer}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return Preferences{}, fmt.Errorf("read preferences for %s: %w", username, err)
	}
	return p, nil
}

func (s *Store) Put(ctx context.Context, username string, p Preferences) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrInvalidUsername
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(username), data)
	})
	if err != nil {
		return fmt.Errorf("write preferences for %s: %w", username, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
