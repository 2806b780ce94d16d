// Package kv is the durable local key-value store every persisted luna entity
// lives in. Values are opaque bytes at this layer; LoadJSON and SaveJSON add
// the JSON encoding and the corruption recovery the rest of the app relies on.
package kv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Well-known keys.
const (
	KeySettings      = "notification_settings"
	KeyReminders     = "reminders"
	KeyRemindersSeen = "reminders_fired"
	KeySleepAlerts   = "sleepAlerts"
)

// Keys lists every key luna persists, in backup order.
var Keys = []string{KeySettings, KeyReminders, KeyRemindersSeen, KeySleepAlerts}

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

var (
	// ErrNotFound is returned by Get when a key has never been written.
	ErrNotFound = errors.New("kv: key not found")

	// ErrCorrupt is returned by LoadJSON when a stored value cannot be decoded
	// and no usable backup exists.
	ErrCorrupt = errors.New("kv: corrupt value")

	// ErrRecovered is returned by LoadJSON when the current value was corrupt
	// but the previous one decoded. The destination holds the recovered value.
	ErrRecovered = errors.New("kv: recovered previous value")
)

// Store is a flat key-value namespace scoped to one device.
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Recoverer is implemented by stores that keep the previous value of a key.
type Recoverer interface {
	Previous(key string) ([]byte, error)
}

// Open creates the store selected by backend inside dir.
func Open(backend, dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	switch backend {
	case "", BackendJSON:
		return NewFileStore(dir)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, SQLiteFile))
	default:
		return nil, fmt.Errorf("kv: unknown backend %q", backend)
	}
}

// LoadJSON decodes key into v. When the stored value is empty or malformed it
// falls back to the previous value if the store keeps one; otherwise v is left
// untouched and an error wrapping ErrCorrupt is returned. A missing key
// returns ErrNotFound.
func LoadJSON(s Store, key string, v any) error {
	data, err := s.Get(key)
	if err != nil {
		return err
	}

	cause := decode(data, v)
	if cause == nil {
		return nil
	}

	if r, ok := s.(Recoverer); ok {
		prev, err := r.Previous(key)
		if err == nil && decode(prev, v) == nil {
			return fmt.Errorf("%s: %w: %v", key, ErrRecovered, cause)
		}
	}
	return fmt.Errorf("%s: %w: %v", key, ErrCorrupt, cause)
}

func decode(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New("empty value")
	}
	return json.Unmarshal(data, v)
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(s Store, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", key, err)
	}
	if err := s.Put(key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
