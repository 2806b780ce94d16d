package kv

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// AllKeys is passed to a Watch callback when the change cannot be attributed
// to a single key (sqlite backend).
const AllKeys = ""

// watchDebounce is how long a key must stay quiet before its change is
// reported. An atomic save produces several events for one write.
var watchDebounce = 250 * time.Millisecond

// Watch reports writes made to the store directory by other processes, such
// as `luna settings set` while the daemon runs. onChange receives the key
// that changed, or AllKeys. Bursts of events for the same key are reported
// once, after they settle. Watch blocks until ctx is done.
func Watch(ctx context.Context, dir string, log *zap.Logger, onChange func(key string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Debug("watching data dir", zap.String("dir", dir))

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(watchDebounce / 5)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case now := <-ticker.C:
			for key, at := range pending {
				if now.Sub(at) < watchDebounce {
					continue
				}
				delete(pending, key)
				log.Debug("store changed", zap.String("key", key))
				onChange(key)
			}

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if strings.HasPrefix(name, SQLiteFile) {
				pending[AllKeys] = time.Now()
				continue
			}
			if key, ok := keyForFile(name); ok {
				pending[key] = time.Now()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}
