// Package filesystem implements the document feed over a directory of
// JSON article files. Every relevant change re-reads the whole
// directory and delivers a full snapshot: deliveries are total and
// authoritative, never incremental.
package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/orbistack/kbsearch/internal/core/domain"
	"github.com/orbistack/kbsearch/internal/core/ports/driven"
	"github.com/orbistack/kbsearch/internal/logger"
)

// Ensure Feed implements the interface.
var _ driven.DocumentFeed = (*Feed)(nil)

var feedLog = logger.Scope("feed")

// coalesceWindow batches bursts of filesystem events (editors write
// several times per save) into a single snapshot reload.
const coalesceWindow = 300 * time.Millisecond

// Feed watches a directory of JSON documents and pushes full
// snapshots to its subscriber.
type Feed struct {
	dir     string
	limiter *rate.Limiter
}

// NewFeed creates a feed over dir. The directory must exist.
func NewFeed(dir string) (*Feed, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("document directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document directory %q: %w", dir, domain.ErrInvalidInput)
	}

	return &Feed{
		dir: dir,
		// Reload at most 4/s with small bursts; editors and sync tools
		// can hammer a directory faster than snapshots are useful.
		limiter: rate.NewLimiter(rate.Limit(4), 2),
	}, nil
}

// Subscribe delivers the current snapshot immediately, then a fresh
// snapshot after every coalesced batch of directory changes, until
// ctx is cancelled or the returned release function is called.
func (f *Feed) Subscribe(ctx context.Context, deliver func(snapshot []domain.Document)) (driven.Unsubscribe, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: creating watcher: %v", domain.ErrFeedUnavailable, err)
	}
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("%w: watching %q: %v", domain.ErrFeedUnavailable, f.dir, err)
	}

	subCtx, cancel := context.WithCancel(ctx)

	deliver(f.loadSnapshot())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.watch(subCtx, watcher, deliver)
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			cancel()
			watcher.Close()
			wg.Wait()
		})
	}
	return unsubscribe, nil
}

// watch coalesces directory events and reloads the snapshot when the
// burst settles.
func (f *Feed) watch(ctx context.Context, watcher *fsnotify.Watcher, deliver func([]domain.Document)) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isDocumentFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(coalesceWindow)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(coalesceWindow)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			feedLog.Warn("watcher error: %v", err)

		case <-fire:
			timer = nil
			fire = nil
			if err := f.limiter.Wait(ctx); err != nil {
				return
			}
			deliver(f.loadSnapshot())
		}
	}
}

// loadSnapshot reads every document file in the directory. Malformed
// files are skipped, not fatal. The snapshot order follows the sorted
// file names, which gives the ranker a stable input order.
func (f *Feed) loadSnapshot() []domain.Document {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		feedLog.Warn("reading %q: %v", f.dir, err)
		return nil
	}

	docs := make([]domain.Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isDocumentFile(entry.Name()) {
			continue
		}

		path := filepath.Join(f.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			feedLog.Warn("reading %q: %v", path, err)
			continue
		}

		var doc domain.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			feedLog.Warn("skipping malformed document %q: %v", path, err)
			continue
		}
		if doc.ID == "" {
			doc.ID = uuid.New().String()
		}
		docs = append(docs, doc)
	}

	feedLog.Debug("loaded snapshot of %d documents from %q", len(docs), f.dir)
	return docs
}

// isDocumentFile reports whether name looks like an article file.
func isDocumentFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}
