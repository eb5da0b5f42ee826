// Package watcher imports checklist files dropped into an inbox directory.
//
// New or changed .md and .yaml files are parsed and saved once they have
// been quiet for the debounce delay. It runs via `broom watch`.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/broom/internal/export"
	"github.com/aidanlsb/broom/internal/store"
)

// ArchiveDir is the inbox subdirectory imported files are moved into.
const ArchiveDir = "imported"

// Result reports the outcome of one import.
type Result struct {
	Path    string
	ID      string
	Created bool
	Err     error
}

// Watcher monitors an inbox directory and imports checklist files.
type Watcher struct {
	dir     string
	store   *store.Store
	logger  *slog.Logger
	archive bool

	debounceDelay time.Duration

	fsWatcher *fsnotify.Watcher
	pending   map[string]time.Time
	mu        sync.Mutex

	onImport func(Result)
}

// Config holds configuration options for the Watcher.
type Config struct {
	Dir           string
	Store         *store.Store
	Logger        *slog.Logger
	DebounceDelay time.Duration // Default: 200ms
	// Archive moves imported files into Dir/imported.
	Archive bool
	// OnImport is called after every import attempt.
	OnImport func(Result)
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("inbox directory is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("inbox directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("inbox %s is not a directory", cfg.Dir)
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 200 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Watcher{
		dir:           cfg.Dir,
		store:         cfg.Store,
		logger:        logger,
		archive:       cfg.Archive,
		debounceDelay: debounce,
		pending:       make(map[string]time.Time),
		onImport:      cfg.OnImport,
	}, nil
}

// Start begins watching the inbox. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.dir); err != nil {
		return fmt.Errorf("failed to watch inbox: %w", err)
	}
	w.logger.Info("watching inbox", "dir", w.dir)

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)
		}
	}
}

// ImportExisting imports every checklist file already in the inbox.
func (w *Watcher) ImportExisting() []Result {
	var results []Result
	_ = filepath.WalkDir(w.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.dir && w.shouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if isChecklistFile(path) && !w.shouldIgnore(path) {
			results = append(results, w.importAndReport(path))
		}
		return nil
	})
	return results
}

// ImportFile parses one file and saves it. A checklist whose id already
// exists is replaced.
func (w *Watcher) ImportFile(path string) Result {
	res := Result{Path: path}
	c, err := export.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Created, res.Err = w.store.UpsertChecklist(c)
	res.ID = c.ID
	if res.Err == nil && w.archive {
		res.Err = w.archiveFile(path)
	}
	return res
}

func (w *Watcher) archiveFile(path string) error {
	dest := filepath.Join(w.dir, ArchiveDir, filepath.Base(path))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("failed to archive %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (w *Watcher) importAndReport(path string) Result {
	res := w.ImportFile(path)
	if res.Err != nil {
		w.logger.Warn("import failed", "path", path, "err", res.Err)
	} else {
		w.logger.Info("checklist imported", "path", path, "id", res.ID, "created", res.Created)
	}
	if w.onImport != nil {
		w.onImport(res)
	}
	return res
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if !isChecklistFile(path) {
		if event.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() && !w.shouldIgnoreDir(path) {
				_ = w.addWatchRecursive(path)
			}
		}
		return
	}
	if w.shouldIgnore(path) {
		return
	}

	w.logger.Debug("inbox event", "op", event.Op.String(), "path", path)

	switch {
	case event.Op&fsnotify.Write != 0, event.Op&fsnotify.Create != 0:
		w.scheduleImport(path)
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
	}
}

func (w *Watcher) scheduleImport(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending imports files that have been quiet for the debounce delay.
func (w *Watcher) processPending() {
	w.mu.Lock()
	now := time.Now()
	var ready []string
	for path, scheduledAt := range w.pending {
		if now.Sub(scheduledAt) >= w.debounceDelay {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		w.importAndReport(path)
	}
}

func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.dir && w.shouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			if err := w.fsWatcher.Add(path); err != nil {
				w.logger.Warn("failed to watch directory", "path", path, "err", err)
			}
		}
		return nil
	})
}

func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.Dir(rel), string(filepath.Separator)) {
		if part == ArchiveDir || (strings.HasPrefix(part, ".") && part != ".") {
			return true
		}
	}
	return strings.HasPrefix(filepath.Base(path), ".")
}

func (w *Watcher) shouldIgnoreDir(path string) bool {
	base := filepath.Base(path)
	return base == ArchiveDir || strings.HasPrefix(base, ".")
}

func isChecklistFile(path string) bool {
	_, err := export.FormatFromPath(path)
	return err == nil
}
