package rules

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mercator-hq/symbolic/pkg/engine"
)

// Loader loads rule files from a path into an engine. A failed load leaves
// the engine's current rule set in place.
type Loader struct {
	path     string
	engine   *engine.Engine
	parser   *Parser
	recorder engine.Recorder
	onLoad   func(*engine.RuleSet)
	logger   *slog.Logger

	mu      sync.Mutex
	watcher *Watcher
}

// NewLoader creates a loader for the rule file or directory at path.
func NewLoader(path string, eng *engine.Engine, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		path:   path,
		engine: eng,
		parser: NewParser(),
		logger: logger.With("component", "rules.loader"),
	}
}

// WithRecorder sets the metrics recorder attached to every loaded set.
func (l *Loader) WithRecorder(r engine.Recorder) *Loader {
	l.recorder = r
	return l
}

// OnLoad registers a callback run after each successful swap.
func (l *Loader) OnLoad(fn func(*engine.RuleSet)) *Loader {
	l.onLoad = fn
	return l
}

// Path returns the loaded path.
func (l *Loader) Path() string {
	return l.path
}

// Load parses the rule files and replaces the engine's rule set.
func (l *Loader) Load() error {
	files, err := l.parser.Load(l.path)
	if err != nil {
		l.logger.Error("failed to load rules, keeping current rule set",
			"path", l.path,
			"error", err,
		)
		return err
	}

	rs, err := RuleSet(setName(l.path, files), files...)
	if err != nil {
		return fmt.Errorf("failed to build rule set: %w", err)
	}
	rs.WithConfig(l.engine.Config()).WithLogger(l.logger)
	if l.recorder != nil {
		rs.WithRecorder(l.recorder)
	}

	l.engine.SetRules(rs)
	if l.onLoad != nil {
		l.onLoad(rs)
	}

	l.logger.Info("rules loaded",
		"path", l.path,
		"files", len(files),
		"rules", rs.Len(),
	)
	return nil
}

// Watch reloads the rules whenever the files under the path change. It
// blocks until ctx is cancelled or Stop is called.
func (l *Loader) Watch(ctx context.Context, cfg *WatcherConfig) error {
	if cfg == nil {
		cfg = DefaultWatcherConfig()
	}
	cfg.Path = l.path

	w, err := NewWatcher(cfg, l.logger)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.watcher = w
	l.mu.Unlock()

	return w.Watch(ctx, l.Load)
}

// Stop stops a running Watch.
func (l *Loader) Stop() error {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Stop()
}

// setName names the rule set after the single file it came from, or the
// directory.
func setName(path string, files []*RuleFile) string {
	if len(files) == 1 && files[0].Name != "" {
		return files[0].Name
	}
	base := filepath.Base(path)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base
}
