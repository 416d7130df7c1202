package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// RetrainFunc rebuilds the classifier and returns its status message.
type RetrainFunc func(ctx context.Context) string

// Watcher imports phrase files from a directory as they change and
// retrains when anything new was added. Bursts of events are debounced
// into one pass.
type Watcher struct {
	dir      string
	store    PhraseStore
	retrain  RetrainFunc
	debounce time.Duration
	logger   *zap.Logger
	fsw      *fsnotify.Watcher
}

// NewWatcher starts watching dir. The watch is active when it returns.
func NewWatcher(dir string, st PhraseStore, retrain RetrainFunc, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("corpus: create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("corpus: watch %s: %w", dir, err)
	}
	return &Watcher{
		dir:      dir,
		store:    st,
		retrain:  retrain,
		debounce: debounce,
		logger:   logger.Named("corpus"),
		fsw:      fsw,
	}, nil
}

// Sync imports every phrase file currently in the directory and retrains
// if anything was added. It returns the number of new phrases.
func (w *Watcher) Sync(ctx context.Context) (int, error) {
	files, err := Files(w.dir)
	if err != nil {
		return 0, err
	}
	return w.process(ctx, files), nil
}

// Run handles file events until ctx is cancelled, then closes the watch.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !isPhraseFile(filepath.Base(event.Name)) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			pending = make(map[string]struct{})
			slices.Sort(batch)
			w.process(ctx, batch)
		}
	}
}

// process imports the given files, skipping any that fail to parse, and
// retrains once if new phrases arrived.
func (w *Watcher) process(ctx context.Context, paths []string) int {
	added := 0
	for _, path := range paths {
		phrases, err := Load(path)
		if err != nil {
			w.logger.Warn("skipping phrase file", zap.String("path", path), zap.Error(err))
			continue
		}
		n, err := Import(ctx, w.store, phrases, nil)
		added += n
		if err != nil {
			w.logger.Warn("import failed", zap.String("path", path), zap.Error(err))
			continue
		}
		w.logger.Info("imported phrase file", zap.String("path", path), zap.Int("added", n), zap.Int("total", len(phrases)))
	}

	if added > 0 && w.retrain != nil {
		msg := w.retrain(ctx)
		w.logger.Info("retrained", zap.Int("new_phrases", added), zap.String("result", msg))
	}
	return added
}
