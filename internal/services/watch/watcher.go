// Package watch reports changes to a single file using fsnotify.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	logMessageWatchError = "content index watch error"
	logMessageChanged    = "content index changed"
	logFieldPath         = "path"
	logFieldOperation    = "operation"

	relevantOperations = fsnotify.Create | fsnotify.Write | fsnotify.Rename | fsnotify.Remove
)

// Watcher invokes a callback whenever the watched file is created, written, renamed or removed.
type Watcher struct {
	filePath string
	onChange func()
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher starts watching the directory containing filePath.
// The parent directory is watched so that editors replacing the file are observed.
func NewWatcher(filePath string, onChange func(), logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	absolutePath, absoluteError := filepath.Abs(filePath)
	if absoluteError != nil {
		return nil, fmt.Errorf("resolve watched path %s: %w", filePath, absoluteError)
	}
	fileWatcher, createError := fsnotify.NewWatcher()
	if createError != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", createError)
	}
	if addError := fileWatcher.Add(filepath.Dir(absolutePath)); addError != nil {
		_ = fileWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(absolutePath), addError)
	}
	return &Watcher{
		filePath: filepath.Clean(absolutePath),
		onChange: onChange,
		logger:   logger,
		watcher:  fileWatcher,
	}, nil
}

// Run delivers change notifications until ctx is canceled, then closes the watcher.
func (watcher *Watcher) Run(ctx context.Context) error {
	defer watcher.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != watcher.filePath || event.Op&relevantOperations == 0 {
				continue
			}
			watcher.logger.Debug(logMessageChanged, zap.String(logFieldPath, event.Name), zap.String(logFieldOperation, event.Op.String()))
			if watcher.onChange != nil {
				watcher.onChange()
			}
		case watchError, ok := <-watcher.watcher.Errors:
			if !ok {
				return nil
			}
			watcher.logger.Warn(logMessageWatchError, zap.Error(watchError))
		}
	}
}
