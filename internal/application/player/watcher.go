package player

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-sched-timeline/internal/util"
)

// FileEvent reports a change to the watched trace file
type FileEvent struct {
	Path      string
	Operation string
}

// FileWatcher watches a single file. The parent directory is watched so
// editors that replace the file by rename are still noticed.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan FileEvent
	done    chan struct{}
	once    sync.Once
}

// NewFileWatcher starts watching path
func NewFileWatcher(path string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	fw := &FileWatcher{
		watcher: watcher,
		path:    abs,
		// One pending event is enough; reloads always read the latest content
		events: make(chan FileEvent, 1),
		done:   make(chan struct{}),
	}
	go fw.processEvents()
	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.done)
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			select {
			case fw.events <- FileEvent{Path: event.Name, Operation: event.Op.String()}:
			default:
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error", util.F("error", err.Error()))
		}
	}
}

func (fw *FileWatcher) Events() <-chan FileEvent {
	return fw.events
}

// Close stops watching and waits for the event loop to exit
func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		err = fw.watcher.Close()
		<-fw.done
	})
	return err
}
