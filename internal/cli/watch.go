package cli

import (
	"github.com/fsnotify/fsnotify"
)

// FileWatcher announces writes to a single source file, coalescing writes
// that arrive before the previous signal was consumed into one, in the
// background-goroutine-plus-channel shape of the teacher runtime's
// FSNotifyWatcher (internal/runtime/vfs/watch_fsnotify.go), cut down to the
// one event -watch mode cares about: the file changed, re-run the pipeline.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	changed chan struct{}
	errs    chan error
	done    chan struct{}
}

// NewFileWatcher starts watching path for writes.
func NewFileWatcher(path string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	fw := &FileWatcher{
		watcher: w,
		changed: make(chan struct{}, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

func (fw *FileWatcher) loop() {
	for {
		select {
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				select {
				case fw.changed <- struct{}{}:
				default:
				}
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case fw.errs <- err:
			default:
			}
		case <-fw.done:
			return
		}
	}
}

// Changed signals once per batch of writes to the watched file.
func (fw *FileWatcher) Changed() <-chan struct{} {
	return fw.changed
}

// Errors carries watcher-internal failures (e.g. the file's directory was
// removed out from under it).
func (fw *FileWatcher) Errors() <-chan error {
	return fw.errs
}

// Close stops the background loop and releases the underlying inotify (or
// platform-equivalent) handle.
func (fw *FileWatcher) Close() error {
	close(fw.done)
	return fw.watcher.Close()
}
