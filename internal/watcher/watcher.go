// Package watcher reports changes to a single file.
//
// The parent directory is watched rather than the file itself so that
// editors which save by writing a temporary file and renaming it over the
// original keep being followed. Rapid changes are debounced into one event.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed = errors.New("watcher is closed")
	ErrPathNotExist  = errors.New("path does not exist")
	ErrIsDirectory   = errors.New("path is a directory")
)

// DefaultDelay is the default debounce window.
const DefaultDelay = 100 * time.Millisecond

// Op represents the type of file system operation.
type Op uint32

const (
	// OpCreate indicates the file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates the file was written to.
	OpWrite
	// OpRemove indicates the file was removed.
	OpRemove
	// OpRename indicates the file was renamed.
	OpRename
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpRename:
		return "RENAME"
	default:
		return "UNKNOWN"
	}
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event is a debounced change. Op combines every operation seen in the
// debounce window.
type Event struct {
	Path      string
	Op        Op
	Timestamp time.Time
}

// Stats provides watcher status information.
type Stats struct {
	// RawEvents counts fsnotify events for the watched file.
	RawEvents int64
	// Delivered counts debounced events sent.
	Delivered int64
	// Dropped counts debounced events lost to a full channel.
	Dropped int64
	// Errors counts errors reported by fsnotify.
	Errors int64
}

// Config holds watcher settings.
type Config struct {
	// Delay is the debounce window.
	Delay time.Duration
	// BufferSize is the capacity of the event and error channels.
	BufferSize int
}

// Option configures a FileWatcher.
type Option func(*Config)

// WithDelay sets the debounce window.
func WithDelay(d time.Duration) Option {
	return func(c *Config) {
		c.Delay = d
	}
}

// WithBufferSize sets the channel capacity.
func WithBufferSize(n int) Option {
	return func(c *Config) {
		c.BufferSize = n
	}
}

// FileWatcher watches one file.
type FileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	config  Config

	events chan Event
	errors chan error

	rawEvents int64
	delivered int64
	dropped   int64
	errCount  int64

	mu       sync.Mutex
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New starts watching path, which must be an existing file.
func New(path string, opts ...Option) (*FileWatcher, error) {
	config := Config{Delay: DefaultDelay, BufferSize: 16}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Delay <= 0 {
		config.Delay = DefaultDelay
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 16
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPathNotExist
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, ErrIsDirectory
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &FileWatcher{
		path:    absPath,
		watcher: fsw,
		config:  config,
		events:  make(chan Event, config.BufferSize),
		errors:  make(chan error, config.BufferSize),
		closeCh: make(chan struct{}),
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path being watched.
func (w *FileWatcher) Path() string {
	return w.path
}

// Events returns the debounced event channel. It is closed by Close.
func (w *FileWatcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *FileWatcher) Errors() <-chan error {
	return w.errors
}

// Stats returns watcher statistics.
func (w *FileWatcher) Stats() Stats {
	return Stats{
		RawEvents: atomic.LoadInt64(&w.rawEvents),
		Delivered: atomic.LoadInt64(&w.delivered),
		Dropped:   atomic.LoadInt64(&w.dropped),
		Errors:    atomic.LoadInt64(&w.errCount),
	}
}

// Close stops the watcher. Pending changes are discarded.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	// Wait for processLoop to finish
	w.closedWg.Wait()

	close(w.events)
	close(w.errors)

	return w.watcher.Close()
}

// processLoop handles incoming fsnotify events and flushes the debounced
// event when the timer fires.
func (w *FileWatcher) processLoop() {
	defer w.closedWg.Done()

	timer := time.NewTimer(w.config.Delay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending Op
	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			op := w.match(fsEvent)
			if op == 0 {
				continue
			}
			atomic.AddInt64(&w.rawEvents, 1)
			pending |= op
			timer.Reset(w.config.Delay)

		case <-timer.C:
			if pending != 0 {
				w.send(Event{Path: w.path, Op: pending, Timestamp: time.Now()})
				pending = 0
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			atomic.AddInt64(&w.errCount, 1)
			select {
			case w.errors <- err:
			default:
				// Channel full, drop error
			}
		}
	}
}

// match returns the operations of fsEvent that concern the watched file.
// Permission changes are ignored.
func (w *FileWatcher) match(fsEvent fsnotify.Event) Op {
	if filepath.Clean(fsEvent.Name) != w.path {
		return 0
	}
	return convertOp(fsEvent.Op)
}

func (w *FileWatcher) send(event Event) {
	select {
	case w.events <- event:
		atomic.AddInt64(&w.delivered, 1)
	default:
		// Channel full, drop event
		atomic.AddInt64(&w.dropped, 1)
	}
}

// convertOp converts fsnotify.Op to watcher.Op.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
