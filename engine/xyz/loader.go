package xyz

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/fsnotify/fsnotify"
)

// Result is one completed load attempt delivered on the loader's channel.
// Exactly one of Structure and Err is set.
type Result struct {
	// Path is the file the attempt read.
	Path string
	// Structure is the parsed structure on success.
	Structure *ParsedStructure
	// Err is the load error on failure: file missing/unreadable or a parse
	// error wrapping ErrMalformed.
	Err error
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.Mutex

	pool    worker.DynamicWorkerPool
	results chan Result
	watcher *fsnotify.Watcher
	nextID  int
}

// Loader reads and parses XYZ files off the interactive thread. Load
// submits a parse task to a worker pool; the completed Result arrives on
// Results, which the interactive thread drains with a non-blocking receive
// each frame. A file read or parse never blocks a frame. Late results after
// the consumer is gone are dropped, not delivered.
type Loader interface {
	// Load submits an asynchronous read-and-parse of the given file. The
	// outcome, success or failure, arrives on Results.
	//
	// Parameters:
	//   - path: the XYZ file to load
	Load(path string)

	// Results is the delivery channel for completed load attempts. Receive
	// non-blockingly; the channel is never closed while the loader lives.
	//
	// Returns:
	//   - <-chan Result: the result channel
	Results() <-chan Result

	// Watch re-submits a load whenever the file changes on disk. Only one
	// file is watched at a time; watching a new path replaces the old one.
	//
	// Parameters:
	//   - path: the XYZ file to watch
	//
	// Returns:
	//   - error: an error if the watcher could not be started
	Watch(path string) error

	// Close stops the file watcher. In-flight parse tasks finish and their
	// results are dropped once nobody drains the channel.
	//
	// Returns:
	//   - error: an error from closing the watcher
	Close() error
}

var _ Loader = &loader{}

// NewLoader creates a loader with all options applied. The default worker
// pool runs a single worker; one-shot structure loads need no more.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the newly created loader
func NewLoader(options ...LoaderOption) Loader {
	l := &loader{
		mu:      &sync.Mutex{},
		pool:    worker.NewDynamicWorkerPool(1, 16, 5*time.Second),
		results: make(chan Result, 4),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.mu.Unlock()

	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			res := Result{Path: path}
			data, err := os.ReadFile(path)
			if err != nil {
				res.Err = fmt.Errorf("read %s: %w", path, err)
			} else {
				res.Structure, res.Err = Parse(bytes.NewReader(data))
			}
			// Drop rather than block when nobody is draining: the consumer
			// may already be gone by the time a late parse finishes.
			select {
			case l.results <- res:
			default:
				log.Printf("xyz: dropping stale load result for %s", path)
			}
			return nil, res.Err
		},
	})
}

func (l *loader) Results() <-chan Result {
	return l.results
}

func (l *loader) Watch(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		l.watcher.Close()
		l.watcher = nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	// Watch the directory, not the file: editors that save via rename
	// replace the inode and would silently detach a file watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", path, err)
	}
	l.watcher = watcher

	target := filepath.Clean(path)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					log.Printf("xyz: %s changed on disk, reloading", target)
					l.Load(target)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("xyz: watcher error: %v", err)
			}
		}
	}()
	return nil
}

func (l *loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.watcher != nil {
		err := l.watcher.Close()
		l.watcher = nil
		return err
	}
	return nil
}
