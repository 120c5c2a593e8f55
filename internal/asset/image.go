// Package asset provides lazily resolved images that walk an ordered list of
// candidate paths and finish on a procedurally synthesized placeholder when
// every path fails.
package asset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"chosenoffset.com/arcade/internal/render"
)

// ErrNoPaths is logged when an image is created without any candidate path.
var ErrNoPaths = errors.New("asset: no image paths")

// DefaultRetryDelay is the pause between a failed attempt and the next path
const DefaultRetryDelay = 150 * time.Millisecond

// DefaultMaxAttempts caps how many paths are ever tried for one image
const DefaultMaxAttempts = 8

// State is the resolution state of an Image
type State int

const (
	// Unresolved images have not been asked to load yet
	Unresolved State = iota
	// Loading images are trying the path at PathIndex
	Loading
	// Loaded images hold a handle from one of their paths
	Loaded
	// Synthesized images gave up on files and hold a generated placeholder
	Synthesized
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Synthesized:
		return "synthesized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether the state is never left again
func (s State) Terminal() bool {
	return s == Loaded || s == Synthesized
}

// Resolver maps a logical asset path to one the loader can open
type Resolver func(logicalPath string) string

// Synthesizer draws the placeholder used once every path has failed
type Synthesizer func() render.Image

// Options tune the fallback chain
type Options struct {
	Fallbacks   []string
	Resolver    Resolver
	RetryDelay  time.Duration
	MaxAttempts int
	// Label names the image in log lines
	Label string
}

// Image is a lazily loaded picture with a bounded fallback chain.
// All methods are safe for concurrent use; resolution runs on its own goroutine.
type Image struct {
	mu          sync.Mutex
	loader      render.ResourceLoader
	synth       Synthesizer
	resolve     Resolver
	paths       []string
	retryDelay  time.Duration
	maxAttempts int
	label       string

	state    State
	index    int
	attempts int
	handle   render.Image
	started  bool
	disposed bool
	done     chan struct{}
}

// New creates an unresolved image for a primary path and its fallbacks.
// Empty paths are skipped.
func New(loader render.ResourceLoader, primary string, synth Synthesizer, opts Options) *Image {
	paths := make([]string, 0, 1+len(opts.Fallbacks))
	for _, p := range append([]string{primary}, opts.Fallbacks...) {
		if p != "" {
			paths = append(paths, p)
		}
	}

	img := &Image{
		loader:      loader,
		synth:       synth,
		resolve:     opts.Resolver,
		paths:       paths,
		retryDelay:  opts.RetryDelay,
		maxAttempts: opts.MaxAttempts,
		label:       opts.Label,
		done:        make(chan struct{}),
	}
	if img.resolve == nil {
		img.resolve = func(p string) string { return p }
	}
	if img.retryDelay < 0 {
		img.retryDelay = 0
	}
	if img.maxAttempts <= 0 {
		img.maxAttempts = DefaultMaxAttempts
	}
	if img.label == "" {
		img.label = primary
	}
	return img
}

// Resolve starts loading in the background. Only the first call has any effect.
// Cancelling ctx stops the chain early and the image ends up synthesized.
func (img *Image) Resolve(ctx context.Context) {
	img.mu.Lock()
	if img.started {
		img.mu.Unlock()
		return
	}
	img.started = true
	img.mu.Unlock()

	go img.run(ctx)
}

func (img *Image) run(ctx context.Context) {
	if len(img.paths) == 0 {
		log.Printf("Warning: %s: %v, drawing placeholder", img.label, ErrNoPaths)
		img.finishSynthesized()
		return
	}

	limit := len(img.paths)
	if limit > img.maxAttempts {
		limit = img.maxAttempts
	}

	for i := 0; i < limit; i++ {
		img.mu.Lock()
		img.state = Loading
		img.index = i
		img.attempts++
		img.mu.Unlock()

		path := img.resolve(img.paths[i])
		handle, err := img.loader.LoadImage(path)
		if err == nil && handle != nil {
			img.finish(Loaded, handle)
			return
		}
		if err == nil {
			err = fmt.Errorf("loader returned no image for %s", path)
		}
		log.Printf("Warning: Failed to load image %s (attempt %d/%d): %v", path, i+1, limit, err)

		if i == limit-1 {
			break
		}
		if !img.wait(ctx) {
			log.Printf("Warning: %s: resolution cancelled: %v", img.label, ctx.Err())
			break
		}
	}

	img.finishSynthesized()
}

// wait sleeps for the retry delay; it returns false when ctx ends first
func (img *Image) wait(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if img.retryDelay == 0 {
		return true
	}
	timer := time.NewTimer(img.retryDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (img *Image) finishSynthesized() {
	var handle render.Image
	if img.synth != nil && !img.isDisposed() {
		handle = img.synth()
	}
	img.finish(Synthesized, handle)
}

// finish installs the terminal state. A handle that arrives after Dispose is
// freed instead of kept.
func (img *Image) finish(state State, handle render.Image) {
	img.mu.Lock()
	if img.disposed {
		if handle != nil {
			handle.Dispose()
		}
		handle = nil
	}
	img.handle = handle
	img.state = state
	img.mu.Unlock()
	close(img.done)
}

func (img *Image) isDisposed() bool {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.disposed
}

// State returns the current resolution state
func (img *Image) State() State {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.state
}

// PathIndex returns the index of the path being (or last) tried
func (img *Image) PathIndex() int {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.index
}

// Attempts returns how many load attempts have been made
func (img *Image) Attempts() int {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.attempts
}

// Handle returns the loaded or synthesized image, or nil while unresolved
func (img *Image) Handle() render.Image {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.handle
}

// Done is closed once the image reaches a terminal state
func (img *Image) Done() <-chan struct{} {
	return img.done
}

// Dispose frees the held handle. A resolution still in flight finishes
// without keeping anything.
func (img *Image) Dispose() {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.disposed = true
	if img.handle != nil {
		img.handle.Dispose()
		img.handle = nil
	}
}
