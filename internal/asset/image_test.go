package asset

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"chosenoffset.com/arcade/internal/render"
	"chosenoffset.com/arcade/internal/render/rendertest"
)

func waitDone(t *testing.T, img *Image) {
	t.Helper()
	select {
	case <-img.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("Image did not reach a terminal state, still %v", img.State())
	}
}

func TestAllPathsFailingSynthesizes(t *testing.T) {
	loader := rendertest.NewLoader()
	synthCalls := 0
	placeholder := rendertest.NewImage(160, 90)

	img := New(loader, "thumbs/pong.png", func() render.Image {
		synthCalls++
		return placeholder
	}, Options{Fallbacks: []string{"thumbs/pong.jpg", "fallback/pong.png"}})

	if img.State() != Unresolved {
		t.Fatalf("Expected Unresolved before Resolve, got %v", img.State())
	}

	img.Resolve(context.Background())
	waitDone(t, img)

	if img.State() != Synthesized {
		t.Errorf("Expected Synthesized, got %v", img.State())
	}
	if got := loader.AttemptCount(); got != 3 {
		t.Errorf("Expected exactly 3 attempts (F+1), got %d", got)
	}
	if img.Attempts() != 3 {
		t.Errorf("Expected Attempts() 3, got %d", img.Attempts())
	}
	if synthCalls != 1 {
		t.Errorf("Expected synthesizer called once, got %d", synthCalls)
	}
	if img.Handle() != placeholder {
		t.Error("Expected handle to be the synthesized placeholder")
	}

	// Terminal: resolving again never retries
	img.Resolve(context.Background())
	time.Sleep(10 * time.Millisecond)
	if got := loader.AttemptCount(); got != 3 {
		t.Errorf("Expected no further attempts after terminal state, got %d", got)
	}
}

func TestFallbackSucceeds(t *testing.T) {
	loader := rendertest.NewLoader("b.png")
	img := New(loader, "a.png", nil, Options{Fallbacks: []string{"b.png", "c.png"}})

	img.Resolve(context.Background())
	waitDone(t, img)

	if img.State() != Loaded {
		t.Fatalf("Expected Loaded, got %v", img.State())
	}
	if img.PathIndex() != 1 {
		t.Errorf("Expected path index 1, got %d", img.PathIndex())
	}
	if loader.AttemptCount() != 2 {
		t.Errorf("Expected 2 attempts, got %d", loader.AttemptCount())
	}
}

func TestResolverIsApplied(t *testing.T) {
	loader := rendertest.NewLoader("assets/sprites/tv.png")
	img := New(loader, "sprites/tv.png", nil, Options{
		Resolver: func(p string) string { return "assets/" + p },
	})

	img.Resolve(context.Background())
	waitDone(t, img)

	if img.State() != Loaded {
		t.Errorf("Expected Loaded through resolver, got %v", img.State())
	}
	if loader.Attempts[0] != "assets/sprites/tv.png" {
		t.Errorf("Expected resolved path, got %q", loader.Attempts[0])
	}
}

func TestMaxAttemptsBoundsChain(t *testing.T) {
	loader := rendertest.NewLoader()
	img := New(loader, "1", nil, Options{
		Fallbacks:   []string{"2", "3", "4", "5"},
		MaxAttempts: 2,
	})

	img.Resolve(context.Background())
	waitDone(t, img)

	if loader.AttemptCount() != 2 {
		t.Errorf("Expected attempts capped at 2, got %d", loader.AttemptCount())
	}
	if img.State() != Synthesized {
		t.Errorf("Expected Synthesized, got %v", img.State())
	}
}

func TestNoPathsSynthesizesImmediately(t *testing.T) {
	loader := rendertest.NewLoader()
	img := New(loader, "", func() render.Image { return rendertest.NewImage(1, 1) }, Options{})

	img.Resolve(context.Background())
	waitDone(t, img)

	if img.State() != Synthesized {
		t.Errorf("Expected Synthesized, got %v", img.State())
	}
	if loader.AttemptCount() != 0 {
		t.Errorf("Expected no load attempts, got %d", loader.AttemptCount())
	}
}

func TestCancelledContextEndsSynthesized(t *testing.T) {
	loader := rendertest.NewLoader()
	img := New(loader, "a", nil, Options{
		Fallbacks:  []string{"b", "c"},
		RetryDelay: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	img.Resolve(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
	waitDone(t, img)

	if img.State() != Synthesized {
		t.Errorf("Expected Synthesized after cancel, got %v", img.State())
	}
	if loader.AttemptCount() != 1 {
		t.Errorf("Expected 1 attempt before cancel, got %d", loader.AttemptCount())
	}
}

func TestStateTerminal(t *testing.T) {
	if Unresolved.Terminal() || Loading.Terminal() {
		t.Error("Expected Unresolved and Loading to be non-terminal")
	}
	if !Loaded.Terminal() || !Synthesized.Terminal() {
		t.Error("Expected Loaded and Synthesized to be terminal")
	}
}

// gatedLoader blocks every load until release is closed
type gatedLoader struct {
	entered chan struct{}
	release chan struct{}
	loaded  *rendertest.Image
}

func (l *gatedLoader) LoadImage(path string) (render.Image, error) {
	close(l.entered)
	<-l.release
	return l.loaded, nil
}

func TestDisposeDuringLoadFreesLateHandle(t *testing.T) {
	loader := &gatedLoader{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		loaded:  rendertest.NewImage(16, 16),
	}
	img := New(loader, "slow.png", nil, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	img.Resolve(ctx)
	<-loader.entered

	cancel()
	img.Dispose()
	close(loader.release)
	waitDone(t, img)

	if img.Handle() != nil {
		t.Error("Expected no handle kept after Dispose")
	}
	if !loader.loaded.Disposed {
		t.Error("Expected the late loaded image to be disposed")
	}
}

// failingLoader fails every load and counts attempts
type failingLoader struct {
	attempts atomic.Int32
}

func (l *failingLoader) LoadImage(path string) (render.Image, error) {
	l.attempts.Add(1)
	return nil, errors.New("missing")
}

func TestDisposeDuringRetryWaitSkipsSynthesizer(t *testing.T) {
	loader := &failingLoader{}
	var synthCalls atomic.Int32
	img := New(loader, "a.png", func() render.Image {
		synthCalls.Add(1)
		return rendertest.NewImage(8, 8)
	}, Options{Fallbacks: []string{"b.png"}, RetryDelay: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	img.Resolve(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for loader.attempts.Load() < 1 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	img.Dispose()
	cancel()
	waitDone(t, img)

	if img.State() != Synthesized {
		t.Errorf("Expected Synthesized, got %v", img.State())
	}
	if got := synthCalls.Load(); got != 0 {
		t.Errorf("Expected synthesizer not called after Dispose, got %d calls", got)
	}
	if img.Handle() != nil {
		t.Error("Expected no handle kept after Dispose")
	}
	if got := loader.attempts.Load(); got != 1 {
		t.Errorf("Expected 1 attempt, got %d", got)
	}
}
