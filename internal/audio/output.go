package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// ErrOutputUnavailable is returned when no audio device can be opened
var ErrOutputUnavailable = errors.New("audio output unavailable")

// Output plays finished graphs
type Output interface {
	Play(s beep.Streamer) error
	SampleRate() beep.SampleRate
}

// SpeakerOutput plays through the system speaker. The device is opened on
// the first Play so a muted or silent session never touches it.
type SpeakerOutput struct {
	rate    beep.SampleRate
	buffer  time.Duration
	once    sync.Once
	initErr error
	opened  bool
}

// NewSpeakerOutput creates a speaker output at the given rate
func NewSpeakerOutput(rate beep.SampleRate) *SpeakerOutput {
	return &SpeakerOutput{rate: rate, buffer: 100 * time.Millisecond}
}

// SampleRate implements Output
func (s *SpeakerOutput) SampleRate() beep.SampleRate {
	return s.rate
}

// Play implements Output. beep's speaker mixes everything it is given, so
// overlapping graphs play concurrently.
func (s *SpeakerOutput) Play(st beep.Streamer) error {
	s.once.Do(func() {
		s.initErr = speaker.Init(s.rate, s.rate.N(s.buffer))
		s.opened = s.initErr == nil
	})
	if s.initErr != nil {
		return fmt.Errorf("%w: %v", ErrOutputUnavailable, s.initErr)
	}
	speaker.Play(st)
	return nil
}

// Close releases the device if it was opened
func (s *SpeakerOutput) Close() {
	// Spend the once so a late Play cannot reopen the device
	s.once.Do(func() { s.initErr = errors.New("speaker closed before first use") })
	if s.opened {
		speaker.Close()
	}
}

// NullOutput consumes graphs silently in the background so their teardown
// still runs.
type NullOutput struct {
	Rate beep.SampleRate
}

// SampleRate implements Output
func (n NullOutput) SampleRate() beep.SampleRate {
	if n.Rate <= 0 {
		return beep.SampleRate(22050)
	}
	return n.Rate
}

// Play implements Output
func (n NullOutput) Play(s beep.Streamer) error {
	go Drain(s)
	return nil
}

// RecordingOutput keeps every graph it is handed for tests and offline rendering
type RecordingOutput struct {
	mu        sync.Mutex
	Rate      beep.SampleRate
	streamers []beep.Streamer
}

// SampleRate implements Output
func (r *RecordingOutput) SampleRate() beep.SampleRate {
	return r.Rate
}

// Play implements Output
func (r *RecordingOutput) Play(s beep.Streamer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streamers = append(r.streamers, s)
	return nil
}

// Take returns and forgets the recorded streamers
func (r *RecordingOutput) Take() []beep.Streamer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.streamers
	r.streamers = nil
	return out
}

// Render streams s to completion, up to limit samples, and returns the left
// channel.
func Render(s beep.Streamer, limit int) []float64 {
	var out []float64
	buf := make([][2]float64, 512)
	for len(out) < limit {
		want := len(buf)
		if rem := limit - len(out); rem < want {
			want = rem
		}
		n, ok := s.Stream(buf[:want])
		for i := 0; i < n; i++ {
			out = append(out, buf[i][0])
		}
		if !ok {
			break
		}
	}
	return out
}

// Drain streams s to completion and discards the samples
func Drain(s beep.Streamer) {
	buf := make([][2]float64, 512)
	for {
		if _, ok := s.Stream(buf); !ok {
			return
		}
	}
}
