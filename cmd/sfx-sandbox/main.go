// sfx-sandbox plays every kiosk sound from a terminal so recipes can be
// auditioned without starting the world.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"chosenoffset.com/arcade/internal/audio"
)

const referenceHz = 440

type sandbox struct {
	screen tcell.Screen
	out    *audio.SpeakerOutput
	engine *audio.Engine
	cfg    *audio.Config

	last    string
	lastErr string
}

func newSandbox() (*sandbox, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	cfg := audio.LoadConfig()
	out := audio.NewSpeakerOutput(beep.SampleRate(cfg.SampleRate))
	return &sandbox{
		screen: screen,
		out:    out,
		cfg:    cfg,
		engine: audio.NewEngine(cfg, audio.ThemeArcade, out),
	}, nil
}

func (s *sandbox) toggleTheme() {
	if s.engine.Theme() == audio.ThemeArcade {
		s.engine.SetTheme(audio.ThemeTelevision)
	} else {
		s.engine.SetTheme(audio.ThemeArcade)
	}
}

// playReference plays a plain sine so recipe loudness has something to compare against
func (s *sandbox) playReference() {
	rate := s.out.SampleRate()
	sine, err := generators.SineTone(rate, referenceHz)
	if err != nil {
		s.lastErr = err.Error()
		return
	}
	tone := beep.Take(rate.N(300*time.Millisecond), sine)
	if err := s.out.Play(tone); err != nil {
		s.lastErr = err.Error()
		return
	}
	s.last = fmt.Sprintf("reference %d Hz", referenceHz)
}

func (s *sandbox) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch r := ev.Rune(); {
		case r == 'q':
			return false
		case r == 't':
			s.toggleTheme()
		case r == 'm':
			s.cfg.Enabled = !s.cfg.Enabled
		case r == 'r':
			s.playReference()
		case r >= '1' && r <= '9':
			events := audio.AllEvents()
			if i := int(r - '1'); i < len(events) {
				s.engine.Play(events[i])
				s.last = events[i].String()
			}
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

func (s *sandbox) puts(x, y int, style tcell.Style, str string) {
	for i, r := range []rune(str) {
		s.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (s *sandbox) draw() {
	s.screen.Clear()
	title := tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	plain := tcell.StyleDefault
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	s.puts(2, 1, title, "Kiosk SFX Sandbox")
	y := 3
	for i, kind := range audio.AllEvents() {
		s.puts(4, y, plain, fmt.Sprintf("%d  %-10s volume %.2f", i+1, kind, s.cfg.VolumeFor(kind)))
		y++
	}
	y++
	s.puts(4, y, plain, fmt.Sprintf("theme   %s", s.engine.Theme()))
	s.puts(4, y+1, plain, fmt.Sprintf("enabled %v", s.cfg.Enabled))
	s.puts(4, y+2, plain, fmt.Sprintf("playing %d   played %d", s.engine.Active(), s.engine.Played()))
	if s.last != "" {
		s.puts(4, y+3, plain, "last    "+s.last)
	}
	if s.lastErr != "" {
		s.puts(4, y+4, tcell.StyleDefault.Foreground(tcell.ColorRed), "error   "+s.lastErr)
	}
	s.puts(2, y+6, dim, "1-6: play   t: theme   m: mute   r: reference tone   q: quit")
	s.screen.Show()
}

func (s *sandbox) run() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 16)
	go func() {
		for {
			eventChan <- s.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !s.handleInput(ev) {
				return
			}
		case <-ticker.C:
			s.draw()
		}
	}
}

func (s *sandbox) cleanup() {
	s.out.Close()
	s.screen.Fini()
}

func main() {
	s, err := newSandbox()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer s.cleanup()

	s.run()
}
