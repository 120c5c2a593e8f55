package audio

import (
	"encoding/json"
	"os"
	"strconv"
)

// Environment variables read by LoadConfig
const (
	EnvEnabled      = "ARCADE_AUDIO_ENABLED"
	EnvMasterVolume = "ARCADE_MASTER_VOLUME"
	EnvSampleRate   = "ARCADE_SAMPLE_RATE"
	EnvSFXVolumes   = "ARCADE_SFX_VOLUMES"
)

// Config holds audio settings
type Config struct {
	Enabled      bool
	MasterVolume float64 // 0.0 to 1.0
	SampleRate   int
	EventVolumes map[EventKind]float64
}

// DefaultConfig returns the built-in audio settings
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MasterVolume: 0.6,
		SampleRate:   44100,
		EventVolumes: map[EventKind]float64{
			Activate:  0.8,
			Select:    0.6,
			Open:      0.8,
			Close:     0.8,
			Launch:    1.0,
			Proximity: 0.5,
		},
	}
}

// LoadConfig loads audio configuration from environment variables over the defaults
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if enabled := os.Getenv(EnvEnabled); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume is 0-100 on the environment side
	if volume := os.Getenv(EnvMasterVolume); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = clamp01(float64(val) / 100.0)
		}
	}

	if sampleRate := os.Getenv(EnvSampleRate); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	// Per-event volumes as a JSON object keyed by event name
	if sfx := os.Getenv(EnvSFXVolumes); sfx != "" {
		var volumes map[string]float64
		if err := json.Unmarshal([]byte(sfx), &volumes); err == nil {
			for name, v := range volumes {
				if kind, ok := ParseEventKind(name); ok {
					cfg.EventVolumes[kind] = clamp01(v)
				}
			}
		}
	}

	return cfg
}

// VolumeFor returns the linear output gain for an event
func (c *Config) VolumeFor(kind EventKind) float64 {
	v, ok := c.EventVolumes[kind]
	if !ok {
		v = 1
	}
	return clamp01(v * c.MasterVolume)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
