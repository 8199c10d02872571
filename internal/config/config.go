package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Directory containing the ripped track files (track02.wav, ...)
	TrackDir string `yaml:"track_dir"`

	// Track numbering limits. Track 1 is reserved for data, as on a
	// mixed-mode disc, so audio starts at track 2.
	FirstTrack int `yaml:"first_track,omitempty"`
	MaxTrack   int `yaml:"max_track,omitempty"`

	// Playback backend: "beep" (in-process, true pause/resume) or
	// "oneshot" (external player process, pause restarts the track)
	Backend string `yaml:"backend,omitempty"`

	Oneshot OneshotConfig `yaml:"oneshot,omitempty"`
	Control ControlConfig `yaml:"control,omitempty"`
}

// OneshotConfig configures the external-player backend
type OneshotConfig struct {
	PlayerCmd string `yaml:"player_cmd,omitempty"`
}

// ControlConfig configures the TCP control front end
type ControlConfig struct {
	ListenAddr string `yaml:"listen_addr,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		TrackDir:   "/media/cdrom",
		FirstTrack: 2,
		MaxTrack:   99,
		Backend:    "beep",
		Oneshot: OneshotConfig{
			PlayerCmd: "aplay",
		},
		Control: ControlConfig{
			ListenAddr: "localhost:6601",
		},
	}
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyDefaults fills fields left empty by a partial config file
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.TrackDir == "" {
		c.TrackDir = def.TrackDir
	}
	if c.FirstTrack <= 0 {
		c.FirstTrack = def.FirstTrack
	}
	if c.MaxTrack <= 0 {
		c.MaxTrack = def.MaxTrack
	}
	if c.Backend == "" {
		c.Backend = def.Backend
	}
	if c.Oneshot.PlayerCmd == "" {
		c.Oneshot.PlayerCmd = def.Oneshot.PlayerCmd
	}
	if c.Control.ListenAddr == "" {
		c.Control.ListenAddr = def.Control.ListenAddr
	}
}
