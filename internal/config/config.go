// internal/config/config.go

// Package config loads and validates the optional YAML profile overlay.
// The built-in profile table stays compiled in; an overlay can only
// adjust tunables the hardware contract leaves to policy.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Entropy Overrides `yaml:"entropy"`
}

// Overrides is the profile overlay. All fields are opt-in; nil means
// "keep the built-in value".
type Overrides struct {
	Source *SourceOverrides `yaml:"source"`
	EDN0   *EDNOverrides    `yaml:"edn0"`
	EDN1   *EDNOverrides    `yaml:"edn1"`
}

// ---- ENTROPY SOURCE ----

type SourceOverrides struct {
	FIPSWindowSize *uint16             `yaml:"fips_window_size"`
	AlertThreshold *uint16             `yaml:"alert_threshold"`
	Thresholds     *ThresholdOverrides `yaml:"thresholds"`
}

// ThresholdOverrides carries the nine health test thresholds.
type ThresholdOverrides struct {
	Repcnt   *uint16 `yaml:"repcnt"`
	Repcnts  *uint16 `yaml:"repcnts"`
	AdaptpHi *uint16 `yaml:"adaptp_hi"`
	AdaptpLo *uint16 `yaml:"adaptp_lo"`
	Bucket   *uint16 `yaml:"bucket"`
	MarkovHi *uint16 `yaml:"markov_hi"`
	MarkovLo *uint16 `yaml:"markov_lo"`
	ExthtHi  *uint16 `yaml:"extht_hi"`
	ExthtLo  *uint16 `yaml:"extht_lo"`
}

// ---- DISTRIBUTION UNITS ----

type EDNOverrides struct {
	ReseedInterval *uint32 `yaml:"reseed_interval"`
	GenerateBlocks *uint32 `yaml:"generate_blocks"`
}

// Load reads and parses a profile overlay file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
