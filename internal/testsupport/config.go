package testsupport

import (
	"path/filepath"
	"testing"

	"lectern/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.RecordingsDir = filepath.Join(base, "recordings")
	cfg.Paths.LecturesDir = filepath.Join(base, "lectures")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return &cfg
}

// WithScreenshotThresholds overrides the frame-difference thresholds.
func WithScreenshotThresholds(diffPercent float64, intensity int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Screenshots.DiffThresholdPercent = diffPercent
		cfg.Screenshots.CompareIntensityThreshold = intensity
	}
}

// WithAudioThresholds overrides the segmenter silence policy.
func WithAudioThresholds(volumeDBFS float64, silenceSeconds float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Audio.VolumeThresholdDBFS = volumeDBFS
		cfg.Audio.SilenceCloseDuration = silenceSeconds
	}
}
