package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	RecordingsDir string `toml:"recordings_dir"`
	LecturesDir   string `toml:"lectures_dir"`
	LogDir        string `toml:"log_dir"`
}

// Audio contains configuration for loopback capture segmentation.
type Audio struct {
	// VolumeThresholdDBFS is the silence boundary: frames at or above it
	// keep the current chunk open.
	VolumeThresholdDBFS float64 `toml:"volume_threshold_dbfs"`
	// SilenceCloseDuration is how long the signal must stay below the
	// threshold, in seconds, before the open chunk is closed.
	SilenceCloseDuration float64 `toml:"silence_close_duration"`
	// OutputSampleRate is the sample rate of the written WAV chunks,
	// independent of the capture device rate.
	OutputSampleRate int `toml:"output_sample_rate"`
	// FrameSize is the number of samples delivered per capture frame.
	FrameSize int `toml:"frame_size"`
	// MinChunkBytes is the floor below which a written chunk is treated as
	// a false start and skipped during aggregation.
	MinChunkBytes int64 `toml:"min_chunk_bytes"`
}

// Screenshots contains configuration for frame-difference capture.
type Screenshots struct {
	Enabled                   bool    `toml:"enabled"`
	DiffThresholdPercent      float64 `toml:"diff_threshold_percent"`
	CompareIntensityThreshold int     `toml:"compare_intensity_threshold"`
}

// Transcription contains configuration for the WhisperX transcriber.
type Transcription struct {
	Model       string `toml:"model"`
	Language    string `toml:"language"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
}

// Lecture contains configuration for document assembly.
type Lecture struct {
	ParagraphGapThresholdMS       int64   `toml:"paragraph_gap_threshold_ms"`
	LowConfidenceThresholdPercent int     `toml:"low_confidence_threshold_percent"`
	PictureWidthInches            float64 `toml:"picture_width_inches"`
	FontSizePt                    int     `toml:"font_size_pt"`
	DefaultTextColor              string  `toml:"default_text_color"`
	LowConfidenceTextColor        string  `toml:"low_confidence_text_color"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config is the root configuration for lectern.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Audio         Audio         `toml:"audio"`
	Screenshots   Screenshots   `toml:"screenshots"`
	Transcription Transcription `toml:"transcription"`
	Lecture       Lecture       `toml:"lecture"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the conventional config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "lectern", "config.toml"), nil
}

// Load reads configuration from path (or the default location when empty),
// applies defaults, normalizes derived values, and validates the result.
// It returns the config, the resolved path, and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, resolved, true, fmt.Errorf("read config %s: %w", resolved, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, resolved, true, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolved, exists, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, exists, err
	}
	return &cfg, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	candidate := strings.TrimSpace(path)
	if candidate == "" {
		def, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		candidate = def
	}
	expanded, err := expandPath(candidate)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config %s: %w", expanded, err)
	}
	return expanded, true, nil
}

// EnsureDirectories creates the directories lectern writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.RecordingsDir, c.Paths.LecturesDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SessionDBPath returns the location of the session index database.
func (c *Config) SessionDBPath() string {
	return filepath.Join(c.Paths.RecordingsDir, "sessions.db")
}

// SessionDir returns the root directory of a recording session.
func (c *Config) SessionDir(sessionID string) string {
	return filepath.Join(c.Paths.RecordingsDir, sessionID)
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
