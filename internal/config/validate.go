package config

import (
	"errors"
	"fmt"
	"regexp"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateScreenshots(); err != nil {
		return err
	}
	if err := c.validateLecture(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.VolumeThresholdDBFS > 0 {
		return errors.New("audio.volume_threshold_dbfs must be zero or negative (dBFS)")
	}
	if c.Audio.OutputSampleRate < 8000 {
		return fmt.Errorf("audio.output_sample_rate must be at least 8000, got %d", c.Audio.OutputSampleRate)
	}
	if c.Audio.FrameSize < 64 {
		return fmt.Errorf("audio.frame_size must be at least 64 samples, got %d", c.Audio.FrameSize)
	}
	return nil
}

func (c *Config) validateScreenshots() error {
	if c.Screenshots.DiffThresholdPercent > 100 {
		return errors.New("screenshots.diff_threshold_percent must be between 0 and 100")
	}
	if c.Screenshots.CompareIntensityThreshold > 255 {
		return errors.New("screenshots.compare_intensity_threshold must be between 0 and 255")
	}
	return nil
}

func (c *Config) validateLecture() error {
	if c.Lecture.LowConfidenceThresholdPercent < 0 || c.Lecture.LowConfidenceThresholdPercent > 100 {
		return errors.New("lecture.low_confidence_threshold_percent must be between 0 and 100")
	}
	if !hexColorPattern.MatchString(c.Lecture.DefaultTextColor) {
		return fmt.Errorf("lecture.default_text_color must be a #rrggbb value, got %q", c.Lecture.DefaultTextColor)
	}
	if !hexColorPattern.MatchString(c.Lecture.LowConfidenceTextColor) {
		return fmt.Errorf("lecture.low_confidence_text_color must be a #rrggbb value, got %q", c.Lecture.LowConfidenceTextColor)
	}
	return nil
}
