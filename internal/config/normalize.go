package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAudio()
	c.normalizeScreenshots()
	c.normalizeTranscription()
	c.normalizeLecture()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RecordingsDir) == "" {
		c.Paths.RecordingsDir = defaultRecordingsDir
	}
	if c.Paths.RecordingsDir, err = expandPath(c.Paths.RecordingsDir); err != nil {
		return fmt.Errorf("paths.recordings_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LecturesDir) == "" {
		c.Paths.LecturesDir = defaultLecturesDir
	}
	if c.Paths.LecturesDir, err = expandPath(c.Paths.LecturesDir); err != nil {
		return fmt.Errorf("paths.lectures_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAudio() {
	if c.Audio.OutputSampleRate <= 0 {
		c.Audio.OutputSampleRate = defaultOutputSampleRate
	}
	if c.Audio.FrameSize <= 0 {
		c.Audio.FrameSize = defaultFrameSize
	}
	if c.Audio.SilenceCloseDuration <= 0 {
		c.Audio.SilenceCloseDuration = defaultSilenceCloseDuration
	}
	if c.Audio.MinChunkBytes < 0 {
		c.Audio.MinChunkBytes = defaultMinChunkBytes
	}
}

func (c *Config) normalizeScreenshots() {
	if c.Screenshots.DiffThresholdPercent <= 0 {
		c.Screenshots.DiffThresholdPercent = defaultDiffThresholdPercent
	}
	if c.Screenshots.CompareIntensityThreshold <= 0 {
		c.Screenshots.CompareIntensityThreshold = defaultCompareIntensityThreshold
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultTranscriptionModel
	}
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))
	if c.Transcription.Language == "" {
		c.Transcription.Language = defaultTranscriptionLanguage
	}
}

func (c *Config) normalizeLecture() {
	if c.Lecture.ParagraphGapThresholdMS <= 0 {
		c.Lecture.ParagraphGapThresholdMS = defaultParagraphGapThresholdMS
	}
	if c.Lecture.PictureWidthInches <= 0 {
		c.Lecture.PictureWidthInches = defaultPictureWidthInches
	}
	if c.Lecture.FontSizePt <= 0 {
		c.Lecture.FontSizePt = defaultFontSizePt
	}
	if strings.TrimSpace(c.Lecture.DefaultTextColor) == "" {
		c.Lecture.DefaultTextColor = defaultTextColor
	}
	if strings.TrimSpace(c.Lecture.LowConfidenceTextColor) == "" {
		c.Lecture.LowConfidenceTextColor = defaultLowConfidenceTextColor
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
