package config

const (
	defaultRecordingsDir = "~/.local/share/lectern/recordings"
	defaultLecturesDir   = "~/.local/share/lectern/lectures"
	defaultLogDir        = "~/.local/share/lectern/logs"

	defaultVolumeThresholdDBFS  = -35.0
	defaultSilenceCloseDuration = 3.0
	defaultOutputSampleRate     = 16000
	defaultFrameSize            = 1024
	defaultMinChunkBytes        = 4096

	defaultDiffThresholdPercent      = 5.0
	defaultCompareIntensityThreshold = 50

	defaultTranscriptionModel    = "small"
	defaultTranscriptionLanguage = "en"

	defaultParagraphGapThresholdMS       = 2000
	defaultLowConfidenceThresholdPercent = 50
	defaultPictureWidthInches            = 5.0
	defaultFontSizePt                    = 12
	defaultTextColor                     = "#000000"
	defaultLowConfidenceTextColor        = "#c00000"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RecordingsDir: defaultRecordingsDir,
			LecturesDir:   defaultLecturesDir,
			LogDir:        defaultLogDir,
		},
		Audio: Audio{
			VolumeThresholdDBFS:  defaultVolumeThresholdDBFS,
			SilenceCloseDuration: defaultSilenceCloseDuration,
			OutputSampleRate:     defaultOutputSampleRate,
			FrameSize:            defaultFrameSize,
			MinChunkBytes:        defaultMinChunkBytes,
		},
		Screenshots: Screenshots{
			Enabled:                   true,
			DiffThresholdPercent:      defaultDiffThresholdPercent,
			CompareIntensityThreshold: defaultCompareIntensityThreshold,
		},
		Transcription: Transcription{
			Model:    defaultTranscriptionModel,
			Language: defaultTranscriptionLanguage,
		},
		Lecture: Lecture{
			ParagraphGapThresholdMS:       defaultParagraphGapThresholdMS,
			LowConfidenceThresholdPercent: defaultLowConfidenceThresholdPercent,
			PictureWidthInches:            defaultPictureWidthInches,
			FontSizePt:                    defaultFontSizePt,
			DefaultTextColor:              defaultTextColor,
			LowConfidenceTextColor:        defaultLowConfidenceTextColor,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
