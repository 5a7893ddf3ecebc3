package segment

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"lectern/internal/artifacts"
	"lectern/internal/logging"
)

const resampleQuality = 4

// Config describes one session's segmentation parameters. CaptureSampleRate
// comes from the audio source; the rest comes from application config.
type Config struct {
	Dir                 string
	CaptureSampleRate   int
	OutputSampleRate    int
	VolumeThresholdDBFS float64
	MinSilentFrames     int
}

// Chunk is a finalized, disk-persisted audio segment.
type Chunk struct {
	StartOffset time.Duration
	Path        string
	Samples     int
}

// Segmenter turns a continuous stream of mono frames into silence-bounded
// WAV chunks. It is invoked synchronously from the frame-delivery goroutine
// and keeps no locks; the recorder owns its lifecycle.
type Segmenter struct {
	cfg    Config
	logger *slog.Logger

	quietFrames int
	open        bool
	startOffset time.Duration
	buf         []float64
}

// New constructs a segmenter. No chunk opens until the first frame at or
// above the volume threshold arrives.
func New(cfg Config, logger *slog.Logger) *Segmenter {
	return &Segmenter{
		cfg:         cfg,
		logger:      logging.NewComponentLogger(logger, "segmenter"),
		quietFrames: cfg.MinSilentFrames,
	}
}

// Process consumes one mono frame together with its precomputed loudness and
// the session-relative offset at which it was captured. It returns the
// finalized chunk when the silence policy closes one, or nil otherwise.
// Resample and write failures drop the chunk; the error is returned for
// logging and the segmenter stays usable.
func (s *Segmenter) Process(mono []float64, volumeDBFS float64, offset time.Duration) (*Chunk, error) {
	if volumeDBFS >= s.cfg.VolumeThresholdDBFS {
		s.quietFrames = 0
	} else if s.quietFrames < s.cfg.MinSilentFrames {
		s.quietFrames++
	}

	if s.quietFrames < s.cfg.MinSilentFrames {
		if !s.open {
			s.open = true
			s.startOffset = offset
			s.buf = s.buf[:0]
			s.logger.Debug("chunk opened", logging.Int64(logging.FieldOffsetMS, offset.Milliseconds()))
		}
		s.buf = append(s.buf, mono...)
		return nil, nil
	}

	if s.open {
		return s.close()
	}
	return nil, nil
}

// Flush closes any open chunk. The recorder calls it on stop so trailing
// speech is not lost.
func (s *Segmenter) Flush() (*Chunk, error) {
	if !s.open {
		return nil, nil
	}
	return s.close()
}

func (s *Segmenter) close() (*Chunk, error) {
	s.open = false
	s.quietFrames = s.cfg.MinSilentFrames
	if len(s.buf) == 0 {
		return nil, nil
	}

	samples := make([]float64, len(s.buf))
	copy(samples, s.buf)
	s.buf = s.buf[:0]

	path := filepath.Join(s.cfg.Dir, artifacts.Name(s.startOffset, artifacts.WAVExtension))
	written, err := writeWAV(path, samples, s.cfg.CaptureSampleRate, s.cfg.OutputSampleRate)
	if err != nil {
		return nil, fmt.Errorf("write chunk %s: %w", path, err)
	}

	s.logger.Info("chunk closed",
		logging.Int64(logging.FieldOffsetMS, s.startOffset.Milliseconds()),
		logging.Int("samples", written),
	)
	return &Chunk{StartOffset: s.startOffset, Path: path, Samples: written}, nil
}

// monoStreamer adapts a mono sample buffer to the two-channel streamer
// contract; both channels carry the same signal and the one-channel WAV
// encoder folds them back together.
type monoStreamer struct {
	samples []float64
	pos     int
}

func (m *monoStreamer) Stream(samples [][2]float64) (int, bool) {
	if m.pos >= len(m.samples) {
		return 0, false
	}
	count := 0
	for i := range samples {
		if m.pos >= len(m.samples) {
			break
		}
		v := m.samples[m.pos]
		samples[i][0] = v
		samples[i][1] = v
		m.pos++
		count++
	}
	return count, count > 0
}

func (m *monoStreamer) Err() error { return nil }

func writeWAV(path string, samples []float64, captureRate, outputRate int) (int, error) {
	var stream beep.Streamer = &monoStreamer{samples: samples}
	if captureRate != outputRate {
		stream = beep.Resample(resampleQuality, beep.SampleRate(captureRate), beep.SampleRate(outputRate), stream)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(outputRate),
		NumChannels: 1,
		Precision:   2,
	}
	if err := wav.Encode(file, stream, format); err != nil {
		file.Close()
		os.Remove(path)
		return 0, err
	}
	if err := file.Close(); err != nil {
		return 0, err
	}

	if captureRate == outputRate {
		return len(samples), nil
	}
	return int(int64(len(samples)) * int64(outputRate) / int64(captureRate)), nil
}
