package recorder

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/gopxl/beep/wav"
)

// FrameSource delivers capture frames to the recorder. A meeting-session
// driver, a screen grabber, or a media-file decoder can all sit behind this
// interface.
type FrameSource interface {
	// SampleRate is the rate of delivered audio frames, in Hz.
	SampleRate() int
	// Channels is the interleaved channel count of delivered audio frames.
	Channels() int
	// Run pushes frames into the callbacks until the source is exhausted or
	// the context is done. The video callback may never be invoked.
	Run(ctx context.Context, audio func([]float64), video func(image.Image)) error
}

// WAVFileSource replays a WAV file as a sequence of capture frames, standing
// in for a live loopback device.
type WAVFileSource struct {
	path       string
	frameSize  int
	sampleRate int
	channels   int
}

// NewWAVFileSource probes the file header and prepares a source that emits
// frames of frameSize samples per channel.
func NewWAVFileSource(path string, frameSize int) (*WAVFileSource, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("wav source: frame size must be positive")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wav source: %w", err)
	}
	streamer, format, err := wav.Decode(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("wav source: decode %s: %w", path, err)
	}
	streamer.Close()

	channels := format.NumChannels
	if channels > 2 {
		channels = 2
	}
	return &WAVFileSource{
		path:       path,
		frameSize:  frameSize,
		sampleRate: int(format.SampleRate),
		channels:   channels,
	}, nil
}

func (s *WAVFileSource) SampleRate() int { return s.sampleRate }

func (s *WAVFileSource) Channels() int { return s.channels }

// Run streams the file front to back, delivering one interleaved audio frame
// per frameSize samples. The final frame may be short.
func (s *WAVFileSource) Run(ctx context.Context, audio func([]float64), _ func(image.Image)) error {
	file, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("wav source: %w", err)
	}
	streamer, _, err := wav.Decode(file)
	if err != nil {
		file.Close()
		return fmt.Errorf("wav source: decode %s: %w", s.path, err)
	}
	defer streamer.Close()

	buf := make([][2]float64, s.frameSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, ok := streamer.Stream(buf)
		if n > 0 {
			frame := make([]float64, 0, n*s.channels)
			for _, sample := range buf[:n] {
				frame = append(frame, sample[0])
				if s.channels == 2 {
					frame = append(frame, sample[1])
				}
			}
			audio(frame)
		}
		if !ok {
			break
		}
	}
	return streamer.Err()
}
