package recorder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

type toneStreamer struct {
	remaining int
	value     float64
}

func (t *toneStreamer) Stream(samples [][2]float64) (int, bool) {
	if t.remaining <= 0 {
		return 0, false
	}
	count := 0
	for i := range samples {
		if t.remaining <= 0 {
			break
		}
		samples[i][0] = t.value
		samples[i][1] = t.value
		t.remaining--
		count++
	}
	return count, true
}

func (t *toneStreamer) Err() error { return nil }

func writeTestWAV(t *testing.T, samples int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.wav")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	format := beep.Format{SampleRate: beep.SampleRate(16000), NumChannels: 2, Precision: 2}
	if err := wav.Encode(file, &toneStreamer{remaining: samples, value: 0.25}, format); err != nil {
		t.Fatalf("encode wav: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
	return path
}

func TestWAVFileSourceDeliversFrames(t *testing.T) {
	path := writeTestWAV(t, 2500)

	source, err := NewWAVFileSource(path, 1024)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	if source.SampleRate() != 16000 {
		t.Fatalf("sample rate = %d", source.SampleRate())
	}
	if source.Channels() != 2 {
		t.Fatalf("channels = %d", source.Channels())
	}

	var frames [][]float64
	err = source.Run(context.Background(), func(frame []float64) {
		frames = append(frames, frame)
	}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// 2500 samples in 1024-sample frames: 1024 + 1024 + 452.
	if len(frames) != 3 {
		t.Fatalf("got %d frames", len(frames))
	}
	if len(frames[0]) != 1024*2 {
		t.Fatalf("first frame has %d values", len(frames[0]))
	}
	if len(frames[2]) != 452*2 {
		t.Fatalf("final frame has %d values", len(frames[2]))
	}
}

func TestWAVFileSourceHonorsCancellation(t *testing.T) {
	path := writeTestWAV(t, 4096)

	source, err := NewWAVFileSource(path, 256)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var delivered int
	err = source.Run(ctx, func([]float64) {
		delivered++
		cancel()
	}, nil)
	if err == nil {
		t.Fatal("expected context error after cancel")
	}
	if delivered != 1 {
		t.Fatalf("delivered %d frames after cancel, want 1", delivered)
	}
}

func TestWAVFileSourceMissingFile(t *testing.T) {
	if _, err := NewWAVFileSource("/nonexistent/audio.wav", 1024); err == nil {
		t.Fatal("expected error for missing file")
	}
}
