package recorder

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lectern/internal/artifacts"
	"lectern/internal/logging"
	"lectern/internal/segment"
	"lectern/internal/snapshot"
	"lectern/internal/testsupport"
)

type recordingObserver struct {
	volumes     []int
	chunks      []segment.Chunk
	screenshots []snapshot.Record
}

func (o *recordingObserver) VolumeLevel(dbfs int)       { o.volumes = append(o.volumes, dbfs) }
func (o *recordingObserver) ChunkSaved(c segment.Chunk) { o.chunks = append(o.chunks, c) }
func (o *recordingObserver) ScreenshotSaved(r snapshot.Record) {
	o.screenshots = append(o.screenshots, r)
}

func stereoFrame(samples int, amplitude float64) []float64 {
	frame := make([]float64, samples*2)
	for i := range frame {
		frame[i] = amplitude
	}
	return frame
}

func TestSessionLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAudioThresholds(-35, 0.128))
	rec, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	obs := &recordingObserver{}
	if err := rec.Start(Options{
		SessionID:         "lifecycle",
		CaptureSampleRate: 16000,
		Channels:          2,
		Observer:          obs,
	}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !rec.Recording() {
		t.Fatal("recorder should report active session")
	}
	if got := rec.SessionID(); got != "lifecycle" {
		t.Fatalf("session id = %q", got)
	}

	rec.HandleAudioFrame(stereoFrame(1024, 0.5))
	// Two silent frames satisfy the 0.128s close duration at 16 kHz.
	rec.HandleAudioFrame(stereoFrame(1024, 0))
	rec.HandleAudioFrame(stereoFrame(1024, 0))

	rec.HandleVideoFrame(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	bright := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			bright.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	rec.HandleVideoFrame(bright)

	summary := rec.Stop()
	if summary == nil {
		t.Fatal("expected summary from active session")
	}
	if summary.ChunkCount != 1 {
		t.Fatalf("chunk count = %d, want 1", summary.ChunkCount)
	}
	if summary.ScreenshotCount != 1 {
		t.Fatalf("screenshot count = %d, want 1", summary.ScreenshotCount)
	}
	if len(obs.chunks) != 1 || len(obs.screenshots) != 1 {
		t.Fatalf("observer saw %d chunks, %d screenshots", len(obs.chunks), len(obs.screenshots))
	}
	if len(obs.volumes) != 3 {
		t.Fatalf("observer saw %d volume updates, want 3", len(obs.volumes))
	}
	if obs.volumes[0] <= obs.volumes[1] {
		t.Fatalf("loud frame %d should meter above silent frame %d", obs.volumes[0], obs.volumes[1])
	}
	if summary.Duration != 192*time.Millisecond {
		t.Fatalf("duration = %v, want 192ms of delivered audio", summary.Duration)
	}

	if _, err := os.Stat(obs.chunks[0].Path); err != nil {
		t.Fatalf("chunk file missing: %v", err)
	}
	audioDir := artifacts.AudioDir(cfg.SessionDir("lifecycle"))
	if filepath.Dir(obs.chunks[0].Path) != audioDir {
		t.Fatalf("chunk written to %s, want %s", filepath.Dir(obs.chunks[0].Path), audioDir)
	}
}

func TestOffsetsFollowMediaClock(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAudioThresholds(-35, 0.128))
	rec, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	obs := &recordingObserver{}
	if err := rec.Start(Options{
		SessionID:         "media-clock",
		CaptureSampleRate: 16000,
		Channels:          2,
		Observer:          obs,
	}); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Frames arrive as fast as a file source can read them, far faster than
	// real time; offsets must track the audio delivered, not the wall clock.
	loud := stereoFrame(1024, 0.5)
	quiet := stereoFrame(1024, 0)
	rec.HandleAudioFrame(loud)
	rec.HandleAudioFrame(quiet)
	rec.HandleAudioFrame(quiet)
	for i := 0; i < 90; i++ {
		rec.HandleAudioFrame(quiet)
	}
	// 93 frames of 1024 samples have passed: media position 5952ms.
	rec.HandleAudioFrame(loud)
	rec.HandleAudioFrame(quiet)
	rec.HandleAudioFrame(quiet)
	rec.Stop()

	if len(obs.chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(obs.chunks))
	}
	if obs.chunks[0].StartOffset != 0 {
		t.Fatalf("first chunk keyed at %v, want 0", obs.chunks[0].StartOffset)
	}
	if obs.chunks[1].StartOffset != 5952*time.Millisecond {
		t.Fatalf("second chunk keyed at %v, want 5.952s", obs.chunks[1].StartOffset)
	}
	if got := filepath.Base(obs.chunks[1].Path); got != "5952.wav" {
		t.Fatalf("second chunk file = %q, want 5952.wav", got)
	}
}

func TestFramesWhileIdleAreDropped(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	rec, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	rec.HandleAudioFrame(stereoFrame(256, 0.5))
	rec.HandleVideoFrame(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if summary := rec.Stop(); summary != nil {
		t.Fatalf("stop while idle returned %+v", summary)
	}
}

func TestSecondStartRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	rec, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	opts := Options{CaptureSampleRate: 48000, Channels: 2}
	if err := rec.Start(opts); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer rec.Stop()

	if err := rec.Start(opts); err == nil {
		t.Fatal("second start on active recorder should fail")
	}
}

func TestLockBlocksConcurrentRecorders(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	second, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	opts := Options{CaptureSampleRate: 48000, Channels: 2}
	if err := first.Start(opts); err != nil {
		t.Fatalf("first start: %v", err)
	}
	if err := second.Start(opts); err == nil {
		second.Stop()
		t.Fatal("second recorder acquired the session lock")
	}

	first.Stop()
	if err := second.Start(opts); err != nil {
		t.Fatalf("start after lock release: %v", err)
	}
	second.Stop()
}

func TestStartGeneratesSessionID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	rec, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	if err := rec.Start(Options{CaptureSampleRate: 44100, Channels: 1}); err != nil {
		t.Fatalf("start: %v", err)
	}
	id := rec.SessionID()
	if id == "" {
		t.Fatal("expected generated session id")
	}
	summary := rec.Stop()
	if summary.SessionID != id {
		t.Fatalf("summary session id %q != %q", summary.SessionID, id)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	rec, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	if err := rec.Start(Options{CaptureSampleRate: 16000, Channels: 2}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if summary := rec.Stop(); summary == nil {
		t.Fatal("first stop should return a summary")
	}
	if summary := rec.Stop(); summary != nil {
		t.Fatal("second stop should be a no-op")
	}
}

func TestMinSilentFramesRoundsUp(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithAudioThresholds(-35, 3.0))
	rec, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	// 3.0s of silence at 16 kHz with 1024-sample frames is 46.875 frames.
	if got := rec.minSilentFrames(16000); got != 47 {
		t.Fatalf("minSilentFrames = %d, want 47", got)
	}
	if got := rec.minSilentFrames(48000); got != 141 {
		t.Fatalf("minSilentFrames at 48 kHz = %d, want 141", got)
	}
}
