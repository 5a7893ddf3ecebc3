package recorder

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"lectern/internal/artifacts"
	"lectern/internal/config"
	"lectern/internal/logging"
	"lectern/internal/segment"
	"lectern/internal/services"
	"lectern/internal/snapshot"
)

// Observer receives live callbacks while a session is recording. All methods
// are invoked from the frame-handling goroutine and must return quickly.
type Observer interface {
	VolumeLevel(dbfs int)
	ChunkSaved(chunk segment.Chunk)
	ScreenshotSaved(rec snapshot.Record)
}

type nopObserver struct{}

func (nopObserver) VolumeLevel(int)                 {}
func (nopObserver) ChunkSaved(segment.Chunk)        {}
func (nopObserver) ScreenshotSaved(snapshot.Record) {}

// Options configures a single recording session.
type Options struct {
	// SessionID names the session directory; a random ID is generated when
	// empty.
	SessionID string
	// CaptureSampleRate is the rate the loopback device delivers, in Hz.
	CaptureSampleRate int
	// Channels is the interleaved channel count of incoming audio frames.
	Channels int
	Observer Observer
}

// Summary describes a finished session.
type Summary struct {
	SessionID  string
	SessionDir string
	// Duration is the length of audio delivered to the session.
	Duration        time.Duration
	ChunkCount      int
	ScreenshotCount int
}

// Recorder owns one recording session at a time: it segments incoming audio
// frames into chunk files and filters video frames into screenshots, with a
// lock file preventing concurrent sessions across processes.
type Recorder struct {
	cfg    *config.Config
	logger *slog.Logger

	lockPath string
	lock     *flock.Flock

	recording atomic.Bool

	mu              sync.Mutex
	sessionID       string
	sessionDir      string
	captureRate     int
	samplesSeen     int64
	channels        int
	observer        Observer
	segmenter       *segment.Segmenter
	selector        *snapshot.Selector
	chunkCount      int
	screenshotCount int
}

// New constructs a recorder bound to the configured recordings directory.
func New(cfg *config.Config, logger *slog.Logger) (*Recorder, error) {
	if cfg == nil || logger == nil {
		return nil, fmt.Errorf("recorder requires config and logger")
	}
	lockPath := filepath.Join(cfg.Paths.RecordingsDir, "lectern.lock")
	return &Recorder{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "recorder"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Recording reports whether a session is currently active.
func (r *Recorder) Recording() bool {
	return r.recording.Load()
}

// SessionID returns the active session's identifier, or empty when idle.
func (r *Recorder) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording.Load() {
		return ""
	}
	return r.sessionID
}

// Start transitions the recorder into an active session. It fails when a
// session is already in progress in this or any other process.
func (r *Recorder) Start(opts Options) error {
	if opts.CaptureSampleRate <= 0 {
		return services.Wrap(services.ErrValidation, "recorder", "start", "capture sample rate must be positive", nil)
	}
	if opts.Channels <= 0 {
		return services.Wrap(services.ErrValidation, "recorder", "start", "channel count must be positive", nil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording.Load() {
		return services.Wrap(services.ErrValidation, "recorder", "start", "recording already in progress", nil)
	}

	ok, err := r.lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrTransient, "recorder", "start", "acquire session lock", err)
	}
	if !ok {
		return services.Wrap(services.ErrValidation, "recorder", "start", "another recording session is active", nil)
	}

	sessionID := strings.TrimSpace(opts.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	sessionDir := r.cfg.SessionDir(sessionID)
	audioDir := artifacts.AudioDir(sessionDir)
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		_ = r.lock.Unlock()
		return services.Wrap(services.ErrConfiguration, "recorder", "start", "create audio directory", err)
	}

	r.selector = nil
	if r.cfg.Screenshots.Enabled {
		shotsDir := artifacts.ScreenshotsDir(sessionDir)
		if err := os.MkdirAll(shotsDir, 0o755); err != nil {
			_ = r.lock.Unlock()
			return services.Wrap(services.ErrConfiguration, "recorder", "start", "create screenshots directory", err)
		}
		r.selector = snapshot.New(snapshot.Config{
			Dir:                  shotsDir,
			DiffThresholdPercent: r.cfg.Screenshots.DiffThresholdPercent,
			IntensityThreshold:   r.cfg.Screenshots.CompareIntensityThreshold,
		}, r.logger)
	}

	r.segmenter = segment.New(segment.Config{
		Dir:                 audioDir,
		CaptureSampleRate:   opts.CaptureSampleRate,
		OutputSampleRate:    r.cfg.Audio.OutputSampleRate,
		VolumeThresholdDBFS: r.cfg.Audio.VolumeThresholdDBFS,
		MinSilentFrames:     r.minSilentFrames(opts.CaptureSampleRate),
	}, r.logger)

	r.sessionID = sessionID
	r.sessionDir = sessionDir
	r.captureRate = opts.CaptureSampleRate
	r.samplesSeen = 0
	r.channels = opts.Channels
	r.observer = opts.Observer
	if r.observer == nil {
		r.observer = nopObserver{}
	}
	r.chunkCount = 0
	r.screenshotCount = 0
	r.recording.Store(true)

	r.logger.Info("recording started",
		logging.String(logging.FieldSessionID, sessionID),
		logging.Int("capture_sample_rate", opts.CaptureSampleRate),
		logging.Int("channels", opts.Channels),
		logging.String("lock", r.lockPath),
	)
	return nil
}

// minSilentFrames converts the configured silence-close duration into a
// whole number of capture frames, rounding up so silence never closes early.
func (r *Recorder) minSilentFrames(captureRate int) int {
	frameSeconds := float64(r.cfg.Audio.FrameSize) / float64(captureRate)
	frames := int(math.Ceil(r.cfg.Audio.SilenceCloseDuration / frameSeconds))
	if frames < 1 {
		frames = 1
	}
	return frames
}

// mediaOffset is the session timeline position implied by the audio samples
// delivered so far. Keying artifacts on delivered media rather than the wall
// clock keeps offsets correct when a file source replays faster than real
// time.
func (r *Recorder) mediaOffset() time.Duration {
	return time.Duration(r.samplesSeen) * time.Second / time.Duration(r.captureRate)
}

// HandleAudioFrame meters and segments one interleaved audio frame, advancing
// the session media clock by the frame's duration. Frames arriving while idle
// are dropped. A chunk write failure is logged and the session continues with
// the next frame.
func (r *Recorder) HandleAudioFrame(interleaved []float64) {
	if !r.recording.Load() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording.Load() {
		return
	}

	mono := segment.DownmixInterleaved(interleaved, r.channels)
	volume := segment.FrameVolumeDBFS(mono)
	r.observer.VolumeLevel(segment.ClampMeterDBFS(volume))

	offset := r.mediaOffset()
	r.samplesSeen += int64(len(mono))
	chunk, err := r.segmenter.Process(mono, volume, offset)
	if err != nil {
		r.logger.Warn("chunk write failed",
			logging.String(logging.FieldSessionID, r.sessionID),
			logging.Error(err),
		)
		return
	}
	if chunk != nil {
		r.chunkCount++
		r.observer.ChunkSaved(*chunk)
	}
}

// HandleVideoFrame runs the frame through the screenshot selector, stamping
// any saved screenshot at the current media position. It is a no-op while
// idle or when screenshots are disabled.
func (r *Recorder) HandleVideoFrame(frame image.Image) {
	if !r.recording.Load() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording.Load() || r.selector == nil {
		return
	}

	rec, err := r.selector.Process(frame, r.mediaOffset())
	if err != nil {
		r.logger.Warn("screenshot failed",
			logging.String(logging.FieldSessionID, r.sessionID),
			logging.Error(err),
		)
		return
	}
	if rec != nil {
		r.screenshotCount++
		r.observer.ScreenshotSaved(*rec)
	}
}

// Stop closes any open chunk, releases the session lock, and returns the
// session summary. Calling Stop while idle returns nil.
func (r *Recorder) Stop() *Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording.Load() {
		return nil
	}
	r.recording.Store(false)

	if chunk, err := r.segmenter.Flush(); err != nil {
		r.logger.Warn("final chunk write failed",
			logging.String(logging.FieldSessionID, r.sessionID),
			logging.Error(err),
		)
	} else if chunk != nil {
		r.chunkCount++
		r.observer.ChunkSaved(*chunk)
	}

	if err := r.lock.Unlock(); err != nil {
		r.logger.Warn("failed to release session lock", logging.Error(err))
	}

	summary := &Summary{
		SessionID:       r.sessionID,
		SessionDir:      r.sessionDir,
		Duration:        r.mediaOffset(),
		ChunkCount:      r.chunkCount,
		ScreenshotCount: r.screenshotCount,
	}
	r.segmenter = nil
	r.selector = nil
	r.observer = nil

	r.logger.Info("recording stopped",
		logging.String(logging.FieldSessionID, summary.SessionID),
		logging.Int(logging.FieldChunk, summary.ChunkCount),
		logging.Int("screenshots", summary.ScreenshotCount),
		logging.Duration("duration", summary.Duration),
	)
	return summary
}
