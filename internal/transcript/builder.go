package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"lectern/internal/artifacts"
	"lectern/internal/logging"
	"lectern/internal/services"
)

// etaSmoothing weights the newest per-byte rate sample when updating the
// running estimate.
const etaSmoothing = 0.4

// Progress reports transcription advancement after each finished chunk.
type Progress struct {
	ChunksDone  int
	ChunksTotal int
	Percent     float64
	// ETA is the estimated remaining time; zero until enough chunks have
	// finished to estimate a rate.
	ETA time.Duration
}

// Builder transcribes a session's chunk files in timeline order and merges
// the per-chunk words onto the session clock.
type Builder struct {
	transcriber Transcriber
	logger      *slog.Logger
	sampler     *logging.ProgressSampler
	now         func() time.Time
	onProgress  func(Progress)
}

// NewBuilder constructs a builder around the given transcriber.
func NewBuilder(transcriber Transcriber, logger *slog.Logger) *Builder {
	return &Builder{
		transcriber: transcriber,
		logger:      logging.NewComponentLogger(logger, "transcript"),
		sampler:     logging.NewProgressSampler(0),
		now:         time.Now,
	}
}

// OnProgress registers a callback invoked after every transcribed chunk.
func (b *Builder) OnProgress(fn func(Progress)) {
	b.onProgress = fn
}

// Transcribe runs every chunk through the transcriber sequentially and
// returns all words rebased to milliseconds since session start. A chunk
// whose transcription fails or parses badly is logged and contributes no
// words; the build only fails when no chunk produced any. An exhausted
// context aborts at the next chunk boundary.
func (b *Builder) Transcribe(ctx context.Context, sessionID string, chunks []artifacts.File, lang string) ([]Word, error) {
	if len(chunks) == 0 {
		return nil, services.Wrap(services.ErrValidation, "transcript", "transcribe", "no audio file", nil)
	}
	b.sampler.Reset()
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].OffsetMS < chunks[j].OffsetMS })

	var (
		remaining    int64
		ratePerByte  float64
		rateObserved bool
		words        []Word
	)
	for _, chunk := range chunks {
		remaining += chunk.Size
	}

	for done, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, services.Wrap(services.ErrTransient, "transcript", "transcribe",
				fmt.Sprintf("canceled after %d of %d chunks", done, len(chunks)), err)
		}

		start := b.now()
		chunkWords, err := b.transcriber.Transcribe(ctx, chunk.Path, lang)
		if err != nil {
			b.logger.Warn("chunk transcription failed",
				logging.String(logging.FieldSessionID, sessionID),
				logging.Int64(logging.FieldOffsetMS, chunk.OffsetMS),
				logging.Error(err),
			)
			chunkWords = nil
		}
		elapsed := b.now().Sub(start)
		remaining -= chunk.Size

		if chunk.Size > 0 && elapsed > 0 {
			sample := elapsed.Seconds() / float64(chunk.Size)
			if rateObserved {
				ratePerByte = etaSmoothing*sample + (1-etaSmoothing)*ratePerByte
			} else {
				ratePerByte = sample
				rateObserved = true
			}
		}

		if err == nil && len(chunkWords) == 0 {
			b.logger.Warn("chunk produced no words",
				logging.String(logging.FieldSessionID, sessionID),
				logging.Int64(logging.FieldOffsetMS, chunk.OffsetMS),
			)
		}
		for _, w := range chunkWords {
			w.EndOffsetMS += chunk.OffsetMS
			words = append(words, w)
		}

		b.reportProgress(sessionID, done+1, len(chunks), remaining, ratePerByte, rateObserved)
	}

	if len(words) == 0 {
		return nil, services.Wrap(services.ErrValidation, "transcript", "transcribe", "no words to write", nil)
	}
	return words, nil
}

func (b *Builder) reportProgress(sessionID string, done, total int, remaining int64, ratePerByte float64, rateObserved bool) {
	progress := Progress{
		ChunksDone:  done,
		ChunksTotal: total,
		Percent:     float64(done) / float64(total) * 100,
	}
	if rateObserved && remaining > 0 {
		progress.ETA = time.Duration(ratePerByte * float64(remaining) * float64(time.Second))
	}

	if b.onProgress != nil {
		b.onProgress(progress)
	}
	if b.sampler.ShouldLog(progress.Percent, "transcribe") {
		b.logger.Info("transcription progress",
			logging.String(logging.FieldSessionID, sessionID),
			logging.String(logging.FieldStage, "transcribe"),
			logging.Float64(logging.FieldPercent, progress.Percent),
			logging.Int(logging.FieldChunk, done),
			logging.Duration("eta", progress.ETA),
		)
	}
}
