package whisperx

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	langpkg "lectern/internal/language"
	"lectern/internal/services"
	"lectern/internal/transcript"
)

// Service provides WhisperX transcription for individual chunk files. It
// implements transcript.Transcriber.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// CUDAEnabled returns whether CUDA is enabled.
func (s *Service) CUDAEnabled() bool {
	return s.cfg.CUDAEnabled
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking
	// WhisperX/pyannote. Force legacy behavior so bundled WhisperX binaries
	// can load checkpoints safely.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Transcribe runs WhisperX over one chunk WAV file and returns its words
// with chunk-relative end offsets.
func (s *Service) Transcribe(ctx context.Context, source, language string) ([]transcript.Word, error) {
	if source == "" {
		return nil, fmt.Errorf("transcribe: source path required")
	}

	outputDir, err := os.MkdirTemp("", "lectern-whisperx-")
	if err != nil {
		return nil, fmt.Errorf("transcribe: create output dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	args := s.buildArgs(source, outputDir, language)
	if err := s.run(ctx, UVXCommand, args...); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "whisperx", "transcribe", filepath.Base(source), err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	words, err := loadWords(jsonPath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "whisperx", "parse", filepath.Base(source), err)
	}
	return words, nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 24)

	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", s.Model(),
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
	)

	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}

	return args
}

// word is a single aligned word from WhisperX output. End and Score are
// pointers because WhisperX omits alignment for tokens it cannot place.
type word struct {
	Word  string   `json:"word"`
	End   *float64 `json:"end"`
	Score *float64 `json:"score"`
}

// segment is a transcribed segment from WhisperX JSON output.
type segment struct {
	End   float64 `json:"end"`
	Words []word  `json:"words"`
}

type payload struct {
	Segments []segment `json:"segments"`
}

// loadWords flattens a WhisperX JSON file into timeline words. Unaligned
// words inherit the previous word's end time; missing scores count as full
// confidence.
func loadWords(jsonPath string) ([]transcript.Word, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read whisperx output: %w", err)
	}
	var parsed payload
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}

	var words []transcript.Word
	var lastEndMS int64
	for _, seg := range parsed.Segments {
		for _, w := range seg.Words {
			text := strings.TrimSpace(w.Word)
			if text == "" {
				continue
			}
			endMS := lastEndMS
			if w.End != nil {
				endMS = int64(*w.End * 1000)
			}
			lastEndMS = endMS

			confidence := 100.0
			if w.Score != nil {
				confidence = *w.Score * 100
			}
			words = append(words, transcript.Word{
				Text:              text,
				EndOffsetMS:       endMS,
				ConfidencePercent: confidence,
			})
		}
	}
	return words, nil
}
