package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"

	"lectern/internal/artifacts"
	"lectern/internal/logging"
)

// Config describes one session's frame-difference parameters.
type Config struct {
	Dir                  string
	DiffThresholdPercent float64
	// IntensityThreshold is the grayscale delta (0-255) above which a pixel
	// counts as changed.
	IntensityThreshold int
}

// Record is a persisted screenshot.
type Record struct {
	Offset      time.Duration
	Path        string
	DiffPercent float64
}

// Selector decides which frames are worth keeping as screenshots by
// comparing each frame against the immediately preceding one. The reference
// frame is updated on every call whether or not a screenshot was saved; this
// keeps the comparison local in time instead of drifting against the last
// saved slide.
type Selector struct {
	cfg    Config
	logger *slog.Logger
	prev   *image.RGBA
}

// New constructs a selector for one session.
func New(cfg Config, logger *slog.Logger) *Selector {
	return &Selector{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "snapshot"),
	}
}

// Process compares the frame against the previous one and persists it when
// enough pixels changed. The first frame of a session is compared against an
// all-black reference of the same shape, so a non-black first frame
// registers near-total difference.
func (s *Selector) Process(frame image.Image, offset time.Duration) (*Record, error) {
	current := toRGBA(frame)
	bounds := current.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("snapshot: empty frame at %v", offset)
	}

	if s.prev == nil {
		s.prev = image.NewRGBA(bounds)
	}
	reference := s.prev
	if !reference.Bounds().Eq(bounds) {
		reference = scaleTo(reference, bounds)
	}

	diffPercent := diffPercentage(current, reference, s.cfg.IntensityThreshold)
	s.prev = current

	if diffPercent < s.cfg.DiffThresholdPercent {
		return nil, nil
	}

	path := filepath.Join(s.cfg.Dir, artifacts.Name(offset, artifacts.PNGExtension))
	if err := writePNG(path, current); err != nil {
		return nil, fmt.Errorf("save screenshot %s: %w", path, err)
	}
	s.logger.Info("screenshot saved",
		logging.Int64(logging.FieldOffsetMS, offset.Milliseconds()),
		logging.Float64("diff_percent", diffPercent),
	)
	return &Record{Offset: offset, Path: path, DiffPercent: diffPercent}, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)
	return dst
}

func scaleTo(src *image.RGBA, bounds image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(bounds)
	draw.ApproxBiLinear.Scale(dst, bounds, src, src.Bounds(), draw.Src, nil)
	return dst
}

// diffPercentage binarizes the per-pixel grayscale difference at the
// intensity threshold and reports the changed fraction as a percentage.
func diffPercentage(a, b *image.RGBA, intensityThreshold int) float64 {
	bounds := a.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}

	changed := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		aRow := a.PixOffset(bounds.Min.X, y)
		bRow := b.PixOffset(bounds.Min.X, y)
		for x := 0; x < bounds.Dx(); x++ {
			dr := absDelta(a.Pix[aRow], b.Pix[bRow])
			dg := absDelta(a.Pix[aRow+1], b.Pix[bRow+1])
			db := absDelta(a.Pix[aRow+2], b.Pix[bRow+2])
			if (dr+dg+db)/3 > intensityThreshold {
				changed++
			}
			aRow += 4
			bRow += 4
		}
	}
	return float64(changed) / float64(total) * 100
}

func absDelta(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return file.Close()
}
