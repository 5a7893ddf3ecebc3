package artifacts

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Artifact filenames are the millisecond offset from session start plus an
// extension; the offset is the only metadata they carry.
const (
	WAVExtension = ".wav"
	PNGExtension = ".png"

	AudioDirName       = "audio"
	ScreenshotsDirName = "screenshots"
)

// File is one on-disk artifact keyed by its session-relative offset.
type File struct {
	OffsetMS int64
	Path     string
	Size     int64
}

// AudioDir returns the audio chunk directory of a session.
func AudioDir(sessionDir string) string {
	return filepath.Join(sessionDir, AudioDirName)
}

// ScreenshotsDir returns the screenshot directory of a session.
func ScreenshotsDir(sessionDir string) string {
	return filepath.Join(sessionDir, ScreenshotsDirName)
}

// Name formats an artifact filename for the given offset.
func Name(offset time.Duration, extension string) string {
	ms := offset.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return strconv.FormatInt(ms, 10) + extension
}

// ParseOffset extracts the millisecond offset encoded in an artifact
// filename. Unparsable or negative names report ok=false; callers filter
// them out rather than failing.
func ParseOffset(filename string) (int64, bool) {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ms, err := strconv.ParseInt(stem, 10, 64)
	if err != nil || ms < 0 {
		return 0, false
	}
	return ms, true
}

// ScanAudio lists WAV chunks under dir sorted by ascending offset. Files
// whose names do not parse are skipped; files smaller than minBytes are
// treated as false starts and skipped as well. A missing directory yields an
// empty result.
func ScanAudio(dir string, minBytes int64) ([]File, error) {
	return scan(dir, WAVExtension, minBytes)
}

// ScanScreenshots lists screenshots under dir sorted by ascending offset.
func ScanScreenshots(dir string) ([]File, error) {
	return scan(dir, PNGExtension, 0)
}

func scan(dir, extension string, minBytes int64) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), extension) {
			continue
		}
		offset, ok := ParseOffset(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if minBytes > 0 && info.Size() < minBytes {
			continue
		}
		files = append(files, File{
			OffsetMS: offset,
			Path:     filepath.Join(dir, entry.Name()),
			Size:     info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].OffsetMS < files[j].OffsetMS })
	return files, nil
}
