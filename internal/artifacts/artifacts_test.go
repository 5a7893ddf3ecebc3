package artifacts_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lectern/internal/artifacts"
)

func TestNameAndParseRoundTrip(t *testing.T) {
	name := artifacts.Name(1500*time.Millisecond, artifacts.WAVExtension)
	if name != "1500.wav" {
		t.Fatalf("unexpected name: %q", name)
	}
	offset, ok := artifacts.ParseOffset(name)
	if !ok || offset != 1500 {
		t.Fatalf("round trip failed: %d %v", offset, ok)
	}
}

func TestParseOffsetRejectsGarbage(t *testing.T) {
	for _, name := range []string{"notes.wav", "-5.wav", "12x.png", ".wav"} {
		if _, ok := artifacts.ParseOffset(name); ok {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}

func TestScanAudioSortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, size int) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), make([]byte, size), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("9000.wav", 500)
	write("100.wav", 500)
	write("5000.wav", 10) // under the byte floor
	write("junk.wav", 500)
	write("200.png", 500) // wrong extension

	files, err := artifacts.ScanAudio(dir, 100)
	if err != nil {
		t.Fatalf("ScanAudio: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	if files[0].OffsetMS != 100 || files[1].OffsetMS != 9000 {
		t.Fatalf("unexpected order: %+v", files)
	}
}

func TestScanMissingDirectoryIsEmpty(t *testing.T) {
	files, err := artifacts.ScanScreenshots(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty result, got %d", len(files))
	}
}
