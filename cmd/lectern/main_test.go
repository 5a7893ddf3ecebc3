package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"lectern/internal/artifacts"
	"lectern/internal/config"
	"lectern/internal/session"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	cfg        *config.Config
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
recordings_dir = %q
lectures_dir = %q
log_dir = %q

[audio]
silence_close_duration = 0.128
`,
		filepath.Join(base, "recordings"),
		filepath.Join(base, "lectures"),
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return &cliTestEnv{baseDir: base, configPath: configPath, cfg: cfg}
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// speechStreamer emits a loud stretch followed by silence.
type speechStreamer struct {
	loud, quiet int
}

func (s *speechStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.loud <= 0 && s.quiet <= 0 {
		return 0, false
	}
	count := 0
	for i := range samples {
		switch {
		case s.loud > 0:
			samples[i][0] = 0.25
			samples[i][1] = 0.25
			s.loud--
		case s.quiet > 0:
			samples[i][0] = 0
			samples[i][1] = 0
			s.quiet--
		default:
			return count, true
		}
		count++
	}
	return count, true
}

func (s *speechStreamer) Err() error { return nil }

func writeCaptureWAV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "capture.wav")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create capture: %v", err)
	}
	format := beep.Format{SampleRate: beep.SampleRate(16000), NumChannels: 2, Precision: 2}
	if err := wav.Encode(file, &speechStreamer{loud: 4096, quiet: 4096}, format); err != nil {
		t.Fatalf("encode capture: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close capture: %v", err)
	}
	return path
}

func TestRecordCommandProducesChunksAndIndexesSession(t *testing.T) {
	env := setupCLITestEnv(t)
	capture := writeCaptureWAV(t, env.baseDir)

	output, err := runCommand(t,
		"--config", env.configPath,
		"record", "--input", capture, "--session", "cli-session",
	)
	if err != nil {
		t.Fatalf("record: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Session cli-session recorded") {
		t.Fatalf("output = %q", output)
	}

	audioDir := artifacts.AudioDir(env.cfg.SessionDir("cli-session"))
	chunks, err := artifacts.ScanAudio(audioDir, 0)
	if err != nil {
		t.Fatalf("scan audio: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks", len(chunks))
	}

	store, err := session.Open(env.cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	sess, err := store.Get(context.Background(), "cli-session")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if sess.Status != session.StatusRecorded || sess.ChunkCount != 1 {
		t.Fatalf("session = %+v", sess)
	}
}

func TestRecordCommandRequiresInput(t *testing.T) {
	env := setupCLITestEnv(t)

	output, err := runCommand(t, "--config", env.configPath, "record")
	if err == nil {
		t.Fatalf("expected error, got output %q", output)
	}
	if !strings.Contains(err.Error(), "--input is required") {
		t.Fatalf("err = %v", err)
	}
}

func TestSessionsCommandListsPlainOutput(t *testing.T) {
	env := setupCLITestEnv(t)

	store, err := session.Open(env.cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Create(context.Background(), &session.Session{
		ID:         "listed",
		ChunkCount: 3,
	}); err != nil {
		t.Fatalf("create session: %v", err)
	}
	store.Close()

	output, err := runCommand(t, "--config", env.configPath, "sessions")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if !strings.Contains(output, "listed") || !strings.Contains(output, "recorded") {
		t.Fatalf("output = %q", output)
	}
}

func TestSessionsCommandEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	output, err := runCommand(t, "--config", env.configPath, "sessions")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if !strings.Contains(output, "No sessions recorded") {
		t.Fatalf("output = %q", output)
	}
}

func TestSessionsCommandRejectsUnknownStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	_, err := runCommand(t, "--config", env.configPath, "sessions", "--status", "bogus")
	if err == nil || !strings.Contains(err.Error(), "unknown status") {
		t.Fatalf("err = %v", err)
	}
}

func TestConfigInitCommand(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v\n%s", err, output)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config missing: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init without --overwrite should fail")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init with overwrite: %v", err)
	}
}
