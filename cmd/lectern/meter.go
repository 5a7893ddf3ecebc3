package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"lectern/internal/segment"
	"lectern/internal/snapshot"
)

const durationPrecision = time.Second

// meterObserver renders a live volume bar on a terminal and stays silent on
// pipes. Chunk and screenshot saves print as plain lines either way.
type meterObserver struct {
	out      io.Writer
	terminal bool
	active   bool
}

func newMeterObserver(out io.Writer) *meterObserver {
	return &meterObserver{out: out, terminal: isTerminal(out)}
}

func (m *meterObserver) VolumeLevel(dbfs int) {
	if !m.terminal {
		return
	}
	// Map [-60,0] dBFS onto a 30-cell bar.
	cells := (dbfs - segment.MeterFloorDBFS) / 2
	if cells < 0 {
		cells = 0
	}
	if cells > 30 {
		cells = 30
	}
	fmt.Fprintf(m.out, "\r[%-30s] %4d dBFS", strings.Repeat("#", cells), dbfs)
	m.active = true
}

func (m *meterObserver) ChunkSaved(chunk segment.Chunk) {
	m.clearLine()
	fmt.Fprintf(m.out, "chunk saved at %s (%d samples)\n",
		chunk.StartOffset.Round(durationPrecision), chunk.Samples)
}

func (m *meterObserver) ScreenshotSaved(rec snapshot.Record) {
	m.clearLine()
	fmt.Fprintf(m.out, "screenshot saved at %s (%.1f%% changed)\n",
		rec.Offset.Round(durationPrecision), rec.DiffPercent)
}

func (m *meterObserver) finish() {
	m.clearLine()
}

func (m *meterObserver) clearLine() {
	if m.active {
		fmt.Fprint(m.out, "\r"+strings.Repeat(" ", 48)+"\r")
		m.active = false
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
