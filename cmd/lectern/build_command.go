package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/artifacts"
	"lectern/internal/language"
	"lectern/internal/lecture"
	"lectern/internal/preflight"
	"lectern/internal/services/whisperx"
	"lectern/internal/session"
	"lectern/internal/transcript"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var languageFlag string

	cmd := &cobra.Command{
		Use:   "build <session-id>",
		Short: "Transcribe a recorded session and assemble the lecture document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := strings.TrimSpace(args[0])
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if failed := preflight.Failed(preflight.ForBuild(cfg)); len(failed) > 0 {
				for _, result := range failed {
					fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", result.Name, result.Detail)
				}
				return fmt.Errorf("preflight checks failed")
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			store, err := session.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			cmdCtx := cmd.Context()
			if _, err := store.Get(cmdCtx, sessionID); errors.Is(err, session.ErrNotFound) {
				// Sessions recorded by other means still build; index them now.
				if err := store.Create(cmdCtx, &session.Session{ID: sessionID}); err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			sessionDir := cfg.SessionDir(sessionID)
			chunks, err := artifacts.ScanAudio(artifacts.AudioDir(sessionDir), cfg.Audio.MinChunkBytes)
			if err != nil {
				return err
			}
			screenshots, err := artifacts.ScanScreenshots(artifacts.ScreenshotsDir(sessionDir))
			if err != nil {
				return err
			}

			lang := strings.TrimSpace(languageFlag)
			if lang == "" {
				lang = cfg.Transcription.Language
			}

			if err := store.SetStatus(cmdCtx, sessionID, session.StatusTranscribing); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			transcriber := whisperx.NewService(whisperx.Config{
				Model:       cfg.Transcription.Model,
				CUDAEnabled: cfg.Transcription.CUDAEnabled,
			})
			builder := transcript.NewBuilder(transcriber, logger)
			if isTerminal(out) {
				builder.OnProgress(func(p transcript.Progress) {
					fmt.Fprintf(out, "\rtranscribing %d/%d (%.0f%%) eta %s   ",
						p.ChunksDone, p.ChunksTotal, p.Percent, p.ETA.Round(durationPrecision))
				})
			}
			fmt.Fprintf(out, "Transcribing %d chunks (%s, model %s)\n",
				len(chunks), language.Display(lang), transcriber.Model())

			words, err := builder.Transcribe(cmdCtx, sessionID, chunks, lang)
			if isTerminal(out) {
				fmt.Fprintln(out)
			}
			if err != nil {
				markFailed(store, sessionID, err)
				return err
			}

			docPath := filepath.Join(cfg.Paths.LecturesDir, sessionID+".html")
			sink, err := lecture.NewHTMLSink(docPath, float64(cfg.Lecture.FontSizePt))
			if err != nil {
				markFailed(store, sessionID, err)
				return err
			}
			opts := lecture.Options{
				Title:                         lecture.Title(sessionID),
				ParagraphGapThresholdMS:       cfg.Lecture.ParagraphGapThresholdMS,
				LowConfidenceThresholdPercent: float64(cfg.Lecture.LowConfidenceThresholdPercent),
				PictureWidthInches:            cfg.Lecture.PictureWidthInches,
				DefaultTextColor:              cfg.Lecture.DefaultTextColor,
				LowConfidenceTextColor:        cfg.Lecture.LowConfidenceTextColor,
			}
			if err := lecture.Assemble(words, screenshots, opts, sink); err != nil {
				markFailed(store, sessionID, err)
				return err
			}

			if err := store.MarkBuilt(cmdCtx, sessionID, docPath); err != nil {
				return err
			}
			fmt.Fprintf(out, "Lecture written to %s (%d words, %d screenshots)\n",
				docPath, len(words), len(screenshots))
			return nil
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Language hint for transcription (code or name)")
	return cmd
}

func markFailed(store *session.Store, sessionID string, cause error) {
	// Best effort; the original error is what the user needs to see.
	_ = store.MarkFailed(context.Background(), sessionID, cause.Error())
}
