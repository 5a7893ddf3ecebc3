package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"lectern/internal/preflight"
	"lectern/internal/recorder"
	"lectern/internal/session"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var sessionID string
	var inputPath string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a session from a WAV capture into silence-bounded chunks",
		Long: `Record replays a loopback capture (WAV file) through the segmentation
pipeline, writing chunk files and change-detected screenshots under the
recordings directory and registering the session in the index.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(inputPath) == "" {
				return fmt.Errorf("--input is required (loopback WAV capture to replay)")
			}
			if failed := preflight.Failed(preflight.ForRecord(cfg)); len(failed) > 0 {
				for _, result := range failed {
					fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", result.Name, result.Detail)
				}
				return fmt.Errorf("preflight checks failed")
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			source, err := recorder.NewWAVFileSource(inputPath, cfg.Audio.FrameSize)
			if err != nil {
				return err
			}
			rec, err := recorder.New(cfg, logger)
			if err != nil {
				return err
			}
			store, err := session.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			observer := newMeterObserver(out)
			if err := rec.Start(recorder.Options{
				SessionID:         sessionID,
				CaptureSampleRate: source.SampleRate(),
				Channels:          source.Channels(),
				Observer:          observer,
			}); err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runErr := source.Run(runCtx, rec.HandleAudioFrame, rec.HandleVideoFrame)
			summary := rec.Stop()
			observer.finish()
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}

			if err := store.Create(context.Background(), &session.Session{
				ID:              summary.SessionID,
				DurationMS:      summary.Duration.Milliseconds(),
				ChunkCount:      summary.ChunkCount,
				ScreenshotCount: summary.ScreenshotCount,
			}); err != nil {
				return err
			}

			fmt.Fprintf(out, "Session %s recorded: %d chunks, %d screenshots (%s)\n",
				summary.SessionID, summary.ChunkCount, summary.ScreenshotCount,
				summary.Duration.Round(durationPrecision))
			fmt.Fprintf(out, "Build the lecture with: lectern build %s\n", summary.SessionID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session identifier (random when omitted)")
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "WAV capture file to replay")
	return cmd
}
