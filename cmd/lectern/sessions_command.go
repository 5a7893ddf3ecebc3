package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lectern/internal/session"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions and their build state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := session.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var statuses []session.Status
			if trimmed := strings.TrimSpace(statusFilter); trimmed != "" {
				status := session.Status(strings.ToLower(trimmed))
				if !session.ValidStatus(status) {
					return fmt.Errorf("unknown status %q", trimmed)
				}
				statuses = append(statuses, status)
			}

			sessions, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions recorded")
				return nil
			}

			headers := []string{"Session", "Status", "Recorded", "Duration", "Chunks", "Shots", "Lecture"}
			rows := make([][]string, 0, len(sessions))
			for _, sess := range sessions {
				detail := sess.LecturePath
				if sess.Status == session.StatusFailed {
					detail = sess.ErrorMessage
				}
				rows = append(rows, []string{
					sess.ID,
					string(sess.Status),
					sess.CreatedAt.Local().Format("2006-01-02 15:04"),
					(time.Duration(sess.DurationMS) * time.Millisecond).Round(durationPrecision).String(),
					fmt.Sprintf("%d", sess.ChunkCount),
					fmt.Sprintf("%d", sess.ScreenshotCount),
					detail,
				})
			}

			aligns := []columnAlignment{
				alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft,
			}
			if isTerminal(out) {
				fmt.Fprintln(out, renderTable(headers, rows, aligns))
				return nil
			}
			// Plain tab-separated output for pipes.
			fmt.Fprintln(out, strings.Join(headers, "\t"))
			for _, row := range rows {
				fmt.Fprintln(out, strings.Join(row, "\t"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Only show sessions with this status")
	return cmd
}
