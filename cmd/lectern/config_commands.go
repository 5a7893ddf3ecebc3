package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}

			if overwrite {
				if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("remove existing config: %w", err)
				}
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Show the resolved configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file does not exist; showing defaults")
			}
			fmt.Fprintf(out, "Recordings dir: %s\n", cfg.Paths.RecordingsDir)
			fmt.Fprintf(out, "Lectures dir: %s\n", cfg.Paths.LecturesDir)
			fmt.Fprintf(out, "Log dir: %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "Volume threshold: %.1f dBFS\n", cfg.Audio.VolumeThresholdDBFS)
			fmt.Fprintf(out, "Silence close duration: %.1fs\n", cfg.Audio.SilenceCloseDuration)
			fmt.Fprintf(out, "Output sample rate: %d Hz\n", cfg.Audio.OutputSampleRate)
			fmt.Fprintf(out, "Screenshots: %s (diff %.1f%%, intensity %d)\n",
				enabledLabel(cfg.Screenshots.Enabled),
				cfg.Screenshots.DiffThresholdPercent,
				cfg.Screenshots.CompareIntensityThreshold)
			fmt.Fprintf(out, "Transcription model: %s (cuda: %s)\n",
				cfg.Transcription.Model, enabledLabel(cfg.Transcription.CUDAEnabled))
			fmt.Fprintf(out, "Paragraph gap: %dms, low confidence below %d%%\n",
				cfg.Lecture.ParagraphGapThresholdMS, cfg.Lecture.LowConfidenceThresholdPercent)
			return nil
		},
	}
}

func enabledLabel(value bool) string {
	if value {
		return "enabled"
	}
	return "disabled"
}
