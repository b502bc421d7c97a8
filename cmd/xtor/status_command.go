package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"xtor/internal/deps"
	"xtor/internal/logging"
)

type statusView struct {
	ConfigPath   string      `json:"config_path"`
	ConfigExists bool        `json:"config_exists"`
	Storage      string      `json:"storage_backend"`
	StoragePath  string      `json:"storage_path"`
	LogFile      string      `json:"log_file,omitempty"`
	DefaultFeed  string      `json:"default_feed,omitempty"`
	FeedCount    int         `json:"feed_count"`
	Player       deps.Status `json:"player"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration, storage, and player availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir, err := ctx.openDirectory(cmd.Context())
			if err != nil {
				return err
			}
			view := statusView{
				ConfigPath:   ctx.configPath,
				ConfigExists: ctx.configExists,
				Storage:      cfg.Storage.Backend,
				StoragePath:  cfg.Storage.Path,
				LogFile:      logging.FilePath(cfg),
				DefaultFeed:  cfg.Feeds.DefaultURL,
				FeedCount:    len(dir.Feeds()),
				Player:       deps.CheckPlayer(cfg.Player.Command),
			}
			if jsonOutput {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range statusLines(view, colorize) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func statusLines(view statusView, colorize bool) []string {
	configPath := view.ConfigPath
	if !view.ConfigExists {
		configPath += " (not found, using defaults)"
	}
	defaultFeed := view.DefaultFeed
	if defaultFeed == "" {
		defaultFeed = "disabled"
	}
	logFile := view.LogFile
	if logFile == "" {
		logFile = "stderr only"
	}
	lines := []string{
		renderSectionHeader("xtor", colorize),
		renderField("Config", configPath),
		renderField("Storage", fmt.Sprintf("%s (%s)", view.Storage, view.StoragePath)),
		renderField("Log file", logFile),
		renderField("Default feed", defaultFeed),
		renderField("Feeds", strconv.Itoa(view.FeedCount)),
		"",
		renderSectionHeader("Dependencies", colorize),
	}
	if view.Player.Available {
		lines = append(lines, renderStatusLine(statusOK, fmt.Sprintf("%s ready (%s)", view.Player.Name, view.Player.Resolved), colorize))
	} else {
		lines = append(lines, renderStatusLine(statusWarn, fmt.Sprintf("%s: %s; set [player] command or XTOR_PLAYER", view.Player.Name, view.Player.Detail), colorize))
	}
	return lines
}
