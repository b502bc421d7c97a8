package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"xtor/internal/navigation"
)

func newOpenCommand(ctx *commandContext) *cobra.Command {
	var play bool
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "open <route>",
		Short: "Open a route such as /, /f/0, or /f/0/v/<id>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			route, err := navigation.ParseRoute(args[0])
			if err != nil {
				return err
			}
			dir, err := ctx.openDirectory(cmd.Context())
			if err != nil {
				return err
			}

			switch route.Page {
			case navigation.PageOverview:
				return renderFeedList(cmd, dir, jsonOutput)
			case navigation.PageFeed:
				feed, err := resolveFeed(dir, strconv.Itoa(route.FeedIndex))
				if err != nil {
					return err
				}
				if err := selectFeed(withRequestID(cmd.Context()), cmd, dir, feed); err != nil {
					return err
				}
				if err := loadPages(cmd, dir, 1); err != nil {
					return err
				}
				return renderVideoList(cmd, dir, 1, jsonOutput)
			default:
				_, video, err := loadVideo(cmd, ctx, strconv.Itoa(route.FeedIndex), route.VideoID)
				if err != nil {
					return err
				}
				if play || dryRun {
					return playVideo(cmd, ctx, video, dryRun)
				}
				return renderVideo(cmd, video, jsonOutput)
			}
		},
	}
	cmd.Flags().BoolVar(&play, "play", false, "Play the video when the route names one")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "With --play, print the player command instead of running it")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
