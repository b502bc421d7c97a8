package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"xtor/internal/format"
)

func newFeedsCommand(ctx *commandContext) *cobra.Command {
	feedsCmd := &cobra.Command{
		Use:   "feeds",
		Short: "Manage feed subscriptions",
	}

	feedsCmd.AddCommand(newFeedsListCommand(ctx))
	feedsCmd.AddCommand(newFeedsAddCommand(ctx))
	feedsCmd.AddCommand(newFeedsRemoveCommand(ctx))
	feedsCmd.AddCommand(newFeedsRefreshCommand(ctx))
	feedsCmd.AddCommand(newFeedsShowCommand(ctx))

	return feedsCmd
}

func newFeedsListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List subscribed feeds",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.openDirectory(cmd.Context())
			if err != nil {
				return err
			}
			return renderFeedList(cmd, dir, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newFeedsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>",
		Short: "Subscribe to a feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.openDirectory(cmd.Context())
			if err != nil {
				return err
			}
			feed, err := dir.AddFeed(withRequestID(cmd.Context()), args[0])
			if err != nil {
				return fmt.Errorf("add feed: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderStatusLine(statusOK, fmt.Sprintf("Added %s (%s) at index %d", feed.Name, feed.URL, dir.FeedIndex(&feed)), shouldColorize(out)))
			return nil
		},
	}
}

func newFeedsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <url|index>",
		Aliases: []string{"rm"},
		Short:   "Unsubscribe from a feed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.openDirectory(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			feed, err := resolveFeed(dir, args[0])
			if err != nil {
				// Unknown URLs are a no-op, matching the directory semantics.
				if strings.Contains(args[0], "://") {
					fmt.Fprintln(out, renderStatusLine(statusInfo, fmt.Sprintf("%s is not subscribed", args[0]), shouldColorize(out)))
					return nil
				}
				return err
			}
			if err := dir.RemoveFeed(cmd.Context(), feed.URL); err != nil {
				return fmt.Errorf("remove feed: %w", err)
			}
			fmt.Fprintln(out, renderStatusLine(statusOK, fmt.Sprintf("Removed %s (%s)", feed.Name, feed.URL), shouldColorize(out)))
			return nil
		},
	}
}

func newFeedsRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [index|url]",
		Short: "Re-fetch feed manifests",
		Long:  "Re-fetch and re-validate the manifest of one feed, or of every feed when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.openDirectory(cmd.Context())
			if err != nil {
				return err
			}
			feeds := dir.Feeds()
			if len(args) == 1 {
				feed, err := resolveFeed(dir, args[0])
				if err != nil {
					return err
				}
				feeds = feeds[:0]
				feeds = append(feeds, feed)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := 0
			for _, feed := range feeds {
				if err := dir.LoadFeedManifest(withRequestID(cmd.Context()), feed); err != nil {
					failed++
					fmt.Fprintln(out, renderStatusLine(statusError, fmt.Sprintf("%s: %v", feed.URL, err), colorize))
					continue
				}
				fmt.Fprintln(out, renderStatusLine(statusOK, fmt.Sprintf("%s refreshed", feed.URL), colorize))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d manifest refreshes failed", failed, len(feeds))
			}
			return nil
		},
	}
}

func newFeedsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show [index|url]",
		Short: "Show a feed's manifest, sort options, and filters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.openDirectory(cmd.Context())
			if err != nil {
				return err
			}
			selector := ""
			if len(args) == 1 {
				selector = args[0]
			}
			feed, err := resolveFeed(dir, selector)
			if err != nil {
				return err
			}
			active := dir.ActiveFeed()
			if jsonOutput {
				return writeJSON(cmd, newFeedView(dir.FeedIndex(&feed), feed, active != nil && active.URL == feed.URL))
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderSectionHeader(feed.Name, colorize))
			fmt.Fprintln(out, renderField("Index", fmt.Sprint(dir.FeedIndex(&feed))))
			fmt.Fprintln(out, renderField("URL", feed.URL))
			fmt.Fprintln(out, renderField("Active", yesNo(feed.Active)))
			if feed.Description != "" {
				fmt.Fprintln(out, renderField("Description", format.Truncate(feed.Description, 200)))
			}
			if feed.Logo != "" {
				fmt.Fprintln(out, renderField("Logo", feed.Logo))
			}
			manifest := feed.Manifest
			if manifest == nil {
				return nil
			}
			fmt.Fprintln(out, renderField("XTOR version", manifest.XtorVersion))
			if manifest.Sort != nil && len(manifest.Sort.Options) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderSectionHeader("Sort options", colorize))
				for _, option := range manifest.Sort.Options {
					label := format.LabelOr(option.Label, option.ID)
					if option.ID == manifest.DefaultSort() {
						label += " (default)"
					}
					fmt.Fprintln(out, renderField(option.ID, label))
				}
			}
			if len(manifest.Filters) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderSectionHeader("Filters", colorize))
				for _, filter := range manifest.Filters {
					values := make([]string, 0, len(filter.Options))
					for _, option := range filter.Options {
						values = append(values, option.Value)
					}
					summary := format.LabelOr(filter.Label, filter.ID)
					if len(values) > 0 {
						summary += ": " + strings.Join(values, ", ")
					}
					fmt.Fprintln(out, renderField(filter.ID, summary))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
