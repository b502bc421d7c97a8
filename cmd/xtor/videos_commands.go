package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"xtor/internal/directory"
	"xtor/internal/feedapi"
	"xtor/internal/services"
)

type videoQueryFlags struct {
	page    int
	pages   int
	filters []string
	sort    string
	search  string
}

func (f *videoQueryFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "Page to start from")
	cmd.Flags().IntVar(&f.pages, "pages", 1, "Number of pages to load, following has_next")
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, "Filter as id=value (repeatable, applied in order)")
	cmd.Flags().StringVarP(&f.sort, "sort", "s", "", "Sort option id (defaults to the feed's default sort)")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "Search text")
}

// apply pushes the flags into the directory's query.
func (f *videoQueryFlags) apply(dir *directory.Directory) error {
	for _, raw := range f.filters {
		id, value, ok := strings.Cut(raw, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return services.Wrap(services.ErrInvalidInput, "cli", "parse filter", fmt.Sprintf("%q is not id=value", raw), nil)
		}
		dir.SetFilter(id, strings.TrimSpace(value))
	}
	if f.sort != "" {
		dir.SetSort(f.sort)
	}
	if f.search != "" {
		dir.SetSearch(f.search)
	}
	if f.page < 1 {
		return services.Wrap(services.ErrInvalidInput, "cli", "parse flags", "--page must be at least 1", nil)
	}
	dir.GoToPage(f.page)
	return nil
}

// loadPages loads the current page, then follows has_next for up to
// pages-1 further pages, appending each.
func loadPages(cmd *cobra.Command, dir *directory.Directory, pages int) error {
	ctx := withRequestID(cmd.Context())
	if err := dir.LoadVideos(ctx, false); err != nil {
		return fmt.Errorf("load videos: %w", err)
	}
	for loaded := 1; loaded < pages && dir.NextPage(); loaded++ {
		if err := dir.LoadVideos(ctx, true); err != nil {
			return fmt.Errorf("load page %d: %w", dir.Query().Page, err)
		}
	}
	return nil
}

func newVideosCommand(ctx *commandContext) *cobra.Command {
	var flags videoQueryFlags
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "videos [index|url]",
		Short: "List a feed's videos",
		Long: "Select a feed (the active or first feed when omitted), apply filters, sort, and search, " +
			"and list one or more pages of videos.",
		Args: cobra.MaximumNArgs(1),
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
			if err := selectFeed(withRequestID(cmd.Context()), cmd, dir, feed); err != nil {
				return err
			}
			if err := flags.apply(dir); err != nil {
				return err
			}
			if flags.pages < 1 {
				flags.pages = 1
			}
			firstPage := dir.Query().Page
			if err := loadPages(cmd, dir, flags.pages); err != nil {
				return err
			}
			return renderVideoList(cmd, dir, firstPage, jsonOutput)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderVideoList(cmd *cobra.Command, dir *directory.Directory, firstPage int, jsonOutput bool) error {
	active := dir.ActiveFeed()
	if active == nil {
		return errors.New("no active feed")
	}
	videos := dir.Videos()
	query := dir.Query()
	if jsonOutput {
		return writeJSON(cmd, videoListView{
			Feed:    newFeedView(dir.FeedIndex(active), *active, true),
			Query:   query,
			HasMore: dir.HasMore(),
			Videos:  videos,
		})
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	fmt.Fprintln(out, renderSectionHeader(active.Name, colorize))
	if len(videos) == 0 {
		fmt.Fprintln(out, "No videos found.")
		return nil
	}
	fmt.Fprintln(out, renderTable(videoColumns, videoRows(videos, 0)))

	pages := fmt.Sprintf("page %d", query.Page)
	if query.Page != firstPage {
		pages = fmt.Sprintf("pages %d-%d", firstPage, query.Page)
	}
	summary := fmt.Sprintf("%d videos, %s", len(videos), pages)
	if query.Sort != "" {
		summary += ", sort " + query.Sort
	}
	for _, filter := range query.Filters {
		summary += fmt.Sprintf(", %s=%s", filter.ID, filter.Value)
	}
	if query.Search != "" {
		summary += fmt.Sprintf(", search %q", query.Search)
	}
	fmt.Fprintln(out, summary)
	if dir.HasMore() {
		fmt.Fprintf(out, "More available: --page %d\n", query.Page+1)
	}
	return nil
}

// loadVideo selects the feed and fetches one video document.
func loadVideo(cmd *cobra.Command, ctx *commandContext, selector, videoID string) (*directory.Directory, feedapi.Video, error) {
	dir, err := ctx.openDirectory(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	feed, err := resolveFeed(dir, selector)
	if err != nil {
		return nil, nil, err
	}
	reqCtx := withRequestID(cmd.Context())
	if err := selectFeed(reqCtx, cmd, dir, feed); err != nil {
		return nil, nil, err
	}
	video, err := dir.LoadVideoDetails(reqCtx, videoID)
	if err != nil {
		return nil, nil, fmt.Errorf("load video %s: %w", videoID, err)
	}
	return dir, video, nil
}

func newVideoCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "video <index|url> <video-id>",
		Short: "Show a video's details",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, video, err := loadVideo(cmd, ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return renderVideo(cmd, video, jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderVideo(cmd *cobra.Command, video feedapi.Video, jsonOutput bool) error {
	if jsonOutput {
		return writeJSON(cmd, video)
	}
	out := cmd.OutOrStdout()
	for _, line := range videoDetailLines(video, shouldColorize(out)) {
		fmt.Fprintln(out, line)
	}
	return nil
}

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "play <index|url> <video-id>",
		Short: "Play a video with the configured player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, video, err := loadVideo(cmd, ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return playVideo(cmd, ctx, video, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the player command instead of running it")
	return cmd
}

func playVideo(cmd *cobra.Command, ctx *commandContext, video feedapi.Video, dryRun bool) error {
	p, err := ctx.player()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if dryRun {
		binary, args, err := p.Command(video)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, strings.Join(append([]string{binary}, args...), " "))
		return nil
	}
	fmt.Fprintln(out, renderStatusLine(statusInfo, fmt.Sprintf("Playing %s", firstNonEmpty(video.Title(), video.ID())), shouldColorize(out)))
	return p.Play(cmd.Context(), video)
}
