package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cqroot/prompt"
	"github.com/spf13/cobra"

	"xtor/internal/directory"
	"xtor/internal/feedapi"
	"xtor/internal/format"
	"xtor/internal/logging"
	"xtor/internal/navigation"
	"xtor/internal/storage"
)

type asker interface {
	Choose(message string, choices []string) (string, error)
	Input(message, defaultValue string) (string, error)
}

type terminalAsker struct{}

func (terminalAsker) Choose(message string, choices []string) (string, error) {
	return prompt.New().Ask(message).Choose(choices)
}

func (terminalAsker) Input(message, defaultValue string) (string, error) {
	return prompt.New().Ask(message).Input(defaultValue)
}

// newAsker builds the interactive prompter (replaced in tests).
var newAsker = func() asker { return terminalAsker{} }

const (
	choiceAddFeed    = "+ Add feed"
	choiceRemoveFeed = "- Remove feed"
	choiceQuit       = "Quit"
	choiceMore       = "Load more"
	choiceSort       = "Sort..."
	choiceFilter     = "Filter..."
	choiceSearch     = "Search..."
	choiceBack       = "Back"
	choicePlay       = "Play"
	choiceNone       = "(none)"
)

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse feeds and videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.openDirectory(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			b := &browser{
				cmd:      cmd,
				cli:      ctx,
				dir:      dir,
				state:    navigation.NewState(),
				history:  navigation.NewHistory(),
				ask:      newAsker(),
				out:      out,
				colorize: shouldColorize(out),
			}
			runCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			b.watchStore(runCtx)

			err = b.run(runCtx)
			if errors.Is(err, prompt.ErrUserQuit) {
				return nil
			}
			return err
		},
	}
}

type browser struct {
	cmd      *cobra.Command
	cli      *commandContext
	dir      *directory.Directory
	state    *navigation.State
	history  *navigation.History
	ask      asker
	out      io.Writer
	colorize bool

	loadedFeed string
}

// watchStore reloads the feed list when another process rewrites it.
func (b *browser) watchStore(ctx context.Context) {
	watcher, ok := b.cli.store.(storage.Watcher)
	if !ok {
		return
	}
	err := watcher.Watch(ctx, func() {
		if !b.dir.Reload(ctx) {
			return
		}
		b.state.ShowToast("Feed list changed on disk", navigation.ToastInfo)
	})
	if err != nil {
		logging.WarnWithContext(b.cli.loggerValue(), "feed file watch unavailable", "store_watch_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "changes from other xtor processes appear after restart"))
	}
}

func (b *browser) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.renderToast()

		var (
			done bool
			err  error
		)
		switch b.state.Page() {
		case navigation.PageOverview:
			done, err = b.overview(ctx)
		case navigation.PageFeed:
			err = b.feedPage(ctx)
		case navigation.PageVideo:
			err = b.videoPage(ctx)
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (b *browser) renderToast() {
	toast := b.state.Toast()
	if !toast.Visible {
		return
	}
	kind := statusInfo
	switch toast.Kind {
	case navigation.ToastSuccess:
		kind = statusOK
	case navigation.ToastError:
		kind = statusError
	}
	fmt.Fprintln(b.out, renderStatusLine(kind, toast.Message, b.colorize))
	b.state.HideToast()
}

func (b *browser) withLoading(message string, fn func() error) error {
	b.state.ShowLoading(message)
	_, text := b.state.Loading()
	fmt.Fprintln(b.out, text)
	defer b.state.HideLoading()
	return fn()
}

func (b *browser) navigate(route navigation.Route, feedURL, videoID string) {
	b.history.Push(route)
	switch route.Page {
	case navigation.PageFeed:
		b.state.NavigateToFeed(feedURL)
	case navigation.PageVideo:
		b.state.NavigateToVideo(feedURL, videoID)
	default:
		b.state.NavigateToOverview()
	}
}

func (b *browser) back() {
	b.history.Back()
	b.state.GoBack()
}

func (b *browser) overview(ctx context.Context) (bool, error) {
	feeds := b.dir.Feeds()
	fmt.Fprintln(b.out, renderSectionHeader("Feeds", b.colorize))

	choices := make([]string, 0, len(feeds)+3)
	for i, feed := range feeds {
		choices = append(choices, fmt.Sprintf("%d. %s", i, feed.Name))
	}
	choices = append(choices, choiceAddFeed)
	if len(feeds) > 0 {
		choices = append(choices, choiceRemoveFeed)
	}
	choices = append(choices, choiceQuit)

	choice, err := b.ask.Choose("Select a feed", choices)
	if err != nil {
		return false, err
	}
	switch choice {
	case choiceQuit:
		return true, nil
	case choiceAddFeed:
		return false, b.addFeed(ctx)
	case choiceRemoveFeed:
		return false, b.removeFeed(ctx, feeds)
	}
	index, ok := choiceIndex(choice)
	if !ok || index >= len(feeds) {
		return false, nil
	}
	b.navigate(navigation.FeedRoute(index), feeds[index].URL, "")
	return false, nil
}

func (b *browser) addFeed(ctx context.Context) error {
	feedURL, err := b.ask.Input("Feed URL:", "https://")
	if err != nil {
		return err
	}
	err = b.withLoading("Fetching manifest...", func() error {
		feed, err := b.dir.AddFeed(withRequestID(ctx), feedURL)
		if err == nil {
			b.state.ShowToast(fmt.Sprintf("Added %s", feed.Name), navigation.ToastSuccess)
		}
		return err
	})
	if err != nil {
		b.state.ShowToast(err.Error(), navigation.ToastError)
	}
	return nil
}

func (b *browser) removeFeed(ctx context.Context, feeds []directory.Feed) error {
	choices := make([]string, 0, len(feeds)+1)
	for i, feed := range feeds {
		choices = append(choices, fmt.Sprintf("%d. %s", i, feed.Name))
	}
	choices = append(choices, choiceBack)
	choice, err := b.ask.Choose("Remove which feed?", choices)
	if err != nil {
		return err
	}
	index, ok := choiceIndex(choice)
	if !ok || index >= len(feeds) {
		return nil
	}
	if err := b.dir.RemoveFeed(ctx, feeds[index].URL); err != nil {
		b.state.ShowToast(err.Error(), navigation.ToastError)
		return nil
	}
	b.state.ShowToast(fmt.Sprintf("Removed %s", feeds[index].Name), navigation.ToastSuccess)
	return nil
}

func (b *browser) feedPage(ctx context.Context) error {
	feedURL, _ := b.state.Selection()
	if b.loadedFeed != feedURL {
		feed, err := resolveFeed(b.dir, feedURL)
		if err != nil {
			b.state.ShowToast(err.Error(), navigation.ToastError)
			b.state.NavigateToOverview()
			return nil
		}
		err = b.withLoading("Loading videos...", func() error {
			if err := selectFeed(withRequestID(ctx), b.cmd, b.dir, feed); err != nil {
				return err
			}
			return b.dir.LoadVideos(withRequestID(ctx), false)
		})
		if err != nil {
			b.state.ShowToast(err.Error(), navigation.ToastError)
		}
		b.loadedFeed = feedURL
	}

	active := b.dir.ActiveFeed()
	if active == nil {
		b.back()
		return nil
	}
	videos := b.dir.Videos()
	fmt.Fprintln(b.out, renderSectionHeader(active.Name, b.colorize))

	choices := make([]string, 0, len(videos)+5)
	for i, video := range videos {
		seconds, known := video.Duration()
		choices = append(choices, fmt.Sprintf("%d. %s [%s]", i, format.Truncate(firstNonEmpty(video.Title(), video.ID()), 60), format.Duration(seconds, known)))
	}
	if b.dir.HasMore() {
		choices = append(choices, choiceMore)
	}
	manifest := b.dir.Manifest()
	if manifest != nil && manifest.Sort != nil && len(manifest.Sort.Options) > 0 {
		choices = append(choices, choiceSort)
	}
	if manifest != nil && len(manifest.Filters) > 0 {
		choices = append(choices, choiceFilter)
	}
	choices = append(choices, choiceSearch, choiceBack)

	choice, err := b.ask.Choose(fmt.Sprintf("%d videos", len(videos)), choices)
	if err != nil {
		return err
	}
	switch choice {
	case choiceBack:
		b.loadedFeed = ""
		b.back()
		return nil
	case choiceMore:
		if b.dir.NextPage() {
			b.reload(ctx, true)
		}
		return nil
	case choiceSort:
		return b.chooseSort(ctx, manifest)
	case choiceFilter:
		return b.chooseFilter(ctx, manifest)
	case choiceSearch:
		text, err := b.ask.Input("Search:", b.dir.Query().Search)
		if err != nil {
			return err
		}
		b.dir.SetSearch(strings.TrimSpace(text))
		b.reload(ctx, false)
		return nil
	}
	index, ok := choiceIndex(choice)
	if !ok || index >= len(videos) {
		return nil
	}
	b.navigate(navigation.VideoRoute(b.dir.FeedIndex(active), videos[index].ID()), active.URL, videos[index].ID())
	return nil
}

func (b *browser) reload(ctx context.Context, appendPage bool) {
	err := b.withLoading("Loading videos...", func() error {
		return b.dir.LoadVideos(withRequestID(ctx), appendPage)
	})
	if err != nil {
		b.state.ShowToast(err.Error(), navigation.ToastError)
	}
}

func (b *browser) chooseSort(ctx context.Context, manifest *feedapi.Manifest) error {
	choices := []string{choiceNone}
	ids := map[string]string{choiceNone: ""}
	for _, option := range manifest.Sort.Options {
		label := format.LabelOr(option.Label, option.ID)
		choices = append(choices, label)
		ids[label] = option.ID
	}
	choice, err := b.ask.Choose("Sort by", choices)
	if err != nil {
		return err
	}
	b.dir.SetSort(ids[choice])
	b.reload(ctx, false)
	return nil
}

func (b *browser) chooseFilter(ctx context.Context, manifest *feedapi.Manifest) error {
	choices := make([]string, 0, len(manifest.Filters))
	filters := make(map[string]feedapi.Filter, len(manifest.Filters))
	for _, filter := range manifest.Filters {
		label := format.LabelOr(filter.Label, filter.ID)
		choices = append(choices, label)
		filters[label] = filter
	}
	choice, err := b.ask.Choose("Filter by", choices)
	if err != nil {
		return err
	}
	filter := filters[choice]

	var value string
	if len(filter.Options) == 0 {
		value, err = b.ask.Input(format.LabelOr(filter.Label, filter.ID)+":", "")
		if err != nil {
			return err
		}
	} else {
		values := []string{choiceNone}
		byLabel := map[string]string{choiceNone: ""}
		for _, option := range filter.Options {
			label := format.LabelOr(option.Label, option.Value)
			values = append(values, label)
			byLabel[label] = option.Value
		}
		picked, err := b.ask.Choose(format.LabelOr(filter.Label, filter.ID), values)
		if err != nil {
			return err
		}
		value = byLabel[picked]
	}
	b.dir.SetFilter(filter.ID, strings.TrimSpace(value))
	b.reload(ctx, false)
	return nil
}

func (b *browser) videoPage(ctx context.Context) error {
	_, videoID := b.state.Selection()
	var video feedapi.Video
	err := b.withLoading("Loading video...", func() error {
		var err error
		video, err = b.dir.LoadVideoDetails(withRequestID(ctx), videoID)
		return err
	})
	if err != nil || video == nil {
		if err != nil {
			b.state.ShowToast(err.Error(), navigation.ToastError)
		}
		b.back()
		return nil
	}
	for _, line := range videoDetailLines(video, b.colorize) {
		fmt.Fprintln(b.out, line)
	}

	choice, err := b.ask.Choose("Action", []string{choicePlay, choiceBack})
	if err != nil {
		return err
	}
	if choice == choiceBack {
		b.back()
		return nil
	}
	if err := playVideo(b.cmd, b.cli, video, false); err != nil {
		b.state.ShowToast(err.Error(), navigation.ToastError)
	}
	return nil
}

// choiceIndex extracts N from a "N. label" choice.
func choiceIndex(choice string) (int, bool) {
	prefix, _, ok := strings.Cut(choice, ". ")
	if !ok {
		return 0, false
	}
	index, err := strconv.Atoi(prefix)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}
