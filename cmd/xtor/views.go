package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"xtor/internal/directory"
	"xtor/internal/feedapi"
	"xtor/internal/format"
)

type feedView struct {
	Index       int               `json:"index"`
	URL         string            `json:"url"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Logo        string            `json:"logo,omitempty"`
	Active      bool              `json:"active"`
	Selected    bool              `json:"selected"`
	Manifest    *feedapi.Manifest `json:"manifest,omitempty"`
}

func newFeedView(index int, feed directory.Feed, selected bool) feedView {
	return feedView{
		Index:       index,
		URL:         feed.URL,
		Name:        feed.Name,
		Description: feed.Description,
		Logo:        feed.Logo,
		Active:      feed.Active,
		Selected:    selected,
		Manifest:    feed.Manifest,
	}
}

type videoListView struct {
	Feed    feedView        `json:"feed"`
	Query   feedapi.Query   `json:"query"`
	HasMore bool            `json:"has_more"`
	Videos  []feedapi.Video `json:"videos"`
}

// renderFeedList prints the subscribed feeds as a table or JSON.
func renderFeedList(cmd *cobra.Command, dir *directory.Directory, jsonOutput bool) error {
	if jsonOutput {
		active := dir.ActiveFeed()
		views := make([]feedView, 0)
		for i, feed := range dir.Feeds() {
			views = append(views, newFeedView(i, feed, active != nil && active.URL == feed.URL))
		}
		return writeJSON(cmd, views)
	}
	out := cmd.OutOrStdout()
	if !dir.HasFeeds() {
		fmt.Fprintln(out, "No feeds subscribed. Add one with `xtor feeds add <url>`.")
		return nil
	}
	fmt.Fprintln(out, renderTable(feedColumns, feedRows(dir)))
	return nil
}

func feedRows(dir *directory.Directory) [][]string {
	active := dir.ActiveFeed()
	feeds := dir.Feeds()
	rows := make([][]string, 0, len(feeds))
	for i, feed := range feeds {
		marker := ""
		if active != nil && active.URL == feed.URL {
			marker = "*"
		}
		version := ""
		if feed.Manifest != nil {
			version = feed.Manifest.XtorVersion
		}
		status := "active"
		if !feed.Active {
			status = "inactive"
		}
		rows = append(rows, []string{
			strconv.Itoa(i) + marker,
			format.Truncate(feed.Name, 32),
			feed.URL,
			version,
			status,
		})
	}
	return rows
}

var feedColumns = []column{
	{Header: "#", Align: alignRight},
	{Header: "Name"},
	{Header: "URL"},
	{Header: "Version"},
	{Header: "Status"},
}

func videoRows(videos []feedapi.Video, offset int) [][]string {
	rows := make([][]string, 0, len(videos))
	for i, video := range videos {
		seconds, known := video.Duration()
		rows = append(rows, []string{
			strconv.Itoa(offset + i + 1),
			video.ID(),
			format.Truncate(video.Title(), 48),
			format.Duration(seconds, known),
			format.Quality(video.Quality()),
		})
	}
	return rows
}

var videoColumns = []column{
	{Header: "#", Align: alignRight},
	{Header: "ID", MaxWidth: 24},
	{Header: "Title"},
	{Header: "Duration", Align: alignRight},
	{Header: "Quality", Align: alignRight},
}

// videoDetailLines renders a video document as aligned fields.
func videoDetailLines(video feedapi.Video, colorize bool) []string {
	seconds, known := video.Duration()
	lines := []string{
		renderSectionHeader(firstNonEmpty(video.Title(), video.ID()), colorize),
		renderField("ID", video.ID()),
		renderField("Duration", format.Duration(seconds, known)),
		renderField("Quality", format.Quality(video.Quality())),
	}
	if stream := video.StreamURL(); stream != "" {
		lines = append(lines, renderField("Stream", stream))
	}
	if thumb := video.Thumbnail(); thumb != "" {
		lines = append(lines, renderField("Thumbnail", thumb))
	}
	if desc := video.Description(); desc != "" {
		lines = append(lines, renderField("Description", format.Truncate(desc, 400)))
	}
	return lines
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
