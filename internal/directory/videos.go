package directory

import (
	"context"

	"github.com/samber/lo"

	"xtor/internal/feedapi"
	"xtor/internal/logging"
	"xtor/internal/services"
)

// LoadVideos fetches the current page of the active feed. With appendPage the
// videos are added after those already loaded; otherwise they replace them.
// Without an active feed it does nothing. A response superseded by a newer
// LoadVideos or SwitchFeed is dropped.
func (d *Directory) LoadVideos(ctx context.Context, appendPage bool) error {
	d.mu.Lock()
	if d.activeURL == "" {
		d.mu.Unlock()
		return nil
	}
	d.generation++
	generation := d.generation
	d.busy++
	feedURL := d.activeURL
	query := cloneQuery(d.query)
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.busy--
		d.mu.Unlock()
	}()

	ctx = services.WithFeedURL(ctx, feedURL)
	page, err := d.api.ListVideos(ctx, feedURL, query)
	if err != nil {
		logging.ErrorWithContext(logging.WithContext(ctx, d.logger), "video page load failed", "videos_load_failed",
			logging.Int("page", query.Page),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the feed serves <base>videos"),
			logging.String(logging.FieldImpact, "video list left unchanged"))
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if generation != d.generation {
		logging.WithContext(ctx, d.logger).Debug("discarding superseded video page",
			logging.Int("page", query.Page))
		return nil
	}
	d.hasMore = page.HasNext
	if appendPage {
		d.videos = append(d.videos, page.Videos...)
	} else {
		d.videos = append([]feedapi.Video(nil), page.Videos...)
	}
	logging.WithContext(ctx, d.logger).Debug("videos loaded",
		logging.Int("page", query.Page),
		logging.Int("received", len(page.Videos)),
		logging.Int("loaded", len(d.videos)),
		logging.Bool("has_more", d.hasMore))
	return nil
}

// LoadVideoDetails returns the detail document of videoID from the active
// feed, or nil when no feed is active. The last opened document is cached.
func (d *Directory) LoadVideoDetails(ctx context.Context, videoID string) (feedapi.Video, error) {
	d.mu.Lock()
	feedURL := d.activeURL
	if feedURL == "" {
		d.mu.Unlock()
		return nil, nil
	}
	if d.currentVideo != nil && d.currentVideo.ID() == videoID {
		cached := d.currentVideo.Clone()
		d.mu.Unlock()
		return cached, nil
	}
	d.mu.Unlock()

	ctx = services.WithFeedURL(ctx, feedURL)
	video, err := d.api.VideoDetails(ctx, feedURL, videoID)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	if d.activeURL == feedURL {
		d.currentVideo = video.Clone()
	}
	d.mu.Unlock()
	return video, nil
}

// SetFilter sets filter id to value, or removes it when value is empty. A
// filter that is already set keeps its position. The page returns to 1.
func (d *Directory) SetFilter(id, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, index, found := lo.FindIndexOf(d.query.Filters, func(filter feedapi.FilterValue) bool { return filter.ID == id })
	switch {
	case value == "":
		if found {
			d.query.Filters = append(d.query.Filters[:index:index], d.query.Filters[index+1:]...)
		}
	case found:
		d.query.Filters[index].Value = value
	default:
		d.query.Filters = append(d.query.Filters, feedapi.FilterValue{ID: id, Value: value})
	}
	d.query.Page = 1
}

// SetSort selects an ordering; an empty id clears it. The page returns to 1.
func (d *Directory) SetSort(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.query.Sort = id
	d.query.Page = 1
}

// SetSearch sets the search text. The page returns to 1.
func (d *Directory) SetSearch(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.query.Search = text
	d.query.Page = 1
}

// NextPage advances to the next page when the server advertised one.
func (d *Directory) NextPage() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hasMore {
		return false
	}
	d.query.Page++
	return true
}

// ResetPagination returns to page 1 and forgets the has-more flag.
func (d *Directory) ResetPagination() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.query.Page = 1
	d.hasMore = false
}

// GoToPage jumps to page directly, without consulting has-more. Pages below
// 1 are clamped to 1.
func (d *Directory) GoToPage(page int) {
	if page < 1 {
		page = 1
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.query.Page = page
}
