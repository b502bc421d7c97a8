package directory

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/samber/lo"

	"xtor/internal/feedapi"
	"xtor/internal/logging"
	"xtor/internal/services"
)

const component = "directory"

// LoadFeeds restores the saved feed list. An unreadable or malformed value is
// logged and treated as an empty list. When the list is empty the configured
// default feed is subscribed; failing that is logged and the directory stays
// empty.
func (d *Directory) LoadFeeds(ctx context.Context) {
	feeds := d.restore(ctx)

	d.mu.Lock()
	d.feeds = feeds
	if d.activeURL != "" && d.indexLocked(d.activeURL) < 0 {
		d.activeURL = ""
	}
	empty := len(d.feeds) == 0
	d.mu.Unlock()

	d.logger.Debug("restored feeds", logging.Int("feed_count", len(feeds)))

	if !empty || strings.TrimSpace(d.defaultFeedURL) == "" {
		return
	}
	if _, err := d.AddFeed(ctx, d.defaultFeedURL); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, d.logger), "default feed subscription failed", "default_feed_failed",
			logging.FeedURL(d.defaultFeedURL),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access or add a feed manually"),
			logging.String(logging.FieldImpact, "directory starts empty"))
	}
}

// Reload re-reads the saved feed list, for example after another process
// changed it. The active feed is kept when it is still subscribed. Unlike
// LoadFeeds it never subscribes the default feed. It reports whether the
// list differs from the one in memory.
func (d *Directory) Reload(ctx context.Context) bool {
	feeds := d.restore(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	before, _ := encodeFeeds(d.feeds)
	after, _ := encodeFeeds(feeds)
	if before == after {
		return false
	}
	d.feeds = feeds
	if d.activeURL != "" && d.indexLocked(d.activeURL) < 0 {
		d.activeURL = ""
		d.manifestLoaded = false
		d.query = feedapi.Query{Page: 1}
		d.videos = nil
		d.hasMore = false
		d.currentVideo = nil
		d.generation++
		if first, ok := lo.First(d.feeds); ok {
			d.activeURL = first.URL
		}
	}
	d.logger.Debug("reloaded feeds", logging.Int("feed_count", len(feeds)))
	return true
}

func (d *Directory) restore(ctx context.Context) []Feed {
	value, ok, err := d.store.Get(ctx, d.storageKey)
	if err != nil {
		logging.WarnWithContext(d.logger, "failed to read saved feeds", "feeds_read_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the storage path and permissions"),
			logging.String(logging.FieldImpact, "saved feeds ignored for this session"))
		return nil
	}
	if !ok {
		return nil
	}
	feeds, err := decodeFeeds(value)
	if err != nil {
		logging.WarnWithContext(d.logger, "discarding malformed saved feeds", "feeds_decode_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the stored feed list is not valid JSON"),
			logging.String(logging.FieldImpact, "saved feeds ignored and replaced on next change"))
		return nil
	}
	return feeds
}

// AddFeed validates feedURL, fetches its manifest, and appends the feed. The
// first feed in the directory becomes active.
func (d *Directory) AddFeed(ctx context.Context, feedURL string) (Feed, error) {
	if err := validateFeedURL(feedURL); err != nil {
		return Feed{}, err
	}
	d.mu.Lock()
	exists := d.indexLocked(feedURL) >= 0
	d.mu.Unlock()
	if exists {
		return Feed{}, services.Wrap(services.ErrInvalidInput, component, "add feed", fmt.Sprintf("feed %s already added", feedURL), nil)
	}

	ctx = services.WithFeedURL(ctx, feedURL)
	manifest, err := d.api.FetchManifest(ctx, feedURL)
	if err != nil {
		return Feed{}, err
	}
	feed := newFeed(feedURL, manifest)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.indexLocked(feedURL) >= 0 {
		return Feed{}, services.Wrap(services.ErrInvalidInput, component, "add feed", fmt.Sprintf("feed %s already added", feedURL), nil)
	}
	d.feeds = append(d.feeds, feed)
	if len(d.feeds) == 1 {
		d.activeURL = feed.URL
		d.manifestLoaded = true
	}
	logging.WithContext(ctx, d.logger).Info("feed added",
		logging.String("name", feed.Name),
		logging.Int("feed_count", len(d.feeds)))
	if err := d.persistLocked(ctx); err != nil {
		return feed.Clone(), fmt.Errorf("persist feeds: %w", err)
	}
	return feed.Clone(), nil
}

// RemoveFeed unsubscribes feedURL. Removing an unknown URL is a no-op. When
// the active feed is removed the first remaining feed becomes active.
func (d *Directory) RemoveFeed(ctx context.Context, feedURL string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	index := d.indexLocked(feedURL)
	if index < 0 {
		return nil
	}
	d.feeds = append(d.feeds[:index:index], d.feeds[index+1:]...)
	if d.activeURL == feedURL {
		d.activeURL = ""
		d.manifestLoaded = false
		d.query = feedapi.Query{Page: 1}
		d.videos = nil
		d.hasMore = false
		d.currentVideo = nil
		d.generation++
		if first, ok := lo.First(d.feeds); ok {
			d.activeURL = first.URL
		}
	}
	d.logger.Info("feed removed",
		logging.FeedURL(feedURL),
		logging.Int("feed_count", len(d.feeds)))
	if err := d.persistLocked(ctx); err != nil {
		return fmt.Errorf("persist feeds: %w", err)
	}
	return nil
}

// SwitchFeed makes feed active, resets the listing state, and refreshes the
// feed's manifest. A refresh failure is returned but the switch stands.
func (d *Directory) SwitchFeed(ctx context.Context, feed Feed) error {
	d.mu.Lock()
	index := d.indexLocked(feed.URL)
	if index < 0 {
		d.mu.Unlock()
		return services.Wrap(services.ErrInvalidInput, component, "switch feed", fmt.Sprintf("feed %s is not subscribed", feed.URL), nil)
	}
	d.activeURL = feed.URL
	d.manifestLoaded = false
	d.query = feedapi.Query{Page: 1}
	d.videos = nil
	d.hasMore = false
	d.currentVideo = nil
	d.generation++
	current := d.feeds[index]
	d.mu.Unlock()

	return d.LoadFeedManifest(ctx, current)
}

// LoadFeedManifest re-fetches and re-validates feed's manifest and replaces
// the stored copy. When feed is active and no sort is selected, the
// manifest's default sort is adopted.
func (d *Directory) LoadFeedManifest(ctx context.Context, feed Feed) error {
	ctx = services.WithFeedURL(ctx, feed.URL)
	manifest, err := d.api.FetchManifest(ctx, feed.URL)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, d.logger), "manifest refresh failed", "manifest_refresh_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the feed server may be unreachable"),
			logging.String(logging.FieldImpact, "cached manifest stays in use"))
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	index := d.indexLocked(feed.URL)
	if index < 0 {
		// Removed while the request was in flight.
		return nil
	}
	d.feeds[index].apply(manifest)
	if d.activeURL == feed.URL {
		d.manifestLoaded = true
		if d.query.Sort == "" {
			d.query.Sort = manifest.DefaultSort()
		}
	}
	if err := d.persistLocked(ctx); err != nil {
		return fmt.Errorf("persist feeds: %w", err)
	}
	return nil
}

func validateFeedURL(feedURL string) error {
	if feedURL == "" {
		return services.Wrap(services.ErrInvalidInput, component, "add feed", "feed URL is empty", nil)
	}
	parsed, err := url.Parse(feedURL)
	if err != nil {
		return services.Wrap(services.ErrInvalidInput, component, "add feed", "malformed feed URL", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return services.Wrap(services.ErrInvalidInput, component, "add feed", fmt.Sprintf("%q is not an absolute http(s) URL", feedURL), nil)
	}
	return nil
}
