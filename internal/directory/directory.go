package directory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"xtor/internal/feedapi"
	"xtor/internal/logging"
	"xtor/internal/storage"
)

const (
	// DefaultFeedURL is subscribed when the directory starts out empty.
	DefaultFeedURL = "https://sample.xtor.io/"
	// DefaultStorageKey is the storage key holding the feed list.
	DefaultStorageKey = "xtor_feeds"
)

// Directory is the feed directory manager.
type Directory struct {
	api            feedapi.API
	store          storage.Store
	storageKey     string
	defaultFeedURL string
	logger         *slog.Logger

	mu             sync.Mutex
	feeds          []Feed
	activeURL      string
	manifestLoaded bool
	query          feedapi.Query
	videos         []feedapi.Video
	hasMore        bool
	busy           int
	generation     uint64
	currentVideo   feedapi.Video
}

// Option configures a Directory.
type Option func(*Directory)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logging.NewComponentLogger(logger, "directory")
		}
	}
}

// WithStorageKey overrides the key the feed list is stored under.
func WithStorageKey(key string) Option {
	return func(d *Directory) {
		if key != "" {
			d.storageKey = key
		}
	}
}

// WithDefaultFeedURL sets the feed subscribed when the directory is empty.
// An empty URL disables the automatic subscription.
func WithDefaultFeedURL(feedURL string) Option {
	return func(d *Directory) {
		d.defaultFeedURL = feedURL
	}
}

// New creates an empty directory. Call LoadFeeds to restore saved feeds.
func New(api feedapi.API, store storage.Store, opts ...Option) *Directory {
	d := &Directory{
		api:            api,
		store:          store,
		storageKey:     DefaultStorageKey,
		defaultFeedURL: DefaultFeedURL,
		logger:         logging.NewNop(),
		query:          feedapi.Query{Page: 1},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Feeds returns the subscribed feeds in subscription order.
func (d *Directory) Feeds() []Feed {
	d.mu.Lock()
	defer d.mu.Unlock()
	return cloneFeeds(d.feeds)
}

// HasFeeds reports whether any feed is subscribed.
func (d *Directory) HasFeeds() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.feeds) > 0
}

// ActiveFeed returns the active feed, or nil when none is selected.
func (d *Directory) ActiveFeed() *Feed {
	d.mu.Lock()
	defer d.mu.Unlock()
	feed, ok := d.activeLocked()
	if !ok {
		return nil
	}
	clone := feed.Clone()
	return &clone
}

// Manifest returns the active feed's manifest, or nil.
func (d *Directory) Manifest() *feedapi.Manifest {
	d.mu.Lock()
	defer d.mu.Unlock()
	feed, ok := d.activeLocked()
	if !ok {
		return nil
	}
	return feed.Manifest.Clone()
}

// ManifestLoaded reports whether the active feed's manifest has been
// refreshed since it was selected.
func (d *Directory) ManifestLoaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activeURL != "" && d.manifestLoaded
}

// Query returns the current listing query.
func (d *Directory) Query() feedapi.Query {
	d.mu.Lock()
	defer d.mu.Unlock()
	return cloneQuery(d.query)
}

// Videos returns the videos loaded so far.
func (d *Directory) Videos() []feedapi.Video {
	d.mu.Lock()
	defer d.mu.Unlock()
	return lo.Map(d.videos, func(video feedapi.Video, _ int) feedapi.Video { return video.Clone() })
}

// HasMore reports whether the server advertised another page.
func (d *Directory) HasMore() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasMore
}

// Busy reports whether a video listing request is in flight.
func (d *Directory) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy > 0
}

// CurrentVideo returns the last loaded video detail document, or nil.
func (d *Directory) CurrentVideo() feedapi.Video {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.currentVideo.Clone()
}

// FeedIndex returns the position of feed in the directory, or -1.
func (d *Directory) FeedIndex(feed *Feed) int {
	if feed == nil {
		return -1
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.indexLocked(feed.URL)
}

// FeedAt returns the feed at index.
func (d *Directory) FeedAt(index int) (Feed, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.feeds) {
		return Feed{}, false
	}
	return d.feeds[index].Clone(), true
}

func (d *Directory) indexLocked(feedURL string) int {
	_, index, ok := lo.FindIndexOf(d.feeds, func(feed Feed) bool { return feed.URL == feedURL })
	if !ok {
		return -1
	}
	return index
}

func (d *Directory) activeLocked() (Feed, bool) {
	if d.activeURL == "" {
		return Feed{}, false
	}
	index := d.indexLocked(d.activeURL)
	if index < 0 {
		return Feed{}, false
	}
	return d.feeds[index], true
}

func (d *Directory) persistLocked(ctx context.Context) error {
	value, err := encodeFeeds(d.feeds)
	if err != nil {
		return err
	}
	return d.store.Set(ctx, d.storageKey, value)
}

func cloneQuery(query feedapi.Query) feedapi.Query {
	query.Filters = append([]feedapi.FilterValue(nil), query.Filters...)
	return query
}
