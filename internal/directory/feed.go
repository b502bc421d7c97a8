package directory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"xtor/internal/feedapi"
)

// Feed is one subscribed feed. URL is its identity within the directory.
type Feed struct {
	URL         string            `json:"url"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Logo        string            `json:"logo,omitempty"`
	Active      bool              `json:"active"`
	Manifest    *feedapi.Manifest `json:"manifest"`
}

func newFeed(feedURL string, manifest *feedapi.Manifest) Feed {
	feed := Feed{URL: feedURL}
	feed.apply(manifest)
	return feed
}

// apply copies the manifest-derived fields onto the feed.
func (f *Feed) apply(manifest *feedapi.Manifest) {
	f.Name = manifest.Name
	f.Description = manifest.Description
	f.Logo = manifest.Logo
	f.Active = manifest.IsActive()
	f.Manifest = manifest
}

// Clone returns a deep copy of the feed.
func (f Feed) Clone() Feed {
	f.Manifest = f.Manifest.Clone()
	return f
}

func cloneFeeds(feeds []Feed) []Feed {
	return lo.Map(feeds, func(feed Feed, _ int) Feed { return feed.Clone() })
}

func encodeFeeds(feeds []Feed) (string, error) {
	if feeds == nil {
		feeds = []Feed{}
	}
	data, err := json.Marshal(feeds)
	if err != nil {
		return "", fmt.Errorf("encode feeds: %w", err)
	}
	return string(data), nil
}

// decodeFeeds parses a stored feed list, dropping records without a URL and
// repeated URLs.
func decodeFeeds(value string) ([]Feed, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	var feeds []Feed
	if err := json.Unmarshal([]byte(value), &feeds); err != nil {
		return nil, fmt.Errorf("decode feeds: %w", err)
	}
	feeds = lo.Filter(feeds, func(feed Feed, _ int) bool {
		return strings.TrimSpace(feed.URL) != ""
	})
	return lo.UniqBy(feeds, func(feed Feed) string { return feed.URL }), nil
}
