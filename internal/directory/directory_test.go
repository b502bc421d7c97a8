package directory_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"xtor/internal/directory"
	"xtor/internal/feedapi"
	"xtor/internal/services"
	"xtor/internal/storage"
)

type feedServer struct {
	*httptest.Server

	mu       sync.Mutex
	manifest string
	status   int
	pages    map[int]string
	queries  []string
	requests int
}

func newFeedServer(t *testing.T) *feedServer {
	t.Helper()
	fs := &feedServer{
		manifest: `{"name":"Sample","xtor_version":"1.0"}`,
		status:   http.StatusOK,
		pages:    map[int]string{},
	}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *feedServer) handle(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.requests++
	if fs.status != http.StatusOK {
		w.WriteHeader(fs.status)
		return
	}
	path := r.URL.Path
	if strings.HasSuffix(path, "/manifest") {
		_, _ = w.Write([]byte(fs.manifest))
		return
	}
	if strings.HasSuffix(path, "/videos") {
		fs.queries = append(fs.queries, r.URL.RawQuery)
		var page int
		_, _ = fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		if body, ok := fs.pages[page]; ok {
			_, _ = w.Write([]byte(body))
			return
		}
		_, _ = w.Write([]byte(`{"videos":[]}`))
		return
	}
	if i := strings.Index(path, "/videos/"); i >= 0 {
		id := path[i+len("/videos/"):]
		_, _ = fmt.Fprintf(w, `{"id":%q,"title":"Video %s","stream_url":"https://cdn.example/%s.m3u8"}`, id, id, id)
		return
	}
	http.NotFound(w, r)
}

func (fs *feedServer) set(fn func(*feedServer)) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fn(fs)
}

func (fs *feedServer) lastQuery() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.queries) == 0 {
		return ""
	}
	return fs.queries[len(fs.queries)-1]
}

func (fs *feedServer) requestCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.requests
}

func videosJSON(prefix string, count int, hasNext bool) string {
	videos := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		videos = append(videos, map[string]any{"id": fmt.Sprintf("%s%d", prefix, i)})
	}
	data, _ := json.Marshal(map[string]any{
		"videos":     videos,
		"pagination": map[string]any{"has_next": hasNext},
	})
	return string(data)
}

func newDirectory(store storage.Store, opts ...directory.Option) *directory.Directory {
	if store == nil {
		store = storage.NewMemoryStore()
	}
	opts = append([]directory.Option{directory.WithDefaultFeedURL("")}, opts...)
	return directory.New(feedapi.New(), store, opts...)
}

func TestAddFeedRejectsInvalidURLBeforeNetwork(t *testing.T) {
	server := newFeedServer(t)
	dir := newDirectory(nil)

	for _, raw := range []string{"", "   ", "not a url", "ftp://example.com/", "/relative/path"} {
		_, err := dir.AddFeed(context.Background(), raw)
		if !errors.Is(err, services.ErrInvalidInput) {
			t.Fatalf("AddFeed(%q): expected ErrInvalidInput, got %v", raw, err)
		}
	}
	if server.requestCount() != 0 {
		t.Fatalf("expected no network requests, got %d", server.requestCount())
	}
}

func TestAddFeedDuplicate(t *testing.T) {
	server := newFeedServer(t)
	dir := newDirectory(nil)
	ctx := context.Background()

	if _, err := dir.AddFeed(ctx, server.URL+"/"); err != nil {
		t.Fatalf("AddFeed: %v", err)
	}
	before := server.requestCount()
	if _, err := dir.AddFeed(ctx, server.URL+"/"); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected duplicate to fail with ErrInvalidInput, got %v", err)
	}
	if server.requestCount() != before {
		t.Fatal("expected duplicate check before any network request")
	}
}

func TestAddFeedMatchesURLExactly(t *testing.T) {
	server := newFeedServer(t)
	dir := newDirectory(nil)
	ctx := context.Background()
	if _, err := dir.AddFeed(ctx, server.URL); err != nil {
		t.Fatalf("AddFeed: %v", err)
	}

	padded := " " + server.URL + " "
	_, err := dir.AddFeed(ctx, padded)
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected padded URL rejected as malformed, got %v", err)
	}
	if strings.Contains(err.Error(), "already") {
		t.Fatalf("padded URL must not match the stored feed: %v", err)
	}
	if len(dir.Feeds()) != 1 || dir.Feeds()[0].URL != server.URL {
		t.Fatalf("expected stored feed untouched, got %+v", dir.Feeds())
	}
}

func TestAddFeedBuildsFeedFromManifest(t *testing.T) {
	server := newFeedServer(t)
	server.set(func(fs *feedServer) {
		fs.manifest = `{"name":"Sample","xtor_version":"1.0","extra":{"keep":true}}`
	})
	store := storage.NewMemoryStore()
	dir := newDirectory(store)

	feed, err := dir.AddFeed(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("AddFeed: %v", err)
	}
	if feed.Name != "Sample" || feed.Description != "" || feed.Logo != "" || !feed.Active {
		t.Fatalf("unexpected feed %+v", feed)
	}
	if active := dir.ActiveFeed(); active == nil || active.URL != server.URL {
		t.Fatalf("expected first feed to become active, got %+v", active)
	}

	stored, ok, _ := store.Get(context.Background(), "xtor_feeds")
	if !ok {
		t.Fatal("expected feeds to be persisted")
	}
	if !strings.Contains(stored, `"extra":{"keep":true}`) {
		t.Fatalf("expected unknown manifest fields persisted, got %s", stored)
	}
}

func TestAddFeedInactiveManifest(t *testing.T) {
	server := newFeedServer(t)
	server.set(func(fs *feedServer) {
		fs.manifest = `{"name":"Off","xtor_version":"1.0","active":false,"description":"d","logo":"https://l/logo.png"}`
	})
	dir := newDirectory(nil)
	feed, err := dir.AddFeed(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("AddFeed: %v", err)
	}
	if feed.Active || feed.Description != "d" || feed.Logo != "https://l/logo.png" {
		t.Fatalf("unexpected feed %+v", feed)
	}
}

func TestAddFeedFailures(t *testing.T) {
	server := newFeedServer(t)
	dir := newDirectory(nil)

	server.set(func(fs *feedServer) { fs.status = http.StatusBadGateway })
	if _, err := dir.AddFeed(context.Background(), server.URL); !errors.Is(err, services.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}

	server.set(func(fs *feedServer) {
		fs.status = http.StatusOK
		fs.manifest = `{"name":"No version"}`
	})
	if _, err := dir.AddFeed(context.Background(), server.URL); !errors.Is(err, services.ErrInvalidManifest) {
		t.Fatalf("expected ErrInvalidManifest, got %v", err)
	}
	if dir.HasFeeds() {
		t.Fatal("expected directory to stay empty after failures")
	}
}

func TestSecondFeedDoesNotBecomeActive(t *testing.T) {
	a := newFeedServer(t)
	b := newFeedServer(t)
	dir := newDirectory(nil)
	ctx := context.Background()

	if _, err := dir.AddFeed(ctx, a.URL); err != nil {
		t.Fatalf("AddFeed a: %v", err)
	}
	if _, err := dir.AddFeed(ctx, b.URL); err != nil {
		t.Fatalf("AddFeed b: %v", err)
	}
	if dir.ActiveFeed().URL != a.URL {
		t.Fatalf("expected first feed to stay active, got %s", dir.ActiveFeed().URL)
	}
	feed, _ := dir.FeedAt(1)
	if dir.FeedIndex(&feed) != 1 {
		t.Fatalf("unexpected index for second feed")
	}
	if dir.FeedIndex(nil) != -1 || dir.FeedIndex(&directory.Feed{URL: "https://missing/"}) != -1 {
		t.Fatal("expected -1 for nil or unknown feed")
	}
}

func TestRemoveActiveFeedActivatesFirstRemaining(t *testing.T) {
	a := newFeedServer(t)
	b := newFeedServer(t)
	c := newFeedServer(t)
	store := storage.NewMemoryStore()
	dir := newDirectory(store)
	ctx := context.Background()

	for _, server := range []*feedServer{a, b, c} {
		if _, err := dir.AddFeed(ctx, server.URL); err != nil {
			t.Fatalf("AddFeed: %v", err)
		}
	}
	second, _ := dir.FeedAt(1)
	if err := dir.SwitchFeed(ctx, second); err != nil {
		t.Fatalf("SwitchFeed: %v", err)
	}
	if err := dir.RemoveFeed(ctx, b.URL); err != nil {
		t.Fatalf("RemoveFeed: %v", err)
	}
	if active := dir.ActiveFeed(); active == nil || active.URL != a.URL {
		t.Fatalf("expected first remaining feed active, got %+v", active)
	}
	if len(dir.Feeds()) != 2 {
		t.Fatalf("expected 2 feeds, got %d", len(dir.Feeds()))
	}

	if err := dir.RemoveFeed(ctx, "https://never-added.example/"); err != nil {
		t.Fatalf("removing unknown feed should be a no-op: %v", err)
	}

	if err := dir.RemoveFeed(ctx, a.URL); err != nil {
		t.Fatalf("RemoveFeed a: %v", err)
	}
	if err := dir.RemoveFeed(ctx, c.URL); err != nil {
		t.Fatalf("RemoveFeed c: %v", err)
	}
	if dir.ActiveFeed() != nil || dir.HasFeeds() {
		t.Fatal("expected empty directory without active feed")
	}
	stored, _, _ := store.Get(ctx, "xtor_feeds")
	if stored != "[]" {
		t.Fatalf("expected empty persisted list, got %s", stored)
	}
}

func TestRemoveActiveFeedResetsListingState(t *testing.T) {
	a := newFeedServer(t)
	b := newFeedServer(t)
	a.set(func(fs *feedServer) { fs.pages[1] = videosJSON("x", 2, true) })
	dir := newDirectory(nil)
	ctx := context.Background()
	for _, server := range []*feedServer{a, b} {
		if _, err := dir.AddFeed(ctx, server.URL); err != nil {
			t.Fatalf("AddFeed: %v", err)
		}
	}

	dir.SetFilter("genre", "comedy")
	if err := dir.LoadVideos(ctx, false); err != nil {
		t.Fatalf("LoadVideos: %v", err)
	}
	if _, err := dir.LoadVideoDetails(ctx, "x1"); err != nil {
		t.Fatalf("LoadVideoDetails: %v", err)
	}
	if len(dir.Videos()) != 2 || !dir.HasMore() {
		t.Fatalf("expected loaded page before removal, got %d videos", len(dir.Videos()))
	}

	if err := dir.RemoveFeed(ctx, a.URL); err != nil {
		t.Fatalf("RemoveFeed: %v", err)
	}
	if active := dir.ActiveFeed(); active == nil || active.URL != b.URL {
		t.Fatalf("expected remaining feed active, got %+v", active)
	}
	query := dir.Query()
	if query.Page != 1 || len(query.Filters) != 0 || query.Sort != "" || query.Search != "" {
		t.Fatalf("expected fresh query, got %+v", query)
	}
	if len(dir.Videos()) != 0 || dir.HasMore() || dir.CurrentVideo() != nil {
		t.Fatal("expected listing state cleared")
	}

	before := b.requestCount()
	video, err := dir.LoadVideoDetails(ctx, "x1")
	if err != nil {
		t.Fatalf("LoadVideoDetails after removal: %v", err)
	}
	if b.requestCount() != before+1 || !strings.HasPrefix(video.StreamURL(), "https://cdn.example/") {
		t.Fatal("expected detail fetched from the newly active feed")
	}
}

func TestLoadFeedsRestoresPersistedFeeds(t *testing.T) {
	server := newFeedServer(t)
	store := storage.NewMemoryStore()
	ctx := context.Background()

	first := newDirectory(store)
	if _, err := first.AddFeed(ctx, server.URL); err != nil {
		t.Fatalf("AddFeed: %v", err)
	}

	restored := newDirectory(store)
	restored.LoadFeeds(ctx)
	feeds := restored.Feeds()
	if len(feeds) != 1 || feeds[0].URL != server.URL || feeds[0].Manifest == nil || feeds[0].Manifest.Name != "Sample" {
		t.Fatalf("unexpected restored feeds %+v", feeds)
	}
}

func TestLoadFeedsMalformedValueSubscribesDefault(t *testing.T) {
	server := newFeedServer(t)
	store := storage.NewMemoryStore()
	ctx := context.Background()
	if err := store.Set(ctx, "xtor_feeds", "{definitely not json"); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	dir := directory.New(feedapi.New(), store, directory.WithDefaultFeedURL(server.URL+"/"))
	dir.LoadFeeds(ctx)

	feeds := dir.Feeds()
	if len(feeds) != 1 || feeds[0].URL != server.URL+"/" || feeds[0].Name != "Sample" {
		t.Fatalf("expected default feed subscribed, got %+v", feeds)
	}
	if dir.ActiveFeed() == nil {
		t.Fatal("expected default feed active")
	}
}

func TestLoadFeedsDefaultFailureIsNotFatal(t *testing.T) {
	server := newFeedServer(t)
	server.set(func(fs *feedServer) { fs.status = http.StatusServiceUnavailable })

	dir := directory.New(feedapi.New(), storage.NewMemoryStore(), directory.WithDefaultFeedURL(server.URL))
	dir.LoadFeeds(context.Background())
	if dir.HasFeeds() {
		t.Fatal("expected directory to remain empty")
	}
}

func TestSwitchFeedResetsQueryAndAdoptsDefaultSort(t *testing.T) {
	server := newFeedServer(t)
	server.set(func(fs *feedServer) {
		fs.manifest = `{"name":"Sorted","xtor_version":"1.0","sort":{"default":"newest","options":[{"id":"newest"},{"id":"oldest"}]}}`
		fs.pages[1] = videosJSON("v", 3, true)
	})
	dir := newDirectory(nil)
	ctx := context.Background()

	feed, err := dir.AddFeed(ctx, server.URL)
	if err != nil {
		t.Fatalf("AddFeed: %v", err)
	}
	dir.SetFilter("genre", "comedy")
	dir.SetSearch("cats")
	if err := dir.LoadVideos(ctx, false); err != nil {
		t.Fatalf("LoadVideos: %v", err)
	}
	if _, err := dir.LoadVideoDetails(ctx, "v1"); err != nil {
		t.Fatalf("LoadVideoDetails: %v", err)
	}

	if err := dir.SwitchFeed(ctx, feed); err != nil {
		t.Fatalf("SwitchFeed: %v", err)
	}
	query := dir.Query()
	if query.Page != 1 || len(query.Filters) != 0 || query.Search != "" {
		t.Fatalf("expected reset query, got %+v", query)
	}
	if query.Sort != "newest" {
		t.Fatalf("expected default sort adopted, got %q", query.Sort)
	}
	if len(dir.Videos()) != 0 || dir.HasMore() || dir.CurrentVideo() != nil {
		t.Fatal("expected videos, has-more, and current video cleared")
	}
	if !dir.ManifestLoaded() {
		t.Fatal("expected manifest loaded after switch")
	}
}

func TestSwitchFeedKeepsSwitchWhenRefreshFails(t *testing.T) {
	a := newFeedServer(t)
	b := newFeedServer(t)
	dir := newDirectory(nil)
	ctx := context.Background()
	if _, err := dir.AddFeed(ctx, a.URL); err != nil {
		t.Fatalf("AddFeed a: %v", err)
	}
	feedB, err := dir.AddFeed(ctx, b.URL)
	if err != nil {
		t.Fatalf("AddFeed b: %v", err)
	}

	b.set(func(fs *feedServer) { fs.status = http.StatusInternalServerError })
	if err := dir.SwitchFeed(ctx, feedB); !errors.Is(err, services.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if dir.ActiveFeed().URL != b.URL {
		t.Fatal("expected switch to stand despite refresh failure")
	}
	if dir.ManifestLoaded() {
		t.Fatal("expected manifest not loaded")
	}

	if err := dir.SwitchFeed(ctx, directory.Feed{URL: "https://unknown.example/"}); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown feed, got %v", err)
	}
}

func TestLoadFeedManifestRefreshesInPlace(t *testing.T) {
	server := newFeedServer(t)
	store := storage.NewMemoryStore()
	dir := newDirectory(store)
	ctx := context.Background()

	feed, err := dir.AddFeed(ctx, server.URL)
	if err != nil {
		t.Fatalf("AddFeed: %v", err)
	}
	server.set(func(fs *feedServer) {
		fs.manifest = `{"name":"Renamed","xtor_version":"2.0","description":"now described"}`
	})
	if err := dir.LoadFeedManifest(ctx, feed); err != nil {
		t.Fatalf("LoadFeedManifest: %v", err)
	}
	refreshed, _ := dir.FeedAt(0)
	if refreshed.Name != "Renamed" || refreshed.Description != "now described" || refreshed.Manifest.XtorVersion != "2.0" {
		t.Fatalf("unexpected refreshed feed %+v", refreshed)
	}
	stored, _, _ := store.Get(ctx, "xtor_feeds")
	if !strings.Contains(stored, "Renamed") {
		t.Fatalf("expected refreshed manifest persisted, got %s", stored)
	}

	server.set(func(fs *feedServer) { fs.manifest = `{"name":"Broken"}` })
	if err := dir.LoadFeedManifest(ctx, feed); !errors.Is(err, services.ErrInvalidManifest) {
		t.Fatalf("expected ErrInvalidManifest on refresh, got %v", err)
	}
	kept, _ := dir.FeedAt(0)
	if kept.Name != "Renamed" {
		t.Fatalf("expected previous manifest kept, got %q", kept.Name)
	}
}

func TestLoadVideosQueryString(t *testing.T) {
	server := newFeedServer(t)
	server.set(func(fs *feedServer) { fs.pages[3] = videosJSON("p3-", 2, false) })
	dir := newDirectory(nil)
	ctx := context.Background()
	if _, err := dir.AddFeed(ctx, server.URL+"/"); err != nil {
		t.Fatalf("AddFeed: %v", err)
	}

	dir.SetFilter("genre", "comedy")
	dir.SetSort("newest")
	server.set(func(fs *feedServer) { fs.pages[1] = videosJSON("p1-", 1, true) })
	for page := 1; page < 3; page++ {
		if err := dir.LoadVideos(ctx, false); err != nil {
			t.Fatalf("LoadVideos: %v", err)
		}
		server.set(func(fs *feedServer) { fs.pages[2] = videosJSON("p2-", 1, true) })
		if !dir.NextPage() {
			t.Fatalf("expected NextPage to advance from page %d", page)
		}
	}
	if err := dir.LoadVideos(ctx, false); err != nil {
		t.Fatalf("LoadVideos page 3: %v", err)
	}
	if got := server.lastQuery(); got != "page=3&filter=genre:comedy&sort=newest" {
		t.Fatalf("unexpected query %q", got)
	}
}

func TestLoadVideosAppendAndReplace(t *testing.T) {
	server := newFeedServer(t)
	server.set(func(fs *feedServer) {
		fs.pages[1] = videosJSON("a", 10, true)
		fs.pages[2] = videosJSON("b", 5, false)
	})
	dir := newDirectory(nil)
	ctx := context.Background()
	if _, err := dir.AddFeed(ctx, server.URL); err != nil {
		t.Fatalf("AddFeed: %v", err)
	}

	if err := dir.LoadVideos(ctx, false); err != nil {
		t.Fatalf("LoadVideos: %v", err)
	}
	if len(dir.Videos()) != 10 || !dir.HasMore() {
		t.Fatalf("expected 10 videos with more, got %d more=%v", len(dir.Videos()), dir.HasMore())
	}
	if !dir.NextPage() {
		t.Fatal("expected NextPage to advance")
	}
	if err := dir.LoadVideos(ctx, true); err != nil {
		t.Fatalf("LoadVideos append: %v", err)
	}
	videos := dir.Videos()
	if len(videos) != 15 || dir.HasMore() {
		t.Fatalf("expected 15 videos without more, got %d more=%v", len(videos), dir.HasMore())
	}
	if videos[0].ID() != "a0" || videos[14].ID() != "b4" {
		t.Fatalf("unexpected order: first %s last %s", videos[0].ID(), videos[14].ID())
	}
	if dir.NextPage() {
		t.Fatal("expected NextPage to refuse without more pages")
	}
	if dir.Query().Page != 2 {
		t.Fatalf("expected page to stay 2, got %d", dir.Query().Page)
	}

	dir.ResetPagination()
	if dir.Query().Page != 1 || dir.HasMore() {
		t.Fatal("expected pagination reset")
	}
	if err := dir.LoadVideos(ctx, false); err != nil {
		t.Fatalf("LoadVideos replace: %v", err)
	}
	if len(dir.Videos()) != 10 {
		t.Fatalf("expected replace to leave 10 videos, got %d", len(dir.Videos()))
	}
}

func TestLoadVideosFailureClearsBusy(t *testing.T) {
	server := newFeedServer(t)
	var logs bytes.Buffer
	dir := newDirectory(nil, directory.WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))))
	ctx := context.Background()
	if _, err := dir.AddFeed(ctx, server.URL); err != nil {
		t.Fatalf("AddFeed: %v", err)
	}
	server.set(func(fs *feedServer) { fs.status = http.StatusInternalServerError })
	if err := dir.LoadVideos(ctx, false); !errors.Is(err, services.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if dir.Busy() {
		t.Fatal("expected busy cleared after failure")
	}
	out := logs.String()
	if !strings.Contains(out, `"level":"ERROR"`) || !strings.Contains(out, `"event_type":"videos_load_failed"`) {
		t.Fatalf("expected error log for failed page load, got %s", out)
	}
}

func TestOperationsWithoutActiveFeed(t *testing.T) {
	dir := newDirectory(nil)
	ctx := context.Background()
	if err := dir.LoadVideos(ctx, false); err != nil {
		t.Fatalf("LoadVideos without feed: %v", err)
	}
	video, err := dir.LoadVideoDetails(ctx, "x")
	if err != nil || video != nil {
		t.Fatalf("expected nil details without feed, got %v %v", video, err)
	}
	if dir.Manifest() != nil || dir.ActiveFeed() != nil {
		t.Fatal("expected no manifest or active feed")
	}
}

func TestLoadVideoDetailsCachesCurrentVideo(t *testing.T) {
	server := newFeedServer(t)
	dir := newDirectory(nil)
	ctx := context.Background()
	if _, err := dir.AddFeed(ctx, server.URL); err != nil {
		t.Fatalf("AddFeed: %v", err)
	}
	video, err := dir.LoadVideoDetails(ctx, "abc")
	if err != nil {
		t.Fatalf("LoadVideoDetails: %v", err)
	}
	if video.Title() != "Video abc" {
		t.Fatalf("unexpected video %v", video)
	}
	before := server.requestCount()
	again, err := dir.LoadVideoDetails(ctx, "abc")
	if err != nil || again.ID() != "abc" {
		t.Fatalf("expected cached video, got %v %v", again, err)
	}
	if server.requestCount() != before {
		t.Fatal("expected cached detail without a request")
	}
	if dir.CurrentVideo().ID() != "abc" {
		t.Fatal("expected current video set")
	}
}

func TestFilterOrderAndPageReset(t *testing.T) {
	dir := newDirectory(nil)
	dir.SetFilter("genre", "comedy")
	dir.SetFilter("year", "2020")
	dir.SetFilter("genre", "drama")
	query := dir.Query()
	if len(query.Filters) != 2 || query.Filters[0] != (feedapi.FilterValue{ID: "genre", Value: "drama"}) || query.Filters[1].ID != "year" {
		t.Fatalf("unexpected filters %+v", query.Filters)
	}
	dir.SetFilter("genre", "")
	query = dir.Query()
	if len(query.Filters) != 1 || query.Filters[0].ID != "year" {
		t.Fatalf("expected genre removed, got %+v", query.Filters)
	}
	query.Filters[0].Value = "mutated"
	if dir.Query().Filters[0].Value != "2020" {
		t.Fatal("expected Query to return a copy")
	}
}

func TestSettersResetPage(t *testing.T) {
	server := newFeedServer(t)
	server.set(func(fs *feedServer) { fs.pages[1] = videosJSON("v", 1, true) })
	dir := newDirectory(nil)
	ctx := context.Background()
	if _, err := dir.AddFeed(ctx, server.URL); err != nil {
		t.Fatalf("AddFeed: %v", err)
	}
	setters := map[string]func(){
		"filter": func() { dir.SetFilter("genre", "comedy") },
		"sort":   func() { dir.SetSort("oldest") },
		"search": func() { dir.SetSearch("q") },
	}
	for name, set := range setters {
		dir.ResetPagination()
		if err := dir.LoadVideos(ctx, false); err != nil {
			t.Fatalf("LoadVideos: %v", err)
		}
		dir.NextPage()
		if dir.Query().Page != 2 {
			t.Fatalf("%s: expected page 2 before setter", name)
		}
		set()
		if dir.Query().Page != 1 {
			t.Fatalf("%s: expected page reset to 1", name)
		}
	}
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	a := newFeedServer(t)
	b := newFeedServer(t)
	store := storage.NewMemoryStore()
	ctx := context.Background()

	dir := newDirectory(store)
	if _, err := dir.AddFeed(ctx, a.URL); err != nil {
		t.Fatalf("AddFeed: %v", err)
	}

	other := newDirectory(store)
	other.LoadFeeds(ctx)
	if _, err := other.AddFeed(ctx, b.URL); err != nil {
		t.Fatalf("AddFeed other: %v", err)
	}
	if err := other.RemoveFeed(ctx, a.URL); err != nil {
		t.Fatalf("RemoveFeed other: %v", err)
	}

	if !dir.Reload(ctx) {
		t.Fatal("expected Reload to report a change")
	}
	if dir.Reload(ctx) {
		t.Fatal("expected second Reload to report no change")
	}
	feeds := dir.Feeds()
	if len(feeds) != 1 || feeds[0].URL != b.URL {
		t.Fatalf("expected reloaded feed list, got %+v", feeds)
	}
	if active := dir.ActiveFeed(); active == nil || active.URL != b.URL {
		t.Fatalf("expected active feed to move to remaining feed, got %+v", active)
	}
}

func TestGoToPageClamps(t *testing.T) {
	dir := newDirectory(nil)
	dir.GoToPage(4)
	if dir.Query().Page != 4 {
		t.Fatalf("expected page 4, got %d", dir.Query().Page)
	}
	dir.GoToPage(0)
	if dir.Query().Page != 1 {
		t.Fatalf("expected clamp to 1, got %d", dir.Query().Page)
	}
}
