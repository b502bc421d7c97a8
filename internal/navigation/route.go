package navigation

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"xtor/internal/services"
)

// Page identifies a screen.
type Page string

const (
	PageOverview Page = "overview"
	PageFeed     Page = "feed"
	PageVideo    Page = "video"
)

// Route is a parsed route path. FeedIndex is the feed's position in the
// directory.
type Route struct {
	Page      Page
	FeedIndex int
	VideoID   string
}

// OverviewRoute is the root route.
func OverviewRoute() Route { return Route{Page: PageOverview, FeedIndex: -1} }

// FeedRoute addresses a feed listing.
func FeedRoute(index int) Route { return Route{Page: PageFeed, FeedIndex: index} }

// VideoRoute addresses a video of a feed.
func VideoRoute(index int, videoID string) Route {
	return Route{Page: PageVideo, FeedIndex: index, VideoID: videoID}
}

// Path renders the route as "/", "/f/<index>", or "/f/<index>/v/<id>".
func (r Route) Path() string {
	switch r.Page {
	case PageFeed:
		return "/f/" + strconv.Itoa(r.FeedIndex)
	case PageVideo:
		return "/f/" + strconv.Itoa(r.FeedIndex) + "/v/" + url.PathEscape(r.VideoID)
	default:
		return "/"
	}
}

func (r Route) String() string { return r.Path() }

// ParseRoute parses a route path. A leading "#" is accepted.
func ParseRoute(path string) (Route, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(path), "#")
	if trimmed == "" || trimmed == "/" {
		return OverviewRoute(), nil
	}
	parts := strings.Split(strings.Trim(trimmed, "/"), "/")
	if parts[0] != "f" || (len(parts) != 2 && len(parts) != 4) {
		return Route{}, invalidRoute(path, "expected /, /f/<index>, or /f/<index>/v/<id>")
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil || index < 0 {
		return Route{}, invalidRoute(path, fmt.Sprintf("feed index %q is not a non-negative integer", parts[1]))
	}
	if len(parts) == 2 {
		return FeedRoute(index), nil
	}
	if parts[2] != "v" {
		return Route{}, invalidRoute(path, "expected /f/<index>/v/<id>")
	}
	videoID, err := url.PathUnescape(parts[3])
	if err != nil || videoID == "" {
		return Route{}, invalidRoute(path, "video id is empty or malformed")
	}
	return VideoRoute(index, videoID), nil
}

func invalidRoute(path, message string) error {
	return services.Wrap(services.ErrInvalidInput, "navigation", "parse route", fmt.Sprintf("%q: %s", path, message), nil)
}

// History is a back stack of visited routes.
type History struct {
	routes []Route
}

// NewHistory starts at the overview.
func NewHistory() *History {
	return &History{routes: []Route{OverviewRoute()}}
}

// Current returns the route on top of the stack.
func (h *History) Current() Route {
	return h.routes[len(h.routes)-1]
}

// Push records a visit. Opening a video directly from the overview records
// the video's feed listing first.
func (h *History) Push(route Route) {
	if route.Page == PageVideo && h.Current().Page == PageOverview {
		h.routes = append(h.routes, FeedRoute(route.FeedIndex))
	}
	h.routes = append(h.routes, route)
}

// Back pops the current route and returns the one below it. At the bottom
// of the stack it stays put and reports false.
func (h *History) Back() (Route, bool) {
	if len(h.routes) <= 1 {
		return h.Current(), false
	}
	h.routes = h.routes[:len(h.routes)-1]
	return h.Current(), true
}

// Routes returns the stack from oldest to newest.
func (h *History) Routes() []Route {
	return append([]Route(nil), h.routes...)
}
