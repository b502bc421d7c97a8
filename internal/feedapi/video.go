package feedapi

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Video is a video summary or detail document. Feeds define its shape; the
// helpers below read the common fields when present.
type Video map[string]any

// ID returns the video identifier as text.
func (v Video) ID() string {
	return v.text("id")
}

// Title returns the display title.
func (v Video) Title() string {
	return v.text("title")
}

// Description returns the long-form description.
func (v Video) Description() string {
	return v.text("description")
}

// Thumbnail returns the thumbnail URL.
func (v Video) Thumbnail() string {
	return v.text("thumbnail")
}

// Duration returns the length in seconds. ok is false for live or unknown
// durations.
func (v Video) Duration() (seconds float64, ok bool) {
	return number(v["duration"])
}

// Quality returns the vertical resolution (for example "1080"), or "" when
// the feed does not report one.
func (v Video) Quality() string {
	return v.text("quality")
}

// StreamURL resolves the playable URL: stream_url, then url, then the first
// entry of sources or streams.
func (v Video) StreamURL() string {
	for _, key := range []string{"stream_url", "url"} {
		if value := v.text(key); value != "" {
			return value
		}
	}
	for _, key := range []string{"sources", "streams"} {
		list, ok := v[key].([]any)
		if !ok {
			continue
		}
		for _, entry := range list {
			switch typed := entry.(type) {
			case string:
				if strings.TrimSpace(typed) != "" {
					return strings.TrimSpace(typed)
				}
			case map[string]any:
				if value := Video(typed).text("url"); value != "" {
					return value
				}
			}
		}
	}
	return ""
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (v Video) Clone() Video {
	if v == nil {
		return nil
	}
	return cloneValue(map[string]any(v)).(map[string]any)
}

func (v Video) text(key string) string {
	switch typed := v[key].(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case json.Number:
		return typed.String()
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}

func number(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case json.Number:
		f, err := typed.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = cloneValue(v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = cloneValue(v)
		}
		return out
	default:
		return typed
	}
}

// VideoPage is one page of a video listing.
type VideoPage struct {
	Videos  []Video
	HasNext bool
}

type videoPagePayload struct {
	Videos     []Video `json:"videos"`
	Pagination *struct {
		HasNext bool `json:"has_next"`
	} `json:"pagination"`
}

func (p videoPagePayload) page() *VideoPage {
	page := &VideoPage{Videos: p.Videos}
	if page.Videos == nil {
		page.Videos = []Video{}
	}
	if p.Pagination != nil {
		page.HasNext = p.Pagination.HasNext
	}
	return page
}
