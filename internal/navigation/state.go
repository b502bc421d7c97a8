package navigation

import (
	"sync"
	"time"
)

const (
	// DefaultToastDuration is how long a toast stays visible.
	DefaultToastDuration = 3 * time.Second
	// DefaultLoadingMessage is shown when ShowLoading gets no message.
	DefaultLoadingMessage = "Loading..."
)

// ToastKind classifies a toast message.
type ToastKind string

const (
	ToastInfo    ToastKind = "info"
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a transient notification.
type Toast struct {
	Message string
	Kind    ToastKind
	Visible bool
}

// State holds the session's page, selection, toast, and loading indicator.
// It is safe for concurrent use; toasts hide themselves from a timer.
type State struct {
	mu             sync.Mutex
	page           Page
	feedURL        string
	videoID        string
	toast          Toast
	toastTimer     *time.Timer
	toastDuration  time.Duration
	loading        bool
	loadingMessage string
}

// Option configures a State.
type Option func(*State)

// WithToastDuration overrides DefaultToastDuration.
func WithToastDuration(d time.Duration) Option {
	return func(s *State) {
		if d > 0 {
			s.toastDuration = d
		}
	}
}

// NewState starts on the overview page.
func NewState(opts ...Option) *State {
	s := &State{page: PageOverview, toastDuration: DefaultToastDuration, toast: Toast{Kind: ToastInfo}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Page returns the current page.
func (s *State) Page() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Selection returns the selected feed URL and video ID.
func (s *State) Selection() (feedURL, videoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedURL, s.videoID
}

func (s *State) NavigateToOverview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = PageOverview
	s.feedURL = ""
	s.videoID = ""
}

func (s *State) NavigateToFeed(feedURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = PageFeed
	s.feedURL = feedURL
	s.videoID = ""
}

func (s *State) NavigateToVideo(feedURL, videoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = PageVideo
	s.feedURL = feedURL
	s.videoID = videoID
}

// GoBack steps from a video to its feed and from a feed to the overview.
func (s *State) GoBack() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.page {
	case PageVideo:
		s.page = PageFeed
		s.videoID = ""
	case PageFeed:
		s.page = PageOverview
		s.feedURL = ""
	}
}

// ShowToast displays message until the toast duration elapses or another
// toast replaces it.
func (s *State) ShowToast(message string, kind ToastKind) {
	if kind == "" {
		kind = ToastInfo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toast = Toast{Message: message, Kind: kind, Visible: true}
	if s.toastTimer != nil {
		s.toastTimer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(s.toastDuration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.toastTimer == timer {
			s.toast.Visible = false
			s.toastTimer = nil
		}
	})
	s.toastTimer = timer
}

func (s *State) HideToast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toast.Visible = false
	if s.toastTimer != nil {
		s.toastTimer.Stop()
		s.toastTimer = nil
	}
}

// Toast returns the current toast.
func (s *State) Toast() Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toast
}

// ShowLoading turns the loading indicator on.
func (s *State) ShowLoading(message string) {
	if message == "" {
		message = DefaultLoadingMessage
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.loadingMessage = message
}

func (s *State) HideLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.loadingMessage = ""
}

// Loading reports whether the indicator is on and its message.
func (s *State) Loading() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading, s.loadingMessage
}
