package format

import "testing"

func TestDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		known   bool
		want    string
	}{
		{0, false, "LIVE"},
		{0, true, "0:00"},
		{-5, true, "0:00"},
		{5, true, "0:05"},
		{65, true, "1:05"},
		{599.9, true, "9:59"},
		{3600, true, "1:00:00"},
		{3725, true, "1:02:05"},
		{36000, true, "10:00:00"},
	}
	for _, tc := range cases {
		if got := Duration(tc.seconds, tc.known); got != tc.want {
			t.Fatalf("Duration(%v, %v) = %q, want %q", tc.seconds, tc.known, got, tc.want)
		}
	}
}

func TestQuality(t *testing.T) {
	if got := Quality(""); got != "Auto" {
		t.Fatalf("Quality(\"\") = %q", got)
	}
	if got := Quality("720"); got != "720p" {
		t.Fatalf("Quality(720) = %q", got)
	}
}

func TestLabel(t *testing.T) {
	cases := map[string]string{
		"release_year": "Release Year",
		"genre":        "Genre",
		"most-viewed":  "Most Viewed",
		"":             "",
	}
	for in, want := range cases {
		if got := Label(in); got != want {
			t.Fatalf("Label(%q) = %q, want %q", in, got, want)
		}
	}
	if got := LabelOr("Newest first", "newest"); got != "Newest first" {
		t.Fatalf("LabelOr kept label = %q", got)
	}
	if got := LabelOr(" ", "newest"); got != "Newest" {
		t.Fatalf("LabelOr fallback = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("a long\ndescription here", 8); got != "a long…" {
		t.Fatalf("unexpected %q", got)
	}
}
