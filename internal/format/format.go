package format

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Duration renders a length in seconds as m:ss or h:mm:ss. Unknown
// durations are live streams and render as "LIVE".
func Duration(seconds float64, known bool) string {
	if !known || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "LIVE"
	}
	if seconds < 0 {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// Quality renders a vertical resolution such as "1080" as "1080p". An empty
// value means adaptive streaming and renders as "Auto".
func Quality(quality string) string {
	quality = strings.TrimSpace(quality)
	if quality == "" {
		return "Auto"
	}
	return quality + "p"
}

var labelReplacer = strings.NewReplacer("_", " ", "-", " ", ".", " ")

// Label turns an identifier like "release_year" into "Release Year".
func Label(id string) string {
	words := strings.Fields(labelReplacer.Replace(id))
	if len(words) == 0 {
		return ""
	}
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

// LabelOr returns label when set, else the humanized id.
func LabelOr(label, id string) string {
	if label = strings.TrimSpace(label); label != "" {
		return label
	}
	return Label(id)
}

// Truncate shortens text to at most width runes, ending with an ellipsis
// when cut.
func Truncate(text string, width int) string {
	text = strings.Join(strings.Fields(text), " ")
	if width <= 0 || utf8.RuneCountInString(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:width-1])) + "…"
}
