// Package navigation tracks where an interactive session is: the page being
// shown (feed overview, one feed's listing, or one video), the selected feed
// and video, transient toast messages, and the loading indicator.
//
// Locations can also be written as route paths ("/", "/f/<index>",
// "/f/<index>/v/<id>"). History records visited routes and inserts the feed
// listing when a video is opened straight from the overview, so stepping
// back always passes through the feed.
package navigation
