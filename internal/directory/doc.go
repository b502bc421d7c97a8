// Package directory manages the set of subscribed XTOR feeds and the video
// browsing state of the active one.
//
// A Directory owns the ordered feed list (persisted as a JSON array under a
// single storage key), the active feed, the listing query (page, filters,
// sort, search), the videos loaded so far, and the detail document of the
// last opened video. Feeds are validated against their manifest before they
// are added and refreshed in place when the manifest is fetched again.
//
// All state is guarded by one mutex that is released around network calls,
// so a UI can poll Busy while a listing is loading. Every LoadVideos call is
// tagged with a generation number; a response that arrives after a newer
// load or a feed switch has been issued is discarded.
package directory
