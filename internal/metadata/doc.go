// Package metadata fetches video information through yt-dlp.
//
// URLs are validated against the supported platforms before anything is
// spawned. yt-dlp's JSON document is mapped into model.VideoInfo with the
// formats ordered best first, so index 0 is the default selection.
package metadata
