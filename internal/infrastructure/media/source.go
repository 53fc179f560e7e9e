// Package media implements the elements the playback state machine drives.
package media

import (
	"net/url"
	"strings"
)

// SourceURL returns the media URL of a video: <baseURL>/<id>.mp4.
func SourceURL(baseURL, videoID string) string {
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(videoID) + ".mp4"
}
