package extractor

import "errors"

// ErrOEmbedStatus is returned when the oEmbed endpoint answers with a non-200 status.
var ErrOEmbedStatus = errors.New("oembed request failed")

// ErrNoVideoID is returned when no video ID can be read from a YouTube URL.
var ErrNoVideoID = errors.New("could not extract video ID from URL")

// ErrVideoNotFound is returned when the Data API has no record of a video.
var ErrVideoNotFound = errors.New("youtube api: no video details found")
