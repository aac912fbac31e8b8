package domain

import "strings"

// Video is one scraped short video as returned by the data-collection API.
type Video struct {
	Nickname      string
	AwemeID       string
	ShareURL      string
	PublishTime   any // string or number, format depends on the platform
	Description   string
	DiggCount     int64
	CollectCount  int64
	CommentCount  int64
	ShareCount    int64
	DurationMs    int64
	PlayURL       string
	AudioURL      string
	RawTranscript string
	Transcript    string
}

// CanonicalID returns the dedup key for an external video id.
func CanonicalID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// BestTranscript prefers the cleaned transcript over the raw one.
func (v Video) BestTranscript() string {
	if t := strings.TrimSpace(v.Transcript); t != "" {
		return t
	}
	return strings.TrimSpace(v.RawTranscript)
}

// MediaSource returns the URL the ASR stage should transcribe.
func MediaSource(audioURL, playURL string) string {
	if s := strings.TrimSpace(audioURL); s != "" {
		return s
	}
	return strings.TrimSpace(playURL)
}
