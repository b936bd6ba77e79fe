package downloader

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Fetcher downloads the audio track of a video. Implementations write into
// dir (owned by the caller) and return the path of the audio file.
type Fetcher interface {
	Fetch(ctx context.Context, videoURL, dir string) (string, error)
}

var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// VideoID extracts the 11-character video identifier from a YouTube URL.
// Non-YouTube URLs are rejected.
func VideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch {
	case host == "youtu.be":
		id = strings.Trim(u.Path, "/")
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		if v := u.Query().Get("v"); v != "" {
			id = v
			break
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id = strings.Trim(strings.TrimPrefix(u.Path, prefix), "/")
				break
			}
		}
	default:
		return "", fmt.Errorf("not a YouTube URL: %s", rawURL)
	}

	if !videoIDRe.MatchString(id) {
		return "", fmt.Errorf("no video id in URL: %s", rawURL)
	}
	return id, nil
}
