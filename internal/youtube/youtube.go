// Package youtube provides canonicalization of YouTube channel URLs.
package youtube

import (
	"errors"
	"net/url"
	"strings"
)

// Origin is the canonical YouTube origin used for resolving relative URLs.
const Origin = "https://www.youtube.com"

// RedirectPrefix marks outbound links wrapped by YouTube's click-tracking redirect.
const RedirectPrefix = "https://www.youtube.com/redirect"

// canonicalHost is the host every canonical channel URL is rewritten to.
const canonicalHost = "www.youtube.com"

// ErrNotYouTube is returned when a URL does not resolve to a YouTube host.
var ErrNotYouTube = errors.New("not a youtube URL")

// NormalizeChannelURL canonicalizes a channel URL to https://www.youtube.com/<path>.
// Relative URLs are resolved against the YouTube origin, the scheme is forced
// to https, and trailing "/" and "/about" suffixes are stripped. When channelID
// is non-empty and the path does not already contain a /channel/ segment, the
// result is forced to https://www.youtube.com/channel/<id>.
// Returns ErrNotYouTube when the resulting host is not a YouTube host.
func NormalizeChannelURL(rawURL, channelID string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", ErrNotYouTube
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrNotYouTube
	}

	if parsed.Host == "" {
		// Treat as a path relative to the YouTube origin.
		base, baseErr := url.Parse(Origin)
		if baseErr != nil {
			return "", baseErr
		}
		parsed = base.ResolveReference(parsed)
	}

	if !strings.Contains(strings.ToLower(parsed.Host), "youtube") {
		return "", ErrNotYouTube
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/about")

	canonical := url.URL{Scheme: "https", Host: canonicalHost, Path: path}
	base := canonical.String()

	if channelID != "" && !strings.Contains(path, "/channel/") {
		base = Origin + "/channel/" + strings.TrimSpace(channelID)
	}

	return base, nil
}

// AboutURL returns the about-page URL for a canonical channel URL.
func AboutURL(rawURL, channelID string) (string, error) {
	base, err := NormalizeChannelURL(rawURL, channelID)
	if err != nil {
		return "", err
	}
	return base + "/about", nil
}
