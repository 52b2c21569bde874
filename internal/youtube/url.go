// Package youtube extracts content identifiers from YouTube URLs and
// derives the stable cache keys used to address quiz content.
package youtube

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

var (
	// Canonical watch URL (11-char video ID) or playlist URL. The watch
	// branch does not capture a trailing list= parameter; only the
	// explicit playlist form yields a playlist ID.
	canonicalRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/(?:watch\?v=([a-zA-Z0-9_-]{11})|playlist\?list=([a-zA-Z0-9_-]+))`)
	// youtu.be short link carrying only a video ID.
	shortRe = regexp.MustCompile(`(?:https?://)?youtu\.be/([a-zA-Z0-9_-]{11})`)
)

// ExtractIDs parses a YouTube URL into an optional video ID and/or
// playlist ID. The canonical form is tried first, then the short form.
// Both results empty means the URL is not recognized.
func ExtractIDs(url string) (videoID, playlistID string) {
	if m := canonicalRe.FindStringSubmatch(url); m != nil {
		return m[1], m[2]
	}
	if m := shortRe.FindStringSubmatch(url); m != nil {
		return m[1], ""
	}
	return "", ""
}

// StableKey maps extracted identifiers to a human-readable stable key.
// Playlist ID wins over video ID; the raw URL is the weakest fallback,
// so trivially different URL strings never share a cache entry.
func StableKey(videoID, playlistID, rawURL string) string {
	switch {
	case playlistID != "":
		return "yt:playlist:" + playlistID
	case videoID != "":
		return "yt:video:" + videoID
	default:
		return "yt:url:" + rawURL
	}
}

// SafeKey digests an arbitrary key input to a fixed-length hex string,
// so storage keys never contain characters illegal in path-like
// document identifiers.
func SafeKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// CacheKey derives the storage key for a URL's quiz content. Identical
// inputs always produce identical keys.
func CacheKey(videoID, playlistID, rawURL string) string {
	return SafeKey(StableKey(videoID, playlistID, rawURL))
}
