package youtube

import "testing"

func TestExtractWatchURL(t *testing.T) {
	video, playlist := ExtractIDs("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if video != "dQw4w9WgXcQ" {
		t.Fatalf("expected video ID, got %q", video)
	}
	if playlist != "" {
		t.Fatalf("expected no playlist ID, got %q", playlist)
	}
}

func TestExtractPlaylistURL(t *testing.T) {
	video, playlist := ExtractIDs("https://www.youtube.com/playlist?list=PLabc-_123XYZ")
	if playlist != "PLabc-_123XYZ" {
		t.Fatalf("expected playlist ID, got %q", playlist)
	}
	if video != "" {
		t.Fatalf("expected no video ID, got %q", video)
	}
}

func TestExtractShortLink(t *testing.T) {
	video, playlist := ExtractIDs("https://youtu.be/dQw4w9WgXcQ")
	if video != "dQw4w9WgXcQ" || playlist != "" {
		t.Fatalf("expected short-link video only, got video=%q playlist=%q", video, playlist)
	}
}

func TestExtractSchemeAndWWWOptional(t *testing.T) {
	for _, url := range []string{
		"youtube.com/watch?v=dQw4w9WgXcQ",
		"http://youtube.com/watch?v=dQw4w9WgXcQ",
		"youtu.be/dQw4w9WgXcQ",
	} {
		video, _ := ExtractIDs(url)
		if video != "dQw4w9WgXcQ" {
			t.Fatalf("url %q: expected video ID, got %q", url, video)
		}
	}
}

func TestExtractNoMatch(t *testing.T) {
	for _, url := range []string{
		"https://vimeo.com/12345",
		"https://www.youtube.com/watch?v=short",
		"not a url",
		"",
	} {
		video, playlist := ExtractIDs(url)
		if video != "" || playlist != "" {
			t.Fatalf("url %q: expected no IDs, got video=%q playlist=%q", url, video, playlist)
		}
	}
}

func TestStableKeyPrecedence(t *testing.T) {
	if got := StableKey("vid", "pl", "u"); got != "yt:playlist:pl" {
		t.Fatalf("playlist should win, got %q", got)
	}
	if got := StableKey("vid", "", "u"); got != "yt:video:vid" {
		t.Fatalf("expected video key, got %q", got)
	}
	if got := StableKey("", "", "https://example.com/x"); got != "yt:url:https://example.com/x" {
		t.Fatalf("expected raw URL fallback, got %q", got)
	}
}

func TestCacheKeyDeterministic(t *testing.T) {
	a := CacheKey("dQw4w9WgXcQ", "", "https://youtu.be/dQw4w9WgXcQ")
	b := CacheKey("dQw4w9WgXcQ", "", "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if a != b {
		t.Fatalf("same video ID must derive same key: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected sha256 hex key, got len %d", len(a))
	}
	if c := CacheKey("otherVideo1", "", ""); c == a {
		t.Fatalf("different video IDs must not collide")
	}
}
