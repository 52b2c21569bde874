package youtubeapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveVideo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("id") != "dQw4w9WgXcQ" || r.URL.Query().Get("key") != "yt-key" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"items":[{"snippet":{"title":"Go Basics"}}]}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("yt-key", server.URL)
	titles, err := client.Resolve(context.Background(), "dQw4w9WgXcQ", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if titles.DisplayTitle != "Go Basics" || len(titles.Titles) != 1 {
		t.Fatalf("unexpected titles %+v", titles)
	}
}

func TestResolvePlaylist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/playlists":
			fmt.Fprint(w, `{"items":[{"snippet":{"title":"Go Course"}}]}`)
		case "/playlistItems":
			if r.URL.Query().Get("maxResults") != "50" {
				t.Errorf("expected maxResults=50, got %s", r.URL.Query().Get("maxResults"))
			}
			fmt.Fprint(w, `{"items":[{"contentDetails":{"videoId":"vid00000001"}},{"contentDetails":{"videoId":"vid00000002"}}]}`)
		case "/videos":
			if r.URL.Query().Get("id") != "vid00000001,vid00000002" {
				t.Errorf("unexpected video ids %s", r.URL.Query().Get("id"))
			}
			fmt.Fprint(w, `{"items":[{"snippet":{"title":"Lesson 1"}},{"snippet":{"title":"Lesson 2"}}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClientWithBaseURL("yt-key", server.URL)
	titles, err := client.Resolve(context.Background(), "", "PLabc")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if titles.DisplayTitle != "Go Course" {
		t.Fatalf("expected playlist name as display title, got %q", titles.DisplayTitle)
	}
	if len(titles.Titles) != 2 || titles.Titles[0] != "Lesson 1" {
		t.Fatalf("unexpected titles %+v", titles.Titles)
	}
}

func TestResolvePlaylistFallbackDisplayTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/playlists":
			fmt.Fprint(w, `{"items":[]}`)
		case "/playlistItems":
			fmt.Fprint(w, `{"items":[{"contentDetails":{"videoId":"vid00000001"}}]}`)
		case "/videos":
			fmt.Fprint(w, `{"items":[{"snippet":{"title":"Lesson 1"}}]}`)
		}
	}))
	defer server.Close()

	client := NewClientWithBaseURL("yt-key", server.URL)
	titles, err := client.Resolve(context.Background(), "", "PLabc")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if titles.DisplayTitle != "Playlist PLabc" {
		t.Fatalf("expected fallback display title, got %q", titles.DisplayTitle)
	}
}

func TestResolveEmptyPlaylistFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("yt-key", server.URL)
	if _, err := client.Resolve(context.Background(), "", "PLabc"); err == nil {
		t.Fatalf("expected error for empty playlist")
	}
}

func TestResolveUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("yt-key", server.URL)
	if _, err := client.Resolve(context.Background(), "dQw4w9WgXcQ", ""); err == nil {
		t.Fatalf("expected error on non-200 upstream")
	}
}
