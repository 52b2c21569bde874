// Package youtubeapi resolves video and playlist titles through the
// YouTube Data API v3 REST surface.
package youtubeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tubecert-service/internal/app"
)

const (
	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	// YouTube API page size limit for playlist items.
	maxPlaylistItems = 50
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL is test-only for pointing at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type snippetItem struct {
	Snippet struct {
		Title string `json:"title"`
	} `json:"snippet"`
	ContentDetails struct {
		VideoID string `json:"videoId"`
	} `json:"contentDetails"`
}

type listResponse struct {
	Items []snippetItem `json:"items"`
}

// Resolve returns the titles feeding quiz generation plus the display
// title for the quiz and certificate: the playlist name when a
// playlist ID is given, otherwise the video title.
func (c *Client) Resolve(ctx context.Context, videoID, playlistID string) (app.ContentTitles, error) {
	if playlistID != "" {
		return c.resolvePlaylist(ctx, playlistID)
	}
	if videoID != "" {
		return c.resolveVideo(ctx, videoID)
	}
	return app.ContentTitles{}, fmt.Errorf("no video or playlist ID to resolve")
}

func (c *Client) resolveVideo(ctx context.Context, videoID string) (app.ContentTitles, error) {
	resp, err := c.list(ctx, "videos", url.Values{"part": {"snippet"}, "id": {videoID}})
	if err != nil {
		return app.ContentTitles{}, err
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet.Title == "" {
		return app.ContentTitles{}, fmt.Errorf("video %s has no title", videoID)
	}
	title := resp.Items[0].Snippet.Title
	return app.ContentTitles{Titles: []string{title}, DisplayTitle: title}, nil
}

func (c *Client) resolvePlaylist(ctx context.Context, playlistID string) (app.ContentTitles, error) {
	meta, err := c.list(ctx, "playlists", url.Values{"part": {"snippet"}, "id": {playlistID}})
	if err != nil {
		return app.ContentTitles{}, err
	}
	displayTitle := ""
	if len(meta.Items) > 0 {
		displayTitle = meta.Items[0].Snippet.Title
	}
	if displayTitle == "" {
		displayTitle = "Playlist " + playlistID
	}

	items, err := c.list(ctx, "playlistItems", url.Values{
		"part":       {"contentDetails"},
		"playlistId": {playlistID},
		"maxResults": {fmt.Sprint(maxPlaylistItems)},
	})
	if err != nil {
		return app.ContentTitles{}, err
	}
	var videoIDs []string
	for _, item := range items.Items {
		if item.ContentDetails.VideoID != "" {
			videoIDs = append(videoIDs, item.ContentDetails.VideoID)
		}
	}
	if len(videoIDs) == 0 {
		return app.ContentTitles{}, fmt.Errorf("playlist %s has no videos", playlistID)
	}

	videos, err := c.list(ctx, "videos", url.Values{"part": {"snippet"}, "id": {strings.Join(videoIDs, ",")}})
	if err != nil {
		return app.ContentTitles{}, err
	}
	var titles []string
	for _, item := range videos.Items {
		if item.Snippet.Title != "" {
			titles = append(titles, item.Snippet.Title)
		}
	}
	if len(titles) == 0 {
		return app.ContentTitles{}, fmt.Errorf("playlist %s videos have no titles", playlistID)
	}
	return app.ContentTitles{Titles: titles, DisplayTitle: displayTitle}, nil
}

func (c *Client) list(ctx context.Context, resource string, params url.Values) (listResponse, error) {
	params.Set("key", c.apiKey)
	reqURL := c.baseURL + "/" + resource + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return listResponse{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return listResponse{}, fmt.Errorf("youtube %s: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return listResponse{}, fmt.Errorf("youtube %s returned status %d", resource, resp.StatusCode)
	}
	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return listResponse{}, fmt.Errorf("youtube %s decode: %w", resource, err)
	}
	return payload, nil
}
