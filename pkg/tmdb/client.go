package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrSearchFailed upstream search returned an unusable response
var ErrSearchFailed = errors.New("tmdb search failed")

// maxBodyBytes caps how much of a search response is read
const maxBodyBytes = 1 << 20

// Item one entry of a multi search
type Item struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	Popularity   float64 `json:"popularity"`
}

type searchResponse struct {
	Page    int    `json:"page"`
	Results []Item `json:"results"`
}

// Client TMDB v3 API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient 생성자
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SearchMulti searches movies, tv shows and people by free text
func (c *Client) SearchMulti(ctx context.Context, query string) ([]Item, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("language", "en-US")
	q.Set("page", "1")
	q.Set("include_adult", "false")
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/3/search/multi?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrSearchFailed, resp.StatusCode)
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	return sr.Results, nil
}
