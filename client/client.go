// Package client is a small Go client for the archive HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "porvoy-archive-client/1.0"
)

type Client struct {
	client  *http.Client
	cache   *cache.Cache
	baseURL string
}

func New(baseURL string) *Client {
	httpClient := http.Client{
		Timeout: defaultTimeout,
	}

	c := &Client{
		client:  &httpClient,
		cache:   cache.New(30*time.Second, time.Minute),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return http.DefaultTransport.RoundTrip(req)
}

// SubmitMemory posts a written memory (the write form's channel).
func (c *Client) SubmitMemory(ctx context.Context, req MemoryRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/memories", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return "", fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, apiErr.Error)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}
	return result.ID, nil
}

// ListItems fetches public items, optionally filtered by type. Results are
// cached briefly.
func (c *Client) ListItems(ctx context.Context, itemType string) ([]Item, error) {
	cacheKey := "items:" + itemType
	if x, found := c.cache.Get(cacheKey); found {
		return x.([]Item), nil
	}

	path := "/api/v1/items"
	if itemType != "" {
		path += "?type=" + url.QueryEscape(itemType)
	}

	var items []Item
	if err := c.getJSON(ctx, path, &items); err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, items, cache.DefaultExpiration)
	return items, nil
}

// Timeline fetches dated items grouped by year.
func (c *Client) Timeline(ctx context.Context) ([]TimelineYear, error) {
	cacheKey := "timeline"
	if x, found := c.cache.Get(cacheKey); found {
		return x.([]TimelineYear), nil
	}

	var years []TimelineYear
	if err := c.getJSON(ctx, "/api/v1/timeline", &years); err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, years, cache.DefaultExpiration)
	return years, nil
}

// GetItem fetches a single record by id.
func (c *Client) GetItem(ctx context.Context, id string) (Item, error) {
	var item Item
	err := c.getJSON(ctx, "/api/v1/items/"+url.PathEscape(id), &item)
	return item, err
}

func (c *Client) getJSON(ctx context.Context, path string, response any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to perform request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return fmt.Errorf("failed to decode response: %v", err)
	}
	return nil
}

// Asset describes the stored binary attached to an item, if any.
type Asset struct {
	Kind            string `json:"kind"`
	Bucket          string `json:"bucket,omitempty"`
	Key             string `json:"key,omitempty"`
	URL             string `json:"url,omitempty"`
	ContentType     string `json:"contentType,omitempty"`
	SizeBytes       int64  `json:"sizeBytes,omitempty"`
	Fingerprint     string `json:"fingerprint,omitempty"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
}

// Item is one archived record as returned by the API.
type Item struct {
	ID                string     `json:"id"`
	Category          string     `json:"category"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	BodyText          string     `json:"bodyText,omitempty"`
	OccurredOn        *time.Time `json:"occurredOn,omitempty"`
	DateIsApproximate bool       `json:"dateIsApproximate,omitempty"`
	Location          string     `json:"location,omitempty"`
	PeopleMentioned   []string   `json:"peopleMentioned,omitempty"`
	Asset             Asset      `json:"asset,omitempty"`
}

// TimelineYear groups dated items by year.
type TimelineYear struct {
	Year  int    `json:"year"`
	Items []Item `json:"items"`
}

// MemoryRequest mirrors the write form's fields.
type MemoryRequest struct {
	Type              string `json:"type"`
	Title             string `json:"title"`
	ContentText       string `json:"content_text"`
	ContentDate       string `json:"content_date,omitempty"`
	DateIsApproximate bool   `json:"date_is_approximate,omitempty"`
	ContributorName   string `json:"contributor_name,omitempty"`
	ContributorEmail  string `json:"contributor_email,omitempty"`
	ContributorPhone  string `json:"contributor_phone,omitempty"`
	Location          string `json:"location,omitempty"`
	PeopleMentioned   string `json:"people_mentioned,omitempty"`
}
