package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nightstandapp/nightstand-server/internal/metadata"
	"github.com/nightstandapp/nightstand-server/internal/normalize"
)

const (
	// Source identifies candidates produced by this client.
	Source = "googlebooks"

	defaultLimit = 10
	maxLimit     = 40 // API maximum for maxResults
)

// Search queries volumes matching query. limit <= 0 uses the default.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]metadata.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []metadata.Candidate{}, nil
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("printType", "books")

	var resp volumesResponse
	if err := c.get(ctx, "/volumes", params, &resp); err != nil {
		return nil, wrapError("search", query, err)
	}

	c.logger.Debug("google books search results",
		"query", query,
		"total", resp.TotalItems,
		"count", len(resp.Items),
	)

	results := make([]metadata.Candidate, 0, len(resp.Items))
	for i := range resp.Items {
		results = append(results, toCandidate(&resp.Items[i]))
	}
	return results, nil
}

// Volume fetches a single volume by id.
func (c *Client) Volume(ctx context.Context, volumeID string) (*metadata.Candidate, error) {
	if strings.TrimSpace(volumeID) == "" {
		return nil, wrapError("volume", volumeID, ErrBadRequest)
	}

	var v volume
	if err := c.get(ctx, "/volumes/"+url.PathEscape(volumeID), url.Values{}, &v); err != nil {
		return nil, wrapError("volume", volumeID, err)
	}
	cand := toCandidate(&v)
	return &cand, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest any) error {
	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d", ErrBadRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func toCandidate(v *volume) metadata.Candidate {
	info := &v.VolumeInfo
	c := metadata.Candidate{
		Source:        Source,
		ID:            v.ID,
		Title:         normalize.Text(info.Title),
		Subtitle:      normalize.Text(info.Subtitle),
		Authors:       info.Authors,
		Publisher:     normalize.Text(info.Publisher),
		PublishedDate: info.PublishedDate,
		Description:   htmlToMarkdown(info.Description),
		Snippet:       stripHTML(v.SearchInfo.TextSnippet),
		Categories:    info.Categories,
		ISBN:          pickISBN(info.IndustryIdentifiers),
		ThumbnailURL:  secureURL(firstNonEmpty(info.ImageLinks.Thumbnail, info.ImageLinks.SmallThumbnail)),
	}
	if info.PageCount > 0 {
		pages := info.PageCount
		c.PageCount = &pages
	}
	if code := normalize.LanguageCode(info.Language); code != "" {
		c.Language = code
	} else {
		c.Language = info.Language
	}
	return c
}

// pickISBN prefers ISBN-13 over ISBN-10.
func pickISBN(ids []industryIdentifier) string {
	var isbn10 string
	for _, id := range ids {
		switch id.Type {
		case "ISBN_13":
			return id.Identifier
		case "ISBN_10":
			if isbn10 == "" {
				isbn10 = id.Identifier
			}
		}
	}
	return isbn10
}

// secureURL upgrades the http image links the API returns to https.
func secureURL(u string) string {
	if rest, ok := strings.CutPrefix(u, "http://"); ok {
		return "https://" + rest
	}
	return u
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
