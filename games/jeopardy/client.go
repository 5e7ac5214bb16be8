/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// HTTPService talks to a jService-compatible trivia API.
type HTTPService struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPService returns a client rooted at baseURL, e.g. "https://jservice.io/api/".
func NewHTTPService(baseURL string, client *http.Client) (*HTTPService, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse trivia api url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" || base.Host == "" {
		return nil, fmt.Errorf("trivia api url must be absolute http(s): %q", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPService{
		base:   base,
		client: client,
	}, nil
}

// FetchCategoryPool lists count categories starting at offset.
func (s *HTTPService) FetchCategoryPool(ctx context.Context, count, offset int) ([]CategorySummary, error) {
	q := url.Values{}
	q.Set("count", strconv.Itoa(count))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}

	var pool []CategorySummary
	if err := s.get(ctx, "categories", q, &pool); err != nil {
		return nil, err
	}

	for i := range pool {
		pool[i].Title = clean(pool[i].Title)
	}

	return pool, nil
}

// FetchCategoryDetail returns the title and all clues of one category.
func (s *HTTPService) FetchCategoryDetail(ctx context.Context, id CategoryID) (CategoryDetail, error) {
	q := url.Values{}
	q.Set("id", strconv.Itoa(int(id)))

	var detail CategoryDetail
	if err := s.get(ctx, "category", q, &detail); err != nil {
		return CategoryDetail{}, err
	}

	detail.Title = clean(detail.Title)
	for i := range detail.Clues {
		detail.Clues[i].Question = clean(detail.Clues[i].Question)
		detail.Clues[i].Answer = clean(detail.Clues[i].Answer)
	}

	return detail, nil
}

func (s *HTTPService) get(ctx context.Context, path string, q url.Values, out any) error {
	u := s.base.ResolveReference(&url.URL{Path: path, RawQuery: q.Encode()})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: build %s request: %v", ErrServiceUnavailable, path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request: %v", ErrServiceUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %s", ErrServiceUnavailable, path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrServiceUnavailable, path, err)
	}

	return nil
}

// clean decodes HTML entities and trims surrounding whitespace; the API
// stores text entity-encoded.
func clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}
