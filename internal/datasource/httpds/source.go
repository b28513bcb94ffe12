package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"firecalls/internal/datasource"
)

// Source is a datasource.Source backed by an HTTP GET of URL.
type Source struct {
	URL    string
	client *Client
}

var _ datasource.Source = (*Source)(nil)

// NewSource returns a Source fetching url with c.
func NewSource(url string, c *Client) *Source { return &Source{URL: url, client: c} }

// Open fetches the URL and returns the response body. Only 200 OK is
// accepted.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", s.URL, resp.Status)
	}
	return resp.Body, nil
}
