package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/snapgrid/snapgrid-be/internal/apperrors"
)

// PhotoURLs holds the rendition links of a photo. Only the regular rendition
// is used by the grid.
type PhotoURLs struct {
	Regular string `json:"regular"`
}

// Photo is a single result from the image search API. Description is null
// for photos the author never captioned.
type Photo struct {
	URLs        PhotoURLs `json:"urls"`
	Description *string   `json:"description"`
}

// Client talks to an Unsplash-compatible image search API. Authentication is
// a static access key passed as the client_id request parameter.
type Client struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
}

// NewClient creates a new image search client.
func NewClient(baseURL, accessKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// RandomPhotos fetches up to count random photos. An empty query means
// unscoped results. Any network or non-200 outcome is reported as a
// transport error; the caller decides what to do with the previous state.
func (c *Client) RandomPhotos(ctx context.Context, query string, count int) ([]Photo, error) {
	params := url.Values{}
	params.Set("count", strconv.Itoa(count))
	if query != "" {
		params.Set("query", query)
	}
	params.Set("client_id", c.accessKey)

	reqURL := c.baseURL + "/photos/random?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: image search returned status %d", apperrors.ErrTransport, resp.StatusCode)
	}

	var photos []Photo
	if err := json.NewDecoder(resp.Body).Decode(&photos); err != nil {
		return nil, fmt.Errorf("%w: decoding image search response: %v", apperrors.ErrTransport, err)
	}
	return photos, nil
}
