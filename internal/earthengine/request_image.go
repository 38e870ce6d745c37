package earthengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bloom-watch/bloom-watch-cli/internal/properties"
	"golang.org/x/oauth2/clientcredentials"
)

const apiBaseURL = "https://earthengine.googleapis.com/v1/projects/earthengine-public/assets"

// Client is one authenticated session against the imagery API. Acquire it at
// the start of a run and pass it down; there is no package-level session.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retries    int
	retryDelay time.Duration
}

// NewClient builds an OAuth2 client-credentials session from the environment.
// Authentication errors surface on the first request, not here.
func NewClient(ctx context.Context) (*Client, error) {
	clientID := properties.EarthEngineClientID()
	clientSecret := properties.EarthEngineClientSecret()
	tokenURL := properties.EarthEngineTokenURL()

	if clientID == "" || clientSecret == "" || tokenURL == "" {
		return nil, fmt.Errorf("missing required environment variables: EARTHENGINE_CLIENT_ID, EARTHENGINE_CLIENT_SECRET, or EARTHENGINE_TOKEN_URL")
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}

	return &Client{
		httpClient: config.Client(ctx),
		baseURL:    apiBaseURL,
		retries:    10,
		retryDelay: 5 * time.Second,
	}, nil
}

// ImageInfo is one catalog entry returned by the image listing endpoint.
type ImageInfo struct {
	Name      string    `json:"name"`
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
}

type listImagesResponse struct {
	Images []ImageInfo `json:"images"`
}

// ListImages returns the catalog entries of a collection intersecting the
// region within the window, ordered by capture time.
func (c *Client) ListImages(collection string, region Region, window TimeWindow) ([]ImageInfo, error) {
	regionJSON, err := json.Marshal(region.Geometry())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal region geometry: %w", err)
	}

	query := url.Values{}
	query.Set("startTime", window.Start.Format(time.RFC3339))
	query.Set("endTime", window.End.Add(24*time.Hour-time.Second).Format(time.RFC3339))
	query.Set("region", string(regionJSON))

	listURL := fmt.Sprintf("%s/%s:listImages?%s", c.baseURL, collection, query.Encode())

	body, err := c.request(http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list images for %s: %w", collection, err)
	}

	var response listImagesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse image listing: %w", err)
	}
	return response.Images, nil
}

// GetPixels downloads the requested bands of one image clipped to a grid tile
// as GeoTIFF bytes.
func (c *Client) GetPixels(imageID string, bands []string, tile Tile) ([]byte, error) {
	requestPayload := map[string]interface{}{
		"fileFormat": "GEO_TIFF",
		"bandIds":    bands,
		"region":     tile.Geometry(),
		"grid": map[string]interface{}{
			"dimensions": map[string]int{
				"width":  tile.Width,
				"height": tile.Height,
			},
		},
	}

	requestBody, err := json.Marshal(requestPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pixel request: %w", err)
	}

	pixelsURL := fmt.Sprintf("%s/%s:getPixels", c.baseURL, imageID)
	return c.request(http.MethodPost, pixelsURL, requestBody)
}

// request runs one call with a bounded retry loop. Unauthorized responses
// abort immediately; anything else is retried a fixed number of times before
// the run fails.
func (c *Client) request(method, requestURL string, body []byte) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retries; attempt++ {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequest(method, requestURL, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		response, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			fmt.Printf("Attempt %d failed: %v\n", attempt, err)
			time.Sleep(c.retryDelay)
			continue
		}

		content, err := io.ReadAll(response.Body)
		response.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			time.Sleep(c.retryDelay)
			continue
		}

		if response.StatusCode == http.StatusOK {
			return content, nil
		}

		if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("unauthorized access, check your client ID and secret")
		}

		if response.StatusCode == http.StatusNotFound && strings.Contains(string(content), "not found") {
			return nil, ErrImageNotFound
		}

		lastErr = fmt.Errorf("unexpected status %d: %s", response.StatusCode, string(content))
		fmt.Printf("Attempt %d failed: %s\n", attempt, string(content))
		time.Sleep(c.retryDelay)
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retries, lastErr)
}

// ErrImageNotFound marks a date with no usable capture; callers skip it.
var ErrImageNotFound = fmt.Errorf("image not found")
