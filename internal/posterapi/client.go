// Package posterapi is the client for the poster bridge REST API. It is
// pure request/response: one attempt per call, no internal retries —
// retry cadence belongs to the refresh scheduler.
package posterapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/posterbridge/eposter/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "eposter/1.0"

	postersPath = "/eposter-list"
	eventPath   = "/event-details"

	// maxImageBytes bounds a single poster download.
	maxImageBytes = 64 << 20
)

// Client fetches the poster list, event metadata, and poster images.
type Client struct {
	baseURL    string
	token      string
	deviceID   string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient creates a new poster API client.
func NewClient(baseURL, token, deviceID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  baseURL,
		token:    token,
		deviceID: deviceID,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
		now:    time.Now,
	}
}

// doRequest performs one authenticated GET and maps failures onto the
// domain error taxonomy.
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	query := url.Values{}
	query.Set("key", c.token)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("api request", "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		c.logger.Debug("api request error", "path", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", domain.ErrTransient, resp.StatusCode)
	}

	return body, nil
}

// FetchPosters returns the ordered poster list for this device. When
// the payload has per-screen sections, the section whose screen_number
// matches the configured device id wins; otherwise the flat list is
// used as-is.
func (c *Client) FetchPosters(ctx context.Context) (*domain.PosterList, error) {
	body, err := c.doRequest(ctx, postersPath)
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Debug("poster list parse error", "error", err, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}

	now := c.now()
	list := &domain.PosterList{FetchedAt: now}

	dtos := resp.Data
	if len(dtos) == 0 {
		dtos = resp.Posters
	}
	if len(resp.Screens) > 0 {
		found := false
		for _, s := range resp.Screens {
			if s.ScreenNumber == c.deviceID {
				dtos = s.Records
				list.DisplayTime = s.MinutesPerRecord
				found = true
				break
			}
		}
		if !found {
			c.logger.Warn("no screen section for device, using flat list", "device", c.deviceID)
		}
	}

	for _, d := range dtos {
		if d.ID.String() == "" || d.ImageURL == "" {
			c.logger.Warn("skipping poster with missing id or image url", "poster", d.ID.String())
			continue
		}
		list.Records = append(list.Records, d.toRecord(now, c.logger))
	}

	return list, nil
}

// FetchEventMetadata returns the opaque event blob the display uses for
// decoration. The payload is kept raw; only well-formedness is checked.
func (c *Client) FetchEventMetadata(ctx context.Context) (*domain.EventMetadata, error) {
	body, err := c.doRequest(ctx, eventPath)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: event metadata is not valid JSON", domain.ErrMalformed)
	}
	return &domain.EventMetadata{Raw: body, FetchedAt: c.now()}, nil
}

// DownloadImage fetches one poster image. Image URLs are absolute and
// publicly served, so no token is attached.
func (c *Client) DownloadImage(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: image download status %d", domain.ErrTransient, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading image: %v", domain.ErrTransient, err)
	}
	if int64(len(data)) > maxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", domain.ErrTransient, int64(maxImageBytes))
	}
	return data, nil
}
