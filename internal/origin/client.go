// Package origin retrieves base avatar images from the external image
// provider. The provider is rate-limited and untrusted for latency, so every
// fetch passes through a token-bucket limiter and a fixed request timeout.
package origin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/workdeck/avatarproxy/internal/avatar"
)

// DefaultTimeout bounds each origin request.
const DefaultTimeout = 12 * time.Second

// Config tunes the origin client.
type Config struct {
	// BaseURL is the provider endpoint, without a trailing slash.
	BaseURL string

	// Timeout bounds each outbound request. Zero means DefaultTimeout.
	Timeout time.Duration

	// RatePerSec and Burst feed the outbound token bucket. Zero values
	// disable limiting.
	RatePerSec float64
	Burst      int
}

// Client fetches base images for (userId, resolution) pairs. The provider
// answers either with PNG bytes directly or with a metadata document carrying
// the image URL; the client follows the indirection.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	var limiter *rate.Limiter
	if cfg.RatePerSec > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: limiter,
		logger:  logger,
	}
}

// metadataResponse is the provider's indirect answer. A state other than
// Completed means the image is pending or blocked and not servable.
type metadataResponse struct {
	Data []struct {
		TargetID int64  `json:"targetId"`
		State    string `json:"state"`
		ImageURL string `json:"imageUrl"`
	} `json:"data"`
}

// Fetch retrieves the base image for userID at one of the provider-native
// resolutions. Any network failure, timeout or non-success response maps to
// ErrOriginUnavailable.
func (c *Client) Fetch(ctx context.Context, userID int64, resolution int) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", avatar.ErrOriginUnavailable, err)
		}
	}

	url := fmt.Sprintf("%s/v1/users/avatar?userIds=%d&size=%dx%d&format=Png",
		c.baseURL, userID, resolution, resolution)

	body, contentType, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(contentType, "application/json") {
		imageURL, err := c.resolveImageURL(body, userID)
		if err != nil {
			return nil, err
		}
		body, _, err = c.get(ctx, imageURL)
		if err != nil {
			return nil, err
		}
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty response for user %d", avatar.ErrOriginUnavailable, userID)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) (body []byte, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", avatar.ErrOriginUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", avatar.ErrOriginUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: origin returned %d", avatar.ErrOriginUnavailable, resp.StatusCode)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", avatar.ErrOriginUnavailable, err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

func (c *Client) resolveImageURL(body []byte, userID int64) (string, error) {
	var meta metadataResponse
	if err := json.Unmarshal(body, &meta); err != nil {
		return "", fmt.Errorf("%w: malformed metadata: %v", avatar.ErrOriginUnavailable, err)
	}
	if len(meta.Data) == 0 {
		return "", fmt.Errorf("%w: no image for user %d", avatar.ErrOriginUnavailable, userID)
	}
	entry := meta.Data[0]
	if entry.State != "Completed" || entry.ImageURL == "" {
		return "", fmt.Errorf("%w: image for user %d not ready (state %q)",
			avatar.ErrOriginUnavailable, userID, entry.State)
	}
	return entry.ImageURL, nil
}
