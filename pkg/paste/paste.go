// Package paste uploads text to the Python Discord paste service.
package paste

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultURL is the public paste service.
	DefaultURL = "https://paste.pythondiscord.com"

	failedRequestAttempts = 3
)

// Client uploads documents to a pinnwand-compatible paste service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the given paste service. An empty URL
// selects the public instance.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type uploadResponse struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Upload sends contents to the paste service and returns the paste URL.
// The extension, when given, is appended to the returned URL. Transient
// failures are retried a few times before giving up.
func (c *Client) Upload(ctx context.Context, contents string, extension string) (string, error) {
	if extension != "" {
		extension = "." + extension
	}

	var lastErr error
	for attempt := 1; attempt <= failedRequestAttempts; attempt++ {
		url, err := c.upload(ctx, contents)
		if err == nil {
			if extension == ".py" {
				return url + extension, nil
			}
			return url + extension + "?noredirect", nil
		}

		lastErr = err
		slog.Warn("paste upload failed",
			"attempt", attempt,
			"max_attempts", failedRequestAttempts,
			"error", err,
		)
	}
	return "", fmt.Errorf("paste service upload failed after %d attempts: %w", failedRequestAttempts, lastErr)
}

func (c *Client) upload(ctx context.Context, contents string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents", strings.NewReader(contents))
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("unexpected response from paste service: %w", err)
	}

	if body.Message != "" {
		return "", fmt.Errorf("paste service returned error %q with status %d", body.Message, resp.StatusCode)
	}
	if body.Key == "" {
		return "", fmt.Errorf("paste service response missing key (status %d)", resp.StatusCode)
	}

	return c.baseURL + "/" + body.Key, nil
}
