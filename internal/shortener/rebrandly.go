package shortener

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.rebrandly.com/v1/links"

// ErrNoShortURL indicates the shortening service did not return a
// usable short link. Callers must not attach an undefined link
// downstream.
var ErrNoShortURL = errors.New("shortener returned no short url")

// Client is a Rebrandly link-shortening client
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	APIKey    string
	Workspace string
	Domain    string
}

// New builds a client with a bounded request timeout
func New(apiKey, workspace string) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: 15 * time.Second},
		BaseURL:   defaultBaseURL,
		APIKey:    apiKey,
		Workspace: workspace,
		Domain:    "rebrand.ly",
	}
}

type linkRequest struct {
	Destination string     `json:"destination"`
	Domain      linkDomain `json:"domain"`
}

type linkDomain struct {
	FullName string `json:"fullName"`
}

type linkResponse struct {
	ShortURL string `json:"shortUrl"`
}

// Shorten submits the destination URL and returns the shortened link.
// Any non-OK response or missing shortUrl yields ErrNoShortURL.
func (c *Client) Shorten(ctx context.Context, destination string) (string, error) {
	body, err := json.Marshal(linkRequest{
		Destination: destination,
		Domain:      linkDomain{FullName: c.Domain},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("workspace", c.Workspace)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("shorten request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("shorten status %d: %w", resp.StatusCode, ErrNoShortURL)
	}

	var link linkResponse
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return "", fmt.Errorf("decode shorten response: %w", err)
	}
	if link.ShortURL == "" {
		return "", ErrNoShortURL
	}
	return link.ShortURL, nil
}
