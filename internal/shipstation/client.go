package shipstation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/zippz/fulfillment-service/internal/models"
)

const defaultBaseURL = "https://ssapi.shipstation.com"

// ErrSubmitFailed indicates ShipStation rejected the order. The
// response body is carried in the SubmitResult for diagnosis.
var ErrSubmitFailed = errors.New("shipstation order submission failed")

// ErrMissingLink guards against attaching an undefined short URL to
// the outbound payload.
var ErrMissingLink = errors.New("no pdf link to attach")

// Client submits fulfillment orders to the ShipStation API
type Client struct {
	HTTP    *http.Client
	BaseURL string
	auth    string
}

// New builds a client using ShipStation's Basic key/secret credential
func New(apiKey, apiSecret string) *Client {
	cred := base64.StdEncoding.EncodeToString([]byte(apiKey + ":" + apiSecret))
	return &Client{
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		BaseURL: defaultBaseURL,
		auth:    "Basic " + cred,
	}
}

// SubmitResult carries the API outcome back to the caller so a failed
// submission is visible rather than swallowed.
type SubmitResult struct {
	StatusCode int
	Body       string
}

// AttachPDFLink writes the shortened document link into the order's
// customField1 note. An empty link is refused.
func AttachPDFLink(order *models.ShipStationOrder, shortURL string) error {
	if shortURL == "" {
		return ErrMissingLink
	}
	u, err := url.Parse(shortURL)
	if err != nil {
		return fmt.Errorf("parse pdf link: %w", err)
	}
	if u.Host == "" {
		// shorteners return scheme-less host/path links
		u, err = url.Parse("https://" + shortURL)
		if err != nil {
			return fmt.Errorf("parse pdf link: %w", err)
		}
	}
	u.Scheme = "https"
	note := "Pdf Url for Prescriptions and important note for the product " + u.String() + " "
	order.AdvancedOptions.CustomField1 = &note
	return nil
}

// CreateOrder posts the completed payload to /orders/createorder. The
// response status and body are always returned; a non-2xx status also
// yields ErrSubmitFailed.
func (c *Client) CreateOrder(ctx context.Context, order models.ShipStationOrder) (SubmitResult, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return SubmitResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/orders/createorder", bytes.NewReader(body))
	if err != nil {
		return SubmitResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.auth)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("create order request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	result := SubmitResult{StatusCode: resp.StatusCode, Body: string(respBody)}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, fmt.Errorf("status %d: %w", resp.StatusCode, ErrSubmitFailed)
	}
	return result, nil
}
