package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

// DefaultTimeout bounds every call when the caller does not supply an http.Client.
const DefaultTimeout = 5 * time.Second

// ProductAvailability is the per-product answer of the inventory service.
type ProductAvailability struct {
	Available bool                `json:"available"`
	Stock     int                 `json:"stock"`
	Name      *string             `json:"name"`
	Price     decimal.NullDecimal `json:"price"`
}

type availabilityResponse struct {
	Availability map[int64]ProductAvailability `json:"availability"`
}

type stockAdjustment struct {
	Quantity int `json:"quantity"`
}

// Error is the error body returned by the inventory service.
type Error struct {
	Detail  *string `json:"detail,omitempty"`
	Message *string `json:"message,omitempty"`
}

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inventory API returned %d: %s", e.StatusCode, e.Message)
}

// Client calls the inventory service over HTTP.
type Client struct {
	server     *url.URL
	httpClient *http.Client
}

// NewClient instantiates the inventory client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("inventory base URL is required")
	}
	server, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse inventory base URL: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{server: server, httpClient: httpClient}, nil
}

// CheckAvailability asks for a batch of products in one request.
func (c *Client) CheckAvailability(ctx context.Context, productIDs []int64) (map[int64]ProductAvailability, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("inventory client not configured")
	}
	body, err := json.Marshal(productIDs)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, http.MethodPost, "products/check-availability", body)
	if err != nil {
		return nil, fmt.Errorf("call inventory API: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}
	var decoded availabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode availability response: %w", err)
	}
	if decoded.Availability == nil {
		decoded.Availability = map[int64]ProductAvailability{}
	}
	return decoded.Availability, nil
}

// AdjustStock applies a signed delta to a product's stock.
func (c *Client) AdjustStock(ctx context.Context, productID int64, delta int) error {
	if c == nil || c.httpClient == nil {
		return errors.New("inventory client not configured")
	}
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "productId", runtime.ParamLocationPath, productID)
	if err != nil {
		return err
	}
	body, err := json.Marshal(stockAdjustment{Quantity: delta})
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("products/%s/stock", pathParam), body)
	if err != nil {
		return fmt.Errorf("call inventory API: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	target, err := c.server.Parse(path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

func statusError(resp *http.Response) error {
	var body Error
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &body)
	return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(&body, resp.Status)}
}

func errorMessage(body *Error, fallback string) string {
	if body == nil {
		return fallback
	}
	if body.Detail != nil {
		if msg := strings.TrimSpace(*body.Detail); msg != "" {
			return msg
		}
	}
	if body.Message != nil {
		if msg := strings.TrimSpace(*body.Message); msg != "" {
			return msg
		}
	}
	return fallback
}
