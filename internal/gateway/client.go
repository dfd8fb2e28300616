// Package gateway is the client for the external order submission endpoint.
// The endpoint is a black box: it accepts a validated order payload and
// answers success or failure, optionally with its own field-level errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// OrderItem mirrors a cart line in the submission payload.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

// OrderPayload is the fully validated order handed to the gateway.
type OrderPayload struct {
	OrderID   string            `json:"orderId"`
	Customer  map[string]string `json:"customer"`
	Items     []OrderItem       `json:"items"`
	Subtotal  int64             `json:"subtotal"`
	Savings   int64             `json:"savings"`
	ItemCount int               `json:"itemCount"`
}

// Result is the gateway's verdict. FieldErrors is populated only when the
// gateway rejected individual fields; those merge into the checkout form
// alongside local validation errors.
type Result struct {
	Succeeded   bool
	FieldErrors map[string]string
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Submit posts the payload to the gateway. A 2xx status is success; a 422
// carries per-field errors; anything else is a transport-level error and
// the caller keeps the draft for retry.
func (c *Client) Submit(ctx context.Context, payload OrderPayload) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("marshal order payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("submit order: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Result{Succeeded: true}, nil
	case resp.StatusCode == http.StatusUnprocessableEntity:
		var rejection struct {
			Errors map[string]string `json:"errors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&rejection); err != nil {
			return Result{}, fmt.Errorf("decode gateway errors: %w", err)
		}
		return Result{FieldErrors: rejection.Errors}, nil
	default:
		return Result{}, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
}
