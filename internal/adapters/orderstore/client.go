package orderstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/httpx"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/ports"
	"strings"
	"time"
)

// Client talks to the storefront order store REST API. Submissions are
// sent once; a failed order is never replayed automatically.
type Client struct {
	http    *httpx.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("order store base url is empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:    httpx.New(timeout),
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

type loginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type submitResponse struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CustomerLogin exchanges an email address for a customer bearer token.
func (c *Client) CustomerLogin(ctx context.Context, email, name string) (_ string, err error) {
	defer obs.Time(ctx, "orderstore.CustomerLogin")(&err)

	var out loginResponse
	if err := c.postJSON(ctx, "/api/auth/customer-login", "", loginRequest{Email: email, Name: name}, &out); err != nil {
		return "", fmt.Errorf("customer login: %w", err)
	}
	if out.Token == "" {
		return "", errors.New("customer login: response has no token")
	}
	return out.Token, nil
}

// SubmitOrder implements ports.OrderSubmitter.
func (c *Client) SubmitOrder(ctx context.Context, token string, payload ports.OrderPayload) (_ string, err error) {
	defer obs.Time(ctx, "orderstore.SubmitOrder")(&err)

	if strings.TrimSpace(token) == "" {
		return "", domain.ErrUnauthorized
	}

	var out submitResponse
	if err := c.postJSON(ctx, "/api/orders", token, payload, &out); err != nil {
		return "", fmt.Errorf("submit order: %w", err)
	}
	if out.OrderID == "" {
		return "", errors.New("submit order: response has no order id")
	}
	return out.OrderID, nil
}

func (c *Client) postJSON(ctx context.Context, path, token string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := c.http.NewRequest(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return mapStatusError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapStatusError turns 401/403 into domain.ErrUnauthorized and pulls the
// server's error message out of the JSON body when present.
func mapStatusError(err error) error {
	var se *httpx.StatusError
	if !errors.As(err, &se) {
		return err
	}

	msg := se.Body
	var er errorResponse
	if json.Unmarshal([]byte(se.Body), &er) == nil && er.Error != "" {
		msg = er.Error
	}

	switch se.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	default:
		return fmt.Errorf("status %d: %s", se.Code, msg)
	}
}
