// Package backend is the typed client for the marketplace REST API that owns
// products and orders.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/foodsupplychain/procurement/pkg/errors"
	"github.com/foodsupplychain/procurement/pkg/logger"
)

const (
	vendorProductsPath = "api/inventory/vendor-products"
	ordersPath         = "api/orders"

	errorBodyReadLimit    int64 = 4 * 1024
	responseBodyReadLimit int64 = 8 * 1024 * 1024

	idempotencyHeader = "Idempotency-Key"
)

var errBaseURLRequired = errors.New("backend base url is required")

// APIError is a non-2xx response from the marketplace API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend status %d", e.Status)
	}
	return fmt.Sprintf("backend status %d: %s", e.Status, e.Message)
}

// StatusCode implements pkgerrors.UpstreamError.
func (e *APIError) StatusCode() int { return e.Status }

// UpstreamMessage implements pkgerrors.UpstreamError.
func (e *APIError) UpstreamMessage() string { return e.Message }

// Client wraps the marketplace endpoints used by the procurement flow.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithLogger reports product records the client had to skip.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// NewClient builds the marketplace client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// ListVendorProducts fetches every vendor product visible to the caller.
// Records that do not decode are skipped so one bad entry cannot hide the
// rest of the catalog.
func (c *Client) ListVendorProducts(ctx context.Context, token string) ([]ProductRecord, error) {
	var raw []json.RawMessage
	if err := c.do(ctx, http.MethodGet, vendorProductsPath, token, "", nil, &raw); err != nil {
		return nil, err
	}
	products := make([]ProductRecord, 0, len(raw))
	for i, item := range raw {
		var rec ProductRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			if c.logg != nil {
				logCtx := c.logg.WithFields(ctx, map[string]any{
					"position":   i,
					"product_id": recordID(item),
				})
				c.logg.Warn(logCtx, "backend.product.undecodable: "+err.Error())
			}
			continue
		}
		products = append(products, rec)
	}
	return products, nil
}

func recordID(raw json.RawMessage) string {
	var head struct {
		ID string `json:"_id"`
	}
	_ = json.Unmarshal(raw, &head)
	return head.ID
}

// CreateOrder submits one vendor order. The idempotency key lets the API
// collapse transport-level retries of the same submission.
func (c *Client) CreateOrder(ctx context.Context, token, idempotencyKey string, payload OrderPayload) (*OrderRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal order payload")
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, ordersPath, token, idempotencyKey, body, &raw); err != nil {
		return nil, err
	}
	return decodeOrder(raw)
}

// ListOrders returns the caller's order history.
func (c *Client) ListOrders(ctx context.Context, token string) ([]OrderRecord, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, ordersPath, token, "", nil, &raw); err != nil {
		return nil, err
	}
	var orders []OrderRecord
	if err := json.Unmarshal(raw, &orders); err != nil {
		// The history page treats a non-array body as "no orders".
		return []OrderRecord{}, nil
	}
	return orders, nil
}

func (c *Client) do(ctx context.Context, method, path, token, idempotencyKey string, body []byte, dest any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build backend request")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		httpReq.Header.Set(idempotencyHeader, idempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute backend request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := readAPIError(resp)
		return pkgerrors.Wrap(codeForStatus(apiErr.Status), apiErr, apiErr.publicMessage())
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode backend response")
	}
	return nil
}

func readAPIError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	apiErr := &APIError{Status: resp.StatusCode}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		apiErr.Message = strings.TrimSpace(payload.Message)
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(payload.Error)
		}
	}
	return apiErr
}

func (e *APIError) publicMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("marketplace request failed with status %d", e.Status)
}

func codeForStatus(status int) pkgerrors.Code {
	switch {
	case status == http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case status == http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case status == http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case status == http.StatusConflict:
		return pkgerrors.CodeConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return pkgerrors.CodeValidation
	default:
		return pkgerrors.CodeDependency
	}
}

func decodeOrder(raw json.RawMessage) (*OrderRecord, error) {
	var wrapped struct {
		Order *OrderRecord `json:"order"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Order != nil {
		return wrapped.Order, nil
	}
	var order OrderRecord
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode created order")
	}
	return &order, nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
