package lib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"pickup/src/config"

	"github.com/tidwall/gjson"
)

// BackendClient talks to the marketplace API, the sole authority on
// whether a pickup transition is legal. Submissions are single
// attempts; nothing here retries.
type BackendClient struct {
	BaseURL string
	inner   *http.Client
}

var backendClient *BackendClient

// NewClient builds a client for the API rooted at baseURL.
func NewClient(baseURL string) *BackendClient {
	return &BackendClient{
		BaseURL: baseURL,
		inner: &http.Client{
			Timeout: config.GetRequestTimeout(),
		},
	}
}

func GetBackendClient() *BackendClient {
	if backendClient != nil {
		return backendClient
	}
	backendClient = NewClient(config.GetBackendURL())
	return backendClient
}

// NewBackendClient replaces the client instance, used by tests to
// point submissions at a stub server.
func NewBackendClient(c *BackendClient) *BackendClient {
	backendClient = c
	return backendClient
}

// APIResult is a raw backend response. Business-rule failures come
// back as non-2xx statuses with a message body.
type APIResult struct {
	Status int
	Body   []byte
}

func (r *APIResult) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Message extracts the backend's human-readable message, empty when
// the body carries none.
func (r *APIResult) Message() string {
	return gjson.GetBytes(r.Body, "message").String()
}

// Data returns the completed-request payload as given by the backend.
func (r *APIResult) Data() json.RawMessage {
	raw := gjson.GetBytes(r.Body, "data").Raw
	if raw == "" {
		return nil
	}
	return json.RawMessage(raw)
}

// CompleteByCode submits a normalized confirmation code.
func (c *BackendClient) CompleteByCode(ctx context.Context, auth string, code string) (*APIResult, error) {
	return c.put(ctx, auth, "/requests/complete-by-code", map[string]any{
		"confirmationCode": code,
	})
}

// CompleteByQR forwards a validated QR payload verbatim.
func (c *BackendClient) CompleteByQR(ctx context.Context, auth string, qrData string) (*APIResult, error) {
	return c.put(ctx, auth, "/requests/complete-qr", map[string]any{
		"qrData": qrData,
	})
}

// CompleteRequest submits a code against a specific request, the
// per-request-scoped variant of CompleteByCode.
func (c *BackendClient) CompleteRequest(ctx context.Context, auth string, requestID uint, code string) (*APIResult, error) {
	return c.put(ctx, auth, fmt.Sprintf("/requests/%d/complete", requestID), map[string]any{
		"confirmationCode": code,
	})
}

func (c *BackendClient) put(ctx context.Context, auth string, path string, body map[string]any) (*APIResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	res, err := c.inner.Do(req)
	if err != nil {
		log.Printf("[backend] PUT %s failed: %s\n", path, err.Error())
		return nil, err
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	return &APIResult{Status: res.StatusCode, Body: resBody}, nil
}
