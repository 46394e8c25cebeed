// Package mlclient talks to the external crop-disease inference service.
// Every call is a single attempt with a bounded timeout; the three failure
// modes (unreachable, upstream status, timeout) surface as distinct errors.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

var (
	// ErrUnavailable means the inference service could not be reached at
	// all, e.g. connection refused.
	ErrUnavailable = errors.New("mlclient: inference service unavailable")

	// ErrTimeout means the inference service did not answer within the
	// configured timeout.
	ErrTimeout = errors.New("mlclient: inference request timed out")
)

// StatusError is a non-success response from the inference service. The
// caller relays the upstream status code.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mlclient: inference service returned %d: %s", e.Code, e.Message)
}

// Prediction is the inference response, relayed to the caller and never
// persisted.
type Prediction struct {
	Success        bool               `json:"success"`
	Prediction     string             `json:"prediction"`
	Confidence     float64            `json:"confidence"`
	AllPredictions map[string]float64 `json:"all_predictions,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Predict forwards a base64-encoded image to POST /predict and decodes the
// response. No retry is performed.
func (c *Client) Predict(ctx context.Context, imageB64 string) (*Prediction, error) {
	body, err := json.Marshal(map[string]string{"image": imageB64})
	if err != nil {
		return nil, fmt.Errorf("mlclient: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("mlclient: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: upstreamMessage(resp)}
	}

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("mlclient: decode response: %w", err)
	}

	return &pred, nil
}

// Health calls GET /health and returns the raw service report.
func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("mlclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Message: upstreamMessage(resp)}
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("mlclient: decode response: %w", err)
	}

	return raw, nil
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// upstreamMessage extracts the {"error": ...} body the inference service
// sends with non-2xx responses.
func upstreamMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return "ML service error"
}
