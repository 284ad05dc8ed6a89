package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"hostpanel/internal/pkg/config"
	"hostpanel/internal/pkg/metrics"
	"hostpanel/internal/usecase/commands"

	"github.com/cenkalti/backoff/v4"
)

// HTTPGateway talks to the external payment provider. Retry policy lives
// here, not in the orchestrator: retryable provider failures (timeouts,
// 5xx) are retried with jittered exponential backoff up to the configured
// budget; 4xx responses surface immediately as terminal. The provider
// treats a second capture of the same order as already-captured, which is
// normalized to success.
type HTTPGateway struct {
	baseURL    string
	apiKey     string
	maxRetries uint64
	client     *http.Client
}

func NewHTTPGateway(cfg config.GatewayConfig) *HTTPGateway {
	return &HTTPGateway{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

type createOrderRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	ReferenceID string `json:"reference_id"`
	Description string `json:"description"`
}

type createOrderResponse struct {
	OrderID string `json:"order_id"`
}

type captureOrderResponse struct {
	Status         string `json:"status"`
	AmountCaptured int64  `json:"amount_captured"`
	Reason         string `json:"reason,omitempty"`
}

func (g *HTTPGateway) CreateOrder(ctx context.Context, amountCents int64, currency string, meta commands.OrderMetadata) (string, error) {
	body := createOrderRequest{
		AmountCents: amountCents,
		Currency:    currency,
		ReferenceID: meta.PaymentID.String(),
		Description: meta.PlanName,
	}

	var resp createOrderResponse
	err := g.doWithRetry(ctx, http.MethodPost, "/v1/orders", body, &resp)
	if err != nil {
		metrics.ObserveGatewayCall("create_order", "error")
		return "", err
	}
	if resp.OrderID == "" {
		metrics.ObserveGatewayCall("create_order", "error")
		return "", &commands.GatewayError{Retryable: false, Reason: "provider returned empty order id"}
	}

	metrics.ObserveGatewayCall("create_order", "ok")
	return resp.OrderID, nil
}

func (g *HTTPGateway) CaptureOrder(ctx context.Context, externalOrderID string) (commands.CaptureResult, error) {
	var resp captureOrderResponse
	err := g.doWithRetry(ctx, http.MethodPost, "/v1/orders/"+externalOrderID+"/capture", nil, &resp)
	if err != nil {
		metrics.ObserveGatewayCall("capture_order", "error")
		return commands.CaptureResult{}, err
	}

	switch resp.Status {
	case "captured", "already_captured":
		metrics.ObserveGatewayCall("capture_order", "ok")
		return commands.CaptureResult{Success: true, AmountCaptured: resp.AmountCaptured}, nil
	default:
		metrics.ObserveGatewayCall("capture_order", "declined")
		return commands.CaptureResult{Success: false, FailureReason: resp.Reason}, nil
	}
}

func (g *HTTPGateway) doWithRetry(ctx context.Context, method, path string, body, out any) error {
	operation := func() error {
		return g.do(ctx, method, path, body, out)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), g.maxRetries),
		ctx,
	)

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}
		var gwErr *commands.GatewayError
		if errors.As(err, &gwErr) && !gwErr.Retryable {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &commands.GatewayError{Retryable: false, Reason: "failed to encode request: " + err.Error()}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return &commands.GatewayError{Retryable: false, Reason: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &commands.GatewayError{Retryable: true, Reason: "failed to read response: " + err.Error()}
	}

	switch {
	case resp.StatusCode >= 500:
		return &commands.GatewayError{Retryable: true, Reason: fmt.Sprintf("provider returned %d", resp.StatusCode)}
	case resp.StatusCode >= 400:
		return &commands.GatewayError{Retryable: false, Reason: fmt.Sprintf("provider rejected request: %d %s", resp.StatusCode, string(raw))}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &commands.GatewayError{Retryable: false, Reason: "failed to decode response: " + err.Error()}
		}
	}
	return nil
}

func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &commands.GatewayError{Retryable: true, Reason: "request timed out"}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &commands.GatewayError{Retryable: true, Reason: "request deadline exceeded"}
	}
	return &commands.GatewayError{Retryable: true, Reason: err.Error()}
}
