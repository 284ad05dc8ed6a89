//go:build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// StubGateway is an in-process payment provider for e2e runs. It speaks the
// same wire shapes as the real provider and can be told to decline or serve
// errors for the next capture.
type StubGateway struct {
	mu            sync.Mutex
	server        *httptest.Server
	nextOrder     int
	orders        map[string]bool
	captured      map[string]bool
	declineReason string
	errorsLeft    int
}

func NewStubGateway() *StubGateway {
	g := &StubGateway{
		orders:   make(map[string]bool),
		captured: make(map[string]bool),
	}
	g.server = httptest.NewServer(http.HandlerFunc(g.handle))
	return g
}

func (g *StubGateway) URL() string { return g.server.URL }

func (g *StubGateway) Close() { g.server.Close() }

// DeclineNextCaptures makes every capture fail terminally until Reset.
func (g *StubGateway) DeclineNextCaptures(reason string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.declineReason = reason
}

// ServeErrors makes the next n requests return 503.
func (g *StubGateway) ServeErrors(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errorsLeft = n
}

func (g *StubGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.declineReason = ""
	g.errorsLeft = 0
}

func (g *StubGateway) handle(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.errorsLeft > 0 {
		g.errorsLeft--
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/orders":
		g.nextOrder++
		orderID := fmt.Sprintf("e2e-order-%d", g.nextOrder)
		g.orders[orderID] = true
		writeJSON(w, http.StatusOK, map[string]any{"order_id": orderID})

	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/capture"):
		orderID := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/orders/"), "/capture")
		if !g.orders[orderID] {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown order"})
			return
		}
		if g.declineReason != "" {
			writeJSON(w, http.StatusOK, map[string]any{"status": "declined", "reason": g.declineReason})
			return
		}
		status := "captured"
		if g.captured[orderID] {
			status = "already_captured"
		}
		g.captured[orderID] = true
		writeJSON(w, http.StatusOK, map[string]any{"status": status})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
