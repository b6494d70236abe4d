package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func serve(t *testing.T, h *Handler) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, resp
}

func TestHandlerNoCheckersIsHealthy(t *testing.T) {
	h := NewHandler("1.0.0")
	code, resp := serve(t, h)

	if code != http.StatusOK {
		t.Errorf("code = %d, want 200", code)
	}
	if resp.Status != StatusHealthy {
		t.Errorf("status = %q, want healthy", resp.Status)
	}
	if resp.Version != "1.0.0" {
		t.Errorf("version = %q, want 1.0.0", resp.Version)
	}
}

func TestHandlerAggregatesUnhealthy(t *testing.T) {
	h := NewHandler("test")
	h.RegisterChecker("ok", NewSimpleChecker("ok", func() error { return nil }))
	h.RegisterChecker("broken", NewSimpleChecker("broken", func() error { return errors.New("db down") }))

	code, resp := serve(t, h)
	if code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", code)
	}
	if resp.Status != StatusUnhealthy {
		t.Errorf("status = %q, want unhealthy", resp.Status)
	}
	if resp.Checks["broken"].Message != "db down" {
		t.Errorf("message = %q, want db down", resp.Checks["broken"].Message)
	}
}

func TestHandlerDegradedKeeps200(t *testing.T) {
	h := NewHandler("test")
	h.RegisterChecker("degraded", degradedChecker{})
	h.RegisterChecker("ok", NewSimpleChecker("ok", func() error { return nil }))

	code, resp := serve(t, h)
	if code != http.StatusOK {
		t.Errorf("code = %d, want 200 for degraded", code)
	}
	if resp.Status != StatusDegraded {
		t.Errorf("status = %q, want degraded", resp.Status)
	}
}

type degradedChecker struct{}

func (degradedChecker) Check() Check {
	return Check{Name: "degraded", Status: StatusDegraded, Message: "circuit breaker is open"}
}
