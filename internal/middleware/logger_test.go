package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")

	if got := clientIP(req); got != "203.0.113.7" {
		t.Errorf("clientIP = %q, want first forwarded address", got)
	}
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	if got := clientIP(req); got != "10.0.0.1:1234" {
		t.Errorf("clientIP = %q, want remote addr", got)
	}

	req.Header.Set("X-Real-IP", "198.51.100.4")
	if got := clientIP(req); got != "198.51.100.4" {
		t.Errorf("clientIP = %q, want X-Real-IP", got)
	}
}

func TestResponseWriterCapturesStatusAndSize(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	wrapped.WriteHeader(http.StatusCreated)
	if _, err := wrapped.Write([]byte("created")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if wrapped.statusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", wrapped.statusCode)
	}
	if wrapped.bytes != len("created") {
		t.Errorf("bytes = %d, want %d", wrapped.bytes, len("created"))
	}
}
