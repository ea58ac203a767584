package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestHandler() http.Handler {
	return ValidateRequestMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestGetWithoutBodyPasses(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest("GET", "/api/erp/orders", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestDeclaredBodyTooLarge(t *testing.T) {
	oversized := httptest.NewRequest("GET", "/api/erp/orders", bytes.NewReader(make([]byte, MaxRequestBodyBytes+1)))
	if !DeclaredBodyTooLarge(oversized) {
		t.Fatal("expected oversized declared body to be rejected")
	}

	limit := httptest.NewRequest("GET", "/api/erp/orders", bytes.NewReader(make([]byte, MaxRequestBodyBytes)))
	if DeclaredBodyTooLarge(limit) {
		t.Fatal("expected body at the limit to pass")
	}

	undeclared := httptest.NewRequest("GET", "/", nil)
	undeclared.ContentLength = -1
	if DeclaredBodyTooLarge(undeclared) {
		t.Fatal("expected undeclared length to pass")
	}
}

func TestUndeclaredBodyIsCapped(t *testing.T) {
	var readErr error
	handler := ValidateRequestMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", io.NopCloser(bytes.NewReader(make([]byte, MaxRequestBodyBytes+10))))
	req.ContentLength = -1
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if readErr == nil {
		t.Fatal("expected read past the cap to fail")
	}
}

func TestSmallBodyAllowed(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest("GET", "/", bytes.NewReader([]byte(`{"ok":true}`)))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
