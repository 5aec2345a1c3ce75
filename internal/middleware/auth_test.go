package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// dummyHandler is a placeholder that records if it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

type stubParser struct {
	userID string
	err    error
}

func (p stubParser) ParseToken(string) (string, error) { return p.userID, p.err }

func TestAuth_NoHeader(t *testing.T) {
	dummy := &dummyHandler{}
	h := Auth(stubParser{userID: "u1"})(dummy)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/vehicles", nil)
	h.ServeHTTP(rec, req)

	if dummy.called {
		t.Error("did not expect next handler to be called without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	dummy := &dummyHandler{}
	h := Auth(stubParser{err: errors.New("expired")})(dummy)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/vehicles", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	h.ServeHTTP(rec, req)

	if dummy.called {
		t.Error("did not expect next handler to be called with an invalid token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_ValidTokenSetsUser(t *testing.T) {
	dummy := &dummyHandler{}
	h := Auth(stubParser{userID: "u1"})(dummy)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/vehicles", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	h.ServeHTTP(rec, req)

	if !dummy.called {
		t.Fatal("expected next handler to be called")
	}
	if got := GetUserIDFromContext(dummy.ctx); got != "u1" {
		t.Errorf("expected user id u1 in context, got %q", got)
	}
}

func TestGetUserIDFromContext_Missing(t *testing.T) {
	if got := GetUserIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty user id, got %q", got)
	}
}
