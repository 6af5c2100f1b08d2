package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"raktar/internal/model"
	"raktar/internal/store"
)

func requestWithUser(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	user := store.User{ID: 1, Username: "someone", Role: role}
	return req.WithContext(context.WithValue(req.Context(), ContextKeyUser, user))
}

func TestGetUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetUser(req) != nil {
		t.Fatal("GetUser returned a user for bare request")
	}
	if GetUsername(req) != "" {
		t.Fatal("GetUsername returned a name for bare request")
	}

	req = requestWithUser(model.RoleGuest)
	user := GetUser(req)
	if user == nil || user.Username != "someone" {
		t.Fatalf("GetUser = %+v", user)
	}
	if GetUsername(req) != "someone" {
		t.Errorf("GetUsername = %q", GetUsername(req))
	}
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RequireAdmin()(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithUser(model.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Errorf("admin got %d, want 200", rec.Code)
	}

	// Non-admins get an explicit 403, not a redirect
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestWithUser(model.RoleGuest))
	if rec.Code != http.StatusForbidden {
		t.Errorf("guest got %d, want 403", rec.Code)
	}

	// No user in context means not logged in: redirect to the login page
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusSeeOther {
		t.Errorf("anonymous got %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect location = %q", loc)
	}
}
