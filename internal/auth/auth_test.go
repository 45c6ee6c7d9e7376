package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/igs/igs/internal/typeid"
)

func TestGuestTokenRoundTrip(t *testing.T) {
	s := NewService("secret", time.Hour)
	res, err := s.Guest("  Ada  ")
	if err != nil {
		t.Fatal(err)
	}
	if res.User.DisplayName != "Ada" {
		t.Errorf("display name = %q, want trimmed", res.User.DisplayName)
	}
	if err := typeid.Validate(res.User.ID, typeid.PrefixUser); err != nil {
		t.Error(err)
	}

	user, err := s.ValidateToken(res.Token)
	if err != nil {
		t.Fatal(err)
	}
	if *user != res.User {
		t.Errorf("validated user = %+v, want %+v", *user, res.User)
	}
}

func TestGuestRejectsEmptyName(t *testing.T) {
	s := NewService("secret", time.Hour)
	for _, name := range []string{"", "   ", strings.Repeat("x", maxDisplayName+1)} {
		if _, err := s.Guest(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Guest(%q) err = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestValidateTokenFailures(t *testing.T) {
	s := NewService("secret", time.Hour)
	res, err := s.Guest("Ada")
	if err != nil {
		t.Fatal(err)
	}

	other := NewService("other-secret", time.Hour)
	if _, err := other.ValidateToken(res.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret err = %v", err)
	}

	expired := NewService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := expired.ValidateToken(res.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired err = %v", err)
	}

	if _, err := s.ValidateToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage err = %v", err)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := NewService("secret", time.Hour)
	res, err := s.Guest("Ada")
	if err != nil {
		t.Fatal(err)
	}

	var seen *User
	h := s.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + res.Token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
	if seen == nil || seen.ID != res.User.ID {
		t.Errorf("context user = %+v", seen)
	}
}

func TestGuestHandler(t *testing.T) {
	h := NewHandler(NewService("secret", time.Hour))

	rec := httptest.NewRecorder()
	h.Guest(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", strings.NewReader(`{"displayName":"Ada"}`)))
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"token"`) {
		t.Errorf("status = %d body = %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	h.Guest(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", rec.Code)
	}
}
