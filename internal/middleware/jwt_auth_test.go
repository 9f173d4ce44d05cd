package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/inkwell/backend/internal/apperror"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/labstack/echo/v4"
)

type stubParser map[string]*models.JwtCustomClaims

func (s stubParser) Parse(token string) (*models.JwtCustomClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, errors.New("bad token")
}

func TestJWTAuthMiddleware(t *testing.T) {
	parser := stubParser{"good": {UserID: "u1", IsAdmin: true}}
	mw := JWTAuthMiddleware(parser, "access_token")

	tests := []struct {
		name    string
		cookie  *http.Cookie
		wantMsg string
	}{
		{name: "no cookie", wantMsg: "Unauthorized: No token provided"},
		{name: "empty cookie", cookie: &http.Cookie{Name: "access_token"}, wantMsg: "Unauthorized: No token provided"},
		{name: "wrong cookie name", cookie: &http.Cookie{Name: "session", Value: "good"}, wantMsg: "Unauthorized: No token provided"},
		{name: "invalid token", cookie: &http.Cookie{Name: "access_token", Value: "forged"}, wantMsg: "Unauthorized: Invalid token"},
		{name: "valid token", cookie: &http.Cookie{Name: "access_token", Value: "good"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			c := echo.New().NewContext(req, httptest.NewRecorder())

			var seen *models.JwtCustomClaims
			err := mw(func(c echo.Context) error {
				seen, _ = CurrentUser(c)
				return nil
			})(c)

			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				if seen == nil || seen.UserID != "u1" || !seen.IsAdmin {
					t.Errorf("claims not stored: %+v", seen)
				}
				return
			}

			appErr, ok := apperror.As(err)
			if !ok || appErr.Kind != apperror.KindUnauthorized || appErr.Message != tt.wantMsg {
				t.Errorf("expected unauthorized %q, got %v", tt.wantMsg, err)
			}
			if seen != nil {
				t.Error("next handler must not run")
			}
		})
	}
}

func TestCurrentUserWithoutMiddleware(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, ok := CurrentUser(c); ok {
		t.Error("expected no user")
	}
}
