package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	raw, err := issuer.Issue("user-1", "patient")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	p, err := issuer.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.UserID != "user-1" || p.Role != "patient" {
		t.Errorf("principal = %+v", p)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw, err := NewTokenIssuer("secret-a", time.Hour).Issue("user-1", "patient")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenIssuer("secret-b", time.Hour).Parse(raw); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	raw, err := issuer.Issue("user-1", "patient")
	if err != nil {
		t.Fatal(err)
	}
	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := issuer.Parse(raw); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	if _, err := issuer.Parse("not.a.token"); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestMiddleware(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	raw, err := issuer.Issue("user-1", "admin")
	if err != nil {
		t.Fatal(err)
	}

	e := echo.New()
	handler := func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			t.Fatal("principal missing from context")
		}
		return c.String(http.StatusOK, p.UserID)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + raw, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", raw, http.StatusUnauthorized},
		{"bad token", "Bearer bogus", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := Middleware(issuer)(handler)(c)
			code := rec.Code
			if he, ok := err.(*echo.HTTPError); ok {
				code = he.Code
			}
			if code != tc.want {
				t.Errorf("status = %d, want %d", code, tc.want)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	cases := []struct {
		name string
		role string
		want int
	}{
		{"admin allowed", "admin", http.StatusOK},
		{"patient forbidden", "patient", http.StatusForbidden},
		{"no principal", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != "" {
				SetPrincipal(c, Principal{UserID: "u", Role: tc.role})
			}

			err := RequireRole("admin")(handler)(c)
			code := rec.Code
			if he, ok := err.(*echo.HTTPError); ok {
				code = he.Code
			}
			if code != tc.want {
				t.Errorf("status = %d, want %d", code, tc.want)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "hunter2hunter2") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
