package account

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/torildhov/sandefjord-legesenter-booking-system/internal/platform/auth"
)

func newTestHandler() *Handler {
	svc := NewService(newMockRepo(), auth.NewTokenIssuer("test-secret", time.Hour), zerolog.Nop())
	return NewHandler(svc)
}

func doJSON(t *testing.T, h echo.HandlerFunc, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, h(e.NewContext(req, rec))
}

func TestRegisterHandler(t *testing.T) {
	h := newTestHandler()
	rec, err := doJSON(t, h.Register,
		`{"user_name":"Kari Nordmann","email":"kari@example.com","password":"passord123"}`)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "User registered successfully") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRegisterHandlerValidation(t *testing.T) {
	h := newTestHandler()
	_, err := doJSON(t, h.Register, `{"user_name":"Kari","email":"bad","password":"passord123"}`)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("err = %v, want 400", err)
	}
}

func TestLoginHandler(t *testing.T) {
	h := newTestHandler()
	if _, err := doJSON(t, h.Register,
		`{"user_name":"Kari","email":"kari@example.com","password":"passord123"}`); err != nil {
		t.Fatal(err)
	}

	rec, err := doJSON(t, h.Login, `{"email":"kari@example.com","password":"passord123"}`)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"token"`) {
		t.Errorf("body missing token: %s", rec.Body.String())
	}
}

func TestLoginHandlerUnauthorized(t *testing.T) {
	h := newTestHandler()
	_, err := doJSON(t, h.Login, `{"email":"ghost@example.com","password":"passord123"}`)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestLogoutHandler(t *testing.T) {
	h := newTestHandler()
	rec, err := doJSON(t, h.Logout, "")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
