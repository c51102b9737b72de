package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the auth endpoints on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.Register(c.Request().Context(), in); err != nil {
		var ve *ValidationError
		switch {
		case errors.As(err, &ve):
			return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
		case errors.Is(err, ErrEmailTaken):
			return echo.NewHTTPError(http.StatusBadRequest, "User already exists")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "An error occurred while registering the user")
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully"})
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	token, err := h.svc.Login(c.Request().Context(), in)
	if err != nil {
		var ve *ValidationError
		switch {
		case errors.As(err, &ve):
			return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
		case errors.Is(err, ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "An error occurred while logging in")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Login successful", "token": token})
}

// Logout is stateless; tokens simply expire. The endpoint exists so clients
// have a uniform place to end a session.
func (h *Handler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}
