package booking

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/torildhov/sandefjord-legesenter-booking-system/internal/domain/doctor"
	"github.com/torildhov/sandefjord-legesenter-booking-system/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPatientRoutes mounts the patient-facing appointment endpoints on
// an authenticated group.
func (h *Handler) RegisterPatientRoutes(g *echo.Group) {
	g.GET("/appointments", h.ListOpenSlots)
	g.POST("/appointments", h.Book)
	g.PUT("/appointments/:appointmentId", h.Change)
	g.DELETE("/appointments/:appointmentId", h.Cancel)
}

// RegisterAdminRoutes mounts the privileged listing on an admin group.
func (h *Handler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/appointments", h.ListBooked)
}

func (h *Handler) ListOpenSlots(c echo.Context) error {
	entries, err := h.svc.ListOpenSlots(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return translateError(err, "Failed to get available time slots")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Available time slots fetched successfully",
		"doctors": entries,
	})
}

func (h *Handler) Book(c echo.Context) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	var in BookInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	conf, err := h.svc.Book(c.Request().Context(), p, in)
	if err != nil {
		return translateError(err, "Failed to book appointment")
	}
	a := conf.Appointment
	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("Booking confirmed for %s, %s at %s with %s",
			a.Day, a.Date, a.StartTime, conf.DoctorName),
		"appointment_id": a.ID,
	})
}

func (h *Handler) Change(c echo.Context) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	var in BookInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	conf, err := h.svc.Change(c.Request().Context(), p, c.Param("appointmentId"), in)
	if err != nil {
		return translateError(err, "Failed to update the appointment")
	}
	a := conf.Appointment
	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Appointment changed to %s, %s at %s with Dr. %s",
			a.Day, a.Date, a.StartTime, conf.DoctorName),
	})
}

func (h *Handler) Cancel(c echo.Context) error {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if err := h.svc.Cancel(c.Request().Context(), p, c.Param("appointmentId")); err != nil {
		return translateError(err, "Failed to cancel the appointment")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Appointment successfully cancelled"})
}

func (h *Handler) ListBooked(c echo.Context) error {
	grouped, err := h.svc.ListBookedByDoctor(c.Request().Context())
	if err != nil {
		return translateError(err, "Failed to get booked appointments")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":              "Appointments fetched successfully",
		"appointmentsByDoctor": grouped,
	})
}

// translateError maps domain errors onto HTTP status codes. Anything not in
// the taxonomy is an opaque internal failure.
func translateError(err error, internalMsg string) error {
	var ve *ValidationError
	var re *RuleError
	switch {
	case errors.As(err, &ve):
		return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
	case errors.As(err, &re):
		return echo.NewHTTPError(http.StatusBadRequest, re.Message)
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Appointment not found")
	case errors.Is(err, doctor.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Doctor not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, internalMsg)
	}
}
