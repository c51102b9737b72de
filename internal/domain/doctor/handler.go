package doctor

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/torildhov/sandefjord-legesenter-booking-system/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the doctor administration endpoints. The group is
// expected to already carry authentication and the admin role guard.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/doctors", h.List)
	g.POST("/doctors", h.Add)
	g.PUT("/doctors/:doctorId", h.UpdateAvailability)
	g.DELETE("/doctors/:doctorId", h.Delete)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromRequest(c)
	doctors, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch doctors")
	}
	if len(doctors) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "No doctors found", "doctors": []Doctor{}})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Doctors fetched successfully",
		"doctors": doctors,
	})
}

func (h *Handler) Add(c echo.Context) error {
	var in AddInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	d, err := h.svc.Add(c.Request().Context(), in)
	if err != nil {
		var ve *ValidationError
		switch {
		case errors.As(err, &ve):
			return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
		case errors.Is(err, ErrNameTaken):
			return echo.NewHTTPError(http.StatusBadRequest, "A doctor with this name already exists")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add doctor")
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Doctor added successfully",
		"doctorId":   d.ID,
		"doctorName": d.Name,
	})
}

func (h *Handler) UpdateAvailability(c echo.Context) error {
	var body struct {
		Availability *Availability `json:"availability"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.Availability == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Availability is required")
	}
	id := c.Param("doctorId")
	err := h.svc.UpdateAvailability(c.Request().Context(), id, *body.Availability)
	if err != nil {
		var ve *ValidationError
		switch {
		case errors.As(err, &ve):
			return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Doctor not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update doctor availability")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Doctor availability updated successfully",
		"doctorId": id,
	})
}

func (h *Handler) Delete(c echo.Context) error {
	err := h.svc.Delete(c.Request().Context(), c.Param("doctorId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Doctor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete doctor")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Doctor deleted successfully"})
}
