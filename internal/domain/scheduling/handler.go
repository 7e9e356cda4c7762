package scheduling

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinicore/clinicore/internal/platform/auth"
	"github.com/clinicore/clinicore/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the scheduling endpoints. Availability and slots are
// public so the booking site can render a doctor's calendar before login;
// everything that writes requires a token.
func (h *Handler) RegisterRoutes(public, api *echo.Group) {
	public.GET("/doctors/:id/availability", h.GetAvailability)
	public.GET("/doctors/:id/slots", h.Slots)

	api.PUT("/doctors/:id/availability", h.SetAvailability, auth.RequireRole("doctor", "staff"))

	api.POST("/appointments", h.Book, auth.RequireRole("patient", "staff"))
	api.GET("/appointments", h.ListAppointments)
	api.GET("/appointments/:id", h.GetAppointment)
	api.PUT("/appointments/:id/cancel", h.Cancel)
	api.PUT("/appointments/:id/complete", h.Complete, auth.RequireRole("doctor"))
	api.PUT("/appointments/:id/checkin", h.CheckIn, auth.RequireRole("staff"))
	api.PUT("/appointments/:id/reschedule", h.Reschedule, auth.RequireRole("staff"))
	api.DELETE("/appointments/:id", h.Delete, auth.RequireRole("staff"))
}

// -- Availability --

func (h *Handler) GetAvailability(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	windows, err := h.svc.GetAvailability(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if windows == nil {
		windows = []*AvailabilityWindow{}
	}
	return c.JSON(http.StatusOK, windows)
}

func (h *Handler) SetAvailability(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}

	// Doctors may only edit their own schedule; staff may edit any.
	ctx := c.Request().Context()
	if auth.RoleFromContext(ctx) == "doctor" {
		own, err := h.svc.DoctorIDByUser(ctx, auth.UserIDFromContext(ctx))
		if err != nil || own != doctorID {
			return echo.NewHTTPError(http.StatusForbidden, "cannot edit another doctor's schedule")
		}
	}

	var req SetAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	windows, err := h.svc.SetAvailability(c.Request().Context(), doctorID, req.Windows)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, windows)
}

func (h *Handler) Slots(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	days, err := h.svc.Slots(c.Request().Context(), doctorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, days)
}

// -- Booking --

func (h *Handler) Book(c echo.Context) error {
	var req BookAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var patientID uuid.UUID
	switch auth.RoleFromContext(ctx) {
	case "patient":
		// Patients always book for themselves regardless of payload.
		own, err := h.svc.PatientIDByUser(ctx, auth.UserIDFromContext(ctx))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, ErrPatientRequired.Error())
		}
		patientID = own
	default:
		// Staff and admin book on a patient's behalf.
		if req.PatientID == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "patient_id is required")
		}
		patientID = *req.PatientID
	}

	a, err := h.svc.Book(ctx, patientID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotTaken):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrOutsideWindow), errors.Is(err, ErrPatientRequired):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	if err := h.authorizeAppointmentAccess(c, a); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	var f AppointmentFilter
	f.Status = c.QueryParam("status")
	if v := c.QueryParam("date"); v != "" {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
		f.Date = v
	}

	switch auth.RoleFromContext(ctx) {
	case "patient":
		// Patients only ever see their own history.
		own, err := h.svc.PatientIDByUser(ctx, auth.UserIDFromContext(ctx))
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "no patient profile")
		}
		f.PatientID = &own
	case "doctor":
		own, err := h.svc.DoctorIDByUser(ctx, auth.UserIDFromContext(ctx))
		if err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "no doctor profile")
		}
		f.DoctorID = &own
	default:
		if v := c.QueryParam("doctor_id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
			}
			f.DoctorID = &id
		}
		if v := c.QueryParam("patient_id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
			}
			f.PatientID = &id
		}
	}

	items, total, err := h.svc.ListAppointments(ctx, f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Transitions --

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	a, err := h.svc.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	if err := h.authorizeAppointmentAccess(c, a); err != nil {
		return err
	}

	a, err = h.svc.Cancel(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Complete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	a, err := h.svc.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
	}
	if err := h.authorizeAppointmentAccess(c, a); err != nil {
		return err
	}

	a, err = h.svc.Complete(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		case errors.Is(err, ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) CheckIn(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.CheckIn(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		case errors.Is(err, ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Reschedule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	a, err := h.svc.Reschedule(c.Request().Context(), id, req.StartTime)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, ErrOutsideWindow):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteAppointment(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// authorizeAppointmentAccess lets staff and admin touch any appointment,
// doctors their own, and patients their own.
func (h *Handler) authorizeAppointmentAccess(c echo.Context, a *Appointment) error {
	ctx := c.Request().Context()
	switch auth.RoleFromContext(ctx) {
	case "patient":
		own, err := h.svc.PatientIDByUser(ctx, auth.UserIDFromContext(ctx))
		if err != nil || own != a.PatientID {
			return echo.NewHTTPError(http.StatusForbidden, "not your appointment")
		}
	case "doctor":
		own, err := h.svc.DoctorIDByUser(ctx, auth.UserIDFromContext(ctx))
		if err != nil || own != a.DoctorID {
			return echo.NewHTTPError(http.StatusForbidden, "not your appointment")
		}
	}
	return nil
}
