package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"visitdesk-backend/domain/appointment"
	appErrors "visitdesk-backend/pkg/errors"
	"visitdesk-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AppointmentService is the application surface the handler drives.
type AppointmentService interface {
	ListAll(ctx context.Context) ([]appointment.Appointment, error)
	Get(ctx context.Context, id string) (appointment.Appointment, error)
	Create(ctx context.Context, appt appointment.Appointment) (appointment.Appointment, error)
	Update(ctx context.Context, id string, appt appointment.Appointment) (appointment.Appointment, error)
	Delete(ctx context.Context, id string) error
	ListByEmail(ctx context.Context, email string) ([]appointment.Appointment, error)
	UpdateLocation(ctx context.Context, id, location string) (appointment.Appointment, error)
}

// LocationRequest is the body of the partial location update.
type LocationRequest struct {
	Location string `json:"location" validate:"required"`
}

// AppointmentHandler handles appointment-related HTTP requests. Response
// bodies are the raw JSON entity shapes; errors are flattened by the shared
// error handler.
type AppointmentHandler struct {
	service      AppointmentService
	errorHandler *appErrors.ErrorHandler
	logger       *zap.Logger
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService, errorHandler *appErrors.ErrorHandler, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// List handles GET /appointments
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.ListAll(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, appointments)
}

// Create handles POST /appointments
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var appt appointment.Appointment
	if err := json.NewDecoder(r.Body).Decode(&appt); err != nil {
		h.errorHandler.Handle(w, r, appErrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	created, err := h.service.Create(r.Context(), appt)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, created)
}

// Get handles GET /appointments/{id}
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	appt, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, appt)
}

// Update handles PUT /appointments/{id}
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var appt appointment.Appointment
	if err := json.NewDecoder(r.Body).Decode(&appt); err != nil {
		h.errorHandler.Handle(w, r, appErrors.NewValidationError("invalid request body").WithCause(err))
		return
	}

	updated, err := h.service.Update(r.Context(), id, appt)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /appointments/{id}
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, fmt.Sprintf("appointment deleted with id: %s", id))
}

// ListByEmail handles GET /appointments-by-email/{email}
func (h *AppointmentHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	appointments, err := h.service.ListByEmail(r.Context(), email)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, appointments)
}

// UpdateLocation handles PUT /appointments/{id}/location
func (h *AppointmentHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.Handle(w, r, appErrors.NewValidationError("invalid request body").WithCause(err))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errorHandler.Handle(w, r, appErrors.NewValidationError(err.Error()))
		return
	}

	updated, err := h.service.UpdateLocation(r.Context(), id, req.Location)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, updated)
}

func (h *AppointmentHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
