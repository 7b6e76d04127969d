package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"visitdesk-backend/domain/appointment"
	appErrors "visitdesk-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubService returns canned results per method; unset funcs panic, which
// makes a test hitting an unexpected route fail loudly.
type stubService struct {
	listAll        func(ctx context.Context) ([]appointment.Appointment, error)
	get            func(ctx context.Context, id string) (appointment.Appointment, error)
	create         func(ctx context.Context, appt appointment.Appointment) (appointment.Appointment, error)
	update         func(ctx context.Context, id string, appt appointment.Appointment) (appointment.Appointment, error)
	delete         func(ctx context.Context, id string) error
	listByEmail    func(ctx context.Context, email string) ([]appointment.Appointment, error)
	updateLocation func(ctx context.Context, id, location string) (appointment.Appointment, error)
}

func (s *stubService) ListAll(ctx context.Context) ([]appointment.Appointment, error) {
	return s.listAll(ctx)
}

func (s *stubService) Get(ctx context.Context, id string) (appointment.Appointment, error) {
	return s.get(ctx, id)
}

func (s *stubService) Create(ctx context.Context, appt appointment.Appointment) (appointment.Appointment, error) {
	return s.create(ctx, appt)
}

func (s *stubService) Update(ctx context.Context, id string, appt appointment.Appointment) (appointment.Appointment, error) {
	return s.update(ctx, id, appt)
}

func (s *stubService) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}

func (s *stubService) ListByEmail(ctx context.Context, email string) ([]appointment.Appointment, error) {
	return s.listByEmail(ctx, email)
}

func (s *stubService) UpdateLocation(ctx context.Context, id, location string) (appointment.Appointment, error) {
	return s.updateLocation(ctx, id, location)
}

func serve(t *testing.T, service *stubService, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(service, nil, zap.NewNop(), false)
	recorder := httptest.NewRecorder()
	router.Setup().ServeHTTP(recorder, req)
	return recorder
}

func sampleAppointment() appointment.Appointment {
	return appointment.Appointment{
		ID:        "appt-1",
		Date:      "01-01-2024",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "0470000000",
		TimeSlot:  "09:00",
	}
}

func TestListAppointments(t *testing.T) {
	service := &stubService{
		listAll: func(context.Context) ([]appointment.Appointment, error) {
			return []appointment.Appointment{sampleAppointment()}, nil
		},
	}

	rec := serve(t, service, httptest.NewRequest(http.MethodGet, "/appointments", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var appts []appointment.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appts))
	require.Len(t, appts, 1)
	assert.Equal(t, "appt-1", appts[0].ID)
}

func TestCreateAppointment(t *testing.T) {
	var received appointment.Appointment
	service := &stubService{
		create: func(_ context.Context, appt appointment.Appointment) (appointment.Appointment, error) {
			received = appt
			appt.ID = "generated-id"
			return appt, nil
		},
	}

	body := bytes.NewBufferString(`{"date":"01-01-2024","firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","phone":"0470000000","timeSlot":"09:00"}`)
	rec := serve(t, service, httptest.NewRequest(http.MethodPost, "/appointments", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "01-01-2024", received.Date)

	var created appointment.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "generated-id", created.ID)
}

func TestCreateAppointment_MalformedBodyIsBadRequest(t *testing.T) {
	service := &stubService{}

	body := bytes.NewBufferString(`{"date":`)
	rec := serve(t, service, httptest.NewRequest(http.MethodPost, "/appointments", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp appErrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Error)
	assert.Equal(t, string(appErrors.ErrorTypeValidation), resp.Type)
}

func TestGetAppointment_PassesPathID(t *testing.T) {
	service := &stubService{
		get: func(_ context.Context, id string) (appointment.Appointment, error) {
			assert.Equal(t, "appt-1", id)
			return sampleAppointment(), nil
		},
	}

	rec := serve(t, service, httptest.NewRequest(http.MethodGet, "/appointments/appt-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetAppointment_MissingIDStillRespondsOK(t *testing.T) {
	service := &stubService{
		get: func(context.Context, string) (appointment.Appointment, error) {
			return appointment.Appointment{}, nil
		},
	}

	rec := serve(t, service, httptest.NewRequest(http.MethodGet, "/appointments/absent", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var appt appointment.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	assert.Empty(t, appt.ID)
}

func TestUpdateAppointment_ConflictMapsTo409(t *testing.T) {
	service := &stubService{
		update: func(context.Context, string, appointment.Appointment) (appointment.Appointment, error) {
			return appointment.Appointment{}, appErrors.NewConflictError("appointment changed concurrently during reschedule")
		},
	}

	body := bytes.NewBufferString(`{"date":"15-01-2024"}`)
	rec := serve(t, service, httptest.NewRequest(http.MethodPut, "/appointments/appt-1", body))

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp appErrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(appErrors.ErrorTypeConflict), resp.Type)
}

func TestUpdateAppointment_PartialFailureMapsTo500(t *testing.T) {
	service := &stubService{
		update: func(context.Context, string, appointment.Appointment) (appointment.Appointment, error) {
			return appointment.Appointment{}, appErrors.NewPartialFailureError(
				"appointment was removed from its old date but could not be written to the new one")
		},
	}

	body := bytes.NewBufferString(`{"date":"15-01-2024"}`)
	rec := serve(t, service, httptest.NewRequest(http.MethodPut, "/appointments/appt-1", body))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp appErrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(appErrors.ErrorTypePartialFailure), resp.Type)
}

func TestDeleteAppointment_RespondsWithConfirmation(t *testing.T) {
	service := &stubService{
		delete: func(_ context.Context, id string) error {
			assert.Equal(t, "appt-1", id)
			return nil
		},
	}

	rec := serve(t, service, httptest.NewRequest(http.MethodDelete, "/appointments/appt-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var message string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &message))
	assert.Equal(t, "appointment deleted with id: appt-1", message)
}

func TestDeleteAppointment_MissingIDIs404(t *testing.T) {
	service := &stubService{
		delete: func(context.Context, string) error {
			return appErrors.NewNotFoundError("appointment")
		},
	}

	rec := serve(t, service, httptest.NewRequest(http.MethodDelete, "/appointments/absent", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListByEmail_PassesPathEmail(t *testing.T) {
	service := &stubService{
		listByEmail: func(_ context.Context, email string) ([]appointment.Appointment, error) {
			assert.Equal(t, "ada@example.com", email)
			return []appointment.Appointment{sampleAppointment()}, nil
		},
	}

	rec := serve(t, service, httptest.NewRequest(http.MethodGet, "/appointments-by-email/ada@example.com", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateLocation(t *testing.T) {
	service := &stubService{
		updateLocation: func(_ context.Context, id, location string) (appointment.Appointment, error) {
			assert.Equal(t, "appt-1", id)
			assert.Equal(t, "Room 4", location)
			appt := sampleAppointment()
			appt.Location = location
			return appt, nil
		},
	}

	body := bytes.NewBufferString(`{"location":"Room 4"}`)
	rec := serve(t, service, httptest.NewRequest(http.MethodPut, "/appointments/appt-1/location", body))

	assert.Equal(t, http.StatusOK, rec.Code)

	var appt appointment.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	assert.Equal(t, "Room 4", appt.Location)
}

func TestUpdateLocation_EmptyLocationIsBadRequest(t *testing.T) {
	service := &stubService{}

	body := bytes.NewBufferString(`{"location":""}`)
	rec := serve(t, service, httptest.NewRequest(http.MethodPut, "/appointments/appt-1/location", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	service := &stubService{}

	rec := serve(t, service, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, service, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
