package services

import (
	"context"

	"visitdesk-backend/application/ports"
	"visitdesk-backend/domain/appointment"
	appErrors "visitdesk-backend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AppointmentService implements the CRUD use cases over the record store,
// delegating updates to the Rescheduler and dispatching a confirmation
// notification on creation.
type AppointmentService struct {
	records     ports.AppointmentRecords
	queue       ports.NotificationQueue
	events      ports.EventBus
	rescheduler *Rescheduler
	logger      *zap.Logger
}

// NewAppointmentService creates a new AppointmentService
func NewAppointmentService(
	records ports.AppointmentRecords,
	queue ports.NotificationQueue,
	events ports.EventBus,
	rescheduler *Rescheduler,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		records:     records,
		queue:       queue,
		events:      events,
		rescheduler: rescheduler,
		logger:      logger,
	}
}

// ListAll returns every appointment in the table, ordered by date then time
// slot. The scan is unbounded; that is accepted, not a defect.
func (s *AppointmentService) ListAll(ctx context.Context) ([]appointment.Appointment, error) {
	records, err := s.records.FindAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to list appointments")
	}

	appointments := make([]appointment.Appointment, 0, len(records))
	for _, rec := range records {
		appointments = append(appointments, rec.Appointment())
	}
	appointment.SortSchedule(appointments)

	return appointments, nil
}

// Get returns the appointment with the given id. A missing id yields a
// zero-value entity, not an error. Long-standing observable behavior of the
// GET endpoint; Update and Delete by contrast treat a missing id as not
// found.
func (s *AppointmentService) Get(ctx context.Context, id string) (appointment.Appointment, error) {
	rows, err := s.records.FindByID(ctx, id)
	if err != nil {
		return appointment.Appointment{}, appErrors.Wrap(err, "failed to fetch appointment")
	}
	if len(rows) == 0 {
		return appointment.Appointment{}, nil
	}
	return rows[0].Appointment(), nil
}

// Create assigns a fresh id, persists the appointment, and hands it to the
// notification queue. The dispatch is awaited within the request: a failed
// enqueue fails the creation end-to-end even though the row is already
// written ("written but not notified" is the accepted failure shape).
func (s *AppointmentService) Create(ctx context.Context, appt appointment.Appointment) (appointment.Appointment, error) {
	appt.ID = uuid.New().String()

	if _, err := s.records.Insert(ctx, appointment.NewRecord(appt)); err != nil {
		return appointment.Appointment{}, appErrors.Wrap(err, "failed to create appointment")
	}

	s.publish(ctx, appointment.NewEvent(appointment.EventCreated, appt.ID, appt.Date))

	if err := s.queue.Enqueue(ctx, appt); err != nil {
		s.logger.Error("appointment stored but confirmation not enqueued",
			zap.String("appointmentID", appt.ID),
			zap.Error(err),
		)
		return appointment.Appointment{}, appErrors.Wrap(err, "failed to enqueue confirmation")
	}

	return appt, nil
}

// Update applies a full-attribute update, relocating the row when the date
// changed.
func (s *AppointmentService) Update(ctx context.Context, id string, appt appointment.Appointment) (appointment.Appointment, error) {
	stored, err := s.rescheduler.Apply(ctx, id, appt)
	if err != nil {
		return appointment.Appointment{}, err
	}
	return stored.Appointment(), nil
}

// Delete removes the appointment with the given id. Deleting an unknown id
// reports not found rather than success.
func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	rows, err := s.records.FindByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, "failed to fetch appointment for deletion")
	}
	if len(rows) == 0 {
		return appErrors.NewNotFoundError("appointment")
	}

	// A well-formed table holds one row per id; delete whatever is found.
	for _, rec := range rows {
		if err := s.records.Delete(ctx, rec); err != nil {
			return appErrors.Wrap(err, "failed to delete appointment")
		}
	}

	s.publish(ctx, appointment.NewEvent(appointment.EventDeleted, id, rows[0].Date))

	return nil
}

// ListByEmail returns the appointments whose email attribute equals the
// given value. No ordering is applied.
func (s *AppointmentService) ListByEmail(ctx context.Context, email string) ([]appointment.Appointment, error) {
	records, err := s.records.FindByField(ctx, "Email", email)
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to list appointments by email")
	}

	appointments := make([]appointment.Appointment, 0, len(records))
	for _, rec := range records {
		appointments = append(appointments, rec.Appointment())
	}

	return appointments, nil
}

// UpdateLocation overlays only the location attribute of the stored
// appointment and replaces it with a wildcard concurrency token. That is a
// deliberate exception to the token-carrying policy of the update path: the
// caller holds no freshly read token, and the lost-update risk on this one
// field is accepted.
func (s *AppointmentService) UpdateLocation(ctx context.Context, id, location string) (appointment.Appointment, error) {
	rows, err := s.records.FindByID(ctx, id)
	if err != nil {
		return appointment.Appointment{}, appErrors.Wrap(err, "failed to fetch appointment for location update")
	}
	if len(rows) == 0 {
		return appointment.Appointment{}, appErrors.NewNotFoundError("appointment")
	}

	rec := rows[0]
	rec.Location = location

	stored, err := s.records.Replace(ctx, rec, appointment.ETagAny)
	if err != nil {
		return appointment.Appointment{}, appErrors.Wrap(err, "failed to update appointment location")
	}

	s.publish(ctx, appointment.NewEvent(appointment.EventUpdated, id, stored.Date))

	return stored.Appointment(), nil
}

func (s *AppointmentService) publish(ctx context.Context, event appointment.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish appointment event",
			zap.String("eventType", event.Type),
			zap.String("appointmentID", event.AppointmentID),
			zap.Error(err),
		)
	}
}
