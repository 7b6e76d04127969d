package services

import (
	"context"

	"visitdesk-backend/application/ports"
	"visitdesk-backend/domain/appointment"
	appErrors "visitdesk-backend/pkg/errors"

	"go.uber.org/zap"
)

// Rescheduler applies an update to a stored appointment whose logical
// identity spans a mutable partition key (the date) and an immutable row key
// (the id).
//
// The stored row's composite identity is (date, id), so a replace can never
// change the date: the store would either reject it or route it to a row that
// does not exist. An update that keeps the date is an in-place replace
// carrying the ETag read at fetch time. An update that changes the date is a
// relocation: conditional delete of the old row, then insert at the new
// partition, in that order so an interruption can never leave two rows for
// one id.
type Rescheduler struct {
	records ports.AppointmentRecords
	events  ports.EventBus
	logger  *zap.Logger
}

// NewRescheduler creates a new Rescheduler
func NewRescheduler(records ports.AppointmentRecords, events ports.EventBus, logger *zap.Logger) *Rescheduler {
	return &Rescheduler{
		records: records,
		events:  events,
		logger:  logger,
	}
}

// Apply updates the appointment with row key id to the given attribute set
// and returns the final stored record.
//
// The date comparison deciding replace versus relocation is plain string
// equality, no normalization: callers supplying the same date in two formats
// get a relocation between logically identical partitions.
func (r *Rescheduler) Apply(ctx context.Context, id string, updated appointment.Appointment) (appointment.Record, error) {
	rows, err := r.records.FindByID(ctx, id)
	if err != nil {
		return appointment.Record{}, appErrors.Wrap(err, "failed to fetch appointment for update")
	}
	if len(rows) == 0 {
		return appointment.Record{}, appErrors.NewNotFoundError("appointment")
	}
	existing := rows[0]

	updated.ID = id
	candidate := appointment.NewRecord(updated)

	if candidate.Date == existing.Date {
		stored, err := r.records.Replace(ctx, candidate, existing.ETag)
		if err != nil {
			return appointment.Record{}, appErrors.Wrap(err, "failed to replace appointment")
		}
		r.publish(ctx, appointment.NewEvent(appointment.EventUpdated, id, stored.Date))
		return stored, nil
	}

	r.logger.Info("relocating appointment to new partition",
		zap.String("appointmentID", id),
		zap.String("fromDate", existing.Date),
		zap.String("toDate", candidate.Date),
	)

	// Delete must come first. If it fails nothing has changed and the update
	// is reported as a conflict, never retried here.
	if err := r.records.Delete(ctx, existing); err != nil {
		if appErrors.IsNotFound(err) || appErrors.IsConflict(err) {
			return appointment.Record{}, appErrors.NewConflictError(
				"appointment changed concurrently during reschedule").WithCause(err)
		}
		return appointment.Record{}, appErrors.Wrap(err, "failed to delete appointment during reschedule")
	}

	stored, err := r.records.Insert(ctx, candidate)
	if err != nil {
		// The old row is gone and the new one was not written. Accepted risk
		// of the non-transactional design; surfaced distinctly so an operator
		// can reinstate the record.
		r.logger.Error("appointment deleted but not reinserted",
			zap.String("appointmentID", id),
			zap.String("fromDate", existing.Date),
			zap.String("toDate", candidate.Date),
			zap.Error(err),
		)
		return appointment.Record{}, appErrors.NewPartialFailureError(
			"appointment was removed from its old date but could not be written to the new one").
			WithCause(err).
			WithDetails(map[string]interface{}{
				"appointmentID": id,
				"deletedDate":   existing.Date,
				"targetDate":    candidate.Date,
			})
	}

	event := appointment.NewEvent(appointment.EventRescheduled, id, stored.Date)
	event.PreviousDate = existing.Date
	r.publish(ctx, event)

	return stored, nil
}

// publish emits a lifecycle event best effort; a failing bus never fails the
// update that already happened.
func (r *Rescheduler) publish(ctx context.Context, event appointment.Event) {
	if r.events == nil {
		return
	}
	if err := r.events.Publish(ctx, event); err != nil {
		r.logger.Warn("failed to publish appointment event",
			zap.String("eventType", event.Type),
			zap.String("appointmentID", event.AppointmentID),
			zap.Error(err),
		)
	}
}
