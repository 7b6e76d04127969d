// Package ports declares the interfaces the application layer depends on.
// Infrastructure packages provide the implementations.
package ports

import (
	"context"

	"visitdesk-backend/domain/appointment"
)

// AppointmentRecords is the record store port. All operations are
// point-in-time; no transaction spans multiple calls.
type AppointmentRecords interface {
	// Insert writes a new record and fails with a conflict when a row with
	// the same (date, id) key already exists. The returned record carries
	// the store-assigned ETag.
	Insert(ctx context.Context, rec appointment.Record) (appointment.Record, error)

	// FindByID runs an equality filter on the row key across all partitions.
	// An absent id yields an empty slice, not an error.
	FindByID(ctx context.Context, id string) ([]appointment.Record, error)

	// FindByField runs an equality filter on a non-key attribute over a full
	// table scan. Results are unordered.
	FindByField(ctx context.Context, name, value string) ([]appointment.Record, error)

	// FindAll scans the whole table, following continuation tokens until
	// exhausted. No caller-visible limit.
	FindAll(ctx context.Context) ([]appointment.Record, error)

	// Replace overwrites the row at the record's (date, id) key. It fails
	// with a conflict when expectedETag does not match the stored token;
	// appointment.ETagAny matches unconditionally. The returned record
	// carries the new ETag.
	Replace(ctx context.Context, rec appointment.Record, expectedETag string) (appointment.Record, error)

	// Delete removes the row at the record's key. It fails with not-found
	// when the row no longer exists, and with a conflict when the record
	// carries a real ETag that no longer matches.
	Delete(ctx context.Context, rec appointment.Record) error
}

// NotificationQueue hands a confirmed appointment to the queue feeding the
// mail consumer.
type NotificationQueue interface {
	Enqueue(ctx context.Context, appt appointment.Appointment) error
}

// EventBus publishes appointment lifecycle events. Publishing is best
// effort; callers log failures and move on.
type EventBus interface {
	Publish(ctx context.Context, event appointment.Event) error
}

// MailSender delivers the confirmation email for an appointment.
type MailSender interface {
	SendConfirmation(ctx context.Context, appt appointment.Appointment) error
}
