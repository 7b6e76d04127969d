package appointment

import "time"

// Event types published to the event bus after successful writes.
const (
	EventCreated     = "appointment.created"
	EventUpdated     = "appointment.updated"
	EventRescheduled = "appointment.rescheduled"
	EventDeleted     = "appointment.deleted"
)

// Event describes a lifecycle change of an appointment. Events are published
// best effort; consumers must tolerate gaps.
type Event struct {
	Type          string    `json:"type"`
	AppointmentID string    `json:"appointmentId"`
	Date          string    `json:"date"`
	PreviousDate  string    `json:"previousDate,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewEvent builds a lifecycle event stamped with the current time.
func NewEvent(eventType, id, date string) Event {
	return Event{
		Type:          eventType,
		AppointmentID: id,
		Date:          date,
		OccurredAt:    time.Now().UTC(),
	}
}
