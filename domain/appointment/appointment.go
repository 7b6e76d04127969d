package appointment

import (
	"sort"
	"strings"
)

// Appointment is the transport representation of a booking.
//
// The id is generated server-side on creation and never changes. The date
// determines where the record is stored, so changing it relocates the row
// (see services.Rescheduler). The remaining attributes are plain strings
// with no constraints enforced.
type Appointment struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	TimeSlot  string `json:"timeSlot"`
	Location  string `json:"location,omitempty"`
}

// Record is the stored form of an appointment: the two-part key
// (Date = partition key, ID = row key), the non-key attributes, and the
// ETag concurrency token assigned by the store on every write.
type Record struct {
	Date      string
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	TimeSlot  string
	Location  string
	ETag      string
}

// ETagAny is the wildcard concurrency token: a conditional write carrying it
// matches any stored version and forgoes conflict detection.
const ETagAny = "*"

// NewRecord builds the stored form of an appointment. The ETag is left empty;
// the store assigns one on write.
func NewRecord(a Appointment) Record {
	return Record{
		Date:      a.Date,
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Phone:     a.Phone,
		TimeSlot:  a.TimeSlot,
		Location:  a.Location,
	}
}

// Appointment maps a stored record back to its transport form.
func (r Record) Appointment() Appointment {
	return Appointment{
		ID:        r.ID,
		Date:      r.Date,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		TimeSlot:  r.TimeSlot,
		Location:  r.Location,
	}
}

// SortSchedule orders appointments for listing: by the year, month and day
// components of the DD-MM-YYYY date string, then by time slot. The components
// are compared as strings, which is chronological for that fixed format.
func SortSchedule(appointments []Appointment) {
	sort.SliceStable(appointments, func(i, j int) bool {
		a, b := appointments[i], appointments[j]
		for _, idx := range []int{2, 1, 0} {
			av, bv := dateComponent(a.Date, idx), dateComponent(b.Date, idx)
			if av != bv {
				return av < bv
			}
		}
		return a.TimeSlot < b.TimeSlot
	})
}

// dateComponent returns the idx-th dash-separated part of a date string, or
// "" when the string has fewer parts. No format normalization is performed;
// inconsistent formatting sorts (and migrates) as distinct dates.
func dateComponent(date string, idx int) string {
	parts := strings.Split(date, "-")
	if idx >= len(parts) {
		return ""
	}
	return parts[idx]
}
