package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortSchedule_OrdersByDateComponentsThenTimeSlot(t *testing.T) {
	appointments := []Appointment{
		{ID: "c", Date: "01-02-2024", TimeSlot: "09:00"},
		{ID: "a", Date: "01-01-2024", TimeSlot: "14:00"},
		{ID: "d", Date: "15-01-2024", TimeSlot: "10:00"},
		{ID: "b", Date: "01-01-2024", TimeSlot: "09:00"},
	}

	SortSchedule(appointments)

	ids := []string{appointments[0].ID, appointments[1].ID, appointments[2].ID, appointments[3].ID}
	assert.Equal(t, []string{"b", "a", "d", "c"}, ids)
}

func TestSortSchedule_IsDeterministicForFixedInput(t *testing.T) {
	build := func() []Appointment {
		return []Appointment{
			{ID: "x", Date: "15-01-2024", TimeSlot: "10:00"},
			{ID: "y", Date: "01-01-2024", TimeSlot: "10:00"},
			{ID: "z", Date: "01-02-2024", TimeSlot: "10:00"},
		}
	}

	first := build()
	second := build()
	SortSchedule(first)
	SortSchedule(second)

	assert.Equal(t, first, second)
	assert.Equal(t, "y", first[0].ID)
	assert.Equal(t, "x", first[1].ID)
	assert.Equal(t, "z", first[2].ID)
}

func TestSortSchedule_MalformedDateSortsWithoutPanicking(t *testing.T) {
	appointments := []Appointment{
		{ID: "a", Date: "2024"},
		{ID: "b", Date: "01-01-2024"},
	}

	assert.NotPanics(t, func() {
		SortSchedule(appointments)
	})
}

func TestRecordRoundTrip(t *testing.T) {
	appt := Appointment{
		ID:        "id-1",
		Date:      "05-03-2026",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "0470000000",
		TimeSlot:  "11:30",
		Location:  "Front desk",
	}

	rec := NewRecord(appt)
	assert.Empty(t, rec.ETag, "the store assigns the token, not the caller")
	assert.Equal(t, appt.Date, rec.Date)
	assert.Equal(t, appt.ID, rec.ID)

	assert.Equal(t, appt, rec.Appointment())
}
