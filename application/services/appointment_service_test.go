package services

import (
	"context"
	"errors"
	"testing"

	"visitdesk-backend/application/ports"
	"visitdesk-backend/domain/appointment"
	appErrors "visitdesk-backend/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newTestService(records *mockRecords, queue *mockQueue, events *mockEvents) *AppointmentService {
	logger := zap.NewNop()
	var q ports.NotificationQueue
	if queue != nil {
		q = queue
	}
	var e ports.EventBus
	if events != nil {
		e = events
	}
	rescheduler := NewRescheduler(records, e, logger)
	return NewAppointmentService(records, q, e, rescheduler, logger)
}

func TestCreate_AssignsFreshIDPerCall(t *testing.T) {
	ctx := context.Background()
	records := new(mockRecords)
	queue := new(mockQueue)

	var insertedIDs []string
	records.On("Insert", ctx, mock.AnythingOfType("appointment.Record")).Run(func(args mock.Arguments) {
		insertedIDs = append(insertedIDs, args.Get(1).(appointment.Record).ID)
	}).Return(appointment.Record{}, nil)
	queue.On("Enqueue", ctx, mock.AnythingOfType("appointment.Appointment")).Return(nil)

	service := newTestService(records, queue, nil)
	appt := appointment.Appointment{
		Date: "01-01-2024", FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Phone: "0470000000", TimeSlot: "09:00",
	}

	first, err := service.Create(ctx, appt)
	assert.NoError(t, err)
	second, err := service.Create(ctx, appt)
	assert.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	_, err = uuid.Parse(first.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID}, insertedIDs)
}

func TestCreate_EnqueueFailureFailsTheCreation(t *testing.T) {
	ctx := context.Background()
	records := new(mockRecords)
	queue := new(mockQueue)

	records.On("Insert", ctx, mock.Anything).Return(appointment.Record{}, nil)
	queue.On("Enqueue", ctx, mock.Anything).Return(errors.New("queue unreachable"))

	service := newTestService(records, queue, nil)
	_, err := service.Create(ctx, appointment.Appointment{Date: "01-01-2024"})

	assert.Error(t, err)
	records.AssertCalled(t, "Insert", ctx, mock.Anything)
}

func TestCreate_InsertFailureSkipsEnqueue(t *testing.T) {
	ctx := context.Background()
	records := new(mockRecords)
	queue := new(mockQueue)

	records.On("Insert", ctx, mock.Anything).Return(appointment.Record{},
		appErrors.NewDependencyError("dynamodb", errors.New("throttled")))

	service := newTestService(records, queue, nil)
	_, err := service.Create(ctx, appointment.Appointment{Date: "01-01-2024"})

	assert.Error(t, err)
	queue.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestGet_MissingIDReturnsZeroValueEntity(t *testing.T) {
	ctx := context.Background()
	records := new(mockRecords)

	records.On("FindByID", ctx, "absent").Return([]appointment.Record{}, nil)

	service := newTestService(records, nil, nil)
	appt, err := service.Get(ctx, "absent")

	assert.NoError(t, err)
	assert.Equal(t, appointment.Appointment{}, appt)
}

func TestGet_ReturnsStoredAppointment(t *testing.T) {
	ctx := context.Background()
	records := new(mockRecords)

	records.On("FindByID", ctx, "appt-1").Return([]appointment.Record{existingRecord()}, nil)

	service := newTestService(records, nil, nil)
	appt, err := service.Get(ctx, "appt-1")

	assert.NoError(t, err)
	assert.Equal(t, "appt-1", appt.ID)
	assert.Equal(t, "ada@example.com", appt.Email)
}

func TestDelete_MissingIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	records := new(mockRecords)

	records.On("FindByID", ctx, "absent").Return([]appointment.Record{}, nil)

	service := newTestService(records, nil, nil)
	err := service.Delete(ctx, "absent")

	assert.True(t, appErrors.IsNotFound(err))
	records.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_RemovesEveryRowFound(t *testing.T) {
	ctx := context.Background()
	records := new(mockRecords)

	first := existingRecord()
	second := existingRecord()
	second.Date = "15-01-2024"
	second.ETag = "etag-9"

	records.On("FindByID", ctx, "appt-1").Return([]appointment.Record{first, second}, nil)
	records.On("Delete", ctx, first).Return(nil)
	records.On("Delete", ctx, second).Return(nil)

	service := newTestService(records, nil, nil)
	err := service.Delete(ctx, "appt-1")

	assert.NoError(t, err)
	records.AssertExpectations(t)
}

func TestListAll_ReturnsSortedSchedule(t *testing.T) {
	ctx := context.Background()
	records := new(mockRecords)

	records.On("FindAll", ctx).Return([]appointment.Record{
		{Date: "01-02-2024", ID: "c", TimeSlot: "09:00"},
		{Date: "01-01-2024", ID: "a", TimeSlot: "14:00"},
		{Date: "01-01-2024", ID: "b", TimeSlot: "09:00"},
		{Date: "15-01-2024", ID: "d", TimeSlot: "09:00"},
	}, nil)

	service := newTestService(records, nil, nil)
	appts, err := service.ListAll(ctx)

	assert.NoError(t, err)
	ids := make([]string, 0, len(appts))
	for _, a := range appts {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"b", "a", "d", "c"}, ids)
}

func TestListByEmail_FiltersOnEmailAttribute(t *testing.T) {
	ctx := context.Background()
	records := new(mockRecords)

	records.On("FindByField", ctx, "Email", "ada@example.com").
		Return([]appointment.Record{existingRecord()}, nil)

	service := newTestService(records, nil, nil)
	appts, err := service.ListByEmail(ctx, "ada@example.com")

	assert.NoError(t, err)
	assert.Len(t, appts, 1)
	records.AssertExpectations(t)
}

func TestUpdateLocation_OverlaysOnlyLocationWithWildcardToken(t *testing.T) {
	ctx := context.Background()
	records := new(mockRecords)

	existing := existingRecord()
	records.On("FindByID", ctx, "appt-1").Return([]appointment.Record{existing}, nil)
	records.On("Replace", ctx, mock.MatchedBy(func(rec appointment.Record) bool {
		return rec.Location == "Room 4" &&
			rec.Date == existing.Date &&
			rec.TimeSlot == existing.TimeSlot &&
			rec.Email == existing.Email
	}), appointment.ETagAny).Return(func() appointment.Record {
		rec := existing
		rec.Location = "Room 4"
		rec.ETag = "etag-2"
		return rec
	}(), nil)

	service := newTestService(records, nil, nil)
	appt, err := service.UpdateLocation(ctx, "appt-1", "Room 4")

	assert.NoError(t, err)
	assert.Equal(t, "Room 4", appt.Location)
	assert.Equal(t, "09:00", appt.TimeSlot)
	records.AssertExpectations(t)
}

func TestUpdateLocation_MissingIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	records := new(mockRecords)

	records.On("FindByID", ctx, "absent").Return([]appointment.Record{}, nil)

	service := newTestService(records, nil, nil)
	_, err := service.UpdateLocation(ctx, "absent", "Room 4")

	assert.True(t, appErrors.IsNotFound(err))
	records.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything)
}
