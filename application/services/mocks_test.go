package services

import (
	"context"

	"visitdesk-backend/domain/appointment"

	"github.com/stretchr/testify/mock"
)

type mockRecords struct {
	mock.Mock
}

func (m *mockRecords) Insert(ctx context.Context, rec appointment.Record) (appointment.Record, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(appointment.Record), args.Error(1)
}

func (m *mockRecords) FindByID(ctx context.Context, id string) ([]appointment.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appointment.Record), args.Error(1)
}

func (m *mockRecords) FindByField(ctx context.Context, name, value string) ([]appointment.Record, error) {
	args := m.Called(ctx, name, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appointment.Record), args.Error(1)
}

func (m *mockRecords) FindAll(ctx context.Context) ([]appointment.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appointment.Record), args.Error(1)
}

func (m *mockRecords) Replace(ctx context.Context, rec appointment.Record, expectedETag string) (appointment.Record, error) {
	args := m.Called(ctx, rec, expectedETag)
	return args.Get(0).(appointment.Record), args.Error(1)
}

func (m *mockRecords) Delete(ctx context.Context, rec appointment.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

type mockQueue struct {
	mock.Mock
}

func (m *mockQueue) Enqueue(ctx context.Context, appt appointment.Appointment) error {
	args := m.Called(ctx, appt)
	return args.Error(0)
}

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) Publish(ctx context.Context, event appointment.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
