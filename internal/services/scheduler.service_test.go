package services

import (
	"context"
	"errors"
	"testing"

	"fieldops/internal/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockJob struct {
	mock.Mock
}

func (m *MockJob) Name() string {
	return m.Called().String(0)
}

func (m *MockJob) Execute(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockJob) Schedule() Schedule {
	return m.Called().Get(0).(Schedule)
}

func TestSchedulerService_AddAndTrigger(t *testing.T) {
	f := newFixture()
	scheduler := NewSchedulerService(f.cfg)
	assert.Equal(t, "06:00", scheduler.dailyAt)

	job := new(MockJob)
	job.On("Name").Return("OrderReminder")
	job.On("Schedule").Return(Daily)
	job.On("Execute", mock.Anything).Return(nil).Once()

	require.NoError(t, scheduler.AddJob(job))
	assert.Equal(t, 1, scheduler.GetJobCount())

	require.NoError(t, scheduler.TriggerJobByName(context.Background(), "OrderReminder"))
	job.AssertCalled(t, "Execute", mock.Anything)

	assert.ErrorIs(t, scheduler.TriggerJobByName(context.Background(), "Missing"), lifecycle.ErrNotFound)
}

func TestSchedulerService_TriggerPropagatesFailure(t *testing.T) {
	scheduler := NewSchedulerService(newFixture().cfg)

	job := new(MockJob)
	job.On("Name").Return("Flaky")
	job.On("Schedule").Return(Hourly)
	job.On("Execute", mock.Anything).Return(errors.New("boom"))

	require.NoError(t, scheduler.AddJob(job))
	assert.EqualError(t, scheduler.TriggerJobByName(context.Background(), "Flaky"), "boom")
}

func TestSchedulerService_StartStop(t *testing.T) {
	scheduler := NewSchedulerService(newFixture().cfg)
	ctx := context.Background()

	require.NoError(t, scheduler.Start(ctx))
	assert.False(t, scheduler.IsRunning(), "no jobs registered")

	job := new(MockJob)
	job.On("Name").Return("Hourly")
	job.On("Schedule").Return(Hourly)
	job.On("Execute", mock.Anything).Return(nil).Maybe()
	require.NoError(t, scheduler.AddJob(job))

	require.NoError(t, scheduler.Start(ctx))
	assert.True(t, scheduler.IsRunning())
	require.NoError(t, scheduler.Stop(ctx))
	assert.False(t, scheduler.IsRunning())
}
