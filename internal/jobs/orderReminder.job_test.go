package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldops/internal/lifecycle"
	"fieldops/internal/models"
	"fieldops/internal/repositories/memory"
	"fieldops/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReminder struct {
	mock.Mock
}

func (m *MockReminder) OrderReminder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func TestOrderReminderJob_Execute(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repository()
	ctx := context.Background()
	today := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

	seed := func(number string, status lifecycle.Status, scheduled time.Time) *models.Order {
		order := &models.Order{
			OrderNumber:   number,
			OrderType:     lifecycle.OrderTypeRegular,
			Status:        status,
			ClientName:    "Lakeside Offices",
			ClientPhone:   "555 0199",
			Address:       "12 Shore Road",
			ScheduledDate: scheduled,
			CreatedBy:     1,
		}
		require.NoError(t, repos.Order.Create(ctx, nil, order))
		return order
	}

	early := seed("JDI-2026-0001", lifecycle.StatusAssigned, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC))
	late := seed("JDI-2026-0002", lifecycle.StatusAssigned, time.Date(2026, 5, 4, 23, 0, 0, 0, time.UTC))
	seed("JDI-2026-0003", lifecycle.StatusInProgress, time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC))
	seed("JDI-2026-0004", lifecycle.StatusPending, time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC))
	seed("JDI-2026-0005", lifecycle.StatusAssigned, time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC))
	seed("JDI-2026-0006", lifecycle.StatusAssigned, time.Date(2026, 5, 3, 23, 59, 0, 0, time.UTC))

	reminder := new(MockReminder)
	reminder.On("OrderReminder", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.ID == early.ID
	})).Return(errors.New("webhook down")).Once()
	reminder.On("OrderReminder", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.ID == late.ID
	})).Return(nil).Once()

	job := NewOrderReminderJob(repos, reminder, nil, services.Daily)
	job.now = func() time.Time { return today }

	require.NoError(t, job.Execute(ctx), "a failed reminder does not fail the run")
	reminder.AssertExpectations(t)
	reminder.AssertNumberOfCalls(t, "OrderReminder", 2)
}

func TestOrderReminderJob_Metadata(t *testing.T) {
	job := NewOrderReminderJob(memory.NewStore().Repository(), new(MockReminder), nil, services.Daily)

	assert.Equal(t, "OrderReminder", job.Name())
	assert.Equal(t, services.Daily, job.Schedule())
}
