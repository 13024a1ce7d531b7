package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fieldops/internal/events"
	"fieldops/internal/lifecycle"
	"fieldops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(channel events.Channel, event events.Event) error {
	args := m.Called(channel, event)
	return args.Error(0)
}

func TestNotificationService_WorkerAssigned_SkipsActor(t *testing.T) {
	f := newFixture()
	publisher := new(MockPublisher)
	publisher.On("Publish", events.NOTIFICATION_CHANNEL, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.WORKER_ASSIGNED && e.UserID != nil
	})).Return(nil)

	service := NewNotificationService(f.repos, nil, publisher, f.cfg)
	order := f.order(t, lifecycle.OrderTypeRegular, lifecycle.StatusAssigned)

	service.WorkerAssigned(context.Background(), order, []int64{10, 11, 1}, 1)
	service.Wait()

	stored := f.store.Notifications()
	require.Len(t, stored, 2)
	recipients := []int64{stored[0].UserID, stored[1].UserID}
	assert.ElementsMatch(t, []int64{10, 11}, recipients)
	for _, n := range stored {
		assert.Equal(t, models.NotificationWorkerAssigned, n.Type)
		assert.Equal(t, order.ID, *n.OrderID)
	}
	publisher.AssertNumberOfCalls(t, "Publish", 2)
}

func TestNotificationService_OrderCompleted_Webhook(t *testing.T) {
	var (
		mu       sync.Mutex
		received []map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		mu.Lock()
		received = append(received, body)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	f := newFixture()
	f.cfg.NotifyWebhookURL = server.URL
	f.cfg.NotifyWebhookTimeoutSecond = 2

	service := NewNotificationService(f.repos, nil, nil, f.cfg)
	order := f.order(t, lifecycle.OrderTypeRegular, lifecycle.StatusCompleted)
	order.CreatedBy = 42
	completedAt := time.Now().UTC()
	order.WorkCompletedAt = &completedAt

	service.OrderCompleted(context.Background(), order)
	service.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, float64(42), received[0]["userId"])
	assert.Equal(t, string(models.NotificationOrderCompleted), received[0]["type"])

	stored := f.store.Notifications()
	require.Len(t, stored, 1)
	assert.Equal(t, int64(42), stored[0].UserID)
}

func TestNotificationService_OrderReminder_WebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	f := newFixture()
	f.cfg.NotifyWebhookURL = server.URL
	f.cfg.NotifyWebhookTimeoutSecond = 2

	service := NewNotificationService(f.repos, nil, nil, f.cfg)
	order := f.order(t, lifecycle.OrderTypeRegular, lifecycle.StatusAssigned)

	assert.NoError(t, service.OrderReminder(context.Background(), order), "no responsible worker, nothing to send")

	responsible := int64(10)
	order.ResponsibleWorkerID = &responsible
	err := service.OrderReminder(context.Background(), order)
	assert.Error(t, err)

	stored := f.store.Notifications()
	require.Len(t, stored, 1, "notification persists even when the webhook rejects it")
	assert.Equal(t, models.NotificationOrderReminder, stored[0].Type)
}

func TestNotificationService_OrderChanged(t *testing.T) {
	f := newFixture()
	publisher := new(MockPublisher)
	publisher.On("Publish", events.ORDER_CHANNEL, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.ORDER_CHANGED && e.Data["status"] == "in_progress"
	})).Return(nil).Once()

	service := NewNotificationService(f.repos, nil, publisher, f.cfg)
	order := f.order(t, lifecycle.OrderTypeRegular, lifecycle.StatusInProgress)

	service.OrderChanged(order)

	publisher.AssertExpectations(t)
	assert.Empty(t, f.store.Notifications())

	NewNotificationService(f.repos, nil, nil, f.cfg).OrderChanged(order)
}
