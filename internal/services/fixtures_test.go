package services

import (
	"context"
	"testing"
	"time"

	"fieldops/config"
	"fieldops/internal/lifecycle"
	"fieldops/internal/models"
	"fieldops/internal/repositories"
	"fieldops/internal/repositories/memory"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *memory.Store
	repos repositories.Repository
	cfg   config.Config
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{
		store: store,
		repos: store.Repository(),
		cfg: config.Config{
			JWTSecret:         "a-test-secret-that-is-long-enough-123",
			JWTIssuer:         "fieldops-test",
			OrderNumberPrefix: "JDI",
			ReminderHourUTC:   6,
		},
	}
}

func (f *fixture) user(name string, role lifecycle.Role) *models.User {
	return f.store.AddUser(&models.User{Name: name, Email: name + "@example.com", Role: role, IsActive: true})
}

func (f *fixture) order(t *testing.T, orderType lifecycle.OrderType, status lifecycle.Status) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:   "JDI-2026-" + time.Now().Format("150405.000000000"),
		OrderType:     orderType,
		Status:        status,
		ClientName:    "Acme",
		ClientPhone:   "+1 555 0100",
		Address:       "1 Main Street",
		ScheduledDate: time.Now().UTC(),
		CreatedBy:     1,
	}
	require.NoError(t, f.repos.Order.Create(context.Background(), nil, order))
	return order
}

func (f *fixture) assign(t *testing.T, orderID int64, responsible int64, others ...int64) {
	t.Helper()
	rows := []*models.Assignment{{WorkerID: responsible, IsResponsible: true}}
	for _, id := range others {
		rows = append(rows, &models.Assignment{WorkerID: id})
	}
	require.NoError(t, f.repos.Assignment.Replace(context.Background(), nil, orderID, rows))
	_, err := f.repos.Order.ConditionalUpdate(context.Background(), nil, orderID,
		repositories.OrderCondition{}, map[string]any{"responsible_worker_id": responsible})
	require.NoError(t, err)
}
