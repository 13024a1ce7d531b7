package services

import (
	"context"
	"testing"

	"fieldops/internal/lifecycle"
	"fieldops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSet(t *testing.T) {
	tests := []struct {
		name        string
		workers     []int64
		responsible int64
		wantErr     bool
	}{
		{"single worker", []int64{1}, 1, false},
		{"responsible among many", []int64{1, 2, 3}, 2, false},
		{"empty set", []int64{}, 1, true},
		{"responsible outside set", []int64{1, 2}, 3, true},
		{"duplicate worker", []int64{1, 1}, 1, true},
		{"invalid id", []int64{0, 1}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSet(tt.workers, tt.responsible)
			if tt.wantErr {
				assert.ErrorIs(t, err, lifecycle.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssignmentService_ResolveWorkers(t *testing.T) {
	f := newFixture()
	service := NewAssignmentService(f.repos)
	ctx := context.Background()

	w1 := f.user("w1", lifecycle.RoleWorker)
	w2 := f.user("w2", lifecycle.RoleWorker)
	boss := f.user("boss", lifecycle.RoleSupervisor)
	gone := f.store.AddUser(&models.User{Name: "gone", Role: lifecycle.RoleWorker, IsActive: false})

	users, err := service.ResolveWorkers(ctx, nil, []int64{w2.ID, w1.ID})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, w2.ID, users[0].ID)

	_, err = service.ResolveWorkers(ctx, nil, []int64{w1.ID, 999})
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)

	_, err = service.ResolveWorkers(ctx, nil, []int64{w1.ID, gone.ID})
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)

	_, err = service.ResolveWorkers(ctx, nil, []int64{boss.ID})
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestAssignmentService_Replace(t *testing.T) {
	f := newFixture()
	service := NewAssignmentService(f.repos)
	ctx := context.Background()
	order := f.order(t, lifecycle.OrderTypeRegular, lifecycle.StatusPending)

	added, err := service.Replace(ctx, nil, order.ID, []int64{10, 11}, 10, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{10, 11}, added)

	added, err = service.Replace(ctx, nil, order.ID, []int64{11, 12}, 12, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{12}, added)

	assignments, err := f.repos.Assignment.ListByOrder(ctx, nil, order.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 2)

	responsible := 0
	for _, a := range assignments {
		if a.IsResponsible {
			responsible++
			assert.Equal(t, int64(12), a.WorkerID)
		}
	}
	assert.Equal(t, 1, responsible)

	ok, err := service.IsAssigned(ctx, nil, order.ID, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}
