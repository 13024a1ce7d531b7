package reportsController

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"fieldops/config"
	"fieldops/internal/database"
	"fieldops/internal/lifecycle"
	"fieldops/internal/models"
	"fieldops/internal/repositories"
	"fieldops/internal/repositories/memory"
	"fieldops/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const description = "Poured and levelled the second floor screed."

type harness struct {
	store      *memory.Store
	repos      repositories.Repository
	controller ReportsControllerInterface
	supervisor lifecycle.Principal
	w1, w2, w3 lifecycle.Principal
	seq        int
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	store := memory.NewStore()
	repos := store.Repository()
	svc := services.Compose(repos, store, nil, config.Config{OrderNumberPrefix: "JDI"}, nil)

	h := &harness{
		store:      store,
		repos:      repos,
		controller: New(repos, svc, database.DB{}),
	}

	add := func(name string, role lifecycle.Role) lifecycle.Principal {
		return store.AddUser(&models.User{Name: name, Role: role, IsActive: true}).Principal()
	}
	h.supervisor = add("supervisor", lifecycle.RoleSupervisor)
	h.w1 = add("w1", lifecycle.RoleWorker)
	h.w2 = add("w2", lifecycle.RoleWorker)
	h.w3 = add("w3", lifecycle.RoleWorker)
	return h
}

// order seeds an order with w1 responsible and w2 assigned.
func (h *harness) order(t *testing.T, orderType lifecycle.OrderType, status lifecycle.Status) *models.Order {
	t.Helper()
	ctx := context.Background()
	h.seq++

	order := &models.Order{
		OrderNumber:   fmt.Sprintf("JDI-2026-%04d", h.seq),
		OrderType:     orderType,
		Status:        status,
		ClientName:    "Harbour Build",
		ClientPhone:   "555 0101",
		Address:       "4 Quay Street",
		ScheduledDate: time.Now().UTC(),
		CreatedBy:     h.supervisor.ID,
	}
	require.NoError(t, h.repos.Order.Create(ctx, nil, order))
	require.NoError(t, h.repos.Assignment.Replace(ctx, nil, order.ID, []*models.Assignment{
		{WorkerID: h.w1.ID, IsResponsible: true, AssignedBy: h.supervisor.ID},
		{WorkerID: h.w2.ID, AssignedBy: h.supervisor.ID},
	}))
	return order
}

func (h *harness) setStatus(t *testing.T, orderID int64, status lifecycle.Status) {
	t.Helper()
	_, err := h.repos.Order.ConditionalUpdate(context.Background(), nil, orderID,
		repositories.OrderCondition{}, map[string]any{"status": status})
	require.NoError(t, err)
}

func report(date string) *CreateReportRequest {
	return &CreateReportRequest{ReportDate: date, Description: description}
}

func TestCreateReport_OnePerDate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	order := h.order(t, lifecycle.OrderTypePostConstruction, lifecycle.StatusInProgress)

	first, err := h.controller.CreateReport(ctx, h.w1, order.ID, report("2026-05-04"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), first.Day())
	assert.Equal(t, h.w1.ID, first.CreatedBy)

	_, err = h.controller.CreateReport(ctx, h.w2, order.ID, report("2026-05-04T17:45:00Z"))
	require.ErrorIs(t, err, lifecycle.ErrConflict)
	assert.Contains(t, err.Error(), "2026-05-04")

	second, err := h.controller.CreateReport(ctx, h.w2, order.ID, report("2026-05-05"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateReport_ConcurrentSameDate(t *testing.T) {
	h := newHarness(t)
	order := h.order(t, lifecycle.OrderTypePostConstruction, lifecycle.StatusInProgress)

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			worker := h.w1
			if i%2 == 1 {
				worker = h.w2
			}
			_, errs[i] = h.controller.CreateReport(context.Background(), worker, order.ID, report("2026-05-06"))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, lifecycle.ErrConflict)
	}
	assert.Equal(t, 1, wins)
}

func TestCreateReport_Rejections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	post := h.order(t, lifecycle.OrderTypePostConstruction, lifecycle.StatusInProgress)
	notStarted := h.order(t, lifecycle.OrderTypePostConstruction, lifecycle.StatusAssigned)
	regular := h.order(t, lifecycle.OrderTypeRegular, lifecycle.StatusInProgress)

	tests := []struct {
		name    string
		actor   lifecycle.Principal
		orderID int64
		request *CreateReportRequest
		want    error
	}{
		{"supervisor cannot write", h.supervisor, post.ID, report("2026-05-04"), lifecycle.ErrForbidden},
		{"unassigned worker", h.w3, post.ID, report("2026-05-04"), lifecycle.ErrForbidden},
		{"order not started", h.w1, notStarted.ID, report("2026-05-04"), lifecycle.ErrConflict},
		{"regular order", h.w1, regular.ID, report("2026-05-04"), lifecycle.ErrConflict},
		{"missing order", h.w1, 9876, report("2026-05-04"), lifecycle.ErrNotFound},
		{"short description", h.w1, post.ID, &CreateReportRequest{ReportDate: "2026-05-04", Description: "short"}, lifecycle.ErrValidation},
		{"padded short description", h.w1, post.ID, &CreateReportRequest{ReportDate: "2026-05-04", Description: "   short      "}, lifecycle.ErrValidation},
		{"long description", h.w1, post.ID, &CreateReportRequest{ReportDate: "2026-05-04", Description: strings.Repeat("d", 2001)}, lifecycle.ErrValidation},
		{"bad date", h.w1, post.ID, report("yesterday"), lifecycle.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.controller.CreateReport(ctx, tt.actor, tt.orderID, tt.request)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateReport(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	order := h.order(t, lifecycle.OrderTypePostConstruction, lifecycle.StatusInProgress)

	created, err := h.controller.CreateReport(ctx, h.w1, order.ID, report("2026-05-04"))
	require.NoError(t, err)

	changed := "Sanded and sealed all window frames on level two."
	signature := "signed-by-w1"
	updated, err := h.controller.UpdateReport(ctx, h.w1, created.ID, &UpdateReportRequest{
		Description: &changed,
		Signature:   &signature,
	})
	require.NoError(t, err)
	assert.Equal(t, changed, updated.Description)
	assert.Equal(t, signature, *updated.Signature)

	_, err = h.controller.UpdateReport(ctx, h.w2, created.ID, &UpdateReportRequest{Description: &changed})
	assert.ErrorIs(t, err, lifecycle.ErrForbidden, "only the author edits")

	_, err = h.controller.UpdateReport(ctx, h.w1, created.ID, &UpdateReportRequest{})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	padded := "    tiny        "
	_, err = h.controller.UpdateReport(ctx, h.w1, created.ID, &UpdateReportRequest{Description: &padded})
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	h.setStatus(t, order.ID, lifecycle.StatusCompleted)
	_, err = h.controller.UpdateReport(ctx, h.w1, created.ID, &UpdateReportRequest{Description: &changed})
	assert.ErrorIs(t, err, lifecycle.ErrConflict)
}

func TestDeleteReport_CascadesPhotos(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	order := h.order(t, lifecycle.OrderTypePostConstruction, lifecycle.StatusInProgress)

	created, err := h.controller.CreateReport(ctx, h.w1, order.ID, report("2026-05-04"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, h.repos.Photo.Create(ctx, nil, &models.Photo{
			OrderID:       order.ID,
			DailyReportID: &created.ID,
			PhotoURL:      fmt.Sprintf("https://files.example/%d.jpg", i),
			UploadedBy:    h.w1.ID,
		}))
	}
	require.NoError(t, h.repos.Photo.Create(ctx, nil, &models.Photo{
		OrderID:    order.ID,
		PhotoURL:   "https://files.example/order.jpg",
		UploadedBy: h.w1.ID,
	}))

	_, err = h.controller.DeleteReport(ctx, h.w1, created.ID)
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)

	response, err := h.controller.DeleteReport(ctx, h.supervisor, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), response.PhotosRemoved)
	assert.Equal(t, 1, h.store.PhotoCount(order.ID))

	_, err = h.controller.DeleteReport(ctx, h.supervisor, created.ID)
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)

	again, err := h.controller.CreateReport(ctx, h.w1, order.ID, report("2026-05-04"))
	require.NoError(t, err, "the date is free again once its report is gone")

	h.setStatus(t, order.ID, lifecycle.StatusCancelled)
	_, err = h.controller.DeleteReport(ctx, h.supervisor, again.ID)
	assert.ErrorIs(t, err, lifecycle.ErrConflict)
}
