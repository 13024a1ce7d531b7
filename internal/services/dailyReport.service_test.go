package services

import (
	"context"
	"testing"
	"time"

	"fieldops/internal/lifecycle"
	"fieldops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportDay_DropsTimeOfDay(t *testing.T) {
	morning := time.Date(2026, 3, 9, 7, 30, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 9, 22, 15, 0, 0, time.UTC)

	assert.Equal(t, ReportDay(morning), ReportDay(evening))
	assert.NotEqual(t, ReportDay(morning), ReportDay(morning.AddDate(0, 0, 1)))
}

func TestDailyReportService_Create(t *testing.T) {
	f := newFixture()
	service := NewDailyReportService(f.repos)
	ctx := context.Background()
	order := f.order(t, lifecycle.OrderTypePostConstruction, lifecycle.StatusInProgress)

	day := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)

	report, err := service.Create(ctx, nil, order.ID, 10, day, "Removed debris from floors", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), report.CreatedBy)

	_, err = service.Create(ctx, nil, order.ID, 10, day.Add(8*time.Hour), "Second pass on windows", nil)
	assert.ErrorIs(t, err, lifecycle.ErrConflict)
	assert.Contains(t, err.Error(), "2026-03-09")

	_, err = service.Create(ctx, nil, order.ID, 10, day.AddDate(0, 0, 1), "Windows and frames cleaned", nil)
	assert.NoError(t, err)
}

func TestDailyReportService_Update(t *testing.T) {
	f := newFixture()
	service := NewDailyReportService(f.repos)
	ctx := context.Background()
	order := f.order(t, lifecycle.OrderTypePostConstruction, lifecycle.StatusInProgress)

	report, err := service.Create(ctx, nil, order.ID, 10, time.Now(), "Initial description", nil)
	require.NoError(t, err)

	description := "Updated description text"
	err = service.Update(ctx, nil, report, lifecycle.Principal{ID: 11, Role: lifecycle.RoleWorker}, &description, nil)
	assert.ErrorIs(t, err, lifecycle.ErrForbidden)

	err = service.Update(ctx, nil, report, lifecycle.Principal{ID: 10, Role: lifecycle.RoleWorker}, nil, nil)
	assert.ErrorIs(t, err, lifecycle.ErrValidation)

	require.NoError(t, service.Update(ctx, nil, report, lifecycle.Principal{ID: 10, Role: lifecycle.RoleWorker}, &description, nil))

	stored, err := service.Get(ctx, nil, report.ID)
	require.NoError(t, err)
	assert.Equal(t, description, stored.Description)
}

func TestDailyReportService_DeleteCascadesPhotos(t *testing.T) {
	f := newFixture()
	service := NewDailyReportService(f.repos)
	ctx := context.Background()
	order := f.order(t, lifecycle.OrderTypePostConstruction, lifecycle.StatusInProgress)

	report, err := service.Create(ctx, nil, order.ID, 10, time.Now(), "Initial description", nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.repos.Photo.Create(ctx, nil, &models.Photo{
			OrderID:       order.ID,
			DailyReportID: &report.ID,
			PhotoURL:      "https://cdn.example.com/p.jpg",
			UploadedBy:    10,
		}))
	}
	require.NoError(t, f.repos.Photo.Create(ctx, nil, &models.Photo{
		OrderID:    order.ID,
		PhotoURL:   "https://cdn.example.com/loose.jpg",
		UploadedBy: 10,
	}))

	removed, err := service.Delete(ctx, nil, report)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.Equal(t, 1, f.store.PhotoCount(order.ID))

	_, err = service.Get(ctx, nil, report.ID)
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}
