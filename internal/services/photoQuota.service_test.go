package services

import (
	"context"
	"testing"

	"fieldops/internal/lifecycle"
	"fieldops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoQuotaService_RegularCeiling(t *testing.T) {
	f := newFixture()
	service := NewPhotoQuotaService(f.repos)
	ctx := context.Background()
	order := f.order(t, lifecycle.OrderTypeRegular, lifecycle.StatusInProgress)

	for i := 0; i < lifecycle.RegularPhotoCeiling; i++ {
		photo := &models.Photo{OrderID: order.ID, PhotoURL: "https://cdn.example.com/p.jpg", UploadedBy: 10}
		require.NoError(t, service.AdmitAndCreate(ctx, nil, order, photo, true), "photo %d", i+1)
	}

	photo := &models.Photo{OrderID: order.ID, PhotoURL: "https://cdn.example.com/p.jpg", UploadedBy: 10}
	err := service.AdmitAndCreate(ctx, nil, order, photo, true)
	assert.ErrorIs(t, err, lifecycle.ErrConflict)
	assert.Equal(t, lifecycle.RegularPhotoCeiling, f.store.PhotoCount(order.ID))
}

func TestPhotoQuotaService_PostConstructionScopesByReport(t *testing.T) {
	f := newFixture()
	service := NewPhotoQuotaService(f.repos)
	ctx := context.Background()
	order := f.order(t, lifecycle.OrderTypePostConstruction, lifecycle.StatusInProgress)

	first, second := int64(100), int64(200)
	for i := 0; i < lifecycle.PostConstructionPhotoCeiling; i++ {
		photo := &models.Photo{OrderID: order.ID, DailyReportID: &first, PhotoURL: "u", UploadedBy: 10}
		require.NoError(t, service.AdmitAndCreate(ctx, nil, order, photo, true))
	}

	err := service.Admit(ctx, nil, order, &first, true)
	assert.ErrorIs(t, err, lifecycle.ErrConflict)

	assert.NoError(t, service.Admit(ctx, nil, order, &second, true))
}

func TestPhotoQuotaService_Guards(t *testing.T) {
	f := newFixture()
	service := NewPhotoQuotaService(f.repos)
	ctx := context.Background()

	order := f.order(t, lifecycle.OrderTypeRegular, lifecycle.StatusInProgress)
	assert.ErrorIs(t, service.Admit(ctx, nil, order, nil, false), lifecycle.ErrForbidden)

	done := f.order(t, lifecycle.OrderTypeRegular, lifecycle.StatusCompleted)
	assert.ErrorIs(t, service.Admit(ctx, nil, done, nil, true), lifecycle.ErrConflict)
}
