package repositories

import (
	"context"
	"time"

	"fieldops/internal/lifecycle"
	. "fieldops/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type OrderAreaRepository interface {
	ListByOrder(ctx context.Context, tx *gorm.DB, orderID int64) ([]*OrderArea, error)
	GetByID(ctx context.Context, tx *gorm.DB, orderID, id int64) (*OrderArea, error)
	Replace(ctx context.Context, tx *gorm.DB, orderID int64, areas []*OrderArea) error
	// MarkCompleted flips is_completed only while the area is still open, the
	// order is in progress and the worker is assigned to it.
	MarkCompleted(
		ctx context.Context,
		tx *gorm.DB,
		orderID, id, workerID int64,
		at time.Time,
	) (bool, error)
	CountIncomplete(ctx context.Context, tx *gorm.DB, orderID int64) (int64, error)
}

type orderAreaRepository struct {
	log logger.Logger
}

func NewOrderAreaRepository() OrderAreaRepository {
	return &orderAreaRepository{
		log: logger.New("orderAreaRepository"),
	}
}

func (r *orderAreaRepository) ListByOrder(
	ctx context.Context,
	tx *gorm.DB,
	orderID int64,
) ([]*OrderArea, error) {
	log := r.log.Function("ListByOrder")

	var areas []*OrderArea
	err := tx.WithContext(ctx).
		Preload("CleaningArea").
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&areas).Error
	if err != nil {
		return nil, log.Err("failed to list order areas", err, "orderID", orderID)
	}

	return areas, nil
}

func (r *orderAreaRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	orderID, id int64,
) (*OrderArea, error) {
	var area OrderArea
	err := tx.WithContext(ctx).
		First(&area, "id = ? AND order_id = ?", id, orderID).Error
	if err != nil {
		return nil, translate(err, "order area")
	}
	return &area, nil
}

func (r *orderAreaRepository) Replace(
	ctx context.Context,
	tx *gorm.DB,
	orderID int64,
	areas []*OrderArea,
) error {
	log := r.log.Function("Replace")

	db := tx.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&OrderArea{}).Error; err != nil {
		return log.Err("failed to clear order areas", err, "orderID", orderID)
	}

	if len(areas) == 0 {
		return nil
	}

	for _, area := range areas {
		area.OrderID = orderID
	}

	if err := db.Create(&areas).Error; err != nil {
		if err = translate(err, "order area"); isTyped(err) {
			return err
		}
		return log.Err("failed to insert order areas", err, "orderID", orderID)
	}

	return nil
}

func (r *orderAreaRepository) MarkCompleted(
	ctx context.Context,
	tx *gorm.DB,
	orderID, id, workerID int64,
	at time.Time,
) (bool, error) {
	log := r.log.Function("MarkCompleted")

	result := tx.WithContext(ctx).
		Model(&OrderArea{}).
		Where("id = ? AND order_id = ? AND is_completed = ?", id, orderID, false).
		Where(
			"EXISTS (SELECT 1 FROM orders WHERE orders.id = order_areas.order_id AND orders.status = ?)",
			lifecycle.StatusInProgress,
		).
		Where(
			"EXISTS (SELECT 1 FROM assignments WHERE assignments.order_id = order_areas.order_id AND assignments.worker_id = ?)",
			workerID,
		).
		Updates(map[string]any{
			"is_completed": true,
			"completed_by": workerID,
			"completed_at": at,
		})
	if result.Error != nil {
		return false, log.Err(
			"failed to complete order area",
			result.Error,
			"orderID", orderID,
			"areaID", id,
		)
	}

	return result.RowsAffected > 0, nil
}

func (r *orderAreaRepository) CountIncomplete(
	ctx context.Context,
	tx *gorm.DB,
	orderID int64,
) (int64, error) {
	log := r.log.Function("CountIncomplete")

	var count int64
	err := tx.WithContext(ctx).
		Model(&OrderArea{}).
		Where("order_id = ? AND is_completed = ?", orderID, false).
		Count(&count).Error
	if err != nil {
		return 0, log.Err("failed to count open areas", err, "orderID", orderID)
	}

	return count, nil
}
