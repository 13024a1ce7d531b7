package repositories

import (
	"context"

	. "fieldops/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *ActivityLog) error
}

type activityRepository struct {
	log logger.Logger
}

func NewActivityRepository() ActivityRepository {
	return &activityRepository{
		log: logger.New("activityRepository"),
	}
}

func (r *activityRepository) Create(ctx context.Context, tx *gorm.DB, entry *ActivityLog) error {
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		return r.log.Function("Create").Err(
			"failed to record activity",
			err,
			"action", entry.Action,
			"orderID", entry.OrderID,
		)
	}
	return nil
}
