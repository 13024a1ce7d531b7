package repositories

import (
	"context"

	. "fieldops/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, notification *Notification) error
}

type notificationRepository struct {
	log logger.Logger
}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{
		log: logger.New("notificationRepository"),
	}
}

func (r *notificationRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	notification *Notification,
) error {
	if err := tx.WithContext(ctx).Create(notification).Error; err != nil {
		return r.log.Function("Create").Err(
			"failed to create notification",
			err,
			"userID", notification.UserID,
			"type", notification.Type,
		)
	}
	return nil
}
