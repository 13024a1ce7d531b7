package repositories

import (
	"errors"

	"fieldops/internal/database"
	"fieldops/internal/lifecycle"

	"gorm.io/gorm"
)

type Repository struct {
	User         UserRepository
	Order        OrderRepository
	OrderCache   OrderCacheRepository
	Assignment   AssignmentRepository
	CleaningArea CleaningAreaRepository
	OrderArea    OrderAreaRepository
	DailyReport  DailyReportRepository
	Photo        PhotoRepository
	Notification NotificationRepository
	Activity     ActivityRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:         NewUserRepository(db),
		Order:        NewOrderRepository(),
		OrderCache:   NewOrderCacheRepository(db),
		Assignment:   NewAssignmentRepository(),
		CleaningArea: NewCleaningAreaRepository(),
		OrderArea:    NewOrderAreaRepository(),
		DailyReport:  NewDailyReportRepository(),
		Photo:        NewPhotoRepository(),
		Notification: NewNotificationRepository(),
		Activity:     NewActivityRepository(),
	}
}

// translate maps gorm sentinel errors onto lifecycle failure kinds.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return lifecycle.NotFound("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return lifecycle.Conflict("%s already exists", what)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return lifecycle.Invalid("%s violates a column constraint", what)
	}
	return err
}

func isTyped(err error) bool {
	return lifecycle.Kind(err) != nil
}
