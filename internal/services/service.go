package services

import (
	"fieldops/config"
	"fieldops/internal/database"
	"fieldops/internal/events"
	"fieldops/internal/repositories"

	"gorm.io/gorm"
)

type Service struct {
	Transaction  Transactor
	OrderNumber  *OrderNumberService
	Assignment   *AssignmentService
	Area         *AreaService
	DailyReport  *DailyReportService
	PhotoQuota   *PhotoQuotaService
	Activity     *ActivityService
	Notification *NotificationService
	Identity     *IdentityService
	Scheduler    *SchedulerService
}

func New(
	db database.DB,
	repos repositories.Repository,
	config config.Config,
	eventBus *events.EventBus,
) Service {
	var publisher EventPublisher
	if eventBus != nil {
		publisher = eventBus
	}

	return Compose(repos, NewTransactionService(db), db.SQL, config, publisher)
}

// Compose wires the services over any store that satisfies the repository
// interfaces.
func Compose(
	repos repositories.Repository,
	transactor Transactor,
	db *gorm.DB,
	config config.Config,
	publisher EventPublisher,
) Service {
	return Service{
		Transaction:  transactor,
		OrderNumber:  NewOrderNumberService(repos.Order, config.OrderNumberPrefix),
		Assignment:   NewAssignmentService(repos),
		Area:         NewAreaService(repos),
		DailyReport:  NewDailyReportService(repos),
		PhotoQuota:   NewPhotoQuotaService(repos),
		Activity:     NewActivityService(repos),
		Notification: NewNotificationService(repos, db, publisher, config),
		Identity:     NewIdentityService(repos, config),
		Scheduler:    NewSchedulerService(config),
	}
}
