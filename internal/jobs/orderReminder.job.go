package jobs

import (
	"context"
	"time"

	"fieldops/internal/lifecycle"
	. "fieldops/internal/models"
	"fieldops/internal/repositories"
	"fieldops/internal/services"
	"fieldops/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type Reminder interface {
	OrderReminder(ctx context.Context, order *Order) error
}

// OrderReminderJob nudges the responsible worker of every order that is
// scheduled for today but still waiting to be started.
type OrderReminderJob struct {
	orderRepo repositories.OrderRepository
	reminder  Reminder
	db        *gorm.DB
	now       func() time.Time
	log       logger.Logger
	schedule  services.Schedule
}

func NewOrderReminderJob(
	repos repositories.Repository,
	reminder Reminder,
	db *gorm.DB,
	schedule services.Schedule,
) *OrderReminderJob {
	return &OrderReminderJob{
		orderRepo: repos.Order,
		reminder:  reminder,
		db:        db,
		now:       time.Now,
		log:       logger.New("orderReminderJob"),
		schedule:  schedule,
	}
}

func (j *OrderReminderJob) Name() string {
	return "OrderReminder"
}

func (j *OrderReminderJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	from := utils.StartOfDay(j.now().UTC())
	to := from.AddDate(0, 0, 1)

	orders, err := j.orderRepo.ListScheduledBetween(ctx, j.db, from, to, lifecycle.StatusAssigned)
	if err != nil {
		return log.Err("failed to list orders due today", err, "day", from)
	}

	sent, failed := 0, 0
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := j.reminder.OrderReminder(ctx, order); err != nil {
			failed++
			log.Warn("reminder failed", "orderID", order.ID, "error", err)
			continue
		}
		sent++
	}

	log.Info("Order reminders sent", "due", len(orders), "sent", sent, "failed", failed)
	return nil
}

func (j *OrderReminderJob) Schedule() services.Schedule {
	return j.schedule
}
