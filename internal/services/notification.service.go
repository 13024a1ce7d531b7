package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fieldops/config"
	"fieldops/internal/events"
	. "fieldops/internal/models"
	"fieldops/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-resty/resty/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const NOTIFICATION_DISPATCH_TIMEOUT = 10 * time.Second

type EventPublisher interface {
	Publish(channel events.Channel, event events.Event) error
}

// NotificationService persists a notification per recipient, pushes it over
// the event bus and forwards it to the configured webhook. Delivery runs off
// the request path and never fails the transition that triggered it.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	db               *gorm.DB
	publisher        EventPublisher
	webhook          *resty.Client
	webhookURL       string
	wg               sync.WaitGroup
	log              logger.Logger
}

func NewNotificationService(
	repos repositories.Repository,
	db *gorm.DB,
	publisher EventPublisher,
	config config.Config,
) *NotificationService {
	log := logger.New("notificationService")

	var webhook *resty.Client
	if config.NotifyWebhookURL != "" {
		webhook = resty.New().
			SetTimeout(time.Duration(config.NotifyWebhookTimeoutSecond) * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond).
			SetHeader("Content-Type", "application/json")
		log.Function("NewNotificationService").Info("Notification webhook enabled", "url", config.NotifyWebhookURL)
	}

	return &NotificationService{
		notificationRepo: repos.Notification,
		db:               db,
		publisher:        publisher,
		webhook:          webhook,
		webhookURL:       config.NotifyWebhookURL,
		log:              log,
	}
}

// WorkerAssigned notifies each newly added worker except the actor.
func (s *NotificationService) WorkerAssigned(ctx context.Context, order *Order, workerIDs []int64, actorID int64) {
	for _, workerID := range workerIDs {
		if workerID == actorID {
			continue
		}
		s.dispatchAsync(ctx, &Notification{
			UserID:  workerID,
			Type:    NotificationWorkerAssigned,
			Title:   "New order assigned",
			Message: fmt.Sprintf("You have been assigned to order %s", order.OrderNumber),
			OrderID: &order.ID,
			Data: datatypes.JSONMap{
				"orderNumber":   order.OrderNumber,
				"scheduledDate": order.ScheduledDate,
				"isResponsible": order.ResponsibleWorkerID != nil && *order.ResponsibleWorkerID == workerID,
			},
		})
	}
}

// OrderCompleted notifies the creator of the order.
func (s *NotificationService) OrderCompleted(ctx context.Context, order *Order) {
	s.dispatchAsync(ctx, &Notification{
		UserID:  order.CreatedBy,
		Type:    NotificationOrderCompleted,
		Title:   "Order completed",
		Message: fmt.Sprintf("Order %s has been completed", order.OrderNumber),
		OrderID: &order.ID,
		Data: datatypes.JSONMap{
			"orderNumber": order.OrderNumber,
			"completedAt": order.WorkCompletedAt,
		},
	})
}

// OrderReminder is sent synchronously by the reminder job.
func (s *NotificationService) OrderReminder(ctx context.Context, order *Order) error {
	if order.ResponsibleWorkerID == nil {
		return nil
	}
	return s.dispatch(ctx, &Notification{
		UserID:  *order.ResponsibleWorkerID,
		Type:    NotificationOrderReminder,
		Title:   "Order scheduled today",
		Message: fmt.Sprintf("Order %s is scheduled for today and has not been started", order.OrderNumber),
		OrderID: &order.ID,
		Data: datatypes.JSONMap{
			"orderNumber": order.OrderNumber,
			"address":     order.Address,
		},
	})
}

// OrderChanged announces a new order snapshot on the order channel.
func (s *NotificationService) OrderChanged(order *Order) {
	if s.publisher == nil {
		return
	}
	event := events.OrderChangedEvent(order.ID, order.Status.String())
	if err := s.publisher.Publish(events.ORDER_CHANNEL, event); err != nil {
		s.log.Function("OrderChanged").Warn("failed to publish order change", "orderID", order.ID, "error", err)
	}
}

// Wait blocks until in-flight asynchronous dispatches finish.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) dispatchAsync(ctx context.Context, notification *Notification) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), NOTIFICATION_DISPATCH_TIMEOUT)
		defer cancel()

		if err := s.dispatch(ctx, notification); err != nil {
			s.log.Function("dispatchAsync").Warn(
				"notification dispatch failed",
				"userID", notification.UserID,
				"type", notification.Type,
				"error", err,
			)
		}
	}()
}

func (s *NotificationService) dispatch(ctx context.Context, notification *Notification) error {
	log := s.log.Function("dispatch")

	if err := s.notificationRepo.Create(ctx, s.db, notification); err != nil {
		return err
	}

	if s.publisher != nil {
		userID := notification.UserID
		err := s.publisher.Publish(events.NOTIFICATION_CHANNEL, events.Event{
			Type:   events.MessageType(notification.Type),
			UserID: &userID,
			Data: map[string]any{
				"notificationId": notification.ID,
				"title":          notification.Title,
				"message":        notification.Message,
				"orderId":        notification.OrderID,
				"data":           notification.Data,
			},
		})
		if err != nil {
			log.Warn("failed to publish notification", "notificationID", notification.ID, "error", err)
		}
	}

	if s.webhook != nil {
		resp, err := s.webhook.R().
			SetContext(ctx).
			SetBody(notification).
			Post(s.webhookURL)
		if err != nil {
			return log.Err("webhook delivery failed", err, "notificationID", notification.ID)
		}
		if resp.IsError() {
			return log.Error(
				"webhook rejected notification",
				"notificationID", notification.ID,
				"status", resp.StatusCode(),
			)
		}
	}

	return nil
}
