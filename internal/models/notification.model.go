package models

import (
	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationWorkerAssigned NotificationType = "worker_assigned"
	NotificationOrderCompleted NotificationType = "order_completed"
	NotificationOrderReminder  NotificationType = "order_reminder"
)

type Notification struct {
	BaseModel
	UserID  int64             `gorm:"type:bigint;not null;index"       json:"userId"`
	Type    NotificationType  `gorm:"type:text;not null"               json:"type"`
	Title   string            `gorm:"type:text;not null"               json:"title"`
	Message string            `gorm:"type:text;not null"               json:"message"`
	OrderID *int64            `gorm:"type:bigint;index"                json:"orderId,omitempty"`
	Data    datatypes.JSONMap `gorm:"type:jsonb"                       json:"data,omitempty"`
	IsRead  bool              `gorm:"type:bool;not null;default:false" json:"isRead"`
}
