package models

import (
	"gorm.io/datatypes"
)

type Action string

const (
	ActionOrderCreated        Action = "order_created"
	ActionWorkersAssigned     Action = "workers_assigned"
	ActionAreasAssigned       Action = "areas_assigned"
	ActionWorkStarted         Action = "work_started"
	ActionAreaCompleted       Action = "area_completed"
	ActionOrderCompleted      Action = "order_completed"
	ActionOrderCancelled      Action = "order_cancelled"
	ActionOrderUpdated        Action = "order_updated"
	ActionReportCreated       Action = "report_created"
	ActionReportUpdated       Action = "report_updated"
	ActionReportDeleted       Action = "report_deleted"
	ActionPhotoUploaded       Action = "photo_uploaded"
	ActionPhotoCaptionUpdated Action = "photo_caption_updated"
	ActionPhotoDeleted        Action = "photo_deleted"
)

type ActivityLog struct {
	BaseModel
	UserID      int64             `gorm:"type:bigint;not null;index" json:"userId"`
	OrderID     *int64            `gorm:"type:bigint;index"          json:"orderId,omitempty"`
	Action      Action            `gorm:"type:text;not null"         json:"action"`
	Description string            `gorm:"type:text"                  json:"description"`
	Details     datatypes.JSONMap `gorm:"type:jsonb"                 json:"details,omitempty"`
}
