package models

import (
	"time"

	"fieldops/internal/lifecycle"

	"github.com/shopspring/decimal"
)

type Order struct {
	BaseModel
	OrderNumber         string              `gorm:"type:text;uniqueIndex;not null"        json:"orderNumber"`
	OrderType           lifecycle.OrderType `gorm:"type:text;not null"                    json:"orderType"`
	Status              lifecycle.Status    `gorm:"type:text;not null;default:pending;index" json:"status"`
	ClientName          string              `gorm:"type:text;not null"                    json:"clientName"`
	ClientEmail         *string             `gorm:"type:text"                             json:"clientEmail,omitempty"`
	ClientPhone         string              `gorm:"type:text;not null"                    json:"clientPhone"`
	Address             string              `gorm:"type:text;not null"                    json:"address"`
	City                *string             `gorm:"type:text"                             json:"city,omitempty"`
	ScheduledDate       time.Time           `gorm:"type:timestamptz;not null;index"       json:"scheduledDate"`
	ResponsibleWorkerID *int64              `gorm:"type:bigint;index"                     json:"responsibleWorkerId,omitempty"`
	WorkStartedAt       *time.Time          `gorm:"type:timestamptz"                      json:"workStartedAt,omitempty"`
	WorkCompletedAt     *time.Time          `gorm:"type:timestamptz"                      json:"workCompletedAt,omitempty"`
	GPSStartLatitude    decimal.NullDecimal `gorm:"type:numeric(10,7)"                    json:"gpsStartLatitude"`
	GPSStartLongitude   decimal.NullDecimal `gorm:"type:numeric(10,7)"                    json:"gpsStartLongitude"`
	GPSEndLatitude      decimal.NullDecimal `gorm:"type:numeric(10,7)"                    json:"gpsEndLatitude"`
	GPSEndLongitude     decimal.NullDecimal `gorm:"type:numeric(10,7)"                    json:"gpsEndLongitude"`
	SignatureWorker     *string             `gorm:"type:text"                             json:"signatureWorker,omitempty"`
	SignatureClient     *string             `gorm:"type:text"                             json:"signatureClient,omitempty"`
	Notes               string              `gorm:"type:text"                             json:"notes"`
	CreatedBy           int64               `gorm:"type:bigint;not null;index"            json:"createdBy"`

	Assignments []Assignment `gorm:"foreignKey:OrderID" json:"assignments,omitempty"`
	Areas       []OrderArea  `gorm:"foreignKey:OrderID" json:"areas,omitempty"`
}

func (o *Order) State() lifecycle.OrderState {
	return lifecycle.OrderState{
		ID:                  o.ID,
		Type:                o.OrderType,
		Status:              o.Status,
		ResponsibleWorkerID: o.ResponsibleWorkerID,
	}
}

// Assignment places one worker on one order. At most one row per order is
// the responsible worker, enforced by a partial unique index.
type Assignment struct {
	BaseModel
	OrderID       int64 `gorm:"type:bigint;not null;uniqueIndex:idx_assignments_order_worker" json:"orderId"`
	WorkerID      int64 `gorm:"type:bigint;not null;uniqueIndex:idx_assignments_order_worker;index" json:"workerId"`
	AssignedBy    int64 `gorm:"type:bigint;not null"                                          json:"assignedBy"`
	IsResponsible bool  `gorm:"type:bool;not null;default:false"                              json:"isResponsible"`
	Worker        *User `gorm:"foreignKey:WorkerID"                                           json:"worker,omitempty"`
}
