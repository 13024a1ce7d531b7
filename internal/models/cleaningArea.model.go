package models

import "time"

type CleaningArea struct {
	BaseModel
	Name        string  `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Description *string `gorm:"type:text"                      json:"description,omitempty"`
	IsActive    bool    `gorm:"type:bool;default:true"         json:"isActive"`
}

// OrderArea tracks completion of one catalog area on a regular order.
// Once IsCompleted is set it is never cleared.
type OrderArea struct {
	BaseModel
	OrderID        int64         `gorm:"type:bigint;not null;uniqueIndex:idx_order_areas_order_area" json:"orderId"`
	CleaningAreaID int64         `gorm:"type:bigint;not null;uniqueIndex:idx_order_areas_order_area" json:"cleaningAreaId"`
	IsCompleted    bool          `gorm:"type:bool;not null;default:false"                            json:"isCompleted"`
	CompletedBy    *int64        `gorm:"type:bigint"                                                 json:"completedBy,omitempty"`
	CompletedAt    *time.Time    `gorm:"type:timestamptz"                                            json:"completedAt,omitempty"`
	CleaningArea   *CleaningArea `gorm:"foreignKey:CleaningAreaID"                                   json:"cleaningArea,omitempty"`
}
