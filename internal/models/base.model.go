package models

import (
	"time"
)

type BaseModel struct {
	ID        int64     `gorm:"type:bigint;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"                       json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"                       json:"updatedAt"`
}
