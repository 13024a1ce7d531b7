package models

import (
	"time"

	"gorm.io/datatypes"
)

type DailyReport struct {
	BaseModel
	OrderID     int64          `gorm:"type:bigint;not null;uniqueIndex:idx_daily_reports_order_date" json:"orderId"`
	ReportDate  datatypes.Date `gorm:"not null;uniqueIndex:idx_daily_reports_order_date"             json:"reportDate"`
	Description string         `gorm:"type:text;not null"                                            json:"description"`
	Signature   *string        `gorm:"type:text"                                                     json:"signature,omitempty"`
	CreatedBy   int64          `gorm:"type:bigint;not null;index"                                    json:"createdBy"`
	Photos      []Photo        `gorm:"foreignKey:DailyReportID"                                      json:"photos,omitempty"`
}

// Day returns the report date truncated to midnight UTC.
func (r *DailyReport) Day() time.Time {
	t := time.Time(r.ReportDate).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
