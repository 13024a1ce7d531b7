package models

type Photo struct {
	BaseModel
	OrderID       int64   `gorm:"type:bigint;not null;index" json:"orderId"`
	DailyReportID *int64  `gorm:"type:bigint;index"          json:"dailyReportId,omitempty"`
	PhotoURL      string  `gorm:"type:text;not null"         json:"photoUrl"`
	ThumbnailURL  *string `gorm:"type:text"                  json:"thumbnailUrl,omitempty"`
	Caption       *string `gorm:"type:text"                  json:"caption,omitempty"`
	UploadedBy    int64   `gorm:"type:bigint;not null"       json:"uploadedBy"`
}
