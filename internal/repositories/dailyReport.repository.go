package repositories

import (
	"context"

	. "fieldops/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type DailyReportRepository interface {
	// Create relies on the (order_id, report_date) unique index and returns a
	// Conflict when the date is already taken.
	Create(ctx context.Context, tx *gorm.DB, report *DailyReport) error
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*DailyReport, error)
	Update(ctx context.Context, tx *gorm.DB, id int64, updates map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
}

type dailyReportRepository struct {
	log logger.Logger
}

func NewDailyReportRepository() DailyReportRepository {
	return &dailyReportRepository{
		log: logger.New("dailyReportRepository"),
	}
}

func (r *dailyReportRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	report *DailyReport,
) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(report).Error; err != nil {
		if err = translate(err, "daily report for this date"); isTyped(err) {
			return err
		}
		return log.Err("failed to create daily report", err, "orderID", report.OrderID)
	}

	return nil
}

func (r *dailyReportRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id int64,
) (*DailyReport, error) {
	var report DailyReport
	if err := tx.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, translate(err, "daily report")
	}
	return &report, nil
}

func (r *dailyReportRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	id int64,
	updates map[string]any,
) error {
	log := r.log.Function("Update")

	result := tx.WithContext(ctx).
		Model(&DailyReport{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return log.Err("failed to update daily report", result.Error, "reportID", id)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "daily report")
	}

	return nil
}

func (r *dailyReportRepository) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	log := r.log.Function("Delete")

	result := tx.WithContext(ctx).Delete(&DailyReport{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete daily report", result.Error, "reportID", id)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "daily report")
	}

	return nil
}
