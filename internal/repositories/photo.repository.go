package repositories

import (
	"context"

	. "fieldops/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type PhotoRepository interface {
	// CountInScope counts photos attached to reportID when set, else to orderID.
	CountInScope(ctx context.Context, tx *gorm.DB, orderID int64, reportID *int64) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, photo *Photo) error
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*Photo, error)
	UpdateCaption(ctx context.Context, tx *gorm.DB, id int64, caption *string) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
	DeleteByReport(ctx context.Context, tx *gorm.DB, reportID int64) (int64, error)
}

type photoRepository struct {
	log logger.Logger
}

func NewPhotoRepository() PhotoRepository {
	return &photoRepository{
		log: logger.New("photoRepository"),
	}
}

func (r *photoRepository) CountInScope(
	ctx context.Context,
	tx *gorm.DB,
	orderID int64,
	reportID *int64,
) (int64, error) {
	log := r.log.Function("CountInScope")

	query := tx.WithContext(ctx).Model(&Photo{})
	if reportID != nil {
		query = query.Where("daily_report_id = ?", *reportID)
	} else {
		query = query.Where("order_id = ?", orderID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, log.Err("failed to count photos", err, "orderID", orderID)
	}

	return count, nil
}

func (r *photoRepository) Create(ctx context.Context, tx *gorm.DB, photo *Photo) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(photo).Error; err != nil {
		return log.Err("failed to create photo", err, "orderID", photo.OrderID)
	}

	return nil
}

func (r *photoRepository) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*Photo, error) {
	var photo Photo
	if err := tx.WithContext(ctx).First(&photo, "id = ?", id).Error; err != nil {
		return nil, translate(err, "photo")
	}
	return &photo, nil
}

func (r *photoRepository) UpdateCaption(
	ctx context.Context,
	tx *gorm.DB,
	id int64,
	caption *string,
) error {
	log := r.log.Function("UpdateCaption")

	result := tx.WithContext(ctx).
		Model(&Photo{}).
		Where("id = ?", id).
		Update("caption", caption)
	if result.Error != nil {
		return log.Err("failed to update caption", result.Error, "photoID", id)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "photo")
	}

	return nil
}

func (r *photoRepository) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	log := r.log.Function("Delete")

	result := tx.WithContext(ctx).Delete(&Photo{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete photo", result.Error, "photoID", id)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "photo")
	}

	return nil
}

func (r *photoRepository) DeleteByReport(
	ctx context.Context,
	tx *gorm.DB,
	reportID int64,
) (int64, error) {
	log := r.log.Function("DeleteByReport")

	result := tx.WithContext(ctx).Delete(&Photo{}, "daily_report_id = ?", reportID)
	if result.Error != nil {
		return 0, log.Err("failed to delete report photos", result.Error, "reportID", reportID)
	}

	return result.RowsAffected, nil
}
