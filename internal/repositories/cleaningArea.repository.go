package repositories

import (
	"context"

	. "fieldops/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type CleaningAreaRepository interface {
	GetActiveByIDs(ctx context.Context, tx *gorm.DB, ids []int64) ([]*CleaningArea, error)
	// Upsert is used by the seeder to load the area catalog.
	Upsert(ctx context.Context, tx *gorm.DB, areas []*CleaningArea) error
}

type cleaningAreaRepository struct {
	log logger.Logger
}

func NewCleaningAreaRepository() CleaningAreaRepository {
	return &cleaningAreaRepository{
		log: logger.New("cleaningAreaRepository"),
	}
}

func (r *cleaningAreaRepository) GetActiveByIDs(
	ctx context.Context,
	tx *gorm.DB,
	ids []int64,
) ([]*CleaningArea, error) {
	log := r.log.Function("GetActiveByIDs")

	if len(ids) == 0 {
		return []*CleaningArea{}, nil
	}

	var areas []*CleaningArea
	err := tx.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&areas).Error
	if err != nil {
		return nil, log.Err("failed to load cleaning areas", err, "ids", ids)
	}

	return areas, nil
}

func (r *cleaningAreaRepository) Upsert(
	ctx context.Context,
	tx *gorm.DB,
	areas []*CleaningArea,
) error {
	log := r.log.Function("Upsert")

	for _, area := range areas {
		err := tx.WithContext(ctx).
			Where(CleaningArea{Name: area.Name}).
			Assign(CleaningArea{Description: area.Description, IsActive: area.IsActive}).
			FirstOrCreate(area).Error
		if err != nil {
			return log.Err("failed to upsert cleaning area", err, "name", area.Name)
		}
	}

	return nil
}
