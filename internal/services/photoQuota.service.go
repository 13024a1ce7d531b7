package services

import (
	"context"

	"fieldops/internal/lifecycle"
	. "fieldops/internal/models"
	"fieldops/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// PhotoQuotaService admits photos against the ceiling of the order type. Admit
// must run in the same transaction as the insert, after the order row has been
// locked, so concurrent uploads are counted one at a time.
type PhotoQuotaService struct {
	photoRepo repositories.PhotoRepository
	log       logger.Logger
}

func NewPhotoQuotaService(repos repositories.Repository) *PhotoQuotaService {
	return &PhotoQuotaService{
		photoRepo: repos.Photo,
		log:       logger.New("photoQuotaService"),
	}
}

func (s *PhotoQuotaService) Admit(
	ctx context.Context,
	tx *gorm.DB,
	order *Order,
	reportID *int64,
	assigned bool,
) error {
	existing, err := s.photoRepo.CountInScope(ctx, tx, order.ID, reportID)
	if err != nil {
		return err
	}

	if err := lifecycle.GuardAdmitPhoto(order.State(), assigned, int(existing)); err != nil {
		if lifecycle.Kind(err) == lifecycle.ErrConflict {
			s.log.Function("Admit").Warn(
				"photo rejected",
				"orderID", order.ID,
				"reportID", reportID,
				"existing", existing,
				"reason", err.Error(),
			)
		}
		return err
	}
	return nil
}

// AdmitAndCreate runs the admission check and the insert back to back.
func (s *PhotoQuotaService) AdmitAndCreate(
	ctx context.Context,
	tx *gorm.DB,
	order *Order,
	photo *Photo,
	assigned bool,
) error {
	if err := s.Admit(ctx, tx, order, photo.DailyReportID, assigned); err != nil {
		return err
	}
	return s.photoRepo.Create(ctx, tx, photo)
}
