package services

import (
	"context"
	"time"

	"fieldops/internal/lifecycle"
	. "fieldops/internal/models"
	"fieldops/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DailyReportService gates one report per calendar date on post-construction
// orders.
type DailyReportService struct {
	reportRepo repositories.DailyReportRepository
	photoRepo  repositories.PhotoRepository
	log        logger.Logger
}

func NewDailyReportService(repos repositories.Repository) *DailyReportService {
	return &DailyReportService{
		reportRepo: repos.DailyReport,
		photoRepo:  repos.Photo,
		log:        logger.New("dailyReportService"),
	}
}

// ReportDay drops the time of day so two submissions on the same date collide.
func ReportDay(t time.Time) datatypes.Date {
	t = t.UTC()
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
}

func (s *DailyReportService) Create(
	ctx context.Context,
	tx *gorm.DB,
	orderID, workerID int64,
	date time.Time,
	description string,
	signature *string,
) (*DailyReport, error) {
	report := &DailyReport{
		OrderID:     orderID,
		ReportDate:  ReportDay(date),
		Description: description,
		Signature:   signature,
		CreatedBy:   workerID,
	}

	if err := s.reportRepo.Create(ctx, tx, report); err != nil {
		if lifecycle.Kind(err) == lifecycle.ErrConflict {
			return nil, lifecycle.Conflict(
				"order %d already has a report for %s",
				orderID,
				report.Day().Format(time.DateOnly),
			)
		}
		return nil, err
	}

	return report, nil
}

func (s *DailyReportService) Get(ctx context.Context, tx *gorm.DB, id int64) (*DailyReport, error) {
	return s.reportRepo.GetByID(ctx, tx, id)
}

// Update applies description and signature changes. Only the creator may edit.
func (s *DailyReportService) Update(
	ctx context.Context,
	tx *gorm.DB,
	report *DailyReport,
	principal lifecycle.Principal,
	description, signature *string,
) error {
	if report.CreatedBy != principal.ID {
		return lifecycle.Forbidden("only the author can edit report %d", report.ID)
	}

	updates := map[string]any{}
	if description != nil {
		updates["description"] = *description
		report.Description = *description
	}
	if signature != nil {
		updates["signature"] = *signature
		report.Signature = signature
	}
	if len(updates) == 0 {
		return lifecycle.Invalid("nothing to update")
	}

	return s.reportRepo.Update(ctx, tx, report.ID, updates)
}

// Delete removes a report together with its photos and returns how many
// photos went with it.
func (s *DailyReportService) Delete(ctx context.Context, tx *gorm.DB, report *DailyReport) (int64, error) {
	removed, err := s.photoRepo.DeleteByReport(ctx, tx, report.ID)
	if err != nil {
		return 0, err
	}

	if err := s.reportRepo.Delete(ctx, tx, report.ID); err != nil {
		return 0, err
	}

	s.log.Function("Delete").Info("daily report deleted", "reportID", report.ID, "photos", removed)
	return removed, nil
}
