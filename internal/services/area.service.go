package services

import (
	"context"
	"time"

	"fieldops/internal/lifecycle"
	. "fieldops/internal/models"
	"fieldops/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// AreaService tracks per-area completion on regular orders.
type AreaService struct {
	cleaningAreaRepo repositories.CleaningAreaRepository
	orderAreaRepo    repositories.OrderAreaRepository
	assignmentRepo   repositories.AssignmentRepository
	orderRepo        repositories.OrderRepository
	log              logger.Logger
}

func NewAreaService(repos repositories.Repository) *AreaService {
	return &AreaService{
		cleaningAreaRepo: repos.CleaningArea,
		orderAreaRepo:    repos.OrderArea,
		assignmentRepo:   repos.Assignment,
		orderRepo:        repos.Order,
		log:              logger.New("areaService"),
	}
}

// Replace resets the area set of an order. Every area starts incomplete.
func (s *AreaService) Replace(
	ctx context.Context,
	tx *gorm.DB,
	orderID int64,
	areaIDs []int64,
) ([]*OrderArea, error) {
	catalog, err := s.cleaningAreaRepo.GetActiveByIDs(ctx, tx, areaIDs)
	if err != nil {
		return nil, err
	}

	active := make(map[int64]bool, len(catalog))
	for _, area := range catalog {
		active[area.ID] = true
	}

	rows := make([]*OrderArea, 0, len(areaIDs))
	for _, id := range areaIDs {
		if !active[id] {
			return nil, lifecycle.NotFound("cleaning area %d not found or inactive", id)
		}
		rows = append(rows, &OrderArea{OrderID: orderID, CleaningAreaID: id})
	}

	if err := s.orderAreaRepo.Replace(ctx, tx, orderID, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Complete marks one order area done. A lost race or a repeated call is a
// Conflict; the caller decides whether that means "already done".
func (s *AreaService) Complete(
	ctx context.Context,
	tx *gorm.DB,
	orderID, orderAreaID, workerID int64,
	at time.Time,
) error {
	ok, err := s.orderAreaRepo.MarkCompleted(ctx, tx, orderID, orderAreaID, workerID, at)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	return s.diagnoseComplete(ctx, tx, orderID, orderAreaID, workerID)
}

// diagnoseComplete re-reads state after a rejected write to report why.
func (s *AreaService) diagnoseComplete(
	ctx context.Context,
	tx *gorm.DB,
	orderID, orderAreaID, workerID int64,
) error {
	order, err := s.orderRepo.GetByID(ctx, tx, orderID)
	if err != nil {
		return err
	}

	assigned, err := s.assignmentRepo.IsAssigned(ctx, tx, orderID, workerID)
	if err != nil {
		return err
	}
	if err := lifecycle.GuardCompleteArea(order.State(), assigned); err != nil {
		return err
	}

	area, err := s.orderAreaRepo.GetByID(ctx, tx, orderID, orderAreaID)
	if err != nil {
		return err
	}
	if area.IsCompleted {
		return lifecycle.Conflict("area %d is already completed", orderAreaID)
	}

	return lifecycle.Conflict("area %d changed concurrently", orderAreaID)
}

func (s *AreaService) AllCompleted(ctx context.Context, tx *gorm.DB, orderID int64) (bool, error) {
	open, err := s.orderAreaRepo.CountIncomplete(ctx, tx, orderID)
	if err != nil {
		return false, err
	}
	return open == 0, nil
}
