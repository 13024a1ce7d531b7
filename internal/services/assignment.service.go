package services

import (
	"context"

	"fieldops/internal/lifecycle"
	. "fieldops/internal/models"
	"fieldops/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// AssignmentService owns the worker set of an order and its single
// responsible worker.
type AssignmentService struct {
	assignmentRepo repositories.AssignmentRepository
	userRepo       repositories.UserRepository
	log            logger.Logger
}

func NewAssignmentService(repos repositories.Repository) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: repos.Assignment,
		userRepo:       repos.User,
		log:            logger.New("assignmentService"),
	}
}

// ValidateSet checks the shape of a requested assignment set.
func ValidateSet(workerIDs []int64, responsibleID int64) error {
	if len(workerIDs) == 0 {
		return lifecycle.Invalid("at least one worker is required")
	}

	seen := make(map[int64]bool, len(workerIDs))
	for _, id := range workerIDs {
		if id <= 0 {
			return lifecycle.Invalid("worker id %d is invalid", id)
		}
		if seen[id] {
			return lifecycle.Invalid("worker %d is listed twice", id)
		}
		seen[id] = true
	}

	if !seen[responsibleID] {
		return lifecycle.Invalid("responsible worker %d must be one of the assigned workers", responsibleID)
	}
	return nil
}

// ResolveWorkers loads every worker and rejects unknown, inactive or
// non-worker accounts with NotFound.
func (s *AssignmentService) ResolveWorkers(
	ctx context.Context,
	tx *gorm.DB,
	workerIDs []int64,
) ([]*User, error) {
	users, err := s.userRepo.GetByIDs(ctx, tx, workerIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	resolved := make([]*User, 0, len(workerIDs))
	for _, id := range workerIDs {
		u, ok := byID[id]
		if !ok || !u.IsAssignableWorker() {
			return nil, lifecycle.NotFound("worker %d not found or inactive", id)
		}
		resolved = append(resolved, u)
	}
	return resolved, nil
}

// Replace swaps the assignment set and returns the workers that were not on
// the order before.
func (s *AssignmentService) Replace(
	ctx context.Context,
	tx *gorm.DB,
	orderID int64,
	workerIDs []int64,
	responsibleID int64,
	actorID int64,
) ([]int64, error) {
	previous, err := s.assignmentRepo.ListByOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	existing := make(map[int64]bool, len(previous))
	for _, a := range previous {
		existing[a.WorkerID] = true
	}

	rows := make([]*Assignment, 0, len(workerIDs))
	added := make([]int64, 0, len(workerIDs))
	for _, id := range workerIDs {
		rows = append(rows, &Assignment{
			OrderID:       orderID,
			WorkerID:      id,
			AssignedBy:    actorID,
			IsResponsible: id == responsibleID,
		})
		if !existing[id] {
			added = append(added, id)
		}
	}

	if err := s.assignmentRepo.Replace(ctx, tx, orderID, rows); err != nil {
		return nil, err
	}

	s.log.Function("Replace").Info(
		"assignments replaced",
		"orderID", orderID,
		"workers", len(rows),
		"responsibleID", responsibleID,
	)
	return added, nil
}

func (s *AssignmentService) IsAssigned(
	ctx context.Context,
	tx *gorm.DB,
	orderID, workerID int64,
) (bool, error) {
	return s.assignmentRepo.IsAssigned(ctx, tx, orderID, workerID)
}
