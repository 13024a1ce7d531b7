package repositories

import (
	"context"

	. "fieldops/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	ListByOrder(ctx context.Context, tx *gorm.DB, orderID int64) ([]*Assignment, error)
	IsAssigned(ctx context.Context, tx *gorm.DB, orderID, workerID int64) (bool, error)
	// Replace swaps the whole assignment set of an order. Call inside a transaction.
	Replace(ctx context.Context, tx *gorm.DB, orderID int64, assignments []*Assignment) error
}

type assignmentRepository struct {
	log logger.Logger
}

func NewAssignmentRepository() AssignmentRepository {
	return &assignmentRepository{
		log: logger.New("assignmentRepository"),
	}
}

func (r *assignmentRepository) ListByOrder(
	ctx context.Context,
	tx *gorm.DB,
	orderID int64,
) ([]*Assignment, error) {
	log := r.log.Function("ListByOrder")

	var assignments []*Assignment
	err := tx.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("is_responsible DESC, worker_id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, log.Err("failed to list assignments", err, "orderID", orderID)
	}

	return assignments, nil
}

func (r *assignmentRepository) IsAssigned(
	ctx context.Context,
	tx *gorm.DB,
	orderID, workerID int64,
) (bool, error) {
	log := r.log.Function("IsAssigned")

	var count int64
	err := tx.WithContext(ctx).
		Model(&Assignment{}).
		Where("order_id = ? AND worker_id = ?", orderID, workerID).
		Count(&count).Error
	if err != nil {
		return false, log.Err(
			"failed to check assignment",
			err,
			"orderID", orderID,
			"workerID", workerID,
		)
	}

	return count > 0, nil
}

func (r *assignmentRepository) Replace(
	ctx context.Context,
	tx *gorm.DB,
	orderID int64,
	assignments []*Assignment,
) error {
	log := r.log.Function("Replace")

	db := tx.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&Assignment{}).Error; err != nil {
		return log.Err("failed to clear assignments", err, "orderID", orderID)
	}

	if len(assignments) == 0 {
		return nil
	}

	for _, assignment := range assignments {
		assignment.OrderID = orderID
	}

	if err := db.Create(&assignments).Error; err != nil {
		if err = translate(err, "assignment"); isTyped(err) {
			return err
		}
		return log.Err("failed to insert assignments", err, "orderID", orderID)
	}

	return nil
}
