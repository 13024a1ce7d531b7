package services

import (
	"context"

	. "fieldops/internal/models"
	"fieldops/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActivityService struct {
	activityRepo repositories.ActivityRepository
	log          logger.Logger
}

func NewActivityService(repos repositories.Repository) *ActivityService {
	return &ActivityService{
		activityRepo: repos.Activity,
		log:          logger.New("activityService"),
	}
}

// Record writes an audit entry. Failures are logged and swallowed.
func (s *ActivityService) Record(
	ctx context.Context,
	tx *gorm.DB,
	actorID int64,
	orderID *int64,
	action Action,
	description string,
	details map[string]any,
) {
	entry := &ActivityLog{
		UserID:      actorID,
		OrderID:     orderID,
		Action:      action,
		Description: description,
	}
	if len(details) > 0 {
		entry.Details = datatypes.JSONMap(details)
	}

	if err := s.activityRepo.Create(ctx, tx, entry); err != nil {
		s.log.Function("Record").Warn("failed to record activity", "action", action, "error", err)
	}
}
