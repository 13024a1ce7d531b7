package reportsController

import (
	"context"
	"fmt"
	"time"

	"fieldops/internal/database"
	"fieldops/internal/lifecycle"
	. "fieldops/internal/models"
	"fieldops/internal/repositories"
	"fieldops/internal/services"
	"fieldops/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type ReportsController struct {
	orderRepo          repositories.OrderRepository
	transactionService services.Transactor
	assignmentService  *services.AssignmentService
	reportService      *services.DailyReportService
	activityService    *services.ActivityService
	db                 *gorm.DB
	log                logger.Logger
}

type CreateReportRequest struct {
	ReportDate  string  `json:"reportDate"  validate:"required"`
	Description string  `json:"description" validate:"required,min=10,max=2000"`
	Signature   *string `json:"signature"`
}

type UpdateReportRequest struct {
	Description *string `json:"description" validate:"omitnil,min=10,max=2000"`
	Signature   *string `json:"signature"`
}

type DeleteReportResponse struct {
	ReportID      int64 `json:"reportId"`
	PhotosRemoved int64 `json:"photosRemoved"`
}

type ReportsControllerInterface interface {
	CreateReport(
		ctx context.Context,
		principal lifecycle.Principal,
		orderID int64,
		request *CreateReportRequest,
	) (*DailyReport, error)
	UpdateReport(
		ctx context.Context,
		principal lifecycle.Principal,
		reportID int64,
		request *UpdateReportRequest,
	) (*DailyReport, error)
	DeleteReport(
		ctx context.Context,
		principal lifecycle.Principal,
		reportID int64,
	) (*DeleteReportResponse, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) ReportsControllerInterface {
	return &ReportsController{
		orderRepo:          repos.Order,
		transactionService: services.Transaction,
		assignmentService:  services.Assignment,
		reportService:      services.DailyReport,
		activityService:    services.Activity,
		db:                 db.SQL,
		log:                logger.New("reportsController"),
	}
}

func (c *ReportsController) CreateReport(
	ctx context.Context,
	principal lifecycle.Principal,
	orderID int64,
	request *CreateReportRequest,
) (*DailyReport, error) {
	log := c.log.TraceFromContext(ctx).Function("CreateReport")

	if err := principal.Require(lifecycle.CapWriteReport); err != nil {
		return nil, utils.LogFailure(log, "report rejected", err, "userID", principal.ID)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	date, err := utils.ParseCalendarDate(request.ReportDate)
	if err != nil {
		return nil, err
	}

	var report *DailyReport
	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		order, err := c.orderRepo.LockByID(ctx, tx, orderID)
		if err != nil {
			return err
		}

		assigned, err := c.assignmentService.IsAssigned(ctx, tx, orderID, principal.ID)
		if err != nil {
			return err
		}
		if err := lifecycle.GuardCreateReport(order.State(), assigned); err != nil {
			return err
		}

		report, err = c.reportService.Create(
			ctx,
			tx,
			orderID,
			principal.ID,
			date,
			utils.CleanText(request.Description),
			utils.CleanOptional(request.Signature),
		)
		return err
	})
	if err != nil {
		return nil, utils.LogFailure(log, "failed to create daily report", err, "orderID", orderID)
	}

	c.activityService.Record(
		ctx,
		c.db,
		principal.ID,
		&orderID,
		ActionReportCreated,
		fmt.Sprintf("Daily report for %s", date.Format(time.DateOnly)),
		map[string]any{"reportId": report.ID, "reportDate": date.Format(time.DateOnly)},
	)

	log.Info("Daily report created", "orderID", orderID, "reportID", report.ID)
	return report, nil
}

func (c *ReportsController) UpdateReport(
	ctx context.Context,
	principal lifecycle.Principal,
	reportID int64,
	request *UpdateReportRequest,
) (*DailyReport, error) {
	log := c.log.TraceFromContext(ctx).Function("UpdateReport")

	if err := principal.Require(lifecycle.CapWriteReport); err != nil {
		return nil, utils.LogFailure(log, "report update rejected", err, "userID", principal.ID)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	var description *string
	if request.Description != nil {
		cleaned := utils.CleanText(*request.Description)
		description = &cleaned
	}
	signature := utils.CleanOptional(request.Signature)
	if description == nil && signature == nil {
		return nil, lifecycle.Invalid("description or signature is required")
	}

	var report *DailyReport
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		report, err = c.lockParent(ctx, tx, reportID)
		if err != nil {
			return err
		}
		return c.reportService.Update(ctx, tx, report, principal, description, signature)
	})
	if err != nil {
		return nil, utils.LogFailure(log, "failed to update daily report", err, "reportID", reportID)
	}

	c.activityService.Record(
		ctx,
		c.db,
		principal.ID,
		&report.OrderID,
		ActionReportUpdated,
		"Daily report updated",
		map[string]any{"reportId": report.ID},
	)

	return report, nil
}

func (c *ReportsController) DeleteReport(
	ctx context.Context,
	principal lifecycle.Principal,
	reportID int64,
) (*DeleteReportResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("DeleteReport")

	if err := principal.Require(lifecycle.CapDeleteReport); err != nil {
		return nil, utils.LogFailure(log, "report delete rejected", err, "userID", principal.ID)
	}

	var (
		report  *DailyReport
		removed int64
	)
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		report, err = c.lockParent(ctx, tx, reportID)
		if err != nil {
			return err
		}
		removed, err = c.reportService.Delete(ctx, tx, report)
		return err
	})
	if err != nil {
		return nil, utils.LogFailure(log, "failed to delete daily report", err, "reportID", reportID)
	}

	c.activityService.Record(
		ctx,
		c.db,
		principal.ID,
		&report.OrderID,
		ActionReportDeleted,
		fmt.Sprintf("Daily report for %s deleted", report.Day().Format(time.DateOnly)),
		map[string]any{"reportId": report.ID, "photosRemoved": removed},
	)

	return &DeleteReportResponse{ReportID: report.ID, PhotosRemoved: removed}, nil
}

// lockParent loads the report and locks its order, rejecting writes once the
// order is terminal.
func (c *ReportsController) lockParent(ctx context.Context, tx *gorm.DB, reportID int64) (*DailyReport, error) {
	report, err := c.reportService.Get(ctx, tx, reportID)
	if err != nil {
		return nil, err
	}

	order, err := c.orderRepo.LockByID(ctx, tx, report.OrderID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.GuardSatelliteWrite(order.State()); err != nil {
		return nil, err
	}
	return report, nil
}
