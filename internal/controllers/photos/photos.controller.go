package photosController

import (
	"context"

	"fieldops/internal/database"
	"fieldops/internal/lifecycle"
	. "fieldops/internal/models"
	"fieldops/internal/repositories"
	"fieldops/internal/services"
	"fieldops/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type PhotosController struct {
	orderRepo          repositories.OrderRepository
	photoRepo          repositories.PhotoRepository
	transactionService services.Transactor
	assignmentService  *services.AssignmentService
	reportService      *services.DailyReportService
	photoQuotaService  *services.PhotoQuotaService
	activityService    *services.ActivityService
	db                 *gorm.DB
	log                logger.Logger
}

type UploadPhotoRequest struct {
	PhotoURL      string  `json:"photoUrl"      validate:"required,url,max=2000"`
	ThumbnailURL  *string `json:"thumbnailUrl"  validate:"omitempty,url,max=2000"`
	Caption       *string `json:"caption"       validate:"omitempty,max=500"`
	DailyReportID *int64  `json:"dailyReportId" validate:"omitnil,gte=1"`
}

type UpdateCaptionRequest struct {
	Caption *string `json:"caption" validate:"omitempty,max=500"`
}

type PhotosControllerInterface interface {
	UploadPhoto(
		ctx context.Context,
		principal lifecycle.Principal,
		orderID int64,
		request *UploadPhotoRequest,
	) (*Photo, error)
	UpdateCaption(
		ctx context.Context,
		principal lifecycle.Principal,
		photoID int64,
		request *UpdateCaptionRequest,
	) (*Photo, error)
	DeletePhoto(ctx context.Context, principal lifecycle.Principal, photoID int64) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) PhotosControllerInterface {
	return &PhotosController{
		orderRepo:          repos.Order,
		photoRepo:          repos.Photo,
		transactionService: services.Transaction,
		assignmentService:  services.Assignment,
		reportService:      services.DailyReport,
		photoQuotaService:  services.PhotoQuota,
		activityService:    services.Activity,
		db:                 db.SQL,
		log:                logger.New("photosController"),
	}
}

// UploadPhoto records the metadata of an uploaded photo. The order row stays
// locked from the count to the insert so parallel uploads cannot overshoot
// the ceiling.
func (c *PhotosController) UploadPhoto(
	ctx context.Context,
	principal lifecycle.Principal,
	orderID int64,
	request *UploadPhotoRequest,
) (*Photo, error) {
	log := c.log.TraceFromContext(ctx).Function("UploadPhoto")

	if err := principal.Require(lifecycle.CapUploadPhoto); err != nil {
		return nil, utils.LogFailure(log, "upload rejected", err, "userID", principal.ID)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	photo := &Photo{
		OrderID:       orderID,
		DailyReportID: request.DailyReportID,
		PhotoURL:      utils.CleanText(request.PhotoURL),
		ThumbnailURL:  utils.CleanOptional(request.ThumbnailURL),
		Caption:       utils.CleanOptional(request.Caption),
		UploadedBy:    principal.ID,
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		order, err := c.orderRepo.LockByID(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if photo.DailyReportID != nil {
			report, err := c.reportService.Get(ctx, tx, *photo.DailyReportID)
			if err != nil {
				return err
			}
			if report.OrderID != orderID {
				return lifecycle.NotFound("daily report %d not found on order %d", report.ID, orderID)
			}
		}

		assigned, err := c.assignmentService.IsAssigned(ctx, tx, orderID, principal.ID)
		if err != nil {
			return err
		}

		return c.photoQuotaService.AdmitAndCreate(ctx, tx, order, photo, assigned)
	})
	if err != nil {
		return nil, utils.LogFailure(log, "failed to admit photo", err, "orderID", orderID, "userID", principal.ID)
	}

	c.activityService.Record(
		ctx,
		c.db,
		principal.ID,
		&orderID,
		ActionPhotoUploaded,
		"Photo uploaded",
		map[string]any{"photoId": photo.ID, "dailyReportId": photo.DailyReportID},
	)

	return photo, nil
}

func (c *PhotosController) UpdateCaption(
	ctx context.Context,
	principal lifecycle.Principal,
	photoID int64,
	request *UpdateCaptionRequest,
) (*Photo, error) {
	log := c.log.TraceFromContext(ctx).Function("UpdateCaption")

	if err := principal.Require(lifecycle.CapUploadPhoto); err != nil {
		return nil, utils.LogFailure(log, "caption update rejected", err, "userID", principal.ID)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	caption := utils.CleanOptional(request.Caption)

	var photo *Photo
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		photo, err = c.lockParent(ctx, tx, photoID)
		if err != nil {
			return err
		}
		if photo.UploadedBy != principal.ID {
			return lifecycle.Forbidden("only the uploader can edit photo %d", photoID)
		}

		if err := c.photoRepo.UpdateCaption(ctx, tx, photoID, caption); err != nil {
			return err
		}
		photo.Caption = caption
		return nil
	})
	if err != nil {
		return nil, utils.LogFailure(log, "failed to update caption", err, "photoID", photoID)
	}

	c.activityService.Record(
		ctx,
		c.db,
		principal.ID,
		&photo.OrderID,
		ActionPhotoCaptionUpdated,
		"Photo caption updated",
		map[string]any{"photoId": photoID},
	)

	return photo, nil
}

// DeletePhoto lets admins and supervisors remove any photo; everyone else
// only their own.
func (c *PhotosController) DeletePhoto(
	ctx context.Context,
	principal lifecycle.Principal,
	photoID int64,
) error {
	log := c.log.TraceFromContext(ctx).Function("DeletePhoto")

	if principal.ID <= 0 || !principal.Role.IsValid() {
		return lifecycle.Forbidden("unknown principal")
	}

	var photo *Photo
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		photo, err = c.lockParent(ctx, tx, photoID)
		if err != nil {
			return err
		}
		if photo.UploadedBy != principal.ID && !principal.Can(lifecycle.CapDeleteAnyPhoto) {
			return lifecycle.Forbidden("photo %d belongs to another user", photoID)
		}
		return c.photoRepo.Delete(ctx, tx, photoID)
	})
	if err != nil {
		return utils.LogFailure(log, "failed to delete photo", err, "photoID", photoID)
	}

	c.activityService.Record(
		ctx,
		c.db,
		principal.ID,
		&photo.OrderID,
		ActionPhotoDeleted,
		"Photo deleted",
		map[string]any{"photoId": photoID, "uploadedBy": photo.UploadedBy},
	)

	return nil
}

func (c *PhotosController) lockParent(ctx context.Context, tx *gorm.DB, photoID int64) (*Photo, error) {
	photo, err := c.photoRepo.GetByID(ctx, tx, photoID)
	if err != nil {
		return nil, err
	}

	order, err := c.orderRepo.LockByID(ctx, tx, photo.OrderID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.GuardSatelliteWrite(order.State()); err != nil {
		return nil, err
	}
	return photo, nil
}
