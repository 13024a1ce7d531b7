package ordersController

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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DEFAULT_CANCEL_REASON = "No reason provided"

type OrdersController struct {
	orderRepo          repositories.OrderRepository
	orderCache         repositories.OrderCacheRepository
	transactionService services.Transactor
	orderNumberService *services.OrderNumberService
	assignmentService  *services.AssignmentService
	areaService        *services.AreaService
	activityService    *services.ActivityService
	notifications      *services.NotificationService
	db                 *gorm.DB
	now                func() time.Time
	log                logger.Logger
}

type CreateOrderRequest struct {
	OrderType     lifecycle.OrderType `json:"orderType"     validate:"required,oneof=regular post_construction"`
	ClientName    string              `json:"clientName"    validate:"required,min=2,max=200"`
	ClientEmail   *string             `json:"clientEmail"   validate:"omitempty,email"`
	ClientPhone   string              `json:"clientPhone"   validate:"required,max=50,phone"`
	Address       string              `json:"address"       validate:"required,min=5,max=500"`
	City          *string             `json:"city"          validate:"omitempty,min=2,max=100"`
	ScheduledDate string              `json:"scheduledDate" validate:"required"`
	Notes         *string             `json:"notes"         validate:"omitempty,max=5000"`
}

type AssignWorkersRequest struct {
	WorkerIDs           []int64 `json:"workerIds"           validate:"min=1,unique,dive,gte=1"`
	ResponsibleWorkerID int64   `json:"responsibleWorkerId" validate:"gte=1"`
}

type AssignAreasRequest struct {
	AreaIDs []int64 `json:"areaIds" validate:"min=1,unique,dive,gte=1"`
}

type StartWorkRequest struct {
	Latitude  *float64 `json:"latitude"  validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type CompleteOrderRequest struct {
	EndLatitude     *float64 `json:"gpsEndLatitude"  validate:"omitempty,gte=-90,lte=90"`
	EndLongitude    *float64 `json:"gpsEndLongitude" validate:"omitempty,gte=-180,lte=180"`
	SignatureWorker *string  `json:"signatureWorker"`
	SignatureClient *string  `json:"signatureClient"`
}

type CancelOrderRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

// EditOrderRequest carries partial client and schedule changes. Required
// fields may be changed but not blanked; email and city clear on "".
type EditOrderRequest struct {
	ClientName    *string `json:"clientName"    validate:"omitnil,min=2,max=200"`
	ClientEmail   *string `json:"clientEmail"   validate:"omitempty,email"`
	ClientPhone   *string `json:"clientPhone"   validate:"omitnil,max=50,phone"`
	Address       *string `json:"address"       validate:"omitnil,min=5,max=500"`
	City          *string `json:"city"          validate:"omitempty,min=2,max=100"`
	ScheduledDate *string `json:"scheduledDate"`
	Notes         *string `json:"notes"         validate:"omitnil,max=5000"`
}

type OrdersControllerInterface interface {
	CreateOrder(
		ctx context.Context,
		principal lifecycle.Principal,
		request *CreateOrderRequest,
	) (*Order, error)
	GetOrder(ctx context.Context, principal lifecycle.Principal, orderID int64) (*Order, error)
	AssignWorkers(
		ctx context.Context,
		principal lifecycle.Principal,
		orderID int64,
		request *AssignWorkersRequest,
	) (*Order, error)
	AssignAreas(
		ctx context.Context,
		principal lifecycle.Principal,
		orderID int64,
		request *AssignAreasRequest,
	) (*Order, error)
	StartWork(
		ctx context.Context,
		principal lifecycle.Principal,
		orderID int64,
		request *StartWorkRequest,
	) (*Order, error)
	CompleteArea(
		ctx context.Context,
		principal lifecycle.Principal,
		orderID, orderAreaID int64,
	) (*Order, error)
	CompleteOrder(
		ctx context.Context,
		principal lifecycle.Principal,
		orderID int64,
		request *CompleteOrderRequest,
	) (*Order, error)
	CancelOrder(
		ctx context.Context,
		principal lifecycle.Principal,
		orderID int64,
		request *CancelOrderRequest,
	) (*Order, error)
	EditOrder(
		ctx context.Context,
		principal lifecycle.Principal,
		orderID int64,
		request *EditOrderRequest,
	) (*Order, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) OrdersControllerInterface {
	return &OrdersController{
		orderRepo:          repos.Order,
		orderCache:         repos.OrderCache,
		transactionService: services.Transaction,
		orderNumberService: services.OrderNumber,
		assignmentService:  services.Assignment,
		areaService:        services.Area,
		activityService:    services.Activity,
		notifications:      services.Notification,
		db:                 db.SQL,
		now:                time.Now,
		log:                logger.New("ordersController"),
	}
}

func (c *OrdersController) CreateOrder(
	ctx context.Context,
	principal lifecycle.Principal,
	request *CreateOrderRequest,
) (*Order, error) {
	log := c.log.TraceFromContext(ctx).Function("CreateOrder")

	if err := principal.Require(lifecycle.CapCreateOrder); err != nil {
		return nil, utils.LogFailure(log, "create order rejected", err, "userID", principal.ID)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	scheduled, err := utils.ParseScheduledDate(request.ScheduledDate)
	if err != nil {
		return nil, err
	}

	order := &Order{
		OrderType:     request.OrderType,
		Status:        lifecycle.StatusPending,
		ClientName:    utils.CleanText(request.ClientName),
		ClientEmail:   utils.CleanOptional(request.ClientEmail),
		ClientPhone:   utils.CleanText(request.ClientPhone),
		Address:       utils.CleanText(request.Address),
		City:          utils.CleanOptional(request.City),
		ScheduledDate: scheduled,
		CreatedBy:     principal.ID,
	}
	if request.Notes != nil {
		order.Notes = utils.CleanText(*request.Notes)
	}

	// Each attempt is its own insert so a duplicate number does not poison
	// an enclosing transaction.
	_, err = c.orderNumberService.Reserve(ctx, c.db, func(number string) error {
		order.OrderNumber = number
		return c.orderRepo.Create(ctx, c.db, order)
	})
	if err != nil {
		return nil, utils.LogFailure(log, "failed to create order", err, "userID", principal.ID)
	}

	c.activityService.Record(
		ctx,
		c.db,
		principal.ID,
		&order.ID,
		ActionOrderCreated,
		fmt.Sprintf("Created %s order %s", order.OrderType, order.OrderNumber),
		map[string]any{"orderNumber": order.OrderNumber, "orderType": order.OrderType},
	)

	log.Info("Order created", "orderID", order.ID, "orderNumber", order.OrderNumber, "userID", principal.ID)

	return c.publish(ctx, order.ID)
}

func (c *OrdersController) GetOrder(
	ctx context.Context,
	principal lifecycle.Principal,
	orderID int64,
) (*Order, error) {
	log := c.log.TraceFromContext(ctx).Function("GetOrder")

	order, ok := c.orderCache.Get(ctx, orderID)
	if !ok {
		var err error
		order, err = c.orderRepo.GetSnapshot(ctx, c.db, orderID)
		if err != nil {
			return nil, utils.LogFailure(log, "failed to load order", err, "orderID", orderID)
		}
		c.orderCache.Set(ctx, order)
	}

	if !canView(principal, order) {
		return nil, utils.LogFailure(
			log,
			"order view rejected",
			lifecycle.Forbidden("order %d is not assigned to you", orderID),
			"userID", principal.ID,
		)
	}

	return order, nil
}

// canView allows the supervisor tier and any worker on the assignment set.
func canView(principal lifecycle.Principal, order *Order) bool {
	if principal.Can(lifecycle.CapViewAnyOrder) {
		return true
	}
	for _, a := range order.Assignments {
		if a.WorkerID == principal.ID {
			return true
		}
	}
	return false
}

func (c *OrdersController) AssignWorkers(
	ctx context.Context,
	principal lifecycle.Principal,
	orderID int64,
	request *AssignWorkersRequest,
) (*Order, error) {
	log := c.log.TraceFromContext(ctx).Function("AssignWorkers")

	if err := principal.Require(lifecycle.CapAssignWorkers); err != nil {
		return nil, utils.LogFailure(log, "assignment rejected", err, "userID", principal.ID)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if err := services.ValidateSet(request.WorkerIDs, request.ResponsibleWorkerID); err != nil {
		return nil, err
	}

	var added []int64
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		order, err := c.orderRepo.GetByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := lifecycle.GuardAssign(order.State()); err != nil {
			return err
		}

		if _, err := c.assignmentService.ResolveWorkers(ctx, tx, request.WorkerIDs); err != nil {
			return err
		}

		ok, err := c.orderRepo.ConditionalUpdate(
			ctx,
			tx,
			orderID,
			repositories.OrderCondition{Statuses: lifecycle.AssignableStatuses()},
			map[string]any{
				"status":                lifecycle.StatusAssigned,
				"responsible_worker_id": request.ResponsibleWorkerID,
			},
		)
		if err != nil {
			return err
		}
		if !ok {
			return c.diagnose(ctx, tx, orderID, func(order *Order) error {
				return lifecycle.GuardAssign(order.State())
			})
		}

		added, err = c.assignmentService.Replace(
			ctx,
			tx,
			orderID,
			request.WorkerIDs,
			request.ResponsibleWorkerID,
			principal.ID,
		)
		return err
	})
	if err != nil {
		return nil, utils.LogFailure(log, "failed to assign workers", err, "orderID", orderID)
	}

	c.activityService.Record(
		ctx,
		c.db,
		principal.ID,
		&orderID,
		ActionWorkersAssigned,
		fmt.Sprintf("Assigned %d worker(s)", len(request.WorkerIDs)),
		map[string]any{
			"workerIds":           request.WorkerIDs,
			"responsibleWorkerId": request.ResponsibleWorkerID,
			"added":               added,
		},
	)

	order, err := c.publish(ctx, orderID)
	if err != nil {
		return nil, err
	}

	c.notifications.WorkerAssigned(ctx, order, added, principal.ID)

	log.Info("Workers assigned", "orderID", orderID, "workers", len(request.WorkerIDs), "added", len(added))
	return order, nil
}

func (c *OrdersController) AssignAreas(
	ctx context.Context,
	principal lifecycle.Principal,
	orderID int64,
	request *AssignAreasRequest,
) (*Order, error) {
	log := c.log.TraceFromContext(ctx).Function("AssignAreas")

	if err := principal.Require(lifecycle.CapAssignAreas); err != nil {
		return nil, utils.LogFailure(log, "area assignment rejected", err, "userID", principal.ID)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		order, err := c.orderRepo.LockByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := lifecycle.GuardAssignAreas(order.State()); err != nil {
			return err
		}

		_, err = c.areaService.Replace(ctx, tx, orderID, request.AreaIDs)
		return err
	})
	if err != nil {
		return nil, utils.LogFailure(log, "failed to assign areas", err, "orderID", orderID)
	}

	c.activityService.Record(
		ctx,
		c.db,
		principal.ID,
		&orderID,
		ActionAreasAssigned,
		fmt.Sprintf("Assigned %d area(s)", len(request.AreaIDs)),
		map[string]any{"areaIds": request.AreaIDs},
	)

	return c.publish(ctx, orderID)
}

func (c *OrdersController) StartWork(
	ctx context.Context,
	principal lifecycle.Principal,
	orderID int64,
	request *StartWorkRequest,
) (*Order, error) {
	log := c.log.TraceFromContext(ctx).Function("StartWork")

	if err := principal.Require(lifecycle.CapStartWork); err != nil {
		return nil, utils.LogFailure(log, "start rejected", err, "userID", principal.ID)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	ok, err := c.orderRepo.ConditionalUpdate(
		ctx,
		c.db,
		orderID,
		repositories.OrderCondition{
			Statuses:         []lifecycle.Status{lifecycle.StatusAssigned},
			AssignedWorkerID: &principal.ID,
		},
		map[string]any{
			"status":              lifecycle.StatusInProgress,
			"work_started_at":     c.now().UTC(),
			"gps_start_latitude":  coordinate(*request.Latitude),
			"gps_start_longitude": coordinate(*request.Longitude),
		},
	)
	if err == nil && !ok {
		err = c.diagnose(ctx, c.db, orderID, func(order *Order) error {
			assigned, err := c.assignmentService.IsAssigned(ctx, c.db, orderID, principal.ID)
			if err != nil {
				return err
			}
			return lifecycle.GuardStart(order.State(), assigned)
		})
	}
	if err != nil {
		return nil, utils.LogFailure(log, "failed to start work", err, "orderID", orderID, "workerID", principal.ID)
	}

	c.activityService.Record(
		ctx,
		c.db,
		principal.ID,
		&orderID,
		ActionWorkStarted,
		"Work started",
		map[string]any{"latitude": *request.Latitude, "longitude": *request.Longitude},
	)

	log.Info("Work started", "orderID", orderID, "workerID", principal.ID)
	return c.publish(ctx, orderID)
}

func (c *OrdersController) CompleteArea(
	ctx context.Context,
	principal lifecycle.Principal,
	orderID, orderAreaID int64,
) (*Order, error) {
	log := c.log.TraceFromContext(ctx).Function("CompleteArea")

	if err := principal.Require(lifecycle.CapCompleteArea); err != nil {
		return nil, utils.LogFailure(log, "area completion rejected", err, "userID", principal.ID)
	}

	err := c.areaService.Complete(ctx, c.db, orderID, orderAreaID, principal.ID, c.now().UTC())
	if err != nil {
		return nil, utils.LogFailure(
			log,
			"failed to complete area",
			err,
			"orderID", orderID,
			"orderAreaID", orderAreaID,
		)
	}

	c.activityService.Record(
		ctx,
		c.db,
		principal.ID,
		&orderID,
		ActionAreaCompleted,
		fmt.Sprintf("Completed area %d", orderAreaID),
		map[string]any{"orderAreaId": orderAreaID},
	)

	return c.publish(ctx, orderID)
}

func (c *OrdersController) CompleteOrder(
	ctx context.Context,
	principal lifecycle.Principal,
	orderID int64,
	request *CompleteOrderRequest,
) (*Order, error) {
	log := c.log.TraceFromContext(ctx).Function("CompleteOrder")

	if err := principal.Require(lifecycle.CapCompleteOrder); err != nil {
		return nil, utils.LogFailure(log, "completion rejected", err, "userID", principal.ID)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if (request.EndLatitude == nil) != (request.EndLongitude == nil) {
		return nil, lifecycle.Invalid("gpsEndLatitude and gpsEndLongitude must be sent together")
	}

	updates := map[string]any{
		"status":            lifecycle.StatusCompleted,
		"work_completed_at": c.now().UTC(),
	}
	if request.EndLatitude != nil {
		updates["gps_end_latitude"] = coordinate(*request.EndLatitude)
		updates["gps_end_longitude"] = coordinate(*request.EndLongitude)
	}
	if signature := utils.CleanOptional(request.SignatureWorker); signature != nil {
		updates["signature_worker"] = *signature
	}
	if signature := utils.CleanOptional(request.SignatureClient); signature != nil {
		updates["signature_client"] = *signature
	}

	ok, err := c.orderRepo.ConditionalUpdate(
		ctx,
		c.db,
		orderID,
		repositories.OrderCondition{
			Statuses:            []lifecycle.Status{lifecycle.StatusInProgress},
			ResponsibleWorkerID: &principal.ID,
			AreasCompleted:      true,
		},
		updates,
	)
	if err == nil && !ok {
		err = c.diagnose(ctx, c.db, orderID, func(order *Order) error {
			done, err := c.areaService.AllCompleted(ctx, c.db, orderID)
			if err != nil {
				return err
			}
			return lifecycle.GuardComplete(order.State(), principal.ID, done)
		})
	}
	if err != nil {
		return nil, utils.LogFailure(log, "failed to complete order", err, "orderID", orderID, "workerID", principal.ID)
	}

	c.activityService.Record(ctx, c.db, principal.ID, &orderID, ActionOrderCompleted, "Order completed", nil)

	order, err := c.publish(ctx, orderID)
	if err != nil {
		return nil, err
	}

	c.notifications.OrderCompleted(ctx, order)

	log.Info("Order completed", "orderID", orderID, "workerID", principal.ID)
	return order, nil
}

func (c *OrdersController) CancelOrder(
	ctx context.Context,
	principal lifecycle.Principal,
	orderID int64,
	request *CancelOrderRequest,
) (*Order, error) {
	log := c.log.TraceFromContext(ctx).Function("CancelOrder")

	if err := principal.Require(lifecycle.CapCancelOrder); err != nil {
		return nil, utils.LogFailure(log, "cancel rejected", err, "userID", principal.ID)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	reason := DEFAULT_CANCEL_REASON
	if cleaned := utils.CleanOptional(request.Reason); cleaned != nil {
		reason = *cleaned
	}

	// The row lock keeps the notes append from racing an edit.
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		order, err := c.orderRepo.LockByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := lifecycle.GuardCancel(order.State()); err != nil {
			return err
		}

		ok, err := c.orderRepo.ConditionalUpdate(
			ctx,
			tx,
			orderID,
			repositories.OrderCondition{Statuses: lifecycle.ActiveStatuses()},
			map[string]any{
				"status": lifecycle.StatusCancelled,
				"notes":  order.Notes + "\n\nCANCELLED: " + reason,
			},
		)
		if err != nil {
			return err
		}
		if !ok {
			return c.diagnose(ctx, tx, orderID, func(order *Order) error {
				return lifecycle.GuardCancel(order.State())
			})
		}
		return nil
	})
	if err != nil {
		return nil, utils.LogFailure(log, "failed to cancel order", err, "orderID", orderID)
	}

	c.activityService.Record(
		ctx,
		c.db,
		principal.ID,
		&orderID,
		ActionOrderCancelled,
		"Order cancelled: "+reason,
		map[string]any{"reason": reason},
	)

	log.Info("Order cancelled", "orderID", orderID, "userID", principal.ID)
	return c.publish(ctx, orderID)
}

func (c *OrdersController) EditOrder(
	ctx context.Context,
	principal lifecycle.Principal,
	orderID int64,
	request *EditOrderRequest,
) (*Order, error) {
	log := c.log.TraceFromContext(ctx).Function("EditOrder")

	if err := principal.Require(lifecycle.CapEditOrder); err != nil {
		return nil, utils.LogFailure(log, "edit rejected", err, "userID", principal.ID)
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	updates, err := editUpdates(request)
	if err != nil {
		return nil, err
	}

	ok, err := c.orderRepo.ConditionalUpdate(
		ctx,
		c.db,
		orderID,
		repositories.OrderCondition{Statuses: lifecycle.ActiveStatuses()},
		updates,
	)
	if err == nil && !ok {
		err = c.diagnose(ctx, c.db, orderID, func(order *Order) error {
			return lifecycle.GuardEdit(order.State())
		})
	}
	if err != nil {
		return nil, utils.LogFailure(log, "failed to edit order", err, "orderID", orderID)
	}

	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	c.activityService.Record(
		ctx,
		c.db,
		principal.ID,
		&orderID,
		ActionOrderUpdated,
		"Order details updated",
		map[string]any{"fields": fields},
	)

	return c.publish(ctx, orderID)
}

func editUpdates(request *EditOrderRequest) (map[string]any, error) {
	updates := map[string]any{}

	if request.ClientName != nil {
		updates["client_name"] = utils.CleanText(*request.ClientName)
	}
	if request.ClientPhone != nil {
		updates["client_phone"] = utils.CleanText(*request.ClientPhone)
	}
	if request.Address != nil {
		updates["address"] = utils.CleanText(*request.Address)
	}
	if request.Notes != nil {
		updates["notes"] = utils.CleanText(*request.Notes)
	}
	if request.ClientEmail != nil {
		updates["client_email"] = optionalColumn(request.ClientEmail)
	}
	if request.City != nil {
		updates["city"] = optionalColumn(request.City)
	}
	if request.ScheduledDate != nil {
		scheduled, err := utils.ParseScheduledDate(*request.ScheduledDate)
		if err != nil {
			return nil, err
		}
		updates["scheduled_date"] = scheduled
	}

	if len(updates) == 0 {
		return nil, lifecycle.Invalid("at least one field must be provided")
	}
	return updates, nil
}

// optionalColumn maps a blank value to NULL.
func optionalColumn(value *string) any {
	if cleaned := utils.CleanOptional(value); cleaned != nil {
		return *cleaned
	}
	return nil
}

// diagnose runs after a conditional write touched no rows. It re-reads the
// order and reports the failed precondition; if every guard now passes the
// order changed between the write and the read.
func (c *OrdersController) diagnose(
	ctx context.Context,
	tx *gorm.DB,
	orderID int64,
	guard func(order *Order) error,
) error {
	order, err := c.orderRepo.GetByID(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if err := guard(order); err != nil {
		return err
	}
	return lifecycle.Conflict("order %d changed concurrently, retry with fresh state", orderID)
}

// publish drops the cached snapshot, reloads it and announces the change.
func (c *OrdersController) publish(ctx context.Context, orderID int64) (*Order, error) {
	c.orderCache.Invalidate(ctx, orderID)

	order, err := c.orderRepo.GetSnapshot(ctx, c.db, orderID)
	if err != nil {
		return nil, c.log.Function("publish").Err("failed to reload order", err, "orderID", orderID)
	}

	c.notifications.OrderChanged(order)
	return order, nil
}

func coordinate(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value).Round(7)
}
