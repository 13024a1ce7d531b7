package repositories

import (
	"context"
	"time"

	"fieldops/internal/lifecycle"
	. "fieldops/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderCondition is the precondition a conditional update must observe at
// write time. Zero fields are not checked.
type OrderCondition struct {
	Statuses            []lifecycle.Status
	Types               []lifecycle.OrderType
	AssignedWorkerID    *int64
	ResponsibleWorkerID *int64
	AreasCompleted      bool
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *Order) error
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*Order, error)
	GetSnapshot(ctx context.Context, tx *gorm.DB, id int64) (*Order, error)
	LockByID(ctx context.Context, tx *gorm.DB, id int64) (*Order, error)
	LastOrderNumber(ctx context.Context, tx *gorm.DB, prefix string) (string, error)
	ConditionalUpdate(
		ctx context.Context,
		tx *gorm.DB,
		id int64,
		cond OrderCondition,
		updates map[string]any,
	) (bool, error)
	ListScheduledBetween(
		ctx context.Context,
		tx *gorm.DB,
		from, to time.Time,
		status lifecycle.Status,
	) ([]*Order, error)
}

type orderRepository struct {
	log logger.Logger
}

func NewOrderRepository() OrderRepository {
	return &orderRepository{
		log: logger.New("orderRepository"),
	}
}

func (r *orderRepository) Create(ctx context.Context, tx *gorm.DB, order *Order) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(order).Error; err != nil {
		if err = translate(err, "order number "+order.OrderNumber); isTyped(err) {
			return err
		}
		return log.Err("failed to create order", err, "orderNumber", order.OrderNumber)
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*Order, error) {
	var order Order
	if err := tx.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &order, nil
}

func (r *orderRepository) GetSnapshot(ctx context.Context, tx *gorm.DB, id int64) (*Order, error) {
	var order Order
	err := tx.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_responsible DESC, worker_id ASC")
		}).
		Preload("Assignments.Worker").
		Preload("Areas", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Areas.CleaningArea").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "order")
	}
	return &order, nil
}

// LockByID reads the order row with FOR UPDATE. Only meaningful inside a transaction.
func (r *orderRepository) LockByID(ctx context.Context, tx *gorm.DB, id int64) (*Order, error) {
	var order Order
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "order")
	}
	return &order, nil
}

func (r *orderRepository) LastOrderNumber(
	ctx context.Context,
	tx *gorm.DB,
	prefix string,
) (string, error) {
	log := r.log.Function("LastOrderNumber")

	var numbers []string
	err := tx.WithContext(ctx).
		Model(&Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("length(order_number) DESC, order_number DESC").
		Limit(1).
		Pluck("order_number", &numbers).Error
	if err != nil {
		return "", log.Err("failed to read last order number", err, "prefix", prefix)
	}

	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

func (r *orderRepository) ConditionalUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id int64,
	cond OrderCondition,
	updates map[string]any,
) (bool, error) {
	log := r.log.Function("ConditionalUpdate")

	query := tx.WithContext(ctx).Model(&Order{}).Where("id = ?", id)

	if len(cond.Statuses) > 0 {
		query = query.Where("status IN ?", cond.Statuses)
	}
	if len(cond.Types) > 0 {
		query = query.Where("order_type IN ?", cond.Types)
	}
	if cond.AssignedWorkerID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM assignments WHERE assignments.order_id = orders.id AND assignments.worker_id = ?)",
			*cond.AssignedWorkerID,
		)
	}
	if cond.ResponsibleWorkerID != nil {
		query = query.Where("responsible_worker_id = ?", *cond.ResponsibleWorkerID)
	}
	if cond.AreasCompleted {
		query = query.Where(
			"(order_type <> ? OR NOT EXISTS (SELECT 1 FROM order_areas WHERE order_areas.order_id = orders.id AND order_areas.is_completed = false))",
			lifecycle.OrderTypeRegular,
		)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return false, log.Err("failed to update order", result.Error, "orderID", id)
	}

	return result.RowsAffected > 0, nil
}

func (r *orderRepository) ListScheduledBetween(
	ctx context.Context,
	tx *gorm.DB,
	from, to time.Time,
	status lifecycle.Status,
) ([]*Order, error) {
	log := r.log.Function("ListScheduledBetween")

	var orders []*Order
	err := tx.WithContext(ctx).
		Where("scheduled_date >= ? AND scheduled_date < ? AND status = ?", from, to, status).
		Order("scheduled_date ASC").
		Find(&orders).Error
	if err != nil {
		return nil, log.Err("failed to list scheduled orders", err, "from", from, "to", to)
	}

	return orders, nil
}
