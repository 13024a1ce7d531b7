package repositories

import (
	"context"
	"errors"

	"fieldops/internal/constants"
	"fieldops/internal/database"
	. "fieldops/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// OrderCacheRepository holds read snapshots of orders. Every mutation must
// call Invalidate after it commits.
type OrderCacheRepository interface {
	Get(ctx context.Context, id int64) (*Order, bool)
	Set(ctx context.Context, order *Order)
	Invalidate(ctx context.Context, id int64)
}

type orderCacheRepository struct {
	db  database.DB
	log logger.Logger
}

func NewOrderCacheRepository(db database.DB) OrderCacheRepository {
	return &orderCacheRepository{
		db:  db,
		log: logger.New("orderCacheRepository"),
	}
}

func (r *orderCacheRepository) Get(ctx context.Context, id int64) (*Order, bool) {
	var order Order
	found, err := database.NewCacheBuilder(r.db.Cache.Order, id).
		WithHash(constants.OrderCacheHash).
		WithContext(ctx).
		Get(&order)
	if err != nil {
		if !errors.Is(err, database.ErrCacheDisabled) {
			r.log.Function("Get").Warn("failed to read order cache", "orderID", id, "error", err)
		}
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &order, true
}

func (r *orderCacheRepository) Set(ctx context.Context, order *Order) {
	err := database.NewCacheBuilder(r.db.Cache.Order, order.ID).
		WithHash(constants.OrderCacheHash).
		WithStruct(order).
		WithTTL(constants.OrderCacheExpiry).
		WithContext(ctx).
		Set()
	if err != nil && !errors.Is(err, database.ErrCacheDisabled) {
		r.log.Function("Set").Warn("failed to cache order", "orderID", order.ID, "error", err)
	}
}

func (r *orderCacheRepository) Invalidate(ctx context.Context, id int64) {
	err := database.NewCacheBuilder(r.db.Cache.Order, id).
		WithHash(constants.OrderCacheHash).
		WithContext(ctx).
		Delete()
	if err != nil && !errors.Is(err, database.ErrCacheDisabled) {
		r.log.Function("Invalidate").Warn("failed to invalidate order cache", "orderID", id, "error", err)
	}
}
