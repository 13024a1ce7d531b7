package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fieldops/internal/lifecycle"
	"fieldops/internal/models"
	"fieldops/internal/repositories"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderRepository struct{ s *Store }

func (r *orderRepository) Create(ctx context.Context, _ *gorm.DB, order *models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.orders {
		if existing.OrderNumber == order.OrderNumber {
			return lifecycle.Conflict("order number %s already exists", order.OrderNumber)
		}
	}

	r.s.stamp(&order.BaseModel)
	stored := *order
	stored.Assignments = nil
	stored.Areas = nil
	write(ctx, r.s.orders, order.ID, func() { r.s.orders[order.ID] = &stored })
	return nil
}

func (r *orderRepository) GetByID(_ context.Context, _ *gorm.DB, id int64) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok {
		return nil, lifecycle.NotFound("order not found")
	}
	out := *order
	return &out, nil
}

func (r *orderRepository) GetSnapshot(_ context.Context, _ *gorm.DB, id int64) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok {
		return nil, lifecycle.NotFound("order not found")
	}

	out := *order
	for _, aid := range sortedIDs(r.s.assignments) {
		a := *r.s.assignments[aid]
		if a.OrderID != id {
			continue
		}
		if worker, ok := r.s.users[a.WorkerID]; ok {
			w := *worker
			a.Worker = &w
		}
		out.Assignments = append(out.Assignments, a)
	}
	sort.SliceStable(out.Assignments, func(i, j int) bool {
		return out.Assignments[i].IsResponsible && !out.Assignments[j].IsResponsible
	})
	for _, aid := range sortedIDs(r.s.orderAreas) {
		a := *r.s.orderAreas[aid]
		if a.OrderID != id {
			continue
		}
		if area, ok := r.s.cleaningAreas[a.CleaningAreaID]; ok {
			c := *area
			a.CleaningArea = &c
		}
		out.Areas = append(out.Areas, a)
	}
	return &out, nil
}

func (r *orderRepository) LockByID(ctx context.Context, tx *gorm.DB, id int64) (*models.Order, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *orderRepository) LastOrderNumber(_ context.Context, _ *gorm.DB, prefix string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	last := ""
	for _, o := range r.s.orders {
		if !strings.HasPrefix(o.OrderNumber, prefix) {
			continue
		}
		if len(o.OrderNumber) > len(last) ||
			(len(o.OrderNumber) == len(last) && o.OrderNumber > last) {
			last = o.OrderNumber
		}
	}
	return last, nil
}

func (r *orderRepository) ConditionalUpdate(
	ctx context.Context,
	_ *gorm.DB,
	id int64,
	cond repositories.OrderCondition,
	updates map[string]any,
) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok || !r.s.matches(order, cond) {
		return false, nil
	}

	next := *order
	if err := applyOrderUpdates(&next, updates); err != nil {
		return false, err
	}
	next.UpdatedAt = time.Now().UTC()
	write(ctx, r.s.orders, id, func() { r.s.orders[id] = &next })
	return true, nil
}

func (r *orderRepository) ListScheduledBetween(
	_ context.Context,
	_ *gorm.DB,
	from, to time.Time,
	status lifecycle.Status,
) ([]*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*models.Order
	for _, id := range sortedIDs(r.s.orders) {
		o := r.s.orders[id]
		if o.Status == status && !o.ScheduledDate.Before(from) && o.ScheduledDate.Before(to) {
			c := *o
			out = append(out, &c)
		}
	}
	return out, nil
}

func applyOrderUpdates(o *models.Order, updates map[string]any) error {
	for key, value := range updates {
		var ok bool
		switch key {
		case "status":
			o.Status, ok = value.(lifecycle.Status)
		case "responsible_worker_id":
			var id int64
			id, ok = value.(int64)
			o.ResponsibleWorkerID = &id
		case "work_started_at":
			var at time.Time
			at, ok = value.(time.Time)
			o.WorkStartedAt = &at
		case "work_completed_at":
			var at time.Time
			at, ok = value.(time.Time)
			o.WorkCompletedAt = &at
		case "gps_start_latitude":
			ok = setDecimal(&o.GPSStartLatitude, value)
		case "gps_start_longitude":
			ok = setDecimal(&o.GPSStartLongitude, value)
		case "gps_end_latitude":
			ok = setDecimal(&o.GPSEndLatitude, value)
		case "gps_end_longitude":
			ok = setDecimal(&o.GPSEndLongitude, value)
		case "signature_worker":
			ok = setString(&o.SignatureWorker, value)
		case "signature_client":
			ok = setString(&o.SignatureClient, value)
		case "client_email":
			ok = setString(&o.ClientEmail, value)
		case "city":
			ok = setString(&o.City, value)
		case "notes":
			o.Notes, ok = value.(string)
		case "client_name":
			o.ClientName, ok = value.(string)
		case "client_phone":
			o.ClientPhone, ok = value.(string)
		case "address":
			o.Address, ok = value.(string)
		case "scheduled_date":
			o.ScheduledDate, ok = value.(time.Time)
		}
		if !ok {
			return fmt.Errorf("unsupported order update %s=%T", key, value)
		}
	}
	return nil
}

func setDecimal(field *decimal.NullDecimal, value any) bool {
	d, ok := value.(decimal.Decimal)
	*field = decimal.NullDecimal{Decimal: d, Valid: ok}
	return ok
}

func setString(field **string, value any) bool {
	if value == nil {
		*field = nil
		return true
	}
	s, ok := value.(string)
	*field = &s
	return ok
}

type orderCacheRepository struct{ s *Store }

func (r *orderCacheRepository) Get(_ context.Context, id int64) (*models.Order, bool) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, ok := r.s.orderCache[id]
	if !ok {
		return nil, false
	}
	out := *order
	return &out, true
}

func (r *orderCacheRepository) Set(_ context.Context, order *models.Order) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *order
	r.s.orderCache[order.ID] = &c
}

func (r *orderCacheRepository) Invalidate(_ context.Context, id int64) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.orderCache, id)
}
