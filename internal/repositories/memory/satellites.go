package memory

import (
	"context"
	"time"

	"fieldops/internal/lifecycle"
	"fieldops/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type userRepository struct{ s *Store }

func (r *userRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, lifecycle.NotFound("user not found")
	}
	out := *user
	return &out, nil
}

func (r *userRepository) GetByIDs(_ context.Context, _ *gorm.DB, ids []int64) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.User{}
	for _, id := range ids {
		if user, ok := r.s.users[id]; ok {
			c := *user
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *userRepository) ClearCache(context.Context, int64) error {
	return nil
}

type assignmentRepository struct{ s *Store }

func (r *assignmentRepository) ListByOrder(_ context.Context, _ *gorm.DB, orderID int64) ([]*models.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Assignment
	for _, id := range sortedIDs(r.s.assignments) {
		if a := r.s.assignments[id]; a.OrderID == orderID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *assignmentRepository) IsAssigned(_ context.Context, _ *gorm.DB, orderID, workerID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.isAssigned(orderID, workerID), nil
}

func (r *assignmentRepository) Replace(
	ctx context.Context,
	_ *gorm.DB,
	orderID int64,
	assignments []*models.Assignment,
) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := map[int64]bool{}
	responsible := 0
	for _, a := range assignments {
		if seen[a.WorkerID] {
			return lifecycle.Conflict("assignment already exists")
		}
		seen[a.WorkerID] = true
		if a.IsResponsible {
			responsible++
		}
	}
	if responsible > 1 {
		return lifecycle.Conflict("assignment already exists")
	}

	for id, a := range r.s.assignments {
		if a.OrderID == orderID {
			write(ctx, r.s.assignments, id, func() { delete(r.s.assignments, id) })
		}
	}
	for _, a := range assignments {
		a.ID = 0
		a.OrderID = orderID
		r.s.stamp(&a.BaseModel)
		c := *a
		c.Worker = nil
		write(ctx, r.s.assignments, a.ID, func() { r.s.assignments[c.ID] = &c })
	}
	return nil
}

type cleaningAreaRepository struct{ s *Store }

func (r *cleaningAreaRepository) GetActiveByIDs(_ context.Context, _ *gorm.DB, ids []int64) ([]*models.CleaningArea, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.CleaningArea{}
	for _, id := range ids {
		if area, ok := r.s.cleaningAreas[id]; ok && area.IsActive {
			c := *area
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *cleaningAreaRepository) Upsert(_ context.Context, _ *gorm.DB, areas []*models.CleaningArea) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, area := range areas {
		for _, existing := range r.s.cleaningAreas {
			if existing.Name == area.Name {
				area.ID = existing.ID
			}
		}
		if area.ID == 0 {
			r.s.stamp(&area.BaseModel)
		}
		c := *area
		r.s.cleaningAreas[area.ID] = &c
	}
	return nil
}

type orderAreaRepository struct{ s *Store }

func (r *orderAreaRepository) ListByOrder(_ context.Context, _ *gorm.DB, orderID int64) ([]*models.OrderArea, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.OrderArea
	for _, id := range sortedIDs(r.s.orderAreas) {
		if a := r.s.orderAreas[id]; a.OrderID == orderID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *orderAreaRepository) GetByID(_ context.Context, _ *gorm.DB, orderID, id int64) (*models.OrderArea, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	area, ok := r.s.orderAreas[id]
	if !ok || area.OrderID != orderID {
		return nil, lifecycle.NotFound("order area not found")
	}
	c := *area
	return &c, nil
}

func (r *orderAreaRepository) Replace(ctx context.Context, _ *gorm.DB, orderID int64, areas []*models.OrderArea) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := map[int64]bool{}
	for _, a := range areas {
		if seen[a.CleaningAreaID] {
			return lifecycle.Conflict("order area already exists")
		}
		seen[a.CleaningAreaID] = true
	}

	for id, a := range r.s.orderAreas {
		if a.OrderID == orderID {
			write(ctx, r.s.orderAreas, id, func() { delete(r.s.orderAreas, id) })
		}
	}
	for _, a := range areas {
		a.ID = 0
		a.OrderID = orderID
		r.s.stamp(&a.BaseModel)
		c := *a
		c.CleaningArea = nil
		write(ctx, r.s.orderAreas, a.ID, func() { r.s.orderAreas[c.ID] = &c })
	}
	return nil
}

func (r *orderAreaRepository) MarkCompleted(
	ctx context.Context,
	_ *gorm.DB,
	orderID, id, workerID int64,
	at time.Time,
) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	area, ok := r.s.orderAreas[id]
	if !ok || area.OrderID != orderID || area.IsCompleted {
		return false, nil
	}
	order, ok := r.s.orders[orderID]
	if !ok || order.Status != lifecycle.StatusInProgress || !r.s.isAssigned(orderID, workerID) {
		return false, nil
	}

	next := *area
	next.IsCompleted = true
	next.CompletedBy = &workerID
	next.CompletedAt = &at
	next.UpdatedAt = time.Now().UTC()
	write(ctx, r.s.orderAreas, id, func() { r.s.orderAreas[id] = &next })
	return true, nil
}

func (r *orderAreaRepository) CountIncomplete(_ context.Context, _ *gorm.DB, orderID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.openAreas(orderID), nil
}

type dailyReportRepository struct{ s *Store }

func (r *dailyReportRepository) Create(ctx context.Context, _ *gorm.DB, report *models.DailyReport) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.reports {
		if existing.OrderID == report.OrderID && existing.Day().Equal(report.Day()) {
			return lifecycle.Conflict("daily report for this date already exists")
		}
	}

	r.s.stamp(&report.BaseModel)
	c := *report
	c.Photos = nil
	write(ctx, r.s.reports, c.ID, func() { r.s.reports[c.ID] = &c })
	return nil
}

func (r *dailyReportRepository) GetByID(_ context.Context, _ *gorm.DB, id int64) (*models.DailyReport, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	report, ok := r.s.reports[id]
	if !ok {
		return nil, lifecycle.NotFound("daily report not found")
	}
	c := *report
	return &c, nil
}

func (r *dailyReportRepository) Update(ctx context.Context, _ *gorm.DB, id int64, updates map[string]any) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	report, ok := r.s.reports[id]
	if !ok {
		return lifecycle.NotFound("daily report not found")
	}

	next := *report
	for key, value := range updates {
		switch key {
		case "description":
			next.Description, _ = value.(string)
		case "signature":
			setString(&next.Signature, value)
		case "report_date":
			if d, ok := value.(datatypes.Date); ok {
				next.ReportDate = d
			}
		}
	}
	next.UpdatedAt = time.Now().UTC()
	write(ctx, r.s.reports, id, func() { r.s.reports[id] = &next })
	return nil
}

func (r *dailyReportRepository) Delete(ctx context.Context, _ *gorm.DB, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reports[id]; !ok {
		return lifecycle.NotFound("daily report not found")
	}
	write(ctx, r.s.reports, id, func() { delete(r.s.reports, id) })
	return nil
}

type photoRepository struct{ s *Store }

func (r *photoRepository) CountInScope(_ context.Context, _ *gorm.DB, orderID int64, reportID *int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, p := range r.s.photos {
		switch {
		case reportID != nil:
			if p.DailyReportID != nil && *p.DailyReportID == *reportID {
				count++
			}
		case p.OrderID == orderID:
			count++
		}
	}
	return count, nil
}

func (r *photoRepository) Create(ctx context.Context, _ *gorm.DB, photo *models.Photo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&photo.BaseModel)
	c := *photo
	write(ctx, r.s.photos, c.ID, func() { r.s.photos[c.ID] = &c })
	return nil
}

func (r *photoRepository) GetByID(_ context.Context, _ *gorm.DB, id int64) (*models.Photo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	photo, ok := r.s.photos[id]
	if !ok {
		return nil, lifecycle.NotFound("photo not found")
	}
	c := *photo
	return &c, nil
}

func (r *photoRepository) UpdateCaption(ctx context.Context, _ *gorm.DB, id int64, caption *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	photo, ok := r.s.photos[id]
	if !ok {
		return lifecycle.NotFound("photo not found")
	}
	next := *photo
	next.Caption = caption
	write(ctx, r.s.photos, id, func() { r.s.photos[id] = &next })
	return nil
}

func (r *photoRepository) Delete(ctx context.Context, _ *gorm.DB, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.photos[id]; !ok {
		return lifecycle.NotFound("photo not found")
	}
	write(ctx, r.s.photos, id, func() { delete(r.s.photos, id) })
	return nil
}

func (r *photoRepository) DeleteByReport(ctx context.Context, _ *gorm.DB, reportID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var deleted int64
	for id, p := range r.s.photos {
		if p.DailyReportID != nil && *p.DailyReportID == reportID {
			write(ctx, r.s.photos, id, func() { delete(r.s.photos, id) })
			deleted++
		}
	}
	return deleted, nil
}

type notificationRepository struct{ s *Store }

func (r *notificationRepository) Create(_ context.Context, _ *gorm.DB, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&n.BaseModel)
	c := *n
	r.s.notifications = append(r.s.notifications, &c)
	return nil
}

type activityRepository struct{ s *Store }

func (r *activityRepository) Create(_ context.Context, _ *gorm.DB, entry *models.ActivityLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stamp(&entry.BaseModel)
	c := *entry
	r.s.activity = append(r.s.activity, &c)
	return nil
}
