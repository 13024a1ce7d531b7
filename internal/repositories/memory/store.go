// Package memory is an in-process Order Store with the same conditional-write
// semantics as the postgres repositories. The transaction argument is ignored.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fieldops/internal/lifecycle"
	"fieldops/internal/models"
	"fieldops/internal/repositories"

	"gorm.io/gorm"
)

type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	nextID        int64
	users         map[int64]*models.User
	orders        map[int64]*models.Order
	assignments   map[int64]*models.Assignment
	cleaningAreas map[int64]*models.CleaningArea
	orderAreas    map[int64]*models.OrderArea
	reports       map[int64]*models.DailyReport
	photos        map[int64]*models.Photo
	notifications []*models.Notification
	activity      []*models.ActivityLog
	orderCache    map[int64]*models.Order
}

func NewStore() *Store {
	return &Store{
		users:         map[int64]*models.User{},
		orders:        map[int64]*models.Order{},
		assignments:   map[int64]*models.Assignment{},
		cleaningAreas: map[int64]*models.CleaningArea{},
		orderAreas:    map[int64]*models.OrderArea{},
		reports:       map[int64]*models.DailyReport{},
		photos:        map[int64]*models.Photo{},
		orderCache:    map[int64]*models.Order{},
	}
}

// Repository exposes the store through the repository interfaces.
func (s *Store) Repository() repositories.Repository {
	return repositories.Repository{
		User:         &userRepository{s},
		Order:        &orderRepository{s},
		OrderCache:   &orderCacheRepository{s},
		Assignment:   &assignmentRepository{s},
		CleaningArea: &cleaningAreaRepository{s},
		OrderArea:    &orderAreaRepository{s},
		DailyReport:  &dailyReportRepository{s},
		Photo:        &photoRepository{s},
		Notification: &notificationRepository{s},
		Activity:     &activityRepository{s},
	}
}

// Execute runs fn with every other transaction excluded. When fn fails only
// the rows fn wrote are put back; writes made outside the transaction stay.
func (s *Store) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	j := &journal{}
	if err := fn(context.WithValue(ctx, journalKey{}, j), nil); err != nil {
		s.mu.Lock()
		j.rollback()
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) AddUser(user *models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(&user.BaseModel)
	s.users[user.ID] = user
	return user
}

func (s *Store) AddCleaningArea(area *models.CleaningArea) *models.CleaningArea {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stamp(&area.BaseModel)
	s.cleaningAreas[area.ID] = area
	return area
}

func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		out = append(out, *n)
	}
	return out
}

func (s *Store) Activity() []models.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ActivityLog, 0, len(s.activity))
	for _, a := range s.activity {
		out = append(out, *a)
	}
	return out
}

// PhotoCount returns the persisted photos of an order across all scopes.
func (s *Store) PhotoCount(orderID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, p := range s.photos {
		if p.OrderID == orderID {
			count++
		}
	}
	return count
}

func (s *Store) stamp(base *models.BaseModel) {
	s.nextID++
	now := time.Now().UTC()
	if base.ID == 0 {
		base.ID = s.nextID
	} else if base.ID > s.nextID {
		s.nextID = base.ID
	}
	base.CreatedAt = now
	base.UpdatedAt = now
}

type journalKey struct{}

// journal collects the undo steps of one transaction. Ids are not handed out
// again on rollback, matching postgres sequences. Notifications and activity
// are only ever written outside transactions.
type journal struct {
	undo []func()
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// write runs fn against the row id of table. Inside a transaction it records
// how to put the row back. The undo step leaves the row alone when something
// outside the transaction replaced it since.
func write[T any](ctx context.Context, table map[int64]*T, id int64, fn func()) {
	before, existed := table[id]
	fn()

	j, ok := ctx.Value(journalKey{}).(*journal)
	if !ok {
		return
	}
	after, present := table[id]
	j.undo = append(j.undo, func() {
		current, ok := table[id]
		if ok != present || current != after {
			return
		}
		if existed {
			table[id] = before
		} else {
			delete(table, id)
		}
	})
}

func sortedIDs[T any](in map[int64]*T) []int64 {
	ids := make([]int64, 0, len(in))
	for id := range in {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Store) isAssigned(orderID, workerID int64) bool {
	for _, a := range s.assignments {
		if a.OrderID == orderID && a.WorkerID == workerID {
			return true
		}
	}
	return false
}

func (s *Store) openAreas(orderID int64) int64 {
	var count int64
	for _, a := range s.orderAreas {
		if a.OrderID == orderID && !a.IsCompleted {
			count++
		}
	}
	return count
}

func (s *Store) matches(o *models.Order, cond repositories.OrderCondition) bool {
	if len(cond.Statuses) > 0 && !containsStatus(cond.Statuses, o.Status) {
		return false
	}
	if len(cond.Types) > 0 {
		ok := false
		for _, t := range cond.Types {
			ok = ok || t == o.OrderType
		}
		if !ok {
			return false
		}
	}
	if cond.AssignedWorkerID != nil && !s.isAssigned(o.ID, *cond.AssignedWorkerID) {
		return false
	}
	if cond.ResponsibleWorkerID != nil &&
		(o.ResponsibleWorkerID == nil || *o.ResponsibleWorkerID != *cond.ResponsibleWorkerID) {
		return false
	}
	if cond.AreasCompleted && o.OrderType == lifecycle.OrderTypeRegular && s.openAreas(o.ID) > 0 {
		return false
	}
	return true
}

func containsStatus(statuses []lifecycle.Status, status lifecycle.Status) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
