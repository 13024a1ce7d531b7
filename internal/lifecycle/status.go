// Package lifecycle holds the order state machine: statuses, order types,
// the transition table, role capabilities and the guards evaluated before
// every conditional write.
package lifecycle

type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// transitions lists every legal edge. Anything missing is rejected.
var transitions = map[Status][]Status{
	StatusPending:    {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusAssigned, StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ActiveStatuses are the statuses that still accept mutations.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusAssigned, StatusInProgress}
}

// AssignableStatuses are the statuses from which workers or areas may be (re)assigned.
func AssignableStatuses() []Status {
	return []Status{StatusPending, StatusAssigned}
}

type OrderType string

const (
	OrderTypeRegular          OrderType = "regular"
	OrderTypePostConstruction OrderType = "post_construction"
)

const (
	RegularPhotoCeiling          = 15
	PostConstructionPhotoCeiling = 50
)

func (t OrderType) String() string {
	return string(t)
}

func (t OrderType) IsValid() bool {
	return t == OrderTypeRegular || t == OrderTypePostConstruction
}

// PhotoCeiling is the maximum number of photos in one admission scope.
func (t OrderType) PhotoCeiling() int {
	if t == OrderTypePostConstruction {
		return PostConstructionPhotoCeiling
	}
	return RegularPhotoCeiling
}

func (t OrderType) TracksAreas() bool {
	return t == OrderTypeRegular
}

func (t OrderType) TracksDailyReports() bool {
	return t == OrderTypePostConstruction
}
