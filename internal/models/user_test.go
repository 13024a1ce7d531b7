package models

import (
	"testing"
	"time"

	"fieldops/internal/lifecycle"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestUser_IsAssignableWorker(t *testing.T) {
	tests := []struct {
		name     string
		role     lifecycle.Role
		active   bool
		expected bool
	}{
		{
			name:     "Active worker",
			role:     lifecycle.RoleWorker,
			active:   true,
			expected: true,
		},
		{
			name:     "Inactive worker",
			role:     lifecycle.RoleWorker,
			active:   false,
			expected: false,
		},
		{
			name:     "Active supervisor",
			role:     lifecycle.RoleSupervisor,
			active:   true,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role, IsActive: tt.active}
			assert.Equal(t, tt.expected, user.IsAssignableWorker())
		})
	}
}

func TestUser_Principal(t *testing.T) {
	user := &User{BaseModel: BaseModel{ID: 42}, Role: lifecycle.RoleManager}
	assert.Equal(t, lifecycle.Principal{ID: 42, Role: lifecycle.RoleManager}, user.Principal())
}

func TestOrder_State(t *testing.T) {
	responsible := int64(9)
	order := &Order{
		BaseModel:           BaseModel{ID: 3},
		OrderType:           lifecycle.OrderTypeRegular,
		Status:              lifecycle.StatusAssigned,
		ResponsibleWorkerID: &responsible,
	}

	state := order.State()
	assert.Equal(t, int64(3), state.ID)
	assert.Equal(t, lifecycle.StatusAssigned, state.Status)
	assert.True(t, state.IsResponsible(9))
	assert.False(t, state.IsResponsible(10))
}

func TestDailyReport_Day(t *testing.T) {
	at := time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC)
	report := &DailyReport{ReportDate: datatypes.Date(at)}

	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), report.Day())
}
