package database

import (
	"fieldops/internal/models"
)

// ModelsToMigrate is ordered parents first so foreign keys resolve.
var ModelsToMigrate = []any{
	&models.User{},
	&models.CleaningArea{},
	&models.Order{},
	&models.Assignment{},
	&models.OrderArea{},
	&models.DailyReport{},
	&models.Photo{},
	&models.Notification{},
	&models.ActivityLog{},
}
