package initialize

import (
	"fieldops/config"
	. "fieldops/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeCleaningAreas(db, log); err != nil {
		return log.Err("failed to initialize cleaning areas", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializeCleaningAreas(db *gorm.DB, log logger.Logger) error {
	areas := getCleaningAreasData()

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&areas)
	if result.Error != nil {
		return log.Err("failed to create cleaning areas", result.Error)
	}

	log.Info("Cleaning area catalog initialized", "inserted", result.RowsAffected, "total", len(areas))
	return nil
}

func describe(s string) *string {
	return &s
}

func getCleaningAreasData() []CleaningArea {
	return []CleaningArea{
		{Name: "Kitchen", Description: describe("Counters, appliances, cabinets and floor"), IsActive: true},
		{Name: "Bathrooms", Description: describe("Fixtures, tiles, mirrors and floor"), IsActive: true},
		{Name: "Living areas", Description: describe("Dusting, surfaces and floors"), IsActive: true},
		{Name: "Bedrooms", Description: describe("Dusting, surfaces and floors"), IsActive: true},
		{Name: "Windows", Description: describe("Interior glass, frames and sills"), IsActive: true},
		{Name: "Hallways and stairs", Description: describe("Rails, steps and landings"), IsActive: true},
		{Name: "Offices", Description: describe("Desks, bins and floors"), IsActive: true},
		{Name: "Exterior entrance", Description: describe("Doors, mats and porch"), IsActive: true},
	}
}
