package seed

import (
	"fmt"
	"time"

	"fieldops/config"
	"fieldops/internal/lifecycle"
	. "fieldops/internal/models"
	"fieldops/internal/repositories"
	"fieldops/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const DEV_TOKEN_TTL = 30 * 24 * time.Hour

// Seed creates one user per role and prints a bearer token for each so the
// API can be exercised locally.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	users := []User{
		{Name: "Ada Admin", Email: "admin@fieldops.local", Role: lifecycle.RoleAdmin, IsActive: true},
		{Name: "Sam Supervisor", Email: "supervisor@fieldops.local", Role: lifecycle.RoleSupervisor, IsActive: true},
		{Name: "Mia Manager", Email: "manager@fieldops.local", Role: lifecycle.RoleManager, IsActive: true},
		{Name: "Wes Worker", Email: "wes@fieldops.local", Role: lifecycle.RoleWorker, IsActive: true},
		{Name: "Kai Worker", Email: "kai@fieldops.local", Role: lifecycle.RoleWorker, IsActive: true},
		{Name: "Lou Worker", Email: "lou@fieldops.local", Role: lifecycle.RoleWorker, IsActive: true},
	}

	identity := services.NewIdentityService(repositories.Repository{}, config)

	for i := range users {
		user := &users[i]

		var existing User
		if err := db.First(&existing, "email = ?", user.Email).Error; err == nil {
			log.Info("User already exists", "email", user.Email)
			user = &existing
		} else if err := db.Create(user).Error; err != nil {
			return log.Err("failed to create user", err, "email", user.Email)
		}

		token, err := identity.IssueToken(user, DEV_TOKEN_TTL)
		if err != nil {
			return log.Err("failed to issue token", err, "email", user.Email)
		}
		fmt.Printf("%-10s %-28s %s\n", user.Role, user.Email, token)
	}

	return nil
}
