package seeders

import (
	"errors"

	"github.com/shashiranjanraj/shirtshop/app/models"
	"github.com/shashiranjanraj/shirtshop/config"
	"github.com/shashiranjanraj/shirtshop/pkg/auth"
	"github.com/shashiranjanraj/shirtshop/pkg/logger"
	"gorm.io/gorm"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the administrator named by ADMIN_USERNAME with
// ADMIN_PASSWORD. An existing account with that name is left untouched; a
// non-admin one is never promoted.
func SeedAdmin(db *gorm.DB) error {
	username := config.AdminUsername()
	password := config.Get("ADMIN_PASSWORD", "")

	var existing models.User
	err := db.Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		if existing.Role != auth.RoleAdmin {
			logger.Warn("seeder: ADMIN_USERNAME belongs to a non-admin account, not promoting",
				"username", username, "user_id", existing.ID)
		}
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if password == "" {
		logger.Warn("seeder: ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return db.Create(&models.User{Username: username, Password: hash, Role: auth.RoleAdmin}).Error
}
