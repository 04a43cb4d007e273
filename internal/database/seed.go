package database

import (
	"log"

	"accesshub/internal/config"
	"accesshub/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the bootstrap admin account when none exists yet.
// Signup always produces Employee accounts, so without this there is no
// in-band way to obtain the first admin.
func SeedAdmin(db *gorm.DB, cfg config.Config) error {
	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.AdminPassword == "" {
		log.Println("No admin account exists and ADMIN_PASSWORD is not set; skipping admin seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: string(hashed),
		Role:     model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded bootstrap admin account %q", admin.Username)
	return nil
}
