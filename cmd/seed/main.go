// Command seed creates the first admin account and the default settings row.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/config"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/identity"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	ctx := context.Background()
	staffRepo := postgresql.NewStaffRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password: ", err)
	}

	admin, err := staffRepo.Create(ctx, staff.Staff{
		EmployeeCode: getEnv("SEED_ADMIN_EMPLOYEE_ID", "ADMIN001"),
		Name:         getEnv("SEED_ADMIN_NAME", "Administrator"),
		Email:        strings.ToLower(getEnv("SEED_ADMIN_EMAIL", "admin@example.com")),
		PasswordHash: string(hash),
		Role:         identity.RoleAdmin,
		Position:     "Administrator",
		LeaveQuota:   staff.DefaultLeaveQuota,
	})
	switch {
	case err == nil:
		slog.Info("Seeded admin", "employee_code", admin.EmployeeCode)
	case errors.Is(err, staff.ErrEmployeeCodeExists), errors.Is(err, staff.ErrEmailExists):
		slog.Info("Admin already present, skipping")
	default:
		log.Fatal("Failed to create admin: ", err)
	}

	current, err := settingsRepo.Get(ctx)
	if err != nil {
		log.Fatal("Failed to read settings: ", err)
	}
	if current == nil {
		if _, err := settingsRepo.Upsert(ctx, settings.AdminSettings{
			AllowedIPs:     []string{},
			AllowedDevices: []string{},
		}); err != nil {
			log.Fatal("Failed to seed settings: ", err)
		}
		slog.Info("Seeded empty admin settings")
	}
}
