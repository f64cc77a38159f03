package migrations

import (
	"context"
	"errors"
	"fmt"

	"restaurant_backend/internal/database"
	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repository"
	"restaurant_backend/internal/services"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seed describes the account created on an empty staff table.
type Seed struct {
	ManagerEmail    string
	ManagerPassword string
}

// Reset drops every table. Only init-db calls it, behind a flag.
func Reset(db *gorm.DB, log *zap.Logger) error {
	log.Warn("dropping existing tables")
	return db.Migrator().DropTable(models.All()...)
}

// RunMigrations migrates the schema and creates default data.
func RunMigrations(ctx context.Context, db *gorm.DB, seed Seed, log *zap.Logger) error {
	log.Info("running database migrations")
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	if err := createDefaultData(ctx, db, seed, log); err != nil {
		log.Warn("failed to create default data", zap.Error(err))
	}

	log.Info("database migrations completed")
	return nil
}

// createDefaultData creates the first manager so staff endpoints are usable.
func createDefaultData(ctx context.Context, db *gorm.DB, seed Seed, log *zap.Logger) error {
	if seed.ManagerEmail == "" || seed.ManagerPassword == "" {
		return nil
	}

	staffRepo := repository.NewStaffRepository(db)
	_, err := staffRepo.GetByEmail(ctx, seed.ManagerEmail)
	switch {
	case err == nil:
		log.Info("default manager already exists", zap.String("email", seed.ManagerEmail))
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	staffService := services.NewStaffService(staffRepo, repository.NewScheduleRepository(db), nil)
	rate := decimal.Zero
	_, err = staffService.Create(ctx, services.StaffInput{
		Name:     "Manager",
		Email:    seed.ManagerEmail,
		Password: seed.ManagerPassword,
		Role:     string(models.RoleManager),
		PayRates: &rate,
	})
	if err != nil {
		return fmt.Errorf("create default manager: %w", err)
	}

	log.Info("default manager created", zap.String("email", seed.ManagerEmail))
	return nil
}
