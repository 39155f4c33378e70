package db

import (
	"github.com/adeliap/rotiku-backend/internal/app/model"
	"github.com/adeliap/rotiku-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Jenis{},
		&model.SubJenis{},
		&model.Product{},
		&model.ProductAddon{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Voucher{},
		&model.StoreSetting{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedStoreSetting(); err != nil {
		logger.Error("Failed to seed store setting", err)
		return err
	}

	if err := seedJenis(); err != nil {
		logger.Error("Failed to seed jenis", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedStoreSetting guarantees the single settings row exists. The store
// starts open.
func seedStoreSetting() error {
	var count int64
	if err := DB.Model(&model.StoreSetting{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return DB.Create(&model.StoreSetting{Closed: false}).Error
}

// seedJenis creates the base category taxonomy on a fresh database.
func seedJenis() error {
	var count int64
	if err := DB.Model(&model.Jenis{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Jenis already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	jenis := []model.Jenis{
		{Name: "Roti", NameEn: "Bread"},
		{Name: "Kue", NameEn: "Cake"},
		{Name: "Pastry", NameEn: "Pastry"},
		{Name: "Minuman", NameEn: "Beverage"},
	}
	return DB.Create(&jenis).Error
}
