package db

import (
	"github.com/ikkim/shopmall-backend/internal/app/model"
	"github.com/ikkim/shopmall-backend/pkg/logger"
	"github.com/ikkim/shopmall-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Category{},
		&model.Owner{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Address{},
		&model.Order{},
		&model.OrderItem{},
		&model.PaymentClaim{},
		&model.PaymentChannel{},
		&model.WishlistItem{},
		&model.Notification{},
		&model.NotificationSettings{},
		&model.AuditLog{},
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

	if err := seedAdminUser(); err != nil {
		logger.Error("Failed to seed admin user", err)
		return err
	}

	if err := seedPaymentChannels(); err != nil {
		logger.Error("Failed to seed payment channels", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedAdminUser creates the bootstrap admin account if no admin exists.
func seedAdminUser() error {
	var count int64
	if err := DB.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Admin user already exists, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	hash, err := util.HashPassword("changeme")
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        "admin@shopmall.local",
		PasswordHash: hash,
		FirstName:    "Admin",
		LastName:     "Shopmall",
		Role:         model.RoleAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("Bootstrap admin user created", map[string]interface{}{
		"email": admin.Email,
	})
	return nil
}

// seedPaymentChannels creates a default bank account so checkout works
// out of the box on a fresh database.
func seedPaymentChannels() error {
	var count int64
	if err := DB.Model(&model.PaymentChannel{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Payment channels already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	channel := model.PaymentChannel{
		BankName:      "Kasikorn Bank",
		AccountName:   "Shopmall Co., Ltd.",
		AccountNumber: "123-4-56789-0",
		IsActive:      true,
	}
	if err := DB.Create(&channel).Error; err != nil {
		return err
	}

	logger.Info("Default payment channel seeded", map[string]interface{}{
		"bank": channel.BankName,
	})
	return nil
}
