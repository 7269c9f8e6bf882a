package database

import (
	"fmt"
	"os"
	"strings"

	"marketplace-admin/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const sqlitePrefix = "sqlite://"

// Connect opens the database named by dsn. A "sqlite://" prefix selects a
// local SQLite file for demos; anything else is a PostgreSQL DSN.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=marketplace port=5432 sslmode=disable"
	}

	if strings.HasPrefix(dsn, sqlitePrefix) {
		db, err := gorm.Open(sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix)), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		// SQLite allows a single writer.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	}

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "sqlite" {
		return MigrateSQLite(db)
	}

	// Ensure PostgreSQL has gen_random_uuid() available (pgcrypto extension).
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Seller{},
		&models.Category{},
		&models.Attribute{},
		&models.AttributeValue{},
		&models.CategoryAttribute{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductVariant{},
		&models.ProductVariantAttribute{},
		&models.CommissionSetting{},
		&models.Order{},
		&models.OrderItem{},
	)
}

func CreateDefaultAdmin(db *gorm.DB, logger *zap.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@marketplace.local"
	}
	if adminPassword == "" {
		adminPassword = "admin123"
	}

	var existingUser models.User
	if err := db.Where("email = ?", adminEmail).First(&existingUser).Error; err == nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:      adminEmail,
		Password:   string(hashedPassword),
		Role:       models.RoleAdmin,
		FirstName:  "Admin",
		LastName:   "User",
		IsActive:   true,
		IsVerified: true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	if logger != nil {
		logger.Info("default admin created", zap.String("email", adminEmail))
	}
	return nil
}

// SeedGlobalCommission creates an active global commission setting at rate
// when no global setting exists yet.
func SeedGlobalCommission(db *gorm.DB, rate float64) error {
	var count int64
	if err := db.Model(&models.CommissionSetting{}).
		Where("type = ?", models.CommissionTypeGlobal).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	setting := models.CommissionSetting{
		Type:           models.CommissionTypeGlobal,
		CommissionRate: rate,
		IsActive:       true,
	}
	return db.Create(&setting).Error
}
