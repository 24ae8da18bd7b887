package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	config "github.com/anjiri1684/driving_tutor/configs"
	"github.com/anjiri1684/driving_tutor/models"
	"github.com/anjiri1684/driving_tutor/services"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the Postgres pool. Driver errors are translated so that
// unique violations surface as gorm.ErrDuplicatedKey.
func Connect(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connected")
	return db, nil
}

func Migrate(db *gorm.DB, logger *zap.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Instructor{},
		&models.InstructorDocument{},
		&models.Slot{},
		&models.Message{},
		&models.Review{},
		&models.OrphanedObject{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("database migration successful")
	return nil
}

// SeedAdmin creates the configured admin account once. It is a no-op when no
// seed email is configured or the admin already exists, and fails when the
// address is held by an account without the admin role.
func SeedAdmin(ctx context.Context, users services.UserStore, admin config.AdminConfig, logger *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.SeedEmail))
	if email == "" {
		return nil
	}
	if admin.SeedPassword == "" {
		return errors.New("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.Role == models.RoleAdmin:
		logger.Debug("admin user already exists", zap.String("email", email))
		return nil
	case err == nil:
		return fmt.Errorf("admin seed email %s belongs to a %s account", email, existing.Role)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("check admin user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	user := &models.User{
		FullName: admin.SeedFullName,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	logger.Info("admin user seeded", zap.String("email", email))
	return nil
}
