package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vrasish/finalplanner/internal/model"
)

const defaultUsername = "default"

// NewDB opens a SQLite database, runs migrations and seeds the default user.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "finalplanner.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Task{}, &model.Booking{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	if err := seedDefaultUser(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedDefaultUser creates the single-tenant default user on first start so
// that task creation works without an explicit user id.
func seedDefaultUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	user := model.User{Username: defaultUsername, PasswordHash: "default_hash"}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("seed default user: %w", err)
	}
	log.Printf("[info] seeded default user id=%d", user.ID)
	return nil
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
