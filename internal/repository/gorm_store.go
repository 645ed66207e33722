package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// categoryRow, productRow and contactRow are the gorm table mappings. They
// stay private so the gorm tags never leak into model.

type categoryRow struct {
	ID          int64        `gorm:"primaryKey"`
	Name        string       `gorm:"size:100;not null;uniqueIndex"`
	Description string       `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time    `gorm:"autoCreateTime;not null"`
	Products    []productRow `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (categoryRow) TableName() string { return "categories" }

type productRow struct {
	ID           int64           `gorm:"primaryKey"`
	CategoryID   int64           `gorm:"not null;index"`
	Description  string          `gorm:"type:text;not null"`
	ProductImage string          `gorm:"size:255;not null;default:''"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Featured     bool            `gorm:"not null;default:false"`
	CreatedAt    time.Time       `gorm:"autoCreateTime;not null;index"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime;not null"`
}

func (productRow) TableName() string { return "products" }

type contactRow struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	Email     string    `gorm:"size:254;not null"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null;index"`
	IsRead    bool      `gorm:"not null;default:false"`
}

func (contactRow) TableName() string { return "contacts" }

// GormStore owns the embedded sqlite database.
type GormStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the sqlite database at path and
// migrates the catalog tables. path may also be a "file:" URI, which is how
// tests get a private in-memory database.
func OpenSQLite(path string) (*GormStore, error) {
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("sqlite: mkdir: %w", err)
			}
		}
	}

	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&_foreign_keys=on"
	} else {
		dsn += "?_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: pool: %w", err)
	}
	// sqlite allows a single writer; one connection also keeps in-memory
	// databases alive for the lifetime of the store.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&categoryRow{}, &productRow{}, &contactRow{}); err != nil {
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// DB exposes the gorm handle for repository construction.
func (s *GormStore) DB() *gorm.DB { return s.db }

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
