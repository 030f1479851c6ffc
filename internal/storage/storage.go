// Package storage is the durable session store. Values are opaque JSON
// blobs addressed by string keys; the cart and the auth session each live
// under their own key. Single-writer: there is no compare-and-swap on
// writes, the last Put wins.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type Record struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (Record) TableName() string { return "records" }

type GormStore struct {
	DB *gorm.DB
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// Open connects to postgres when databaseURL is set, otherwise to a local
// sqlite file at path, and migrates the records table.
func Open(ctx context.Context, databaseURL, path string) (*GormStore, error) {
	var (
		db  *gorm.DB
		err error
	)

	cfg := &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	if databaseURL != "" {
		db, err = gorm.Open(postgres.Open(databaseURL), cfg)
	} else {
		db, err = gorm.Open(sqlite.Open(path), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	if databaseURL != "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sql.DB: %w", err)
		}
		configurePool(sqlDB)

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			return nil, fmt.Errorf("ping storage: %w", err)
		}
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate storage: %w", err)
	}

	return &GormStore{DB: db}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var rec Record
	if err := s.DB.WithContext(ctx).Where("key = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return rec.Value, true, nil
}

func (s *GormStore) Put(ctx context.Context, key string, value []byte) error {
	rec := Record{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return s.DB.WithContext(ctx).Save(&rec).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.DB.WithContext(ctx).Where("key = ?", key).Delete(&Record{}).Error
}

func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
