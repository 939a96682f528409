package kv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/shadowwear/storefront-core/pkg/config"
	"github.com/shadowwear/storefront-core/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Entry is the single-table layout backing the sqlite store.
type Entry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     []byte `gorm:"column:value"`
	UpdatedAt time.Time
}

func (Entry) TableName() string {
	return "kv_entries"
}

// SQLiteStore keeps snapshots in an embedded sqlite file, the durable
// local store of a single-client session.
type SQLiteStore struct {
	conn      *gorm.DB
	namespace string
	logg      *logger.Logger
}

// NewSQLite opens (or creates) the sqlite file and migrates the kv table.
func NewSQLite(ctx context.Context, cfg config.StoreConfig, logg *logger.Logger) (*SQLiteStore, error) {
	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	if err := conn.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating kv table: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "sqlite store opened")
	}
	return &SQLiteStore{conn: conn, namespace: cfg.Namespace, logg: logg}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key string, value any) {
	payload, err := encode(value)
	if err != nil {
		s.warn(ctx, key, "encoding snapshot failed", err)
		return
	}
	entry := Entry{Key: namespacedKey(s.namespace, key), Value: payload, UpdatedAt: time.Now().UTC()}
	if err := s.conn.WithContext(ctx).Save(&entry).Error; err != nil {
		s.warn(ctx, key, "saving snapshot failed", err)
	}
}

func (s *SQLiteStore) Load(ctx context.Context, key string, dest any) bool {
	var entry Entry
	err := s.conn.WithContext(ctx).
		Where("key = ?", namespacedKey(s.namespace, key)).
		First(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.warn(ctx, key, "loading snapshot failed", err)
		}
		return false
	}
	if err := decode(entry.Value, dest); err != nil {
		s.warn(ctx, key, "stored snapshot is malformed, using fallback", err)
		return false
	}
	return true
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) {
	err := s.conn.WithContext(ctx).
		Where("key = ?", namespacedKey(s.namespace, key)).
		Delete(&Entry{}).Error
	if err != nil {
		s.warn(ctx, key, "deleting snapshot failed", err)
	}
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteStore) warn(ctx context.Context, key, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(s.logg.WithStoreKey(ctx, key), msg, err)
}
