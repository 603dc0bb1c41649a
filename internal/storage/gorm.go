package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormVital is the table mapping for GormBackend
type gormVital struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	DeviceID     string    `gorm:"type:varchar(255);not null;index"`
	Timestamp    time.Time `gorm:"not null;index"`
	ThermalValue int       `gorm:"not null"`
	BatteryLevel float64   `gorm:"not null"`
	MemoryUsage  float64   `gorm:"not null"`
}

func (gormVital) TableName() string {
	return "device_vitals"
}

func (g gormVital) vital() Vital {
	return Vital{
		ID:           g.ID,
		DeviceID:     g.DeviceID,
		Timestamp:    g.Timestamp.UTC(),
		ThermalValue: g.ThermalValue,
		BatteryLevel: g.BatteryLevel,
		MemoryUsage:  g.MemoryUsage,
	}
}

// GormBackend implements Backend over any GORM dialect. Production uses
// Postgres; tests run it over SQLite.
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend migrates the schema on db and wraps it
func NewGormBackend(db *gorm.DB) (*GormBackend, error) {
	if err := db.AutoMigrate(&gormVital{}); err != nil {
		return nil, fmt.Errorf("failed to migrate vitals table: %w", err)
	}
	return &GormBackend{db: db}, nil
}

// NewPostgresBackend opens a Postgres connection from a DSN
func NewPostgresBackend(dsn string) (*GormBackend, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return NewGormBackend(db)
}

func (g *GormBackend) Insert(ctx context.Context, vital Vital) (Vital, error) {
	row := gormVital{
		DeviceID:     vital.DeviceID,
		Timestamp:    vital.Timestamp.UTC(),
		ThermalValue: vital.ThermalValue,
		BatteryLevel: vital.BatteryLevel,
		MemoryUsage:  vital.MemoryUsage,
	}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return Vital{}, fmt.Errorf("failed to insert vital: %w", err)
	}
	return row.vital(), nil
}

func (g *GormBackend) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := g.db.WithContext(ctx).Model(&gormVital{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count vitals: %w", err)
	}
	return count, nil
}

func (g *GormBackend) Latest(ctx context.Context, n int) ([]Vital, error) {
	return g.find(ctx, 0, n)
}

func (g *GormBackend) Page(ctx context.Context, page, pageSize int) ([]Vital, int64, error) {
	total, err := g.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	vitals, err := g.find(ctx, pageOffset(page, pageSize), pageSize)
	if err != nil {
		return nil, 0, err
	}
	return vitals, total, nil
}

func (g *GormBackend) Get(ctx context.Context, id int64) (Vital, error) {
	var row gormVital
	err := g.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Vital{}, ErrNotFound
	}
	if err != nil {
		return Vital{}, fmt.Errorf("failed to get vital %d: %w", id, err)
	}
	return row.vital(), nil
}

func (g *GormBackend) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (g *GormBackend) find(ctx context.Context, offset, limit int) ([]Vital, error) {
	if limit <= 0 {
		return []Vital{}, nil
	}

	var rows []gormVital
	err := g.db.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query vitals: %w", err)
	}

	vitals := make([]Vital, 0, len(rows))
	for _, row := range rows {
		vitals = append(vitals, row.vital())
	}
	return vitals, nil
}
