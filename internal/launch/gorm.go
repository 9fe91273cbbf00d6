package launch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Record is one row in game_launches. The game-entry service picks these up;
// the lobby itself never reads them back.
type Record struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:32;index"`
	Capacity  int       `gorm:"not null"`
	Players   int       `gorm:"not null"`
	Roster    string    `gorm:"type:text"`
	StartedAt time.Time `gorm:"not null"`
}

func (Record) TableName() string { return "game_launches" }

func newRecord(g Game) (Record, error) {
	roster, err := json.Marshal(g.Players)
	if err != nil {
		return Record{}, fmt.Errorf("encode roster: %w", err)
	}
	return Record{
		Code:      g.Code,
		Capacity:  g.Capacity,
		Players:   len(g.Players),
		Roster:    string(roster),
		StartedAt: g.StartedAt.UTC(),
	}, nil
}

type GormLauncher struct {
	db *gorm.DB
}

// OpenPostgres connects to dsn and makes sure the launch table exists.
func OpenPostgres(dsn string) (*GormLauncher, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewGormLauncher(db)
}

func NewGormLauncher(db *gorm.DB) (*GormLauncher, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("migrate game_launches: %w", err)
	}
	return &GormLauncher{db: db}, nil
}

func (l *GormLauncher) Launch(ctx context.Context, g Game) error {
	rec, err := newRecord(g)
	if err != nil {
		return err
	}
	if err := l.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("record launch %s: %w", g.Code, err)
	}
	return nil
}

func (l *GormLauncher) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
