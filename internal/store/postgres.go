package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documento is one row of the kv_documentos table.
type documento struct {
	Clave     string `gorm:"primaryKey"`
	Valor     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (documento) TableName() string { return "kv_documentos" }

// PostgresKV stores documents in a single GORM-managed table.
type PostgresKV struct{ db *gorm.DB }

// NewPostgresKV creates the kv_documentos table when missing.
func NewPostgresKV(db *gorm.DB) (*PostgresKV, error) {
	if err := db.AutoMigrate(&documento{}); err != nil {
		return nil, err
	}
	return &PostgresKV{db: db}, nil
}

func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	var d documento
	err := p.db.WithContext(ctx).Where("clave = ?", key).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(d.Valor), nil
}

// PutAll upserts every entry in one SQL transaction.
func (p *PostgresKV) PutAll(ctx context.Context, entries map[string][]byte) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for k, v := range entries {
			d := documento{Clave: k, Valor: string(v), UpdatedAt: time.Now()}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "clave"}},
				DoUpdates: clause.AssignmentColumns([]string{"valor", "updated_at"}),
			}).Create(&d).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *PostgresKV) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
