package repository

import (
	"context"
	"errors"

	"chichapos/internal/model"

	"gorm.io/gorm"
)

type AppConfigRepository interface {
	// Obtener returns the singleton row, creating the default one when the
	// table is empty.
	Obtener(ctx context.Context) (*model.AppConfig, error)
	// Patch applies only the given columns to the singleton row.
	Patch(ctx context.Context, campos map[string]interface{}) error
}

type appConfigRepo struct{ db *gorm.DB }

func NewAppConfigRepository(db *gorm.DB) AppConfigRepository { return &appConfigRepo{db: db} }

func (r *appConfigRepo) Obtener(ctx context.Context) (*model.AppConfig, error) {
	var cfg model.AppConfig
	err := r.db.WithContext(ctx).First(&cfg, "id = ?", model.AppConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = model.AppConfig{ID: model.AppConfigID, SlideURLs: []string{}}
		if err := r.db.WithContext(ctx).Create(&cfg).Error; err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *appConfigRepo) Patch(ctx context.Context, campos map[string]interface{}) error {
	if len(campos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.AppConfig{}).
		Where("id = ?", model.AppConfigID).
		Updates(campos).Error
}
