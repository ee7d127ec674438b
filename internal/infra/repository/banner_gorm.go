package repository

import (
	"context"
	"errors"

	"veggieapp/internal/domain/model"
	repo "veggieapp/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BannerGormRepository struct {
	db *gorm.DB
}

// DI
func NewBannerGormRepository(db *gorm.DB) *BannerGormRepository {
	return &BannerGormRepository{db: db}
}

func (r *BannerGormRepository) ListActive(ctx context.Context) ([]model.Banner, error) {
	var banners []model.Banner
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order asc").
		Order("created_at asc").
		Find(&banners).Error
	if err != nil {
		return []model.Banner{}, err
	}
	return banners, nil
}

func (r *BannerGormRepository) ListAll(ctx context.Context) ([]model.Banner, error) {
	var banners []model.Banner
	err := r.db.WithContext(ctx).
		Order("display_order asc").
		Order("created_at asc").
		Find(&banners).Error
	if err != nil {
		return []model.Banner{}, err
	}
	return banners, nil
}

func (r *BannerGormRepository) FindByID(ctx context.Context, id string) (model.Banner, error) {
	var b model.Banner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Banner{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Banner{}, err
	}
	return b, nil
}

func (r *BannerGormRepository) Create(ctx context.Context, b model.Banner) (model.Banner, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Banner{}, err
	}
	return b, nil
}

func (r *BannerGormRepository) Update(ctx context.Context, b model.Banner) error {
	res := r.db.WithContext(ctx).Model(&model.Banner{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"title":         b.Title,
		"description":   b.Description,
		"link_url":      b.LinkURL,
		"image_url":     b.ImageURL,
		"display_order": b.DisplayOrder,
		"is_active":     b.IsActive,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *BannerGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Banner{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
