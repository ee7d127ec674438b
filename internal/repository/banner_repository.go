package repository

import (
	"context"

	"veggieapp/internal/domain/model"
)

type BannerRepository interface {
	// is_active=trueのみ、display_order昇順
	ListActive(ctx context.Context) ([]model.Banner, error)
	ListAll(ctx context.Context) ([]model.Banner, error)
	FindByID(ctx context.Context, id string) (model.Banner, error)

	Create(ctx context.Context, b model.Banner) (model.Banner, error)
	Update(ctx context.Context, b model.Banner) error
	Delete(ctx context.Context, id string) error
}
