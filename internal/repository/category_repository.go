package repository

import (
	"context"

	"veggieapp/internal/domain/model"
)

type CategoryRepository interface {
	// is_active=trueのみ、display_order昇順
	ListActive(ctx context.Context) ([]model.Category, error)
	ListAll(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id string) (model.Category, error)

	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, id string) error
}
