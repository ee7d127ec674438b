package repository

import (
	"context"

	"veggieapp/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (model.Order, error)
	CreateItems(ctx context.Context, items []model.OrderItem) ([]model.OrderItem, error)

	FindByID(ctx context.Context, orderID string) (model.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (model.Order, error)
	ListItemsByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error)

	// 新しい順
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)

	// 注文番号採番用：そのユーザーの既存注文数
	CountByUserID(ctx context.Context, userID string) (int64, error)

	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error)
	SumFinalAmount(ctx context.Context) (float64, error)
}
