package repository

import (
	"context"

	"veggieapp/internal/domain/model"
)

type CartRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]model.CartItem, error)
	// バリアントキー（user, product, weight, unit）で1件探す
	FindByVariant(ctx context.Context, userID, productID, selectedWeight string, selectedUnit int) (model.CartItem, error)
	FindByID(ctx context.Context, itemID string) (model.CartItem, error)

	Insert(ctx context.Context, item model.CartItem) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, itemID string, qty int) error

	// 他ユーザーの明細IDを渡された場合は何もしない（エラーにもしない）
	DeleteByIDAndUser(ctx context.Context, itemID, userID string) error
	ClearByUserID(ctx context.Context, userID string) error
	DeleteByProductID(ctx context.Context, productID string) error
}
