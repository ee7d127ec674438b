package repository

import (
	"context"
	"errors"

	"veggieapp/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 公開商品の一覧検索条件。
// フィルタ・ページングはDB側のクエリに押し込む（全件取得してアプリ側で絞らない）
type ProductListQuery struct {
	CategoryID *string
	Featured   *bool
	Search     string
	SortBy     string // name（既定） / price_low / price_high / popular
	Skip       int
	Limit      int
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// 公開（is_active=true）商品のみ。総件数はページング前のもの
	ListActive(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	ListAll(ctx context.Context) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id string) error

	CountByCategoryID(ctx context.Context, categoryID string) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}
