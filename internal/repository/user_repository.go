package repository

import (
	"context"
	"errors"

	"veggieapp/internal/domain/model"
)

// 電話番号の重複登録を統一
var ErrDuplicatePhone = errors.New("phone already registered")

// 会員の保存・取得を約束
type UserRepository interface {
	// 新規ユーザー作成。phone重複は ErrDuplicatePhone を返す
	Create(ctx context.Context, user model.User) (model.User, error)
	FindByPhone(ctx context.Context, phone string) (model.User, error)
	Count(ctx context.Context) (int64, error)
}
