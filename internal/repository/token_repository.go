package repository

import (
	"context"

	"veggieapp/internal/domain/model"
)

// アクセストークンの保存・照合
type TokenRepository interface {
	Create(ctx context.Context, token model.Token) (model.Token, error)
	FindByToken(ctx context.Context, token string) (model.Token, error)
}
