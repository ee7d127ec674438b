package repository

import (
	"context"
	"errors"

	"veggieapp/internal/domain/model"
	repo "veggieapp/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenGormRepository struct {
	db *gorm.DB
}

// DI
func NewTokenGormRepository(db *gorm.DB) *TokenGormRepository {
	return &TokenGormRepository{db: db}
}

func (r *TokenGormRepository) Create(ctx context.Context, token model.Token) (model.Token, error) {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&token).Error; err != nil {
		return model.Token{}, err
	}
	return token, nil
}

func (r *TokenGormRepository) FindByToken(ctx context.Context, token string) (model.Token, error) {
	var t model.Token
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Token{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Token{}, err
	}
	return t, nil
}
