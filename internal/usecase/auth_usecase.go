package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"veggieapp/internal/domain/model"
	repo "veggieapp/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// AuthValidator は登録/ログイン入力の検証を約束。
// 実装はinternal/validatorにあり、interfaceで依存注入する
type AuthValidator interface {
	ValidateRegister(name, phone, password string) error
	ValidateLogin(phone, password string) error
}

type AuthUsecase struct {
	userRepo  repo.UserRepository
	tokenRepo repo.TokenRepository
	validator AuthValidator
}

func NewAuthUsecase(userRepo repo.UserRepository, tokenRepo repo.TokenRepository, v AuthValidator) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		validator: v,
	}
}

type RegisterInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginInput struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// OAS: TokenResponse
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	IsActive   bool   `json:"is_active"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Phone:      u.Phone,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Register は会員登録。電話番号が業務上の一意キー
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (TokenResponse, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(in.Name, in.Phone, in.Password); err != nil {
		return TokenResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return TokenResponse{}, NewHTTPError(http.StatusInternalServerError, "Registration failed: "+err.Error())
	}

	user, err := u.userRepo.Create(ctx, model.User{
		Name:         strings.TrimSpace(in.Name),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		IsActive:     true,
		IsVerified:   false,
	})
	if errors.Is(err, repo.ErrDuplicatePhone) {
		return TokenResponse{}, NewHTTPError(http.StatusBadRequest, "Phone number already registered")
	}
	if err != nil {
		return TokenResponse{}, NewHTTPError(http.StatusInternalServerError, "Registration failed: "+err.Error())
	}

	return u.issueToken(ctx, user)
}

// Login は電話番号＋パスワードの認証。
// 未登録とパスワード不一致はレスポンスを区別しない
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (TokenResponse, error) {
	if err := u.validator.ValidateLogin(in.Phone, in.Password); err != nil {
		return TokenResponse{}, err
	}

	user, err := u.userRepo.FindByPhone(ctx, strings.TrimSpace(in.Phone))
	if errors.Is(err, repo.ErrNotFound) {
		return TokenResponse{}, NewHTTPError(http.StatusUnauthorized, "Invalid phone number or password")
	}
	if err != nil {
		return TokenResponse{}, NewHTTPError(http.StatusInternalServerError, "Login failed: "+err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return TokenResponse{}, NewHTTPError(http.StatusUnauthorized, "Invalid phone number or password")
	}

	if !user.IsActive {
		return TokenResponse{}, NewHTTPError(http.StatusUnauthorized, "Account is deactivated")
	}

	return u.issueToken(ctx, user)
}

// Me は認証済みユーザーのDTOを返す
func (u *AuthUsecase) Me(user model.User) UserResponse {
	return toUserResponse(user)
}

func (u *AuthUsecase) issueToken(ctx context.Context, user model.User) (TokenResponse, error) {
	raw, err := generateToken(32)
	if err != nil {
		return TokenResponse{}, NewHTTPError(http.StatusInternalServerError, "Login failed: "+err.Error())
	}

	if _, err := u.tokenRepo.Create(ctx, model.Token{
		Token: raw,
		Phone: user.Phone,
	}); err != nil {
		return TokenResponse{}, NewHTTPError(http.StatusInternalServerError, "Login failed: "+err.Error())
	}

	return TokenResponse{
		AccessToken: raw,
		TokenType:   "bearer",
		User:        toUserResponse(user),
	}, nil
}

// 暗号学的乱数から不透明トークンを作る
func generateToken(bytesLen int) (string, error) {
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
