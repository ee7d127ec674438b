package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"veggieapp/internal/domain/model"
	"veggieapp/internal/middleware"
	repo "veggieapp/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type TokenRepoMock struct{ mock.Mock }

func (m *TokenRepoMock) Create(ctx context.Context, token model.Token) (model.Token, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Token), args.Error(1)
}

func (m *TokenRepoMock) FindByToken(ctx context.Context, token string) (model.Token, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Token), args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserRepoMock) FindByPhone(ctx context.Context, phone string) (model.User, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// ミドルウェアを通した1リクエストを実行する
func invoke(t *testing.T, tokens *TokenRepoMock, users *UserRepoMock, authz string) (*httptest.ResponseRecorder, bool, model.User) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	var seen model.User
	next := func(c echo.Context) error {
		reached = true
		seen, _ = middleware.CurrentUser(c)
		return c.NoContent(http.StatusOK)
	}

	err := middleware.BearerAuth(tokens, users)(next)(c)
	assert.NoError(t, err)
	return rec, reached, seen
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	rec, reached, _ := invoke(t, new(TokenRepoMock), new(UserRepoMock), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authenticated")
	assert.False(t, reached)
}

func TestBearerAuth_WrongScheme(t *testing.T) {
	rec, reached, _ := invoke(t, new(TokenRepoMock), new(UserRepoMock), "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authenticated")
	assert.False(t, reached)
}

func TestBearerAuth_UnknownToken(t *testing.T) {
	tokens := new(TokenRepoMock)
	tokens.On("FindByToken", mock.Anything, "bogus").Return(model.Token{}, repo.ErrNotFound)

	rec, reached, _ := invoke(t, tokens, new(UserRepoMock), "Bearer bogus")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid authentication token")
	assert.False(t, reached)
}

func TestBearerAuth_TokenStoreFailure(t *testing.T) {
	// ストア障害は未登録トークンと同じレスポンスに落とす
	tokens := new(TokenRepoMock)
	tokens.On("FindByToken", mock.Anything, "tok1").Return(model.Token{}, errors.New("connection refused"))

	rec, reached, _ := invoke(t, tokens, new(UserRepoMock), "Bearer tok1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid authentication token")
	assert.False(t, reached)
}

func TestBearerAuth_UserStoreFailure(t *testing.T) {
	tokens := new(TokenRepoMock)
	users := new(UserRepoMock)
	tokens.On("FindByToken", mock.Anything, "tok1").Return(model.Token{Token: "tok1", Phone: "09012345678"}, nil)
	users.On("FindByPhone", mock.Anything, "09012345678").Return(model.User{}, errors.New("connection refused"))

	rec, reached, _ := invoke(t, tokens, users, "Bearer tok1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid authentication token")
	assert.False(t, reached)
}

func TestBearerAuth_DeactivatedUser(t *testing.T) {
	tokens := new(TokenRepoMock)
	users := new(UserRepoMock)
	tokens.On("FindByToken", mock.Anything, "tok1").Return(model.Token{Token: "tok1", Phone: "09012345678"}, nil)
	users.On("FindByPhone", mock.Anything, "09012345678").Return(model.User{ID: "u1", Phone: "09012345678", IsActive: false}, nil)

	rec, reached, _ := invoke(t, tokens, users, "Bearer tok1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid authentication token")
	assert.False(t, reached)
}

func TestBearerAuth_Success(t *testing.T) {
	tokens := new(TokenRepoMock)
	users := new(UserRepoMock)
	tokens.On("FindByToken", mock.Anything, "tok1").Return(model.Token{Token: "tok1", Phone: "09012345678"}, nil)
	users.On("FindByPhone", mock.Anything, "09012345678").Return(model.User{ID: "u1", Phone: "09012345678", IsActive: true}, nil)

	rec, reached, seen := invoke(t, tokens, users, "Bearer tok1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, "u1", seen.ID)
}

func TestBearerAuth_SchemeIsCaseInsensitive(t *testing.T) {
	tokens := new(TokenRepoMock)
	users := new(UserRepoMock)
	tokens.On("FindByToken", mock.Anything, "tok1").Return(model.Token{Token: "tok1", Phone: "09012345678"}, nil)
	users.On("FindByPhone", mock.Anything, "09012345678").Return(model.User{ID: "u1", Phone: "09012345678", IsActive: true}, nil)

	rec, reached, _ := invoke(t, tokens, users, "bearer tok1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}
