package middleware

import (
	"net/http"
	"strings"

	"veggieapp/internal/domain/model"
	repo "veggieapp/internal/repository"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserKey = "current_user" // model.User
)

// bearerAuth用のトークン検証ミドルウェア。
// トークンはDBに保存された不透明文字列（JWTではない）
func BearerAuth(tokens repo.TokenRepository, users repo.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("Not authenticated"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("Not authenticated"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("Not authenticated"))
			}

			ctx := c.Request().Context()

			//token→phone→userの順に引く。
			//ストア障害も未登録トークンと同じ401で返す（認証可否以外を漏らさない）
			token, err := tokens.FindByToken(ctx, rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("Invalid authentication token"))
			}

			user, err := users.FindByPhone(ctx, token.Phone)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("Invalid authentication token"))
			}

			//無効化済みユーザーは拒否
			if !user.IsActive {
				return c.JSON(http.StatusUnauthorized, errorJSON("Invalid authentication token"))
			}

			//contextへ保存
			c.Set(CtxUserKey, user)

			return next(c)
		}
	}
}

// CurrentUser はBearerAuthが保存したユーザーを取り出す
func CurrentUser(c echo.Context) (model.User, bool) {
	user, ok := c.Get(CtxUserKey).(model.User)
	return user, ok
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Detail: msg}
}
