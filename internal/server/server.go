package server

import (
	"net/http"

	"veggieapp/internal/config"
	"veggieapp/internal/handler"
	repo "veggieapp/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Handlers はサーバーに登録するHTTPハンドラ一式
type Handlers struct {
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Admin   *handler.AdminHandler
}

// New はechoエンジンを組み立てて全ルートを登録する
func New(cfg config.Config, h Handlers, tokenRepo repo.TokenRepository, userRepo repo.UserRepository) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.GET("/", root)
	e.GET("/health", health)

	h.Catalog.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e, tokenRepo, userRepo)
	h.Cart.RegisterRoutes(e, tokenRepo, userRepo)
	h.Order.RegisterRoutes(e, tokenRepo, userRepo)
	h.Admin.RegisterRoutes(e)

	// ローカル保存のときだけ画像を自前で配信する
	if cfg.StorageDriver == "local" {
		e.Static("/uploads", cfg.UploadsDir)
	}

	return e
}

func root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "veggieapp",
		"status":  "running",
	})
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
