package main

import (
	"context"
	"log"

	"veggieapp/internal/config"
	"veggieapp/internal/domain/model"
	"veggieapp/internal/handler"
	"veggieapp/internal/infra/db"
	infraRepo "veggieapp/internal/infra/repository"
	"veggieapp/internal/server"
	"veggieapp/internal/storage"
	"veggieapp/internal/usecase"
	"veggieapp/internal/validator"

	"github.com/joho/godotenv"
)

func main() {
	// .envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Token{},
		&model.Category{},
		&model.Product{},
		&model.Banner{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatal(err)
	}

	//画像保存先（local / s3）
	images, err := newImageStore(cfg)
	if err != nil {
		log.Fatal(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	tokenRepo := infraRepo.NewTokenGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	bannerRepo := infraRepo.NewBannerGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, tokenRepo, validator.NewAuthValidator())
	catalogUC := usecase.NewCatalogUsecase(categoryRepo, productRepo, bannerRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	orderUC := usecase.NewOrderUsecase(orderRepo, txManager)
	adminUC := usecase.NewAdminUsecase(categoryRepo, productRepo, bannerRepo, orderRepo, userRepo, cartRepo, images)

	//Handler生成
	handlers := server.Handlers{
		Auth:    handler.NewAuthHandler(authUC),
		Catalog: handler.NewCatalogHandler(catalogUC),
		Cart:    handler.NewCartHandler(cartUC),
		Order:   handler.NewOrderHandler(orderUC),
		Admin:   handler.NewAdminHandler(adminUC),
	}

	//Server起動
	e := server.New(cfg, handlers, tokenRepo, userRepo)
	log.Fatal(e.Start(":" + cfg.Port))
}

func newImageStore(cfg config.Config) (storage.ImageStore, error) {
	if cfg.StorageDriver == "s3" {
		return storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Region)
	}
	return storage.NewLocalStore(cfg.UploadsDir)
}
