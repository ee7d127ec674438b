package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"veggieapp/internal/domain/model"
	repo "veggieapp/internal/repository"
	"veggieapp/internal/storage"

	"github.com/google/uuid"
)

// AdminUsecase は管理画面向けのコンテンツ管理（カテゴリ・商品・バナー）、
// 画像アップロード、注文管理、ダッシュボード統計です。
type AdminUsecase struct {
	categoryRepo repo.CategoryRepository
	productRepo  repo.ProductRepository
	bannerRepo   repo.BannerRepository
	orderRepo    repo.OrderRepository
	userRepo     repo.UserRepository
	cartRepo     repo.CartRepository
	images       storage.ImageStore
}

func NewAdminUsecase(
	categoryRepo repo.CategoryRepository,
	productRepo repo.ProductRepository,
	bannerRepo repo.BannerRepository,
	orderRepo repo.OrderRepository,
	userRepo repo.UserRepository,
	cartRepo repo.CartRepository,
	images storage.ImageStore,
) *AdminUsecase {
	return &AdminUsecase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		bannerRepo:   bannerRepo,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		cartRepo:     cartRepo,
		images:       images,
	}
}

type StatsResponse struct {
	TotalOrders    int64   `json:"total_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalUsers     int64   `json:"total_users"`
	TotalProducts  int64   `json:"total_products"`
	ActiveProducts int64   `json:"active_products"`
	PendingOrders  int64   `json:"pending_orders"`
}

// アップロードされた画像1枚ぶんの入力
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type CategoryInput struct {
	Name         string
	Description  string
	Icon         string
	Color        string
	DisplayOrder int
	IsActive     bool
}

type CategoryUpdateInput struct {
	Name         *string
	Description  *string
	Icon         *string
	Color        *string
	DisplayOrder *int
	IsActive     *bool
}

type ProductInput struct {
	CategoryID    string
	Name          string
	Description   string
	BasePrice     float64
	StockQuantity int
	Featured      bool
	IsActive      bool
}

type ProductUpdateInput struct {
	CategoryID    *string
	Name          *string
	Description   *string
	BasePrice     *float64
	StockQuantity *int
	Featured      *bool
	IsActive      *bool
}

type BannerInput struct {
	Title        string
	Description  string
	LinkURL      string
	DisplayOrder int
	IsActive     bool
}

type BannerUpdateInput struct {
	Title        *string
	Description  *string
	LinkURL      *string
	DisplayOrder *int
	IsActive     *bool
}

// 画像アップロード先のサブディレクトリ
var allowedTargets = map[string]bool{
	"products":   true,
	"categories": true,
	"banners":    true,
}

// Stats はダッシュボード用の集計値（単純カウントと売上合計）
func (u *AdminUsecase) Stats(ctx context.Context) (StatsResponse, error) {
	totalOrders, err := u.orderRepo.Count(ctx)
	if err != nil {
		return StatsResponse{}, NewHTTPError(http.StatusInternalServerError, "Error fetching stats: "+err.Error())
	}
	totalRevenue, err := u.orderRepo.SumFinalAmount(ctx)
	if err != nil {
		return StatsResponse{}, NewHTTPError(http.StatusInternalServerError, "Error fetching stats: "+err.Error())
	}
	totalUsers, err := u.userRepo.Count(ctx)
	if err != nil {
		return StatsResponse{}, NewHTTPError(http.StatusInternalServerError, "Error fetching stats: "+err.Error())
	}
	totalProducts, err := u.productRepo.Count(ctx)
	if err != nil {
		return StatsResponse{}, NewHTTPError(http.StatusInternalServerError, "Error fetching stats: "+err.Error())
	}
	activeProducts, err := u.productRepo.CountActive(ctx)
	if err != nil {
		return StatsResponse{}, NewHTTPError(http.StatusInternalServerError, "Error fetching stats: "+err.Error())
	}
	pendingOrders, err := u.orderRepo.CountByStatus(ctx, model.OrderStatusPending)
	if err != nil {
		return StatsResponse{}, NewHTTPError(http.StatusInternalServerError, "Error fetching stats: "+err.Error())
	}

	return StatsResponse{
		TotalOrders:    totalOrders,
		TotalRevenue:   totalRevenue,
		TotalUsers:     totalUsers,
		TotalProducts:  totalProducts,
		ActiveProducts: activeProducts,
		PendingOrders:  pendingOrders,
	}, nil
}

// UploadImage は素のアップロード。検証して公開URLを返す
func (u *AdminUsecase) UploadImage(ctx context.Context, target string, up ImageUpload) (string, error) {
	if !allowedTargets[target] {
		return "", NewHTTPError(http.StatusBadRequest, "Invalid upload target")
	}
	return u.saveImage(ctx, target, up)
}

func (u *AdminUsecase) saveImage(ctx context.Context, dir string, up ImageUpload) (string, error) {
	if !storage.AllowedExtension(up.Filename) {
		return "", NewHTTPError(http.StatusBadRequest, "File type not allowed")
	}
	if up.Size > storage.MaxImageSize {
		return "", NewHTTPError(http.StatusBadRequest, "File too large (max 5MB)")
	}

	// ファイル名は衝突しないよう採番し直す（拡張子だけ引き継ぐ）
	ext := strings.ToLower(filepath.Ext(up.Filename))
	filename := uuid.NewString() + ext

	url, err := u.images.Save(ctx, dir, filename, up.ContentType, up.Body)
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "Error uploading image: "+err.Error())
	}
	return url, nil
}

// 画像削除は後始末なので失敗しても本処理は成功扱い
func (u *AdminUsecase) deleteImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	_ = u.images.Delete(ctx, url)
}

// --- カテゴリ ---

func (u *AdminUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := u.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Error fetching categories: "+err.Error())
	}
	return categories, nil
}

func (u *AdminUsecase) CreateCategory(ctx context.Context, in CategoryInput, image *ImageUpload) (model.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	imageURL := ""
	if image != nil {
		url, err := u.saveImage(ctx, "categories", *image)
		if err != nil {
			return model.Category{}, err
		}
		imageURL = url
	}

	c, err := u.categoryRepo.Create(ctx, model.Category{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Icon:         in.Icon,
		Color:        in.Color,
		ImageURL:     imageURL,
		DisplayOrder: in.DisplayOrder,
		IsActive:     in.IsActive,
	})
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "Error creating category: "+err.Error())
	}
	return c, nil
}

func (u *AdminUsecase) UpdateCategory(ctx context.Context, id string, in CategoryUpdateInput, image *ImageUpload) (model.Category, error) {
	c, err := u.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "Category not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "Error updating category: "+err.Error())
	}

	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Icon != nil {
		c.Icon = *in.Icon
	}
	if in.Color != nil {
		c.Color = *in.Color
	}
	if in.DisplayOrder != nil {
		c.DisplayOrder = *in.DisplayOrder
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}

	if image != nil {
		url, err := u.saveImage(ctx, "categories", *image)
		if err != nil {
			return model.Category{}, err
		}
		u.deleteImage(ctx, c.ImageURL)
		c.ImageURL = url
	}

	if err := u.categoryRepo.Update(ctx, c); err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "Error updating category: "+err.Error())
	}
	return c, nil
}

// DeleteCategory は商品から参照されている間は拒否する
func (u *AdminUsecase) DeleteCategory(ctx context.Context, id string) error {
	c, err := u.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Category not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error deleting category: "+err.Error())
	}

	count, err := u.productRepo.CountByCategoryID(ctx, id)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error deleting category: "+err.Error())
	}
	if count > 0 {
		return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Category has %d products", count))
	}

	if err := u.categoryRepo.Delete(ctx, id); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error deleting category: "+err.Error())
	}
	u.deleteImage(ctx, c.ImageURL)
	return nil
}

// --- 商品 ---

func (u *AdminUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := u.productRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Error fetching products: "+err.Error())
	}
	return products, nil
}

func (u *AdminUsecase) CreateProduct(ctx context.Context, in ProductInput, image *ImageUpload) (model.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if in.BasePrice < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "Price must not be negative")
	}

	// カテゴリは実在チェック
	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "Invalid category")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Error creating product: "+err.Error())
	}

	imageURL := ""
	if image != nil {
		url, err := u.saveImage(ctx, "products", *image)
		if err != nil {
			return model.Product{}, err
		}
		imageURL = url
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		CategoryID:    in.CategoryID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		BasePrice:     in.BasePrice,
		StockQuantity: in.StockQuantity,
		Featured:      in.Featured,
		IsActive:      in.IsActive,
		ImageURL:      imageURL,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Error creating product: "+err.Error())
	}
	return p, nil
}

func (u *AdminUsecase) UpdateProduct(ctx context.Context, id string, in ProductUpdateInput, image *ImageUpload) (model.Product, error) {
	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Error updating product: "+err.Error())
	}

	if in.CategoryID != nil {
		if _, err := u.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return model.Product{}, NewHTTPError(http.StatusBadRequest, "Invalid category")
			}
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Error updating product: "+err.Error())
		}
		p.CategoryID = *in.CategoryID
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.BasePrice != nil {
		if *in.BasePrice < 0 {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "Price must not be negative")
		}
		p.BasePrice = *in.BasePrice
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	if image != nil {
		url, err := u.saveImage(ctx, "products", *image)
		if err != nil {
			return model.Product{}, err
		}
		u.deleteImage(ctx, p.ImageURL)
		p.ImageURL = url
	}

	if err := u.productRepo.Update(ctx, p); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Error updating product: "+err.Error())
	}
	return p, nil
}

// DeleteProduct は商品を消す前に、参照しているカート行を先に消す
func (u *AdminUsecase) DeleteProduct(ctx context.Context, id string) error {
	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error deleting product: "+err.Error())
	}

	if err := u.cartRepo.DeleteByProductID(ctx, id); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error deleting product: "+err.Error())
	}
	if err := u.productRepo.Delete(ctx, id); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error deleting product: "+err.Error())
	}
	u.deleteImage(ctx, p.ImageURL)
	return nil
}

// --- バナー ---

func (u *AdminUsecase) ListBanners(ctx context.Context) ([]model.Banner, error) {
	banners, err := u.bannerRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Error fetching banners: "+err.Error())
	}
	return banners, nil
}

func (u *AdminUsecase) CreateBanner(ctx context.Context, in BannerInput, image *ImageUpload) (model.Banner, error) {
	if strings.TrimSpace(in.Title) == "" {
		return model.Banner{}, NewHTTPError(http.StatusBadRequest, "Title is required")
	}

	imageURL := ""
	if image != nil {
		url, err := u.saveImage(ctx, "banners", *image)
		if err != nil {
			return model.Banner{}, err
		}
		imageURL = url
	}

	b, err := u.bannerRepo.Create(ctx, model.Banner{
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		LinkURL:      in.LinkURL,
		ImageURL:     imageURL,
		DisplayOrder: in.DisplayOrder,
		IsActive:     in.IsActive,
	})
	if err != nil {
		return model.Banner{}, NewHTTPError(http.StatusInternalServerError, "Error creating banner: "+err.Error())
	}
	return b, nil
}

func (u *AdminUsecase) UpdateBanner(ctx context.Context, id string, in BannerUpdateInput, image *ImageUpload) (model.Banner, error) {
	b, err := u.bannerRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Banner{}, NewHTTPError(http.StatusNotFound, "Banner not found")
	}
	if err != nil {
		return model.Banner{}, NewHTTPError(http.StatusInternalServerError, "Error updating banner: "+err.Error())
	}

	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.LinkURL != nil {
		b.LinkURL = *in.LinkURL
	}
	if in.DisplayOrder != nil {
		b.DisplayOrder = *in.DisplayOrder
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}

	if image != nil {
		url, err := u.saveImage(ctx, "banners", *image)
		if err != nil {
			return model.Banner{}, err
		}
		u.deleteImage(ctx, b.ImageURL)
		b.ImageURL = url
	}

	if err := u.bannerRepo.Update(ctx, b); err != nil {
		return model.Banner{}, NewHTTPError(http.StatusInternalServerError, "Error updating banner: "+err.Error())
	}
	return b, nil
}

func (u *AdminUsecase) DeleteBanner(ctx context.Context, id string) error {
	b, err := u.bannerRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Banner not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error deleting banner: "+err.Error())
	}

	if err := u.bannerRepo.Delete(ctx, id); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error deleting banner: "+err.Error())
	}
	u.deleteImage(ctx, b.ImageURL)
	return nil
}

// --- 注文管理 ---

func (u *AdminUsecase) ListOrders(ctx context.Context) ([]OrderResponse, error) {
	orders, err := u.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Error fetching orders: "+err.Error())
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderRepo.ListItemsByOrderID(ctx, o.ID)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "Error fetching orders: "+err.Error())
		}
		out = append(out, OrderResponse{Order: o, Items: items})
	}
	return out, nil
}

var validStatuses = map[model.OrderStatus]bool{
	model.OrderStatusPending:        true,
	model.OrderStatusConfirmed:      true,
	model.OrderStatusPreparing:      true,
	model.OrderStatusOutForDelivery: true,
	model.OrderStatusDelivered:      true,
	model.OrderStatusCancelled:      true,
}

// UpdateOrderStatus は配達ライフサイクルを外から進める唯一の口
func (u *AdminUsecase) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if !validStatuses[status] {
		return NewHTTPError(http.StatusBadRequest, "Invalid status")
	}

	err := u.orderRepo.UpdateStatus(ctx, orderID, status)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error updating order: "+err.Error())
	}
	return nil
}
