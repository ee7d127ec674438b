package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"veggieapp/internal/domain/model"
	repo "veggieapp/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// CatalogUsecase はカタログ閲覧（カテゴリ・商品・バナー）の業務ロジックです。
// すべて公開側（is_active=true）のみを返します。
type CatalogUsecase struct {
	categoryRepo repo.CategoryRepository
	productRepo  repo.ProductRepository
	bannerRepo   repo.BannerRepository
}

func NewCatalogUsecase(
	categoryRepo repo.CategoryRepository,
	productRepo repo.ProductRepository,
	bannerRepo repo.BannerRepository,
) *CatalogUsecase {
	return &CatalogUsecase{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		bannerRepo:   bannerRepo,
	}
}

type ProductListInput struct {
	CategoryID *string
	Featured   *bool
	Search     string
	SortBy     string
	Skip       int
	Limit      int
}

// 商品一覧の1行。カテゴリ名とアイコンを付けて返す
type ProductListItem struct {
	model.Product
	CategoryName string `json:"category_name,omitempty"`
	CategoryIcon string `json:"category_icon,omitempty"`
}

type ProductListResponse struct {
	Products       []ProductListItem `json:"products"`
	TotalCount     int64             `json:"total_count"`
	HasMore        bool              `json:"has_more"`
	FiltersApplied FiltersApplied    `json:"filters_applied"`
}

type FiltersApplied struct {
	CategoryID *string `json:"category_id"`
	Search     string  `json:"search"`
	Featured   *bool   `json:"featured"`
	SortBy     string  `json:"sort_by"`
}

// 商品詳細。カテゴリと在庫ステータスを付けて返す
type ProductDetailResponse struct {
	model.Product
	Category    *model.Category `json:"category,omitempty"`
	StockStatus string          `json:"stock_status"`
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := u.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Error fetching categories: "+err.Error())
	}
	return categories, nil
}

func (u *CatalogUsecase) GetCategory(ctx context.Context, id string) (model.Category, error) {
	c, err := u.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "Category not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "Error fetching category: "+err.Error())
	}
	if !c.IsActive {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "Category not found")
	}
	return c, nil
}

func (u *CatalogUsecase) ListBanners(ctx context.Context) ([]model.Banner, error) {
	banners, err := u.bannerRepo.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Error fetching banners: "+err.Error())
	}
	return banners, nil
}

// ListProducts は公開商品の検索。フィルタ・ソート・ページングはSQL側に押し込む。
func (u *CatalogUsecase) ListProducts(ctx context.Context, in ProductListInput) (ProductListResponse, error) {
	if in.Skip < 0 {
		in.Skip = 0
	}
	if in.Limit <= 0 {
		in.Limit = 50
	}

	products, total, err := u.productRepo.ListActive(ctx, repo.ProductListQuery{
		CategoryID: in.CategoryID,
		Featured:   in.Featured,
		Search:     in.Search,
		SortBy:     in.SortBy,
		Skip:       in.Skip,
		Limit:      in.Limit,
	})
	if err != nil {
		return ProductListResponse{}, NewHTTPError(http.StatusInternalServerError, "Error fetching products: "+err.Error())
	}

	// カテゴリ名/アイコンを付与
	categories, err := u.categoryRepo.ListAll(ctx)
	if err != nil {
		return ProductListResponse{}, NewHTTPError(http.StatusInternalServerError, "Error fetching products: "+err.Error())
	}
	byID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	items := make([]ProductListItem, 0, len(products))
	for _, p := range products {
		item := ProductListItem{Product: p}
		if c, ok := byID[p.CategoryID]; ok {
			item.CategoryName = c.Name
			item.CategoryIcon = c.Icon
		}
		items = append(items, item)
	}

	return ProductListResponse{
		Products:   items,
		TotalCount: total,
		HasMore:    int64(in.Skip+in.Limit) < total,
		FiltersApplied: FiltersApplied{
			CategoryID: in.CategoryID,
			Search:     in.Search,
			Featured:   in.Featured,
			SortBy:     in.SortBy,
		},
	}, nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, id string) (ProductDetailResponse, error) {
	p, err := u.productRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDetailResponse{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return ProductDetailResponse{}, NewHTTPError(http.StatusInternalServerError, "Error fetching product: "+err.Error())
	}
	if !p.IsActive {
		return ProductDetailResponse{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}

	resp := ProductDetailResponse{
		Product:     p,
		StockStatus: stockStatus(p.StockQuantity),
	}

	if c, err := u.categoryRepo.FindByID(ctx, p.CategoryID); err == nil {
		resp.Category = &c
	}

	return resp, nil
}

// ホーム画面に必要なデータの寄せ集め
type HomeResponse struct {
	Banners          []model.Banner   `json:"banners"`
	Categories       []model.Category `json:"categories"`
	FeaturedProducts []model.Product  `json:"featured_products"`
	TotalProducts    int64            `json:"total_products"`
	AppInfo          AppInfo          `json:"app_info"`
}

type AppInfo struct {
	FreeDeliveryAbove float64  `json:"free_delivery_above"`
	DeliveryCharge    float64  `json:"delivery_charge"`
	DeliverySlots     []string `json:"delivery_slots"`
	PaymentMethods    []string `json:"payment_methods"`
}

type DeliverySlot struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type DeliverySlotsResponse struct {
	Slots []DeliverySlot `json:"slots"`
}

// 配達枠は固定（予約管理はしない）
var deliverySlots = []DeliverySlot{
	{ID: "today_morning", Label: "Today Morning", Time: "8:00 AM - 12:00 PM", Available: true},
	{ID: "today_evening", Label: "Today Evening", Time: "4:00 PM - 8:00 PM", Available: true},
	{ID: "tomorrow_morning", Label: "Tomorrow Morning", Time: "8:00 AM - 12:00 PM", Available: true},
}

// Home はホーム画面の初期表示（バナー・カテゴリ・注目商品）を1回で返す
func (u *CatalogUsecase) Home(ctx context.Context) (HomeResponse, error) {
	banners, err := u.bannerRepo.ListActive(ctx)
	if err != nil {
		return HomeResponse{}, NewHTTPError(http.StatusInternalServerError, "Error loading home screen: "+err.Error())
	}

	categories, err := u.categoryRepo.ListActive(ctx)
	if err != nil {
		return HomeResponse{}, NewHTTPError(http.StatusInternalServerError, "Error loading home screen: "+err.Error())
	}

	featured := true
	featuredProducts, _, err := u.productRepo.ListActive(ctx, repo.ProductListQuery{
		Featured: &featured,
		Limit:    50,
	})
	if err != nil {
		return HomeResponse{}, NewHTTPError(http.StatusInternalServerError, "Error loading home screen: "+err.Error())
	}

	totalProducts, err := u.productRepo.CountActive(ctx)
	if err != nil {
		return HomeResponse{}, NewHTTPError(http.StatusInternalServerError, "Error loading home screen: "+err.Error())
	}

	slotIDs := make([]string, 0, len(deliverySlots))
	for _, s := range deliverySlots {
		slotIDs = append(slotIDs, s.ID)
	}

	return HomeResponse{
		Banners:          banners,
		Categories:       categories,
		FeaturedProducts: featuredProducts,
		TotalProducts:    totalProducts,
		AppInfo: AppInfo{
			FreeDeliveryAbove: FreeDeliveryThreshold,
			DeliveryCharge:    DeliveryCharge,
			DeliverySlots:     slotIDs,
			PaymentMethods:    []string{"cod", "online"},
		},
	}, nil
}

// DeliverySlots は選択可能な配達枠を返す
func (u *CatalogUsecase) DeliverySlots() DeliverySlotsResponse {
	return DeliverySlotsResponse{Slots: deliverySlots}
}

// 在庫ステータス（10超: in_stock / 1〜10: low_stock / 0: out_of_stock）
func stockStatus(stock int) string {
	switch {
	case stock > 10:
		return "in_stock"
	case stock > 0:
		return "low_stock"
	default:
		return "out_of_stock"
	}
}
