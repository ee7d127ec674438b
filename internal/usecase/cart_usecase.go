package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"veggieapp/internal/domain/model"
	repo "veggieapp/internal/repository"
)

// 送料無料になる小計のしきい値と、未満のときの送料（通貨単位）
const (
	FreeDeliveryThreshold = 199.0
	DeliveryCharge        = 40.0
)

// CartUsecase は /cart の業務ロジックです。
// カートはユーザーごとに1つで、(product_id, selected_weight, selected_unit) が
// 行の重複排除キーになります。
type CartUsecase struct {
	cartRepo    repo.CartRepository
	productRepo repo.ProductRepository
}

func NewCartUsecase(cartRepo repo.CartRepository, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

type AddCartInput struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	SelectedWeight string `json:"selected_weight"`
	SelectedUnit   int    `json:"selected_unit"`
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity"`
}

// カート1行。商品情報を付けて返す
type CartItemResponse struct {
	CartItemID     string          `json:"cart_item_id"`
	Product        CartItemProduct `json:"product"`
	Quantity       int             `json:"quantity"`
	SelectedWeight string          `json:"selected_weight"`
	SelectedUnit   int             `json:"selected_unit"`
	UnitPrice      float64         `json:"unit_price"`
	ItemTotal      float64         `json:"item_total"`
	MaxQuantity    int             `json:"max_quantity"`
}

type CartItemProduct struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image_url"`
	BasePrice float64 `json:"base_price"`
}

// GET /cart のレスポンス（費用内訳つき）
type CartResponse struct {
	Items                 []CartItemResponse `json:"items"`
	Subtotal              float64            `json:"subtotal"`
	DeliveryCharge        float64            `json:"delivery_charge"`
	Total                 float64            `json:"total"`
	FreeDeliveryRemaining float64            `json:"free_delivery_remaining"`
	ItemCount             int                `json:"item_count"`
}

// GetCart はカート取得。商品が消えた行は表示から除外する
func (u *CartUsecase) GetCart(ctx context.Context, userID string) (CartResponse, error) {
	items, err := u.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "Error fetching cart: "+err.Error())
	}

	enriched := make([]CartItemResponse, 0, len(items))
	subtotal := 0.0

	for _, item := range items {
		p, err := u.productRepo.FindByID(ctx, item.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "Error fetching cart: "+err.Error())
		}

		itemTotal := lineTotal(p.BasePrice, item.Quantity, item.SelectedUnit)
		subtotal += itemTotal

		enriched = append(enriched, CartItemResponse{
			CartItemID: item.ID,
			Product: CartItemProduct{
				ID:        p.ID,
				Name:      p.Name,
				ImageURL:  p.ImageURL,
				BasePrice: p.BasePrice,
			},
			Quantity:       item.Quantity,
			SelectedWeight: item.SelectedWeight,
			SelectedUnit:   item.SelectedUnit,
			UnitPrice:      p.BasePrice,
			ItemTotal:      itemTotal,
			MaxQuantity:    p.StockQuantity,
		})
	}

	charge := deliveryChargeFor(subtotal)
	remaining := FreeDeliveryThreshold - subtotal
	if remaining < 0 {
		remaining = 0
	}

	return CartResponse{
		Items:                 enriched,
		Subtotal:              subtotal,
		DeliveryCharge:        charge,
		Total:                 subtotal + charge,
		FreeDeliveryRemaining: remaining,
		ItemCount:             len(enriched),
	}, nil
}

// AddToCart はカートに追加。同一バリアントは数量加算
func (u *CartUsecase) AddToCart(ctx context.Context, userID string, in AddCartInput) (model.CartItem, error) {
	if in.ProductID == "" {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "product_id is required")
	}
	if in.Quantity < 1 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "Quantity must be at least 1")
	}
	if in.SelectedUnit < 1 {
		in.SelectedUnit = 1
	}

	// 商品チェック（在庫含む）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "Error adding to cart: "+err.Error())
	}
	if p.StockQuantity < in.Quantity {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Only %d items available", p.StockQuantity))
	}

	// 既存バリアントがあれば加算（在庫は合算後で再チェック）
	existing, err := u.cartRepo.FindByVariant(ctx, userID, in.ProductID, in.SelectedWeight, in.SelectedUnit)
	if err == nil {
		newQty := existing.Quantity + in.Quantity
		if newQty > p.StockQuantity {
			return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "Not enough stock available")
		}
		if err := u.cartRepo.UpdateQuantity(ctx, existing.ID, newQty); err != nil {
			return model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "Error adding to cart: "+err.Error())
		}
		existing.Quantity = newQty
		return existing, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "Error adding to cart: "+err.Error())
	}

	item, err := u.cartRepo.Insert(ctx, model.CartItem{
		UserID:         userID,
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		SelectedWeight: in.SelectedWeight,
		SelectedUnit:   in.SelectedUnit,
	})
	if err != nil {
		return model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "Error adding to cart: "+err.Error())
	}
	return item, nil
}

// UpdateQuantity は数量変更。0以下は行の削除として扱う
func (u *CartUsecase) UpdateQuantity(ctx context.Context, userID, cartItemID string, in UpdateCartItemInput) error {
	if in.Quantity <= 0 {
		return u.RemoveItem(ctx, userID, cartItemID)
	}

	item, err := u.cartRepo.FindByID(ctx, cartItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Cart item not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error updating cart: "+err.Error())
	}
	if item.UserID != userID {
		return NewHTTPError(http.StatusNotFound, "Cart item not found")
	}

	p, err := u.productRepo.FindByID(ctx, item.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error updating cart: "+err.Error())
	}
	if in.Quantity > p.StockQuantity {
		return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Only %d items available", p.StockQuantity))
	}

	if err := u.cartRepo.UpdateQuantity(ctx, item.ID, in.Quantity); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error updating cart: "+err.Error())
	}
	return nil
}

// RemoveItem は行削除。他人の行や存在しない行でも成功で返す
func (u *CartUsecase) RemoveItem(ctx context.Context, userID, cartItemID string) error {
	if err := u.cartRepo.DeleteByIDAndUser(ctx, cartItemID, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error removing item: "+err.Error())
	}
	return nil
}

// ClearCart はカート全削除
func (u *CartUsecase) ClearCart(ctx context.Context, userID string) error {
	if err := u.cartRepo.ClearByUserID(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Error clearing cart: "+err.Error())
	}
	return nil
}

// 行小計 = base_price × quantity × selected_unit
func lineTotal(basePrice float64, quantity, selectedUnit int) float64 {
	if selectedUnit < 1 {
		selectedUnit = 1
	}
	return basePrice * float64(quantity) * float64(selectedUnit)
}

func deliveryChargeFor(subtotal float64) float64 {
	if subtotal >= FreeDeliveryThreshold {
		return 0
	}
	return DeliveryCharge
}
