package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"veggieapp/internal/domain/model"
	repo "veggieapp/internal/repository"

	"gorm.io/datatypes"
)

// OrderUsecase は注文の作成と照会の業務ロジックです。
// 注文作成は「明細スナップショット＋注文行の挿入＋カート全削除」を
// 1トランザクションで確定します。
type OrderUsecase struct {
	orderRepo repo.OrderRepository
	txManager repo.TransactionManager
}

func NewOrderUsecase(orderRepo repo.OrderRepository, txManager repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{
		orderRepo: orderRepo,
		txManager: txManager,
	}
}

type PlaceOrderInput struct {
	DeliveryAddress     datatypes.JSON `json:"delivery_address"`
	DeliverySlot        string         `json:"delivery_slot"`
	PaymentMethod       string         `json:"payment_method"`
	SpecialInstructions string         `json:"special_instructions"`
}

// 注文＋明細のレスポンス
type OrderResponse struct {
	model.Order
	Items []model.OrderItem `json:"items"`
}

// 追跡レスポンス。ステータスごとの進捗タイムラインを付ける
type TrackOrderResponse struct {
	OrderResponse
	TrackingTimeline []TrackingStep `json:"tracking_timeline"`
}

type TrackingStep struct {
	Step      string `json:"step"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// PlaceOrder はカートを不変の注文に確定します。
// 明細の単価は注文時点の商品価格を読み直し（カート追加時の価格は使わない）、
// カートに入れた後に消えた商品の行は黙ってスキップします。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, user model.User, in PlaceOrderInput) (OrderResponse, error) {
	if in.PaymentMethod == "" {
		in.PaymentMethod = "cod"
	}

	var placed OrderResponse

	err := u.txManager.WithinTx(ctx, func(r repo.TxRepos) error {
		cartItems, err := r.Carts().ListByUserID(ctx, user.ID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "Cart is empty")
		}

		// 明細スナップショットを作る
		subtotal := 0.0
		orderItems := make([]model.OrderItem, 0, len(cartItems))

		for _, item := range cartItems {
			p, err := r.Products().FindByID(ctx, item.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				// カート追加後に消えた商品は行ごとスキップ
				continue
			}
			if err != nil {
				return err
			}

			itemTotal := lineTotal(p.BasePrice, item.Quantity, item.SelectedUnit)
			subtotal += itemTotal

			orderItems = append(orderItems, model.OrderItem{
				ProductID:      p.ID,
				ProductName:    p.Name,
				Quantity:       item.Quantity,
				SelectedWeight: item.SelectedWeight,
				SelectedUnit:   item.SelectedUnit,
				UnitPrice:      p.BasePrice,
				ItemTotal:      itemTotal,
			})
		}

		charge := deliveryChargeFor(subtotal)

		// 注文番号 = "ORD" + これまでの注文数（3桁ゼロ埋め） + ユーザーID末尾3文字
		priorCount, err := r.Orders().CountByUserID(ctx, user.ID)
		if err != nil {
			return err
		}
		orderNumber := fmt.Sprintf("ORD%03d%s", priorCount, lastChars(user.ID, 3))

		order, err := r.Orders().Create(ctx, model.Order{
			OrderNumber:         orderNumber,
			UserID:              user.ID,
			TotalAmount:         subtotal,
			DeliveryCharges:     charge,
			FinalAmount:         subtotal + charge,
			Status:              model.OrderStatusPending,
			PaymentStatus:       model.PaymentStatusPending,
			PaymentMethod:       in.PaymentMethod,
			DeliverySlot:        in.DeliverySlot,
			SpecialInstructions: in.SpecialInstructions,
			DeliveryAddress:     in.DeliveryAddress,
		})
		if err != nil {
			return err
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		items, err := r.Orders().CreateItems(ctx, orderItems)
		if err != nil {
			return err
		}

		// 確定できたらカートは空にする（同一コミット）
		if err := r.Carts().ClearByUserID(ctx, user.ID); err != nil {
			return err
		}

		placed = OrderResponse{Order: order, Items: items}
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return OrderResponse{}, err
		}
		return OrderResponse{}, NewHTTPError(http.StatusInternalServerError, "Error placing order: "+err.Error())
	}

	return placed, nil
}

// ListMyOrders はユーザー自身の注文履歴（新しい順、明細つき）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID string) ([]OrderResponse, error) {
	orders, err := u.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "Error fetching orders: "+err.Error())
	}
	return u.withItems(ctx, orders)
}

// TrackOrder は注文番号での追跡
func (u *OrderUsecase) TrackOrder(ctx context.Context, orderNumber string) (TrackOrderResponse, error) {
	order, err := u.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if errors.Is(err, repo.ErrNotFound) {
		return TrackOrderResponse{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		return TrackOrderResponse{}, NewHTTPError(http.StatusInternalServerError, "Error tracking order: "+err.Error())
	}

	items, err := u.orderRepo.ListItemsByOrderID(ctx, order.ID)
	if err != nil {
		return TrackOrderResponse{}, NewHTTPError(http.StatusInternalServerError, "Error tracking order: "+err.Error())
	}

	return TrackOrderResponse{
		OrderResponse:    OrderResponse{Order: order, Items: items},
		TrackingTimeline: buildTimeline(order.Status),
	}, nil
}

func (u *OrderUsecase) withItems(ctx context.Context, orders []model.Order) ([]OrderResponse, error) {
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

// 配達ステータスの進捗順
var statusRank = map[model.OrderStatus]int{
	model.OrderStatusPending:        0,
	model.OrderStatusConfirmed:      1,
	model.OrderStatusPreparing:      2,
	model.OrderStatusOutForDelivery: 3,
	model.OrderStatusDelivered:      4,
}

func buildTimeline(status model.OrderStatus) []TrackingStep {
	rank, ok := statusRank[status]
	if !ok {
		rank = -1 // cancelledなどは先頭以外未達扱い
	}
	steps := []struct {
		step  model.OrderStatus
		title string
	}{
		{model.OrderStatusPending, "Order Placed"},
		{model.OrderStatusConfirmed, "Order Confirmed"},
		{model.OrderStatusPreparing, "Preparing"},
		{model.OrderStatusOutForDelivery, "Out for Delivery"},
		{model.OrderStatusDelivered, "Delivered"},
	}

	timeline := make([]TrackingStep, 0, len(steps))
	for i, s := range steps {
		timeline = append(timeline, TrackingStep{
			Step:      string(s.step),
			Title:     s.title,
			Completed: i == 0 || rank >= i,
		})
	}
	return timeline
}

func lastChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
