package usecase_test

import (
	"context"
	"testing"

	"veggieapp/internal/domain/model"
	repo "veggieapp/internal/repository"
	"veggieapp/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders   repo.OrderRepository
	carts    repo.CartRepository
	products repo.ProductRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository     { return r.orders }
func (r *TxReposMock) Carts() repo.CartRepository       { return r.carts }
func (r *TxReposMock) Products() repo.ProductRepository { return r.products }

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (model.Order, error) {
	args := m.Called(ctx, order)
	created, _ := args.Get(0).(model.Order)
	return created, args.Error(1)
}

func (m *OrderRepoMock) CreateItems(ctx context.Context, items []model.OrderItem) ([]model.OrderItem, error) {
	args := m.Called(ctx, items)
	created, _ := args.Get(0).([]model.OrderItem)
	return created, args.Error(1)
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByOrderNumber(ctx context.Context, orderNumber string) (model.Order, error) {
	args := m.Called(ctx, orderNumber)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListItemsByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) CountByUserID(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) CountByStatus(ctx context.Context, status model.OrderStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) SumFinalAmount(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func newOrderTestUC(orders *OrderRepoMock, carts *CartRepoMock, products *ProductRepoMock) (*usecase.OrderUsecase, *TxManagerMock) {
	tx := &TxManagerMock{Repos: &TxReposMock{orders: orders, carts: carts, products: products}}
	tx.On("WithinTx", mock.Anything).Return(nil)
	return usecase.NewOrderUsecase(orders, tx), tx
}

// =====================
// PlaceOrder
// =====================

func TestOrderUsecase_PlaceOrder_TotalsAboveThreshold(t *testing.T) {
	ctx := context.Background()
	orders := new(OrderRepoMock)
	carts := new(CartRepoMock)
	products := new(ProductRepoMock)
	uc, _ := newOrderTestUC(orders, carts, products)

	user := model.User{ID: "user-abc123", Phone: "9876543210"}

	carts.On("ListByUserID", ctx, user.ID).Return([]model.CartItem{
		{ID: "c1", ProductID: "p1", Quantity: 2, SelectedUnit: 1},
		{ID: "c2", ProductID: "p2", Quantity: 1, SelectedUnit: 2},
	}, nil)
	products.On("FindByID", ctx, "p1").Return(model.Product{ID: "p1", Name: "Tomato", BasePrice: 50}, nil)
	products.On("FindByID", ctx, "p2").Return(model.Product{ID: "p2", Name: "Rice", BasePrice: 60}, nil)
	orders.On("CountByUserID", ctx, user.ID).Return(int64(0), nil)

	// 50*2*1 + 60*1*2 = 220 ≥ 199 → 送料0
	orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return o.TotalAmount == 220 && o.DeliveryCharges == 0 && o.FinalAmount == 220 &&
			o.Status == model.OrderStatusPending && o.PaymentStatus == model.PaymentStatusPending
	})).Return(model.Order{ID: "o1", OrderNumber: "ORD000123"}, nil)
	orders.On("CreateItems", ctx, mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 && items[0].OrderID == "o1" && items[0].ItemTotal == 100 && items[1].ItemTotal == 120
	})).Return([]model.OrderItem{{}, {}}, nil)
	carts.On("ClearByUserID", ctx, user.ID).Return(nil)

	out, err := uc.PlaceOrder(ctx, user, usecase.PlaceOrderInput{})
	assert.NoError(t, err)
	assert.Equal(t, "o1", out.ID)
	orders.AssertExpectations(t)
	carts.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_DeliveryChargeBelowThreshold(t *testing.T) {
	ctx := context.Background()
	orders := new(OrderRepoMock)
	carts := new(CartRepoMock)
	products := new(ProductRepoMock)
	uc, _ := newOrderTestUC(orders, carts, products)

	user := model.User{ID: "u1"}

	carts.On("ListByUserID", ctx, user.ID).Return([]model.CartItem{
		{ID: "c1", ProductID: "p1", Quantity: 3, SelectedUnit: 1},
	}, nil)
	products.On("FindByID", ctx, "p1").Return(model.Product{ID: "p1", BasePrice: 50}, nil)
	orders.On("CountByUserID", ctx, user.ID).Return(int64(0), nil)

	// 小計150 < 199 → 送料40、合計190
	orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return o.TotalAmount == 150 && o.DeliveryCharges == 40 && o.FinalAmount == 190
	})).Return(model.Order{ID: "o1"}, nil)
	orders.On("CreateItems", ctx, mock.Anything).Return([]model.OrderItem{{}}, nil)
	carts.On("ClearByUserID", ctx, user.ID).Return(nil)

	_, err := uc.PlaceOrder(ctx, user, usecase.PlaceOrderInput{})
	assert.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()
	orders := new(OrderRepoMock)
	carts := new(CartRepoMock)
	products := new(ProductRepoMock)
	uc, _ := newOrderTestUC(orders, carts, products)

	carts.On("ListByUserID", ctx, "u1").Return([]model.CartItem{}, nil)

	_, err := uc.PlaceOrder(ctx, model.User{ID: "u1"}, usecase.PlaceOrderInput{})
	assertHTTPStatus(t, err, 400)
	assertErrContains(t, err, "Cart is empty")
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_PlaceOrder_SkipsDeletedProducts(t *testing.T) {
	ctx := context.Background()
	orders := new(OrderRepoMock)
	carts := new(CartRepoMock)
	products := new(ProductRepoMock)
	uc, _ := newOrderTestUC(orders, carts, products)

	user := model.User{ID: "u1"}

	carts.On("ListByUserID", ctx, user.ID).Return([]model.CartItem{
		{ID: "c1", ProductID: "gone", Quantity: 5, SelectedUnit: 1},
		{ID: "c2", ProductID: "p1", Quantity: 1, SelectedUnit: 1},
	}, nil)
	products.On("FindByID", ctx, "gone").Return(model.Product{}, repo.ErrNotFound)
	products.On("FindByID", ctx, "p1").Return(model.Product{ID: "p1", BasePrice: 30}, nil)
	orders.On("CountByUserID", ctx, user.ID).Return(int64(0), nil)

	// 消えた商品の行は含めず、残った商品だけで計算する
	orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return o.TotalAmount == 30 && o.DeliveryCharges == 40
	})).Return(model.Order{ID: "o1"}, nil)
	orders.On("CreateItems", ctx, mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 && items[0].ProductID == "p1"
	})).Return([]model.OrderItem{{}}, nil)
	carts.On("ClearByUserID", ctx, user.ID).Return(nil)

	_, err := uc.PlaceOrder(ctx, user, usecase.PlaceOrderInput{})
	assert.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestOrderUsecase_PlaceOrder_OrderNumberFormat(t *testing.T) {
	ctx := context.Background()
	orders := new(OrderRepoMock)
	carts := new(CartRepoMock)
	products := new(ProductRepoMock)
	uc, _ := newOrderTestUC(orders, carts, products)

	user := model.User{ID: "user-xyz"}

	carts.On("ListByUserID", ctx, user.ID).Return([]model.CartItem{
		{ID: "c1", ProductID: "p1", Quantity: 1, SelectedUnit: 1},
	}, nil)
	products.On("FindByID", ctx, "p1").Return(model.Product{ID: "p1", BasePrice: 10}, nil)

	// 既存注文7件 → "ORD007" + ユーザーID末尾3文字
	orders.On("CountByUserID", ctx, user.ID).Return(int64(7), nil)
	orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return o.OrderNumber == "ORD007xyz"
	})).Return(model.Order{ID: "o1", OrderNumber: "ORD007xyz"}, nil)
	orders.On("CreateItems", ctx, mock.Anything).Return([]model.OrderItem{{}}, nil)
	carts.On("ClearByUserID", ctx, user.ID).Return(nil)

	out, err := uc.PlaceOrder(ctx, user, usecase.PlaceOrderInput{})
	assert.NoError(t, err)
	assert.Equal(t, "ORD007xyz", out.OrderNumber)
}

func TestOrderUsecase_PlaceOrder_DefaultsPaymentMethodToCOD(t *testing.T) {
	ctx := context.Background()
	orders := new(OrderRepoMock)
	carts := new(CartRepoMock)
	products := new(ProductRepoMock)
	uc, _ := newOrderTestUC(orders, carts, products)

	user := model.User{ID: "u1"}

	carts.On("ListByUserID", ctx, user.ID).Return([]model.CartItem{
		{ID: "c1", ProductID: "p1", Quantity: 1, SelectedUnit: 1},
	}, nil)
	products.On("FindByID", ctx, "p1").Return(model.Product{ID: "p1", BasePrice: 10}, nil)
	orders.On("CountByUserID", ctx, user.ID).Return(int64(0), nil)
	orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return o.PaymentMethod == "cod"
	})).Return(model.Order{ID: "o1"}, nil)
	orders.On("CreateItems", ctx, mock.Anything).Return([]model.OrderItem{{}}, nil)
	carts.On("ClearByUserID", ctx, user.ID).Return(nil)

	_, err := uc.PlaceOrder(ctx, user, usecase.PlaceOrderInput{})
	assert.NoError(t, err)
}

// =====================
// ListMyOrders / TrackOrder
// =====================

func TestOrderUsecase_ListMyOrders_AttachesItems(t *testing.T) {
	ctx := context.Background()
	orders := new(OrderRepoMock)
	uc := usecase.NewOrderUsecase(orders, &TxManagerMock{})

	orders.On("ListByUserID", ctx, "u1").Return([]model.Order{
		{ID: "o2"}, {ID: "o1"},
	}, nil)
	orders.On("ListItemsByOrderID", ctx, "o2").Return([]model.OrderItem{{ID: "i2"}}, nil)
	orders.On("ListItemsByOrderID", ctx, "o1").Return([]model.OrderItem{{ID: "i1"}}, nil)

	out, err := uc.ListMyOrders(ctx, "u1")
	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, "i2", out[0].Items[0].ID)
}

func TestOrderUsecase_TrackOrder_Timeline(t *testing.T) {
	ctx := context.Background()
	orders := new(OrderRepoMock)
	uc := usecase.NewOrderUsecase(orders, &TxManagerMock{})

	orders.On("FindByOrderNumber", ctx, "ORD000abc").
		Return(model.Order{ID: "o1", OrderNumber: "ORD000abc", Status: model.OrderStatusPreparing}, nil)
	orders.On("ListItemsByOrderID", ctx, "o1").Return([]model.OrderItem{}, nil)

	out, err := uc.TrackOrder(ctx, "ORD000abc")
	assert.NoError(t, err)
	assert.Len(t, out.TrackingTimeline, 5)
	// preparingまで完了、out_for_delivery以降は未達
	assert.True(t, out.TrackingTimeline[0].Completed)
	assert.True(t, out.TrackingTimeline[2].Completed)
	assert.False(t, out.TrackingTimeline[3].Completed)
	assert.False(t, out.TrackingTimeline[4].Completed)
}

func TestOrderUsecase_TrackOrder_NotFound(t *testing.T) {
	ctx := context.Background()
	orders := new(OrderRepoMock)
	uc := usecase.NewOrderUsecase(orders, &TxManagerMock{})

	orders.On("FindByOrderNumber", ctx, "nope").Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.TrackOrder(ctx, "nope")
	assertHTTPStatus(t, err, 404)
}
