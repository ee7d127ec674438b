package handler

import (
	"net/http"

	"veggieapp/internal/middleware"
	repo "veggieapp/internal/repository"
	"veggieapp/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /ordersのHTTP
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// /orders, /orders/track/{order_number} を登録
func (h *OrderHandler) RegisterRoutes(e *echo.Echo, tokenRepo repo.TokenRepository, userRepo repo.UserRepository) {
	g := e.Group("/orders")
	g.Use(middleware.BearerAuth(tokenRepo, userRepo))

	g.POST("", h.placeOrder)
	g.GET("", h.listMyOrders)
	g.GET("/track/:order_number", h.trackOrder)
}

func (h *OrderHandler) placeOrder(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "Not authenticated"})
	}

	var req usecase.PlaceOrderInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid body"})
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), user, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listMyOrders(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Detail: "Not authenticated"})
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), user.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) trackOrder(c echo.Context) error {
	out, err := h.uc.TrackOrder(c.Request().Context(), c.Param("order_number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
