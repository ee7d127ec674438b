package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"veggieapp/internal/domain/model"
	"veggieapp/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /adminのHTTP。multipartフォーム＋任意のimageファイルを受ける
type AdminHandler struct {
	uc *usecase.AdminUsecase
}

// DI
func NewAdminHandler(uc *usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/admin")

	g.GET("/stats", h.stats)
	g.GET("/orders", h.listOrders)
	g.PUT("/orders/:id/status", h.updateOrderStatus)

	g.GET("/categories", h.listCategories)
	g.POST("/categories", h.createCategory)
	g.PUT("/categories/:id", h.updateCategory)
	g.DELETE("/categories/:id", h.deleteCategory)

	g.GET("/products", h.listProducts)
	g.POST("/products", h.createProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deleteProduct)

	g.GET("/banners", h.listBanners)
	g.POST("/banners", h.createBanner)
	g.PUT("/banners/:id", h.updateBanner)
	g.DELETE("/banners/:id", h.deleteBanner)

	g.POST("/upload/image", h.uploadImage)
}

func (h *AdminHandler) stats(c echo.Context) error {
	out, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listOrders(c echo.Context) error {
	out, err := h.uc.ListOrders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) updateOrderStatus(c echo.Context) error {
	var req UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid body"})
	}

	if err := h.uc.UpdateOrderStatus(c.Request().Context(), c.Param("id"), model.OrderStatus(req.Status)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Order status updated"})
}

// --- カテゴリ ---

func (h *AdminHandler) listCategories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) createCategory(c echo.Context) error {
	image, closeImage, err := formImage(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid form data"})
	}
	defer closeImage()

	in := usecase.CategoryInput{
		Name:         c.FormValue("name"),
		Description:  c.FormValue("description"),
		Icon:         c.FormValue("icon"),
		Color:        c.FormValue("color"),
		DisplayOrder: formIntDefault(c, "display_order", 0),
		IsActive:     formBoolDefault(c, "is_active", true),
	}

	out, err := h.uc.CreateCategory(c.Request().Context(), in, image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminHandler) updateCategory(c echo.Context) error {
	image, closeImage, err := formImage(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid form data"})
	}
	defer closeImage()

	vals, _ := c.FormParams()
	in := usecase.CategoryUpdateInput{
		Name:         optString(vals, "name"),
		Description:  optString(vals, "description"),
		Icon:         optString(vals, "icon"),
		Color:        optString(vals, "color"),
		DisplayOrder: optInt(vals, "display_order"),
		IsActive:     optBool(vals, "is_active"),
	}

	out, err := h.uc.UpdateCategory(c.Request().Context(), c.Param("id"), in, image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) deleteCategory(c echo.Context) error {
	if err := h.uc.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Category deleted"})
}

// --- 商品 ---

func (h *AdminHandler) listProducts(c echo.Context) error {
	out, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) createProduct(c echo.Context) error {
	image, closeImage, err := formImage(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid form data"})
	}
	defer closeImage()

	basePrice, err := strconv.ParseFloat(c.FormValue("base_price"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid base_price"})
	}

	in := usecase.ProductInput{
		CategoryID:    c.FormValue("category_id"),
		Name:          c.FormValue("name"),
		Description:   c.FormValue("description"),
		BasePrice:     basePrice,
		StockQuantity: formIntDefault(c, "stock_quantity", 0),
		Featured:      formBoolDefault(c, "featured", false),
		IsActive:      formBoolDefault(c, "is_active", true),
	}

	out, err := h.uc.CreateProduct(c.Request().Context(), in, image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminHandler) updateProduct(c echo.Context) error {
	image, closeImage, err := formImage(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid form data"})
	}
	defer closeImage()

	vals, _ := c.FormParams()
	in := usecase.ProductUpdateInput{
		CategoryID:    optString(vals, "category_id"),
		Name:          optString(vals, "name"),
		Description:   optString(vals, "description"),
		BasePrice:     optFloat(vals, "base_price"),
		StockQuantity: optInt(vals, "stock_quantity"),
		Featured:      optBool(vals, "featured"),
		IsActive:      optBool(vals, "is_active"),
	}

	out, err := h.uc.UpdateProduct(c.Request().Context(), c.Param("id"), in, image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) deleteProduct(c echo.Context) error {
	if err := h.uc.DeleteProduct(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted"})
}

// --- バナー ---

func (h *AdminHandler) listBanners(c echo.Context) error {
	out, err := h.uc.ListBanners(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) createBanner(c echo.Context) error {
	image, closeImage, err := formImage(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid form data"})
	}
	defer closeImage()

	in := usecase.BannerInput{
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		LinkURL:      c.FormValue("link_url"),
		DisplayOrder: formIntDefault(c, "display_order", 0),
		IsActive:     formBoolDefault(c, "is_active", true),
	}

	out, err := h.uc.CreateBanner(c.Request().Context(), in, image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminHandler) updateBanner(c echo.Context) error {
	image, closeImage, err := formImage(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid form data"})
	}
	defer closeImage()

	vals, _ := c.FormParams()
	in := usecase.BannerUpdateInput{
		Title:        optString(vals, "title"),
		Description:  optString(vals, "description"),
		LinkURL:      optString(vals, "link_url"),
		DisplayOrder: optInt(vals, "display_order"),
		IsActive:     optBool(vals, "is_active"),
	}

	out, err := h.uc.UpdateBanner(c.Request().Context(), c.Param("id"), in, image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) deleteBanner(c echo.Context) error {
	if err := h.uc.DeleteBanner(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Banner deleted"})
}

// --- 画像アップロード ---

func (h *AdminHandler) uploadImage(c echo.Context) error {
	target := c.QueryParam("target")
	if target == "" {
		target = "products"
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid form data"})
	}
	defer closeImage()

	if image == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "No file uploaded"})
	}

	url, err := h.uc.UploadImage(c.Request().Context(), target, *image)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"image_url": url})
}

// --- multipartフォームのヘルパ ---

// "image" フィールドのファイルを開く。無ければ (nil, noop, nil)
func formImage(c echo.Context) (*usecase.ImageUpload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}

	return &usecase.ImageUpload{
		Filename:    fh.Filename,
		ContentType: contentTypeOf(fh),
		Size:        fh.Size,
		Body:        f,
	}, func() { f.Close() }, nil
}

func contentTypeOf(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func formIntDefault(c echo.Context, key string, def int) int {
	v := c.FormValue(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func formBoolDefault(c echo.Context, key string, def bool) bool {
	v := c.FormValue(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// 更新系はフィールドが送られてきたときだけ反映する
func optString(vals url.Values, key string) *string {
	if !vals.Has(key) {
		return nil
	}
	v := vals.Get(key)
	return &v
}

func optInt(vals url.Values, key string) *int {
	if !vals.Has(key) {
		return nil
	}
	n, err := strconv.Atoi(vals.Get(key))
	if err != nil {
		return nil
	}
	return &n
}

func optFloat(vals url.Values, key string) *float64 {
	if !vals.Has(key) {
		return nil
	}
	f, err := strconv.ParseFloat(vals.Get(key), 64)
	if err != nil {
		return nil
	}
	return &f
}

func optBool(vals url.Values, key string) *bool {
	if !vals.Has(key) {
		return nil
	}
	b, err := strconv.ParseBool(vals.Get(key))
	if err != nil {
		return nil
	}
	return &b
}
