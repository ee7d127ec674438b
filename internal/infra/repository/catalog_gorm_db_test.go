package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"veggieapp/internal/domain/model"
	infrarepo "veggieapp/internal/infra/repository"
	repo "veggieapp/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB接続文字列を環境変数から読む。未設定ならDBが要るテストは飛ばす
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Category{}, &model.Product{}))
	return db
}

// 他のテストデータと混ざらないよう名前に入れる目印
func testMarker() string {
	return fmt.Sprintf("zz%d", time.Now().UnixNano())
}

func TestCategoryGormRepository_ListActive_OrdersByDisplayOrder(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	r := infrarepo.NewCategoryGormRepository(db)
	marker := testMarker()

	// display_orderをバラバラに入れる＋非公開を1件混ぜる
	created := make([]model.Category, 0, 4)
	for _, c := range []model.Category{
		{Name: "C3-" + marker, DisplayOrder: 3, IsActive: true},
		{Name: "C1-" + marker, DisplayOrder: 1, IsActive: true},
		{Name: "C2-" + marker, DisplayOrder: 2, IsActive: true},
		{Name: "Hidden-" + marker, DisplayOrder: 0, IsActive: false},
	} {
		row, err := r.Create(ctx, c)
		require.NoError(t, err)
		created = append(created, row)
	}
	defer func() {
		ids := make([]string, 0, len(created))
		for _, c := range created {
			ids = append(ids, c.ID)
		}
		db.Where("id IN ?", ids).Delete(&model.Category{})
	}()

	all, err := r.ListActive(ctx)
	require.NoError(t, err)

	// 自分が入れた行だけ拾って相対順を見る
	var mine []string
	for _, c := range all {
		switch c.Name {
		case "C1-" + marker, "C2-" + marker, "C3-" + marker:
			mine = append(mine, c.Name)
		case "Hidden-" + marker:
			t.Fatalf("inactive category returned: %s", c.Name)
		}
	}
	assert.Equal(t, []string{"C1-" + marker, "C2-" + marker, "C3-" + marker}, mine)
}

func TestProductGormRepository_ListActive_SearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	r := infrarepo.NewProductGormRepository(db)
	marker := testMarker()

	created := make([]model.Product, 0, 2)
	for _, p := range []model.Product{
		{Name: "Tomato-" + marker, CategoryID: "cat-" + marker, BasePrice: 25, IsActive: true},
		{Name: "Potato-" + marker, CategoryID: "cat-" + marker, BasePrice: 30, IsActive: true},
	} {
		row, err := r.Create(ctx, p)
		require.NoError(t, err)
		created = append(created, row)
	}
	defer func() {
		ids := make([]string, 0, len(created))
		for _, p := range created {
			ids = append(ids, p.ID)
		}
		db.Where("id IN ?", ids).Delete(&model.Product{})
	}()

	// 小文字で検索しても大文字始まりのTomatoに当たる
	products, total, err := r.ListActive(ctx, repo.ProductListQuery{
		Search: "tomato-" + marker,
		Limit:  50,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Tomato-"+marker, products[0].Name)
}

func TestProductGormRepository_ListActive_SortsByPrice(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	r := infrarepo.NewProductGormRepository(db)
	marker := testMarker()

	created := make([]model.Product, 0, 3)
	for _, p := range []model.Product{
		{Name: "Mid-" + marker, CategoryID: "cat-" + marker, BasePrice: 20, IsActive: true},
		{Name: "Cheap-" + marker, CategoryID: "cat-" + marker, BasePrice: 10, IsActive: true},
		{Name: "Dear-" + marker, CategoryID: "cat-" + marker, BasePrice: 30, IsActive: true},
	} {
		row, err := r.Create(ctx, p)
		require.NoError(t, err)
		created = append(created, row)
	}
	defer func() {
		ids := make([]string, 0, len(created))
		for _, p := range created {
			ids = append(ids, p.ID)
		}
		db.Where("id IN ?", ids).Delete(&model.Product{})
	}()

	products, _, err := r.ListActive(ctx, repo.ProductListQuery{
		Search: marker,
		SortBy: "price_low",
		Limit:  50,
	})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, []float64{10, 20, 30}, []float64{
		products[0].BasePrice, products[1].BasePrice, products[2].BasePrice,
	})
}

func TestBannerGormRepository_ListActive_OrdersByDisplayOrder(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	require.NoError(t, db.AutoMigrate(&model.Banner{}))
	r := infrarepo.NewBannerGormRepository(db)
	marker := testMarker()

	created := make([]model.Banner, 0, 3)
	for _, b := range []model.Banner{
		{Title: "B2-" + marker, DisplayOrder: 2, IsActive: true},
		{Title: "B1-" + marker, DisplayOrder: 1, IsActive: true},
		{Title: "B3-" + marker, DisplayOrder: 3, IsActive: true},
	} {
		row, err := r.Create(ctx, b)
		require.NoError(t, err)
		created = append(created, row)
	}
	defer func() {
		ids := make([]string, 0, len(created))
		for _, b := range created {
			ids = append(ids, b.ID)
		}
		db.Where("id IN ?", ids).Delete(&model.Banner{})
	}()

	all, err := r.ListActive(ctx)
	require.NoError(t, err)

	var mine []string
	for _, b := range all {
		switch b.Title {
		case "B1-" + marker, "B2-" + marker, "B3-" + marker:
			mine = append(mine, b.Title)
		}
	}
	assert.Equal(t, []string{"B1-" + marker, "B2-" + marker, "B3-" + marker}, mine)
}
