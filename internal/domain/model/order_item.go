package model

import "time"

// 注文明細。注文時点の商品名・単価のスナップショットを必ず保存
// （以後の商品変更の影響を受けない）
type OrderItem struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID        string    `gorm:"column:order_id;type:varchar(36);not null;index" json:"-"`
	ProductID      string    `gorm:"column:product_id;type:varchar(36);not null" json:"product_id"`
	ProductName    string    `gorm:"column:product_name;type:varchar(255);not null" json:"product_name"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	SelectedWeight string    `gorm:"column:selected_weight;type:varchar(20)" json:"selected_weight"`
	SelectedUnit   int       `gorm:"column:selected_unit;not null;default:1" json:"selected_unit"`
	UnitPrice      float64   `gorm:"column:unit_price;not null" json:"unit_price"`
	ItemTotal      float64   `gorm:"column:item_total;not null" json:"item_total"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"-"`
}
