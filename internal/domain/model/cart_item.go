package model

import "time"

// カートの明細。
// (user_id, product_id, selected_weight, selected_unit) がバリアントキーで、
// 同一バリアントの再追加は行を増やさず数量加算になる
type CartItem struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID         string    `gorm:"column:user_id;type:varchar(36);not null;index" json:"user_id"`
	ProductID      string    `gorm:"column:product_id;type:varchar(36);not null;index" json:"product_id"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	SelectedWeight string    `gorm:"column:selected_weight;type:varchar(20);not null" json:"selected_weight"`
	SelectedUnit   int       `gorm:"column:selected_unit;not null;default:1" json:"selected_unit"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
