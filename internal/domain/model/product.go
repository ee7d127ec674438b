package model

import "time"

type Product struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CategoryID    string    `gorm:"column:category_id;type:varchar(36);not null;index" json:"category_id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	BasePrice     float64   `gorm:"column:base_price;not null" json:"base_price"`
	StockQuantity int       `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	Featured      bool      `gorm:"not null;default:false" json:"featured"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	ImageURL      string    `gorm:"column:image_url;type:varchar(500)" json:"image_url"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
