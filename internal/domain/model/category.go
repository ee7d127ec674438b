package model

import "time"

// 商品カテゴリ。display_order昇順で表示する
type Category struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Icon         string    `gorm:"type:varchar(50)" json:"icon"`
	Color        string    `gorm:"type:varchar(20)" json:"color"`
	ImageURL     string    `gorm:"column:image_url;type:varchar(500)" json:"image_url"`
	DisplayOrder int       `gorm:"not null;default:1" json:"display_order"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
