package model

import "time"

// ホーム画面カルーセル用のバナー
type Banner struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title        string    `gorm:"type:varchar(255);not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	LinkURL      string    `gorm:"column:link_url;type:varchar(500)" json:"link_url"`
	ImageURL     string    `gorm:"column:image_url;type:varchar(500)" json:"image_url"`
	DisplayOrder int       `gorm:"not null;default:1" json:"display_order"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
