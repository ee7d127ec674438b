package model

import "time"

// アクセストークン。所持＝認証（有効期限・失効なし）
// 1ユーザーにつき複数共存してよい
type Token struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	Phone     string    `gorm:"type:varchar(20);not null;index" json:"phone"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
