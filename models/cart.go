package models

import "time"

type Cart struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      string     `gorm:"uniqueIndex" json:"userId"` // one cart per user
	Items       []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"index" json:"-"`
	ProductID uint      `gorm:"not null" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"` // effective price snapshot at add time
	AddedAt   time.Time `json:"addedAt"`
}
