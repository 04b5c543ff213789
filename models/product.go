package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Product struct {
	ID            uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string     `gorm:"not null;index" json:"name"`
	Description   string     `json:"description"`
	Price         float64    `gorm:"not null" json:"price"`
	DiscountPrice *float64   `json:"discountPrice,omitempty"`
	Category      string     `gorm:"not null;index" json:"category"` // denormalized category name
	Brand         string     `gorm:"index" json:"brand"`
	Stock         int        `gorm:"not null;default:0" json:"stock"`
	Images        StringList `gorm:"type:text" json:"images"`
	Status        string     `gorm:"type:VARCHAR(20);default:'active';index" json:"status"`
	Featured      bool       `gorm:"default:false" json:"featured"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// EffectivePrice is what a customer actually pays: the discount price when one
// is set, the regular price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 {
		return *p.DiscountPrice
	}
	return p.Price
}

// StringList stores a slice of strings as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported column type for StringList")
	}
}
