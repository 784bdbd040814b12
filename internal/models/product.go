// internal/models/product.go
package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ProductImage carries the alt text plus the resolutions the preview uses.
type ProductImage struct {
	Alt       string `json:"alt"`
	Src       string `json:"src"`
	SrcSmall  string `json:"srcSmall,omitempty"`
	SrcMedium string `json:"srcMedium,omitempty"`
}

func (i ProductImage) Value() (driver.Value, error) {
	return json.Marshal(i)
}

func (i *ProductImage) Scan(value interface{}) error {
	if value == nil {
		*i = ProductImage{}
		return nil
	}
	bytes, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, i)
}

type Product struct {
	BaseModel
	StoreID       uuid.UUID       `json:"store_id" gorm:"type:uuid;not null;index"`
	PlatformID    string          `json:"platform_id" gorm:"size:255;index"`
	Name          string          `json:"name" gorm:"size:255;not null"`
	Description   string          `json:"description" gorm:"type:text"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CurrencyCode  string          `json:"currency_code" gorm:"size:3;default:'USD'"`
	Image         ProductImage    `json:"image" gorm:"type:jsonb"`
	Rating        float64         `json:"rating" gorm:"type:decimal(3,2);default:0"`
	Stock         int             `json:"stock" gorm:"default:0"`
	Tags          pq.StringArray  `json:"tags,omitempty" gorm:"type:text[]"`
	StripePriceID string          `json:"stripe_price_id,omitempty" gorm:"size:255"`
}

// ProductDraft is the normalized pre-persistence product shape.
type ProductDraft struct {
	PlatformID   string          `json:"platform_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CurrencyCode string          `json:"currency_code"`
	Image        ProductImage    `json:"image"`
	Rating       float64         `json:"rating"`
	Stock        int             `json:"stock"`
	Tags         []string        `json:"tags,omitempty"`
}

// CartItem is a client-held snapshot sent with checkout requests; carts are
// never persisted server-side.
type CartItem struct {
	ProductID string          `json:"product_id" validate:"required"`
	StoreID   string          `json:"store_id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	ImageURL  string          `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
}
