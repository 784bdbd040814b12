// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order rows are upserted by the Stripe webhook on checkout.session.completed.
type Order struct {
	BaseModel
	UserID           *uuid.UUID      `json:"user_id" gorm:"type:uuid;index"`
	StoreID          *uuid.UUID      `json:"store_id" gorm:"type:uuid;index"`
	StripeSessionID  string          `json:"stripe_session_id" gorm:"uniqueIndex;size:255;not null"`
	StripeCustomerID string          `json:"stripe_customer_id" gorm:"size:255;index"`
	AmountTotal      decimal.Decimal `json:"amount_total" gorm:"type:decimal(10,2)"`
	CurrencyCode     string          `json:"currency_code" gorm:"size:3"`
	Status           OrderStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CustomerEmail    string          `json:"customer_email" gorm:"size:255"`
	LineItems        JSONB           `json:"line_items" gorm:"type:jsonb"`
	PaidAt           *time.Time      `json:"paid_at"`
}

// Subscription mirrors the owner's Stripe subscription lifecycle.
type Subscription struct {
	BaseModel
	UserID               *uuid.UUID         `json:"user_id" gorm:"type:uuid;index"`
	StripeSubscriptionID string             `json:"stripe_subscription_id" gorm:"uniqueIndex;size:255;not null"`
	StripeCustomerID     string             `json:"stripe_customer_id" gorm:"size:255;index"`
	PriceID              string             `json:"price_id" gorm:"size:255"`
	Status               SubscriptionStatus `json:"status" gorm:"type:varchar(20);index"`
	CurrentPeriodEnd     *time.Time         `json:"current_period_end"`
	CanceledAt           *time.Time         `json:"canceled_at"`
}
