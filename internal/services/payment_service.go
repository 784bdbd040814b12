// internal/services/payment_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	portalsession "github.com/stripe/stripe-go/v74/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/price"
	stripeproduct "github.com/stripe/stripe-go/v74/product"
	"github.com/stripe/stripe-go/v74/webhook"
	"gorm.io/gorm"

	"github.com/Artistsreach/storegen-sub000/internal/config"
	"github.com/Artistsreach/storegen-sub000/internal/models"
)

type PaymentService struct {
	db           *gorm.DB
	config       *config.Config
	storeService *StoreService
}

type CreateCheckoutSessionRequest struct {
	StoreID    string            `json:"store_id" validate:"required"`
	Items      []models.CartItem `json:"items" validate:"required,min=1,dive"`
	SuccessURL string            `json:"success_url,omitempty"`
	CancelURL  string            `json:"cancel_url,omitempty"`
}

type CreateSubscriptionSessionRequest struct {
	PriceID    string `json:"price_id" validate:"required"`
	SuccessURL string `json:"success_url,omitempty"`
	CancelURL  string `json:"cancel_url,omitempty"`
}

type CreatePortalSessionRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	ReturnURL  string `json:"return_url,omitempty"`
}

type SessionResponse struct {
	SessionID string `json:"session_id,omitempty"`
	URL       string `json:"url"`
}

type LinkPriceRequest struct {
	StoreID   string `json:"store_id" validate:"required"`
	ProductID string `json:"product_id" validate:"required"`
}

func NewPaymentService(db *gorm.DB, config *config.Config, storeService *StoreService) *PaymentService {
	// Initialize Stripe
	stripe.Key = config.Stripe.SecretKey

	return &PaymentService{
		db:           db,
		config:       config,
		storeService: storeService,
	}
}

// CreateCheckoutSession opens a Stripe Checkout session for a cart snapshot.
// Items carrying a linked Stripe price are referenced by id; everything else
// is sent as inline price data.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, userID uuid.UUID, req *CreateCheckoutSessionRequest) (*SessionResponse, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, errors.New("invalid store id")
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))
	for _, item := range req.Items {
		currency := item.Currency
		if currency == "" {
			currency = "usd"
		}
		amountInCents := item.Price.Mul(decimal.NewFromInt(100)).IntPart()
		if amountInCents < 0 {
			return nil, fmt.Errorf("item %s has a negative price", item.Name)
		}

		lineItem := &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(int64(item.Quantity)),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(amountInCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
		}
		if stripePriceID := s.linkedPriceID(ctx, item); stripePriceID != "" {
			lineItem = &stripe.CheckoutSessionLineItemParams{
				Quantity: stripe.Int64(int64(item.Quantity)),
				Price:    stripe.String(stripePriceID),
			}
		}
		lineItems = append(lineItems, lineItem)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(s.urlOrDefault(req.SuccessURL, "/checkout/success")),
		CancelURL:  stripe.String(s.urlOrDefault(req.CancelURL, "/checkout/cancel")),
	}
	params.AddMetadata("user_id", userID.String())
	params.AddMetadata("store_id", storeID.String())

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &SessionResponse{SessionID: sess.ID, URL: sess.URL}, nil
}

// CreateSubscriptionSession opens a Checkout session in subscription mode for
// a platform plan price.
func (s *PaymentService) CreateSubscriptionSession(userID uuid.UUID, req *CreateSubscriptionSessionRequest) (*SessionResponse, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.urlOrDefault(req.SuccessURL, "/billing/success")),
		CancelURL:  stripe.String(s.urlOrDefault(req.CancelURL, "/billing")),
	}
	params.AddMetadata("user_id", userID.String())

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription session: %w", err)
	}

	return &SessionResponse{SessionID: sess.ID, URL: sess.URL}, nil
}

// CreateBillingPortalSession lets an owner manage their subscription.
func (s *PaymentService) CreateBillingPortalSession(req *CreatePortalSessionRequest) (*SessionResponse, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(req.CustomerID),
		ReturnURL: stripe.String(s.urlOrDefault(req.ReturnURL, "/billing")),
	}

	sess, err := portalsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create billing portal session: %w", err)
	}

	return &SessionResponse{URL: sess.URL}, nil
}

// LinkProductPrice creates a Stripe Product and Price for a store product and
// stamps the product with the resulting price id. Linking is idempotent from
// the store's point of view: re-linking overwrites the stamp.
func (s *PaymentService) LinkProductPrice(ctx context.Context, ownerID uuid.UUID, req *LinkPriceRequest) (string, error) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return "", errors.New("invalid store id")
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return "", errors.New("invalid product id")
	}

	store, err := s.storeService.GetStore(ctx, storeID, ownerID)
	if err != nil {
		return "", err
	}

	var target *models.Product
	for i := range store.Products {
		if store.Products[i].ID == productID {
			target = &store.Products[i]
			break
		}
	}
	if target == nil {
		return "", errors.New("product not found in store")
	}

	stripeProd, err := stripeproduct.New(&stripe.ProductParams{
		Name:        stripe.String(target.Name),
		Description: stripe.String(target.Description),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create stripe product: %w", err)
	}

	amountInCents := target.Price.Mul(decimal.NewFromInt(100)).IntPart()
	currency := target.CurrencyCode
	if currency == "" {
		currency = "USD"
	}

	stripePrice, err := price.New(&stripe.PriceParams{
		Product:    stripe.String(stripeProd.ID),
		UnitAmount: stripe.Int64(amountInCents),
		Currency:   stripe.String(currency),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create stripe price: %w", err)
	}

	if err := s.storeService.SetProductStripePrice(ctx, storeID, ownerID, productID, stripePrice.ID); err != nil {
		return "", err
	}

	return stripePrice.ID, nil
}

var ErrInvalidSignature = errors.New("webhook signature verification failed")

// HandleWebhook verifies the Stripe signature and dispatches the event.
func (s *PaymentService) HandleWebhook(payload []byte, sigHeader string) error {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.config.Stripe.WebhookSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return s.handleEvent(event)
}

func (s *PaymentService) handleEvent(event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("failed to parse checkout session: %w", err)
		}
		return s.upsertOrder(&sess)

	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription: %w", err)
		}
		return s.upsertSubscription(&sub)

	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return fmt.Errorf("failed to parse invoice: %w", err)
		}
		return s.markSubscriptionPaid(&invoice)

	default:
		// Unhandled event types are acknowledged without action.
		logrus.WithField("type", event.Type).Debug("Ignoring stripe event")
		return nil
	}
}

func (s *PaymentService) upsertOrder(sess *stripe.CheckoutSession) error {
	var order models.Order
	err := s.db.Where("stripe_session_id = ?", sess.ID).First(&order).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	order.StripeSessionID = sess.ID
	order.Status = models.OrderStatusPaid
	order.PaidAt = &now
	order.AmountTotal = decimal.NewFromInt(sess.AmountTotal).Div(decimal.NewFromInt(100))
	order.CurrencyCode = string(sess.Currency)
	if sess.Customer != nil {
		order.StripeCustomerID = sess.Customer.ID
	}
	if sess.CustomerDetails != nil {
		order.CustomerEmail = sess.CustomerDetails.Email
	}
	if userID, parseErr := uuid.Parse(sess.Metadata["user_id"]); parseErr == nil {
		order.UserID = &userID
	}
	if storeID, parseErr := uuid.Parse(sess.Metadata["store_id"]); parseErr == nil {
		order.StoreID = &storeID
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
	} else if err := s.db.Save(&order).Error; err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"amount":     order.AmountTotal,
	}).Info("Order recorded from checkout session")
	return nil
}

func (s *PaymentService) upsertSubscription(sub *stripe.Subscription) error {
	var record models.Subscription
	err := s.db.Where("stripe_subscription_id = ?", sub.ID).First(&record).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("database error: %w", err)
	}

	record.StripeSubscriptionID = sub.ID
	if sub.Customer != nil {
		record.StripeCustomerID = sub.Customer.ID
	}
	record.Status = subscriptionStatus(sub.Status)
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		record.PriceID = sub.Items.Data[0].Price.ID
	}
	if sub.CurrentPeriodEnd > 0 {
		periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
		record.CurrentPeriodEnd = &periodEnd
	}
	if sub.CanceledAt > 0 {
		canceledAt := time.Unix(sub.CanceledAt, 0)
		record.CanceledAt = &canceledAt
	}
	if userID, parseErr := uuid.Parse(sub.Metadata["user_id"]); parseErr == nil {
		record.UserID = &userID
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
	} else if err := s.db.Save(&record).Error; err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	return nil
}

func (s *PaymentService) markSubscriptionPaid(invoice *stripe.Invoice) error {
	if invoice.Subscription == nil {
		return nil
	}

	result := s.db.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", invoice.Subscription.ID).
		Update("status", models.SubscriptionStatusActive)
	if result.Error != nil {
		return fmt.Errorf("failed to mark subscription paid: %w", result.Error)
	}
	return nil
}

func (s *PaymentService) linkedPriceID(ctx context.Context, item models.CartItem) string {
	productID, err := uuid.Parse(item.ProductID)
	if err != nil {
		return ""
	}

	var product models.Product
	if err := s.db.WithContext(ctx).Select("stripe_price_id").First(&product, "id = ?", productID).Error; err != nil {
		return ""
	}
	return product.StripePriceID
}

func (s *PaymentService) urlOrDefault(raw, path string) string {
	if raw != "" {
		return raw
	}
	return s.config.Frontend.BaseURL + path
}

func subscriptionStatus(status stripe.SubscriptionStatus) models.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive:
		return models.SubscriptionStatusActive
	case stripe.SubscriptionStatusPastDue:
		return models.SubscriptionStatusPastDue
	case stripe.SubscriptionStatusTrialing:
		return models.SubscriptionStatusTrialing
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusUnpaid, stripe.SubscriptionStatusIncompleteExpired:
		return models.SubscriptionStatusCanceled
	default:
		return models.SubscriptionStatus(status)
	}
}
