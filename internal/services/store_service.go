// internal/services/store_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Artistsreach/storegen-sub000/internal/models"
	"github.com/Artistsreach/storegen-sub000/internal/utils"
)

var (
	ErrStoreNotFound = errors.New("store not found")
	// ErrNotOwner is returned when a caller operates on a store someone else
	// owns. It is never downgraded to a silent no-op.
	ErrNotOwner = errors.New("store is not owned by the caller")
)

// StoreService is the persistence gateway for stores and their products.
// Every operation is scoped to the owning user.
type StoreService struct {
	db *gorm.DB
}

// UpdateStoreRequest is a shallow-merge patch: nil fields are left untouched.
// Products, when present, replace the store's product list wholesale.
type UpdateStoreRequest struct {
	Name        *string                `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string                `json:"description,omitempty"`
	Niche       *string                `json:"niche,omitempty" validate:"omitempty,max=100"`
	Theme       *models.Theme          `json:"theme,omitempty"`
	Content     *models.Content        `json:"content,omitempty"`
	HeroImage   *string                `json:"hero_image,omitempty"`
	LogoURL     *string                `json:"logo_url,omitempty"`
	Products    *[]models.ProductDraft `json:"products,omitempty"`
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

// CreateStore persists a draft as a new store owned by ownerID. The draft's
// products are created with it; the whole write is transactional, so a
// failure leaves nothing behind.
func (s *StoreService) CreateStore(ctx context.Context, draft models.StoreDraft, ownerID uuid.UUID) (*models.Store, error) {
	if draft.Name == "" {
		return nil, errors.New("store name is required")
	}

	store := &models.Store{
		UserID:       ownerID,
		Name:         draft.Name,
		Description:  draft.Description,
		Niche:        draft.Niche,
		Theme:        draft.Theme,
		Content:      draft.Content,
		HeroImage:    draft.HeroImage,
		LogoURL:      draft.LogoURL,
		DataSource:   draft.DataSource,
		SourceDomain: draft.SourceDomain,
		Products:     productsFromDrafts(draft.Products),
	}
	if store.DataSource == "" {
		store.DataSource = models.DataSourceManual
	}

	if err := s.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"store_id": store.ID,
		"owner_id": ownerID,
		"source":   store.DataSource,
		"products": len(store.Products),
	}).Info("Store created")

	return store, nil
}

// GetStore loads one store with its products, enforcing ownership.
func (s *StoreService) GetStore(ctx context.Context, storeID, ownerID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := s.db.WithContext(ctx).Preload("Products").First(&store, "id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if store.UserID != ownerID {
		return nil, ErrNotOwner
	}
	return &store, nil
}

// GetPublicStore loads one store with its products for the storefront
// preview page. No ownership check: previews are shareable.
func (s *StoreService) GetPublicStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := s.db.WithContext(ctx).Preload("Products").First(&store, "id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &store, nil
}

// ListStores returns the owner's stores, paginated.
func (s *StoreService) ListStores(ctx context.Context, ownerID uuid.UUID, params utils.PaginationParams) ([]models.Store, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Store{}).Where("user_id = ?", ownerID)

	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}
	if params.Niche != "" {
		query = query.Where("niche = ?", params.Niche)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stores: %w", err)
	}

	allowedSortFields := []string{"created_at", "name", "niche"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var stores []models.Store
	if err := query.Preload("Products").Find(&stores).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch stores: %w", err)
	}

	return stores, total, nil
}

// UpdateStore applies a shallow merge: only fields present in the request
// change. A products field replaces the product list wholesale, never
// per-product.
func (s *StoreService) UpdateStore(ctx context.Context, storeID, ownerID uuid.UUID, req *UpdateStoreRequest) (*models.Store, error) {
	store, err := s.GetStore(ctx, storeID, ownerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Niche != nil {
		updates["niche"] = *req.Niche
	}
	if req.Theme != nil {
		updates["theme"] = *req.Theme
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.HeroImage != nil {
		updates["hero_image"] = *req.HeroImage
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(store).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update store: %w", err)
			}
		}
		if req.Products != nil {
			if err := tx.Where("store_id = ?", store.ID).Delete(&models.Product{}).Error; err != nil {
				return fmt.Errorf("failed to clear products: %w", err)
			}
			products := productsFromDrafts(*req.Products)
			for i := range products {
				products[i].StoreID = store.ID
			}
			if len(products) > 0 {
				if err := tx.Create(&products).Error; err != nil {
					return fmt.Errorf("failed to replace products: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetStore(ctx, storeID, ownerID)
}

// DeleteStore removes a store and its products, enforcing ownership.
func (s *StoreService) DeleteStore(ctx context.Context, storeID, ownerID uuid.UUID) error {
	store, err := s.GetStore(ctx, storeID, ownerID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", store.ID).Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to delete products: %w", err)
		}
		if err := tx.Delete(store).Error; err != nil {
			return fmt.Errorf("failed to delete store: %w", err)
		}
		return nil
	})
}

// SetProductStripePrice stamps a product with its Stripe price id once the
// product has been linked to a payable Price.
func (s *StoreService) SetProductStripePrice(ctx context.Context, storeID, ownerID uuid.UUID, productID uuid.UUID, stripePriceID string) error {
	if _, err := s.GetStore(ctx, storeID, ownerID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND store_id = ?", productID, storeID).
		Update("stripe_price_id", stripePriceID)
	if result.Error != nil {
		return fmt.Errorf("failed to link stripe price: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("product not found in store")
	}
	return nil
}

func productsFromDrafts(drafts []models.ProductDraft) []models.Product {
	products := make([]models.Product, 0, len(drafts))
	for _, d := range drafts {
		platformID := d.PlatformID
		if platformID == "" {
			platformID = uuid.NewString()
		}
		products = append(products, models.Product{
			PlatformID:   platformID,
			Name:         d.Name,
			Description:  d.Description,
			Price:        d.Price,
			CurrencyCode: d.CurrencyCode,
			Image:        d.Image,
			Rating:       d.Rating,
			Stock:        d.Stock,
			Tags:         d.Tags,
		})
	}
	return products
}
