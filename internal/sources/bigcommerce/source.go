// internal/sources/bigcommerce/source.go
package bigcommerce

import (
	"context"
	"time"

	"github.com/Artistsreach/storegen-sub000/internal/models"
	"github.com/Artistsreach/storegen-sub000/internal/sources"
)

// BigCommerceSource adapts the Storefront client to the generic wizard
// strategy. BigCommerce imports have no collections step.
type BigCommerceSource struct {
	client *Client
}

func NewSource(timeout time.Duration) *BigCommerceSource {
	return &BigCommerceSource{client: NewClient(timeout)}
}

func (s *BigCommerceSource) Name() string { return "bigcommerce" }

func (s *BigCommerceSource) TotalSteps() int { return 4 }

func (s *BigCommerceSource) Kinds() []sources.ItemKind {
	return []sources.ItemKind{sources.KindProducts}
}

func (s *BigCommerceSource) FetchMetadata(ctx context.Context, creds sources.Credentials) (*sources.ShopMetadata, error) {
	return s.client.FetchMetadata(ctx, creds)
}

func (s *BigCommerceSource) FetchItemsPage(ctx context.Context, creds sources.Credentials, kind sources.ItemKind, pageSize int, cursor string) (*sources.ItemsPage, error) {
	return s.client.FetchProductsPage(ctx, creds, pageSize, cursor)
}

func (s *BigCommerceSource) Normalize(meta *sources.ShopMetadata, products []models.ProductDraft, collections []string) models.StoreDraft {
	return NormalizeStore(meta, products, collections)
}
