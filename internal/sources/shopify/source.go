// internal/sources/shopify/source.go
package shopify

import (
	"context"
	"time"

	"github.com/Artistsreach/storegen-sub000/internal/models"
	"github.com/Artistsreach/storegen-sub000/internal/sources"
)

// ShopifySource adapts the Storefront client to the generic wizard strategy.
type ShopifySource struct {
	client *Client
}

func NewSource(apiVersion string, timeout time.Duration) *ShopifySource {
	return &ShopifySource{client: NewClient(apiVersion, timeout)}
}

func (s *ShopifySource) Name() string { return "shopify" }

func (s *ShopifySource) TotalSteps() int { return 4 }

func (s *ShopifySource) Kinds() []sources.ItemKind {
	return []sources.ItemKind{sources.KindProducts, sources.KindCollections}
}

func (s *ShopifySource) FetchMetadata(ctx context.Context, creds sources.Credentials) (*sources.ShopMetadata, error) {
	return s.client.FetchMetadata(ctx, creds)
}

func (s *ShopifySource) FetchItemsPage(ctx context.Context, creds sources.Credentials, kind sources.ItemKind, pageSize int, cursor string) (*sources.ItemsPage, error) {
	if kind == sources.KindCollections {
		return s.client.FetchCollectionsPage(ctx, creds, pageSize, cursor)
	}
	return s.client.FetchProductsPage(ctx, creds, pageSize, cursor)
}

func (s *ShopifySource) Normalize(meta *sources.ShopMetadata, products []models.ProductDraft, collections []string) models.StoreDraft {
	return NormalizeStore(meta, products, collections)
}
