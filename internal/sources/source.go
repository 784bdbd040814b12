// internal/sources/source.go
package sources

import (
	"context"
	"strings"

	"github.com/Artistsreach/storegen-sub000/internal/models"
)

// ItemKind selects which paginated collection a source fetch targets.
type ItemKind string

const (
	KindProducts    ItemKind = "products"
	KindCollections ItemKind = "collections"
)

// Credentials identify one storefront on a remote platform. They live only in
// wizard memory for the duration of an import and are never persisted.
type Credentials struct {
	Domain string `json:"domain" validate:"required"`
	Token  string `json:"token" validate:"required"`
}

// PageInfo is the opaque-cursor pagination contract shared by both platforms.
// EndCursor is echoed back verbatim on the next page request.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// ShopMetadata is the platform-neutral shop/settings preview shown at the
// metadata step of the wizard.
type ShopMetadata struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Domain        string   `json:"domain"`
	CurrencyCode  string   `json:"currency_code"`
	Slogan        string   `json:"slogan,omitempty"`
	LogoURL       string   `json:"logo_url,omitempty"`
	CoverImageURL string   `json:"cover_image_url,omitempty"`
	BrandColors   []string `json:"brand_colors,omitempty"`
}

// ItemsPage is one page of preview items. Products or Collections is set
// depending on the requested kind.
type ItemsPage struct {
	Products    []models.ProductDraft `json:"products,omitempty"`
	Collections []string              `json:"collections,omitempty"`
	PageInfo    PageInfo              `json:"pageInfo"`
}

// Source is the per-platform strategy the generic wizard runs against.
// A failed page fetch surfaces its error and leaves previously accumulated
// pages intact; no operation retries automatically.
type Source interface {
	Name() string
	TotalSteps() int
	// Kinds lists the paginated item kinds the items-preview step loads.
	Kinds() []ItemKind
	FetchMetadata(ctx context.Context, creds Credentials) (*ShopMetadata, error)
	FetchItemsPage(ctx context.Context, creds Credentials, kind ItemKind, pageSize int, cursor string) (*ItemsPage, error)
	// Normalize assembles the final draft from everything the wizard collected.
	Normalize(meta *ShopMetadata, products []models.ProductDraft, collections []string) models.StoreDraft
}

// NormalizeDomain strips scheme, path and trailing slashes from a
// user-entered shop domain and appends the platform default suffix when the
// input has no dot, so "demo-shop" becomes "demo-shop"+suffix while
// "shop.customdomain.com" passes through unchanged.
func NormalizeDomain(input, defaultSuffix string) string {
	domain := strings.TrimSpace(input)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	// A pasted storefront URL often carries a path; only the host matters.
	if idx := strings.IndexByte(domain, '/'); idx >= 0 {
		domain = domain[:idx]
	}
	if domain == "" {
		return domain
	}
	if !strings.Contains(domain, ".") && defaultSuffix != "" {
		domain += defaultSuffix
	}
	return domain
}
