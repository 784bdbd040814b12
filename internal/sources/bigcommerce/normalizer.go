// internal/sources/bigcommerce/normalizer.go
package bigcommerce

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Artistsreach/storegen-sub000/internal/models"
	"github.com/Artistsreach/storegen-sub000/internal/sources"
)

func metadataFromSettings(domain string, settings settingsPayload) *sources.ShopMetadata {
	meta := &sources.ShopMetadata{
		Name:         settings.StoreName,
		Domain:       domain,
		CurrencyCode: settings.Currency.Code,
		LogoURL:      settings.Logo.Image.Url,
	}
	if settings.Url.VanityUrl != "" {
		meta.Domain = sources.NormalizeDomain(settings.Url.VanityUrl, "")
	}
	return meta
}

func normalizeProduct(node productNode) models.ProductDraft {
	platformID := strconv.Itoa(node.EntityID)

	draft := models.ProductDraft{
		PlatformID:   platformID,
		Name:         node.Name,
		Description:  sources.CleanDescription(node.Description),
		Price:        decimal.NewFromFloat(node.Prices.Price.Value),
		CurrencyCode: node.Prices.Price.CurrencyCode,
		Stock:        node.InventoryLevel,
	}
	if draft.CurrencyCode == "" {
		draft.CurrencyCode = "USD"
	}
	if draft.Price.IsNegative() {
		draft.Price = decimal.Zero
	}

	// BigCommerce carries real review data; simulate only when absent.
	if node.ReviewSummary.NumberOfReviews > 0 {
		draft.Rating = node.ReviewSummary.AverageRating
	} else {
		draft.Rating = sources.SimulatedRating(platformID)
	}

	if node.DefaultImage != nil && node.DefaultImage.Url != "" {
		alt := node.DefaultImage.AltText
		if alt == "" {
			alt = node.Name
		}
		draft.Image = models.ProductImage{Alt: alt, Src: node.DefaultImage.Url}
	} else {
		draft.Image = models.ProductImage{Alt: node.Name, Src: sources.PlaceholderImage(node.Name)}
	}

	return draft
}

// NormalizeStore assembles the final draft for a BigCommerce import.
func NormalizeStore(meta *sources.ShopMetadata, products []models.ProductDraft, collections []string) models.StoreDraft {
	if meta == nil {
		meta = &sources.ShopMetadata{}
	}

	name := meta.Name
	if name == "" {
		name = meta.Domain
	}

	return models.StoreDraft{
		Name:         name,
		Description:  sources.CleanDescription(meta.Description),
		Niche:        "imported",
		Theme:        sources.ThemeFromBrand(name, meta.BrandColors),
		Content:      sources.DefaultContent(meta),
		HeroImage:    sources.PlaceholderImage(name),
		LogoURL:      meta.LogoURL,
		DataSource:   models.DataSourceBigCommerce,
		SourceDomain: meta.Domain,
		Products:     products,
		Collections:  collections,
	}
}
