// internal/sources/shopify/normalizer.go
package shopify

import (
	"github.com/Artistsreach/storegen-sub000/internal/models"
	"github.com/Artistsreach/storegen-sub000/internal/sources"
)

func metadataFromShop(domain string, shop shopPayload) *sources.ShopMetadata {
	meta := &sources.ShopMetadata{
		Name:         shop.Name,
		Description:  shop.Description,
		Domain:       domain,
		CurrencyCode: shop.PaymentSettings.CurrencyCode,
	}
	if shop.PrimaryDomain.Host != "" {
		meta.Domain = shop.PrimaryDomain.Host
	}

	if brand := shop.Brand; brand != nil {
		meta.Slogan = brand.Slogan
		if meta.Description == "" {
			meta.Description = brand.ShortDescription
		}
		if brand.Logo != nil {
			meta.LogoURL = brand.Logo.Image.URL
		}
		if brand.CoverImage != nil {
			meta.CoverImageURL = brand.CoverImage.Image.URL
		}
		for _, c := range brand.Colors.Primary {
			if c.Background != "" {
				meta.BrandColors = append(meta.BrandColors, c.Background)
				break
			}
		}
		for _, c := range brand.Colors.Secondary {
			if c.Background != "" {
				meta.BrandColors = append(meta.BrandColors, c.Background)
				break
			}
		}
	}

	return meta
}

func normalizeProduct(node productNode) models.ProductDraft {
	draft := models.ProductDraft{
		PlatformID:   node.ID,
		Name:         node.Title,
		Description:  sources.CleanDescription(node.DescriptionHTML),
		Price:        sources.ParsePrice(node.PriceRange.MinVariantPrice.Amount),
		CurrencyCode: node.PriceRange.MinVariantPrice.CurrencyCode,
		Rating:       sources.SimulatedRating(node.ID),
		Stock:        node.TotalInventory,
		Tags:         node.Tags,
	}
	if draft.CurrencyCode == "" {
		draft.CurrencyCode = "USD"
	}

	if node.FeaturedImage != nil && node.FeaturedImage.URL != "" {
		alt := node.FeaturedImage.AltText
		if alt == "" {
			alt = node.Title
		}
		draft.Image = models.ProductImage{Alt: alt, Src: node.FeaturedImage.URL}
	} else {
		draft.Image = models.ProductImage{Alt: node.Title, Src: sources.PlaceholderImage(node.Title)}
	}

	return draft
}

// NormalizeStore assembles the final draft from the shop metadata and the
// accumulated preview pages. Missing brand data degrades to deterministic
// fallbacks; it never fails.
func NormalizeStore(meta *sources.ShopMetadata, products []models.ProductDraft, collections []string) models.StoreDraft {
	if meta == nil {
		meta = &sources.ShopMetadata{}
	}

	name := meta.Name
	if name == "" {
		name = meta.Domain
	}

	heroImage := meta.CoverImageURL
	if heroImage == "" {
		heroImage = sources.PlaceholderImage(name)
	}

	return models.StoreDraft{
		Name:         name,
		Description:  sources.CleanDescription(meta.Description),
		Niche:        "imported",
		Theme:        sources.ThemeFromBrand(name, meta.BrandColors),
		Content:      sources.DefaultContent(meta),
		HeroImage:    heroImage,
		LogoURL:      meta.LogoURL,
		DataSource:   models.DataSourceShopify,
		SourceDomain: meta.Domain,
		Products:     products,
		Collections:  collections,
	}
}
