// internal/sources/normalize.go
package sources

import (
	"fmt"
	"hash/fnv"
	"net/url"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Artistsreach/storegen-sub000/internal/models"
)

// Fixed palette the normalizers draw from when a shop has no brand colors.
// The pick is keyed by the store name so repeated imports stay stable.
var themePalette = []models.Theme{
	{PrimaryColor: "#2563eb", SecondaryColor: "#1e40af", FontFamily: "Inter", Layout: "grid"},
	{PrimaryColor: "#16a34a", SecondaryColor: "#166534", FontFamily: "Poppins", Layout: "list"},
	{PrimaryColor: "#dc2626", SecondaryColor: "#991b1b", FontFamily: "Montserrat", Layout: "grid"},
	{PrimaryColor: "#9333ea", SecondaryColor: "#6b21a8", FontFamily: "Raleway", Layout: "masonry"},
	{PrimaryColor: "#ea580c", SecondaryColor: "#9a3412", FontFamily: "Nunito", Layout: "grid"},
	{PrimaryColor: "#0d9488", SecondaryColor: "#115e59", FontFamily: "Lato", Layout: "list"},
}

const descriptionLimit = 150

// ThemeForName deterministically picks a palette entry keyed by the name.
func ThemeForName(name string) models.Theme {
	return themePalette[int(hashOf(name))%len(themePalette)]
}

// ThemeFromBrand builds a theme from platform brand colors, falling back to
// the palette for anything missing.
func ThemeFromBrand(name string, colors []string) models.Theme {
	theme := ThemeForName(name)
	if len(colors) > 0 && colors[0] != "" {
		theme.PrimaryColor = colors[0]
	}
	if len(colors) > 1 && colors[1] != "" {
		theme.SecondaryColor = colors[1]
	}
	return theme
}

// PlaceholderImage returns a deterministic placeholder URL keyed by name.
func PlaceholderImage(name string) string {
	label := strings.TrimSpace(name)
	if label == "" {
		label = "Store"
	}
	return "https://placehold.co/600x400?text=" + url.QueryEscape(label)
}

// ParsePrice parses platform price strings ("19.99") into a decimal.
// Malformed input degrades to zero rather than failing the import.
func ParsePrice(raw string) decimal.Decimal {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || price.IsNegative() {
		return decimal.Zero
	}
	return price
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// CleanDescription strips markup from HTML-bearing descriptions and truncates
// anything longer than the preview limit with an ellipsis.
func CleanDescription(raw string) string {
	text := htmlTagRe.ReplaceAllString(raw, " ")
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > descriptionLimit {
		return strings.TrimSpace(string(runes[:descriptionLimit])) + "…"
	}
	return text
}

// SimulatedRating derives a stable rating in [3.5, 5.0] for sources that do
// not expose one, keyed by the product's platform id.
func SimulatedRating(platformID string) float64 {
	steps := hashOf(platformID) % 16 // 0..15 steps of 0.1
	return 3.5 + float64(steps)*0.1
}

// DefaultContent fills the storefront copy blocks from shop metadata when the
// platform offers nothing richer.
func DefaultContent(meta *ShopMetadata) models.Content {
	name := "Your Store"
	if meta != nil && meta.Name != "" {
		name = meta.Name
	}
	heroDescription := fmt.Sprintf("Discover the best of %s, curated for you.", name)
	if meta != nil && meta.Slogan != "" {
		heroDescription = meta.Slogan
	} else if meta != nil && meta.Description != "" {
		heroDescription = CleanDescription(meta.Description)
	}

	return models.Content{
		HeroTitle:       fmt.Sprintf("Welcome to %s", name),
		HeroDescription: heroDescription,
		FeatureTitles:   []string{"Free Shipping", "Secure Checkout", "Easy Returns"},
		FeatureDescriptions: []string{
			"On orders over $50, delivered to your door.",
			"Payments processed by trusted providers.",
			"30-day hassle-free return policy.",
		},
		NewsletterHeading: "Stay in the loop",
		NewsletterText:    fmt.Sprintf("Sign up for news and offers from %s.", name),
	}
}

func hashOf(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}
