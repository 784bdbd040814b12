// internal/sources/normalize_test.go
package sources

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare shop name gets suffix", "demo-shop", "demo-shop.myshopify.com"},
		{"custom domain kept as is", "shop.customdomain.com", "shop.customdomain.com"},
		{"platform domain kept as is", "demo-shop.myshopify.com", "demo-shop.myshopify.com"},
		{"https scheme stripped", "https://demo-shop.myshopify.com", "demo-shop.myshopify.com"},
		{"http scheme stripped", "http://demo-shop.myshopify.com", "demo-shop.myshopify.com"},
		{"trailing slash stripped", "https://demo-shop.myshopify.com/", "demo-shop.myshopify.com"},
		{"whitespace trimmed", "  demo-shop  ", "demo-shop.myshopify.com"},
		{"path stripped", "demo-shop.myshopify.com/collections", "demo-shop.myshopify.com"},
		{"scheme and path stripped", "https://demo-shop.myshopify.com/collections/all", "demo-shop.myshopify.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDomain(tt.input, ".myshopify.com"))
		})
	}
}

func TestParsePrice(t *testing.T) {
	assert.True(t, ParsePrice("19.99").Equal(decimal.RequireFromString("19.99")))
	assert.True(t, ParsePrice("0").Equal(decimal.Zero))

	// Malformed input degrades to zero instead of failing the import.
	assert.True(t, ParsePrice("N/A").Equal(decimal.Zero))
	assert.True(t, ParsePrice("").Equal(decimal.Zero))
	assert.True(t, ParsePrice("-5.00").Equal(decimal.Zero))
}

func TestCleanDescription(t *testing.T) {
	assert.Equal(t, "Plain text", CleanDescription("Plain text"))
	assert.Equal(t, "Bold and italic", CleanDescription("<p><b>Bold</b> and <i>italic</i></p>"))
	assert.Equal(t, "", CleanDescription(""))

	long := strings.Repeat("a", 200)
	cleaned := CleanDescription(long)
	assert.Equal(t, 151, len([]rune(cleaned)))
	assert.True(t, strings.HasSuffix(cleaned, "…"))
}

func TestThemeForNameIsDeterministic(t *testing.T) {
	first := ThemeForName("Aurora Supply")
	second := ThemeForName("Aurora Supply")
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first.PrimaryColor)
	assert.NotEmpty(t, first.FontFamily)
}

func TestThemeFromBrandPrefersBrandColors(t *testing.T) {
	theme := ThemeFromBrand("Aurora Supply", []string{"#112233", "#445566"})
	assert.Equal(t, "#112233", theme.PrimaryColor)
	assert.Equal(t, "#445566", theme.SecondaryColor)

	// Without brand colors the palette theme applies.
	fallback := ThemeFromBrand("Aurora Supply", nil)
	assert.Equal(t, ThemeForName("Aurora Supply"), fallback)
}

func TestSimulatedRatingRange(t *testing.T) {
	ids := []string{"gid://shopify/Product/1", "42", "abc", ""}
	for _, id := range ids {
		rating := SimulatedRating(id)
		assert.GreaterOrEqual(t, rating, 3.5, "id %q", id)
		assert.LessOrEqual(t, rating, 5.0, "id %q", id)
	}
	assert.Equal(t, SimulatedRating("42"), SimulatedRating("42"))
}

func TestPlaceholderImageEscapesName(t *testing.T) {
	url := PlaceholderImage("Tea & Coffee")
	assert.Contains(t, url, "placehold.co")
	assert.NotContains(t, url, " ")
	assert.NotContains(t, url, "&C")
}

func TestDefaultContent(t *testing.T) {
	content := DefaultContent(&ShopMetadata{Name: "Aurora Supply", Slogan: "Gear up north"})
	assert.Equal(t, "Welcome to Aurora Supply", content.HeroTitle)
	assert.Equal(t, "Gear up north", content.HeroDescription)
	assert.Len(t, content.FeatureTitles, 3)
	assert.Len(t, content.FeatureDescriptions, 3)

	// Nil metadata still yields complete copy.
	empty := DefaultContent(nil)
	assert.Equal(t, "Welcome to Your Store", empty.HeroTitle)
	assert.NotEmpty(t, empty.NewsletterHeading)
}
