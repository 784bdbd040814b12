// internal/sources/shopify/client_test.go
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artistsreach/storegen-sub000/internal/sources"
)

var testCreds = sources.Credentials{Domain: "demo-shop", Token: "sf-token"}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("2024-01", 5*time.Second)
	client.baseURL = server.URL
	return client
}

func TestFetchMetadata(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sf-token", r.Header.Get("X-Shopify-Storefront-Access-Token"))

		w.Write([]byte(`{"data":{"shop":{
			"name":"Demo Shop",
			"description":"Things we like",
			"primaryDomain":{"host":"demo-shop.myshopify.com"},
			"paymentSettings":{"currencyCode":"EUR"},
			"brand":{
				"slogan":"Buy the things",
				"logo":{"image":{"url":"https://cdn/logo.png"}},
				"coverImage":{"image":{"url":"https://cdn/cover.png"}},
				"colors":{
					"primary":[{"background":"#111111"}],
					"secondary":[{"background":"#222222"}]
				}
			}
		}}}`))
	})

	meta, err := client.FetchMetadata(context.Background(), testCreds)
	require.NoError(t, err)

	assert.Equal(t, "Demo Shop", meta.Name)
	assert.Equal(t, "demo-shop.myshopify.com", meta.Domain)
	assert.Equal(t, "EUR", meta.CurrencyCode)
	assert.Equal(t, "Buy the things", meta.Slogan)
	assert.Equal(t, "https://cdn/logo.png", meta.LogoURL)
	assert.Equal(t, "https://cdn/cover.png", meta.CoverImageURL)
	assert.Equal(t, []string{"#111111", "#222222"}, meta.BrandColors)
}

func TestFetchMetadataAuthFailure(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.FetchMetadata(context.Background(), testCreds)
	require.Error(t, err)
	assert.Equal(t, sources.ErrKindAuth, sources.KindOf(err))
}

func TestFetchProductsPageEchoesCursor(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]interface{} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 12, req.Variables["first"])
		assert.Equal(t, "cursor-1", req.Variables["after"])

		w.Write([]byte(`{"data":{"products":{
			"edges":[{"node":{
				"id":"gid://shopify/Product/2",
				"title":"Mug",
				"descriptionHtml":"<p>A fine mug</p>",
				"tags":["kitchen"],
				"totalInventory":7,
				"featuredImage":{"url":"https://cdn/mug.png","altText":""},
				"priceRange":{"minVariantPrice":{"amount":"12.50","currencyCode":"USD"}}
			}}],
			"pageInfo":{"hasNextPage":false,"endCursor":"cursor-2"}
		}}}`))
	})

	page, err := client.FetchProductsPage(context.Background(), testCreds, 12, "cursor-1")
	require.NoError(t, err)

	require.Len(t, page.Products, 1)
	product := page.Products[0]
	assert.Equal(t, "gid://shopify/Product/2", product.PlatformID)
	assert.Equal(t, "Mug", product.Name)
	assert.Equal(t, "A fine mug", product.Description)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, "USD", product.CurrencyCode)
	assert.Equal(t, 7, product.Stock)
	assert.Equal(t, "https://cdn/mug.png", product.Image.Src)
	// Empty alt text falls back to the title.
	assert.Equal(t, "Mug", product.Image.Alt)

	assert.False(t, page.PageInfo.HasNextPage)
	assert.Equal(t, "cursor-2", page.PageInfo.EndCursor)
}

func TestFetchProductsFirstPageOmitsAfter(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]interface{} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_, hasAfter := req.Variables["after"]
		assert.False(t, hasAfter)

		w.Write([]byte(`{"data":{"products":{"edges":[],"pageInfo":{"hasNextPage":false,"endCursor":""}}}}`))
	})

	page, err := client.FetchProductsPage(context.Background(), testCreds, 12, "")
	require.NoError(t, err)
	assert.Empty(t, page.Products)
}

func TestFetchCollectionsPage(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"collections":{
			"edges":[{"node":{"title":"Summer"}},{"node":{"title":"Sale"}}],
			"pageInfo":{"hasNextPage":true,"endCursor":"col-cursor"}
		}}}`))
	})

	page, err := client.FetchCollectionsPage(context.Background(), testCreds, 12, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Summer", "Sale"}, page.Collections)
	assert.True(t, page.PageInfo.HasNextPage)
	assert.Equal(t, "col-cursor", page.PageInfo.EndCursor)
}

func TestNormalizeProductWithoutImage(t *testing.T) {
	draft := normalizeProduct(productNode{
		ID:    "gid://shopify/Product/9",
		Title: "Poster",
	})

	assert.Equal(t, "USD", draft.CurrencyCode)
	assert.Contains(t, draft.Image.Src, "placehold.co")
	assert.Equal(t, "Poster", draft.Image.Alt)
	assert.GreaterOrEqual(t, draft.Rating, 3.5)
	assert.LessOrEqual(t, draft.Rating, 5.0)
}

func TestNormalizeStore(t *testing.T) {
	meta := &sources.ShopMetadata{
		Name:         "Demo Shop",
		Description:  "<p>Things we like</p>",
		Domain:       "demo-shop.myshopify.com",
		CurrencyCode: "USD",
		BrandColors:  []string{"#111111", "#222222"},
		LogoURL:      "https://cdn/logo.png",
	}

	draft := NormalizeStore(meta, nil, []string{"Summer"})
	assert.Equal(t, "Demo Shop", draft.Name)
	assert.Equal(t, "Things we like", draft.Description)
	assert.Equal(t, "imported", draft.Niche)
	assert.Equal(t, "#111111", draft.Theme.PrimaryColor)
	assert.Equal(t, "demo-shop.myshopify.com", draft.SourceDomain)
	assert.Equal(t, []string{"Summer"}, draft.Collections)
	assert.Equal(t, "https://cdn/logo.png", draft.LogoURL)
	assert.Contains(t, draft.HeroImage, "placehold.co")
}

// Idempotence: normalizing the same inputs twice yields identical drafts.
func TestNormalizeStoreIsIdempotent(t *testing.T) {
	meta := &sources.ShopMetadata{Name: "Demo Shop", Domain: "demo-shop.myshopify.com"}

	first := NormalizeStore(meta, nil, nil)
	second := NormalizeStore(meta, nil, nil)
	assert.Equal(t, fmt.Sprintf("%+v", first), fmt.Sprintf("%+v", second))
}
