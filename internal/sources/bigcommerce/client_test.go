// internal/sources/bigcommerce/client_test.go
package bigcommerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artistsreach/storegen-sub000/internal/sources"
)

var testCreds = sources.Credentials{Domain: "demo-store", Token: "bc-token"}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(5 * time.Second)
	client.baseURL = server.URL
	return client
}

func TestFetchMetadata(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer bc-token", r.Header.Get("Authorization"))

		w.Write([]byte(`{"data":{"site":{"settings":{
			"storeName":"Demo Store",
			"url":{"vanityUrl":"https://demo-store.mybigcommerce.com/"},
			"logoV2":{"image":{"url":"https://cdn/logo.png","altText":"Demo Store"}},
			"currency":{"code":"CAD"}
		}}}}`))
	})

	meta, err := client.FetchMetadata(context.Background(), testCreds)
	require.NoError(t, err)

	assert.Equal(t, "Demo Store", meta.Name)
	assert.Equal(t, "demo-store.mybigcommerce.com", meta.Domain)
	assert.Equal(t, "CAD", meta.CurrencyCode)
	assert.Equal(t, "https://cdn/logo.png", meta.LogoURL)
}

func TestFetchProductsPage(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]interface{} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 12, req.Variables["first"])

		w.Write([]byte(`{"data":{"site":{"products":{
			"edges":[
				{"node":{
					"entityId":101,
					"name":"Desk Lamp",
					"description":"<p>Bright</p>",
					"prices":{"price":{"value":39.95,"currencyCode":"USD"}},
					"defaultImage":{"url":"https://cdn/lamp.png","altText":"Lamp"},
					"inventoryLevel":4,
					"reviewSummary":{"averageRating":4.6,"numberOfReviews":12}
				}},
				{"node":{
					"entityId":102,
					"name":"Desk Mat",
					"prices":{"price":{"value":19.00,"currencyCode":"USD"}},
					"reviewSummary":{"averageRating":0,"numberOfReviews":0}
				}}
			],
			"pageInfo":{"hasNextPage":true,"endCursor":"bc-cursor"}
		}}}}`))
	})

	page, err := client.FetchProductsPage(context.Background(), testCreds, 12, "")
	require.NoError(t, err)
	require.Len(t, page.Products, 2)

	lamp := page.Products[0]
	assert.Equal(t, "101", lamp.PlatformID)
	assert.True(t, lamp.Price.Equal(decimal.RequireFromString("39.95")))
	assert.Equal(t, "Bright", lamp.Description)
	// Real review data wins over the simulated rating.
	assert.Equal(t, 4.6, lamp.Rating)
	assert.Equal(t, "https://cdn/lamp.png", lamp.Image.Src)

	mat := page.Products[1]
	assert.Equal(t, "102", mat.PlatformID)
	assert.GreaterOrEqual(t, mat.Rating, 3.5)
	assert.LessOrEqual(t, mat.Rating, 5.0)
	assert.Contains(t, mat.Image.Src, "placehold.co")

	assert.True(t, page.PageInfo.HasNextPage)
	assert.Equal(t, "bc-cursor", page.PageInfo.EndCursor)
}

func TestFetchProductsGraphQLError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":[{"message":"Invalid cursor"}]}`))
	})

	_, err := client.FetchProductsPage(context.Background(), testCreds, 12, "bogus")
	require.Error(t, err)
	assert.Equal(t, sources.ErrKindGraphQL, sources.KindOf(err))
}

func TestNormalizeStore(t *testing.T) {
	meta := &sources.ShopMetadata{
		Name:         "Demo Store",
		Domain:       "demo-store.mybigcommerce.com",
		CurrencyCode: "USD",
	}

	draft := NormalizeStore(meta, nil, nil)
	assert.Equal(t, "Demo Store", draft.Name)
	assert.Equal(t, "imported", draft.Niche)
	assert.Equal(t, "demo-store.mybigcommerce.com", draft.SourceDomain)
	assert.NotEmpty(t, draft.Theme.PrimaryColor)
	assert.NotEmpty(t, draft.Content.HeroTitle)
}

func TestSourceKindsAreProductsOnly(t *testing.T) {
	source := NewSource(time.Second)
	assert.Equal(t, "bigcommerce", source.Name())
	assert.Equal(t, []sources.ItemKind{sources.KindProducts}, source.Kinds())
}
