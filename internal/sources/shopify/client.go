// internal/sources/shopify/client.go
package shopify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Artistsreach/storegen-sub000/internal/sources"
)

const (
	defaultSuffix     = ".myshopify.com"
	defaultAPIVersion = "2024-01"
	tokenHeader       = "X-Shopify-Storefront-Access-Token"
)

const shopQuery = `
query ShopMetadata {
  shop {
    name
    description
    primaryDomain { host }
    paymentSettings { currencyCode }
    brand {
      slogan
      shortDescription
      logo { image { url } }
      coverImage { image { url } }
      colors {
        primary { background }
        secondary { background }
      }
    }
  }
}`

const productsQuery = `
query Products($first: Int!, $after: String) {
  products(first: $first, after: $after) {
    edges {
      node {
        id
        title
        descriptionHtml
        tags
        totalInventory
        featuredImage { url altText }
        priceRange { minVariantPrice { amount currencyCode } }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

const collectionsQuery = `
query Collections($first: Int!, $after: String) {
  collections(first: $first, after: $after) {
    edges { node { title } }
    pageInfo { hasNextPage endCursor }
  }
}`

// Client talks to the Shopify Storefront GraphQL API.
type Client struct {
	apiVersion string
	httpClient *http.Client

	// baseURL overrides the storefront endpoint in tests.
	baseURL string
}

func NewClient(apiVersion string, timeout time.Duration) *Client {
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) endpoint(domain string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return fmt.Sprintf("https://%s/api/%s/graphql.json", domain, c.apiVersion)
}

func (c *Client) headers(token string) map[string]string {
	return map[string]string{tokenHeader: token}
}

// FetchMetadata loads shop settings and brand data.
func (c *Client) FetchMetadata(ctx context.Context, creds sources.Credentials) (*sources.ShopMetadata, error) {
	domain := sources.NormalizeDomain(creds.Domain, defaultSuffix)

	var data shopQueryData
	if err := sources.PostGraphQL(ctx, c.httpClient, c.endpoint(domain), c.headers(creds.Token), shopQuery, nil, &data); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"source": "shopify", "domain": domain}).Debug("Fetched shop metadata")
	return metadataFromShop(domain, data.Shop), nil
}

// FetchProductsPage loads one page of products. The cursor is the previous
// page's endCursor, echoed verbatim; empty means the first page.
func (c *Client) FetchProductsPage(ctx context.Context, creds sources.Credentials, pageSize int, cursor string) (*sources.ItemsPage, error) {
	domain := sources.NormalizeDomain(creds.Domain, defaultSuffix)

	variables := map[string]interface{}{"first": pageSize}
	if cursor != "" {
		variables["after"] = cursor
	}

	var data productsQueryData
	if err := sources.PostGraphQL(ctx, c.httpClient, c.endpoint(domain), c.headers(creds.Token), productsQuery, variables, &data); err != nil {
		return nil, err
	}

	page := &sources.ItemsPage{
		PageInfo: sources.PageInfo{
			HasNextPage: data.Products.PageInfo.HasNextPage,
			EndCursor:   data.Products.PageInfo.EndCursor,
		},
	}
	for _, edge := range data.Products.Edges {
		page.Products = append(page.Products, normalizeProduct(edge.Node))
	}
	return page, nil
}

// FetchCollectionsPage loads one page of collection titles.
func (c *Client) FetchCollectionsPage(ctx context.Context, creds sources.Credentials, pageSize int, cursor string) (*sources.ItemsPage, error) {
	domain := sources.NormalizeDomain(creds.Domain, defaultSuffix)

	variables := map[string]interface{}{"first": pageSize}
	if cursor != "" {
		variables["after"] = cursor
	}

	var data collectionsQueryData
	if err := sources.PostGraphQL(ctx, c.httpClient, c.endpoint(domain), c.headers(creds.Token), collectionsQuery, variables, &data); err != nil {
		return nil, err
	}

	page := &sources.ItemsPage{
		PageInfo: sources.PageInfo{
			HasNextPage: data.Collections.PageInfo.HasNextPage,
			EndCursor:   data.Collections.PageInfo.EndCursor,
		},
	}
	for _, edge := range data.Collections.Edges {
		page.Collections = append(page.Collections, edge.Node.Title)
	}
	return page, nil
}
