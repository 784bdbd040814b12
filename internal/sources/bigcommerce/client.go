// internal/sources/bigcommerce/client.go
package bigcommerce

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Artistsreach/storegen-sub000/internal/sources"
)

const defaultSuffix = ".mybigcommerce.com"

const settingsQuery = `
query SiteSettings {
  site {
    settings {
      storeName
      url { vanityUrl }
      logoV2 { ... on StoreImageLogo { image { url altText } } }
      currency { code }
    }
  }
}`

const productsQuery = `
query Products($first: Int!, $after: String) {
  site {
    products(first: $first, after: $after) {
      edges {
        node {
          entityId
          name
          description
          prices { price { value currencyCode } }
          defaultImage { url altText }
          inventoryLevel
          reviewSummary { averageRating numberOfReviews }
        }
      }
      pageInfo { hasNextPage endCursor }
    }
  }
}`

// Client talks to the BigCommerce Storefront GraphQL API.
type Client struct {
	httpClient *http.Client

	// baseURL overrides the storefront endpoint in tests.
	baseURL string
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

func (c *Client) endpoint(domain string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return fmt.Sprintf("https://%s/graphql", domain)
}

func (c *Client) headers(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// FetchMetadata loads the site settings.
func (c *Client) FetchMetadata(ctx context.Context, creds sources.Credentials) (*sources.ShopMetadata, error) {
	domain := sources.NormalizeDomain(creds.Domain, defaultSuffix)

	var data settingsQueryData
	if err := sources.PostGraphQL(ctx, c.httpClient, c.endpoint(domain), c.headers(creds.Token), settingsQuery, nil, &data); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"source": "bigcommerce", "domain": domain}).Debug("Fetched site settings")
	return metadataFromSettings(domain, data.Site.Settings), nil
}

// FetchProductsPage loads one page of products using the opaque cursor from
// the previous page.
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
			HasNextPage: data.Site.Products.PageInfo.HasNextPage,
			EndCursor:   data.Site.Products.PageInfo.EndCursor,
		},
	}
	for _, edge := range data.Site.Products.Edges {
		page.Products = append(page.Products, normalizeProduct(edge.Node))
	}
	return page, nil
}
