// internal/sources/shopify/models.go
package shopify

// Payload shapes for the Shopify Storefront GraphQL API. Only the fields the
// import pipeline reads are declared.

type shopQueryData struct {
	Shop shopPayload `json:"shop"`
}

type shopPayload struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	PrimaryDomain struct {
		Host string `json:"host"`
	} `json:"primaryDomain"`
	PaymentSettings struct {
		CurrencyCode string `json:"currencyCode"`
	} `json:"paymentSettings"`
	Brand *brandPayload `json:"brand"`
}

type brandPayload struct {
	Slogan           string             `json:"slogan"`
	ShortDescription string             `json:"shortDescription"`
	Logo             *mediaImagePayload `json:"logo"`
	CoverImage       *mediaImagePayload `json:"coverImage"`
	Colors           struct {
		Primary []struct {
			Background string `json:"background"`
		} `json:"primary"`
		Secondary []struct {
			Background string `json:"background"`
		} `json:"secondary"`
	} `json:"colors"`
}

type mediaImagePayload struct {
	Image struct {
		URL string `json:"url"`
	} `json:"image"`
}

type productsQueryData struct {
	Products connectionPayload[productNode] `json:"products"`
}

type collectionsQueryData struct {
	Collections connectionPayload[collectionNode] `json:"collections"`
}

type connectionPayload[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
	PageInfo struct {
		HasNextPage bool   `json:"hasNextPage"`
		EndCursor   string `json:"endCursor"`
	} `json:"pageInfo"`
}

type productNode struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	DescriptionHTML string   `json:"descriptionHtml"`
	Tags            []string `json:"tags"`
	TotalInventory  int      `json:"totalInventory"`
	FeaturedImage   *struct {
		URL     string `json:"url"`
		AltText string `json:"altText"`
	} `json:"featuredImage"`
	PriceRange struct {
		MinVariantPrice struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"minVariantPrice"`
	} `json:"priceRange"`
}

type collectionNode struct {
	Title string `json:"title"`
}
