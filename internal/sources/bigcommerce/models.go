// internal/sources/bigcommerce/models.go
package bigcommerce

// Payload shapes for the BigCommerce Storefront GraphQL API.

type settingsQueryData struct {
	Site sitePayload `json:"site"`
}

type sitePayload struct {
	Settings settingsPayload `json:"settings"`
}

type settingsPayload struct {
	StoreName string `json:"storeName"`
	Url       struct {
		VanityUrl string `json:"vanityUrl"`
	} `json:"url"`
	Logo struct {
		Image struct {
			Url     string `json:"url"`
			AltText string `json:"altText"`
		} `json:"image"`
	} `json:"logoV2"`
	Currency struct {
		Code string `json:"code"`
	} `json:"currency"`
}

type productsQueryData struct {
	Site struct {
		Products productsConnection `json:"products"`
	} `json:"site"`
}

type productsConnection struct {
	Edges []struct {
		Node productNode `json:"node"`
	} `json:"edges"`
	PageInfo struct {
		HasNextPage bool   `json:"hasNextPage"`
		EndCursor   string `json:"endCursor"`
	} `json:"pageInfo"`
}

type productNode struct {
	EntityID    int    `json:"entityId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Prices      struct {
		Price struct {
			Value        float64 `json:"value"`
			CurrencyCode string  `json:"currencyCode"`
		} `json:"price"`
	} `json:"prices"`
	DefaultImage *struct {
		Url     string `json:"url"`
		AltText string `json:"altText"`
	} `json:"defaultImage"`
	InventoryLevel int `json:"inventoryLevel"`
	ReviewSummary  struct {
		AverageRating   float64 `json:"averageRating"`
		NumberOfReviews int     `json:"numberOfReviews"`
	} `json:"reviewSummary"`
}
