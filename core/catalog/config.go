package catalog

// Config holds configuration for the catalog admin API.
type Config struct {
	// Store is the storefront domain, e.g. "example.myshopify.com".
	Store string `mapstructure:"store" default:""`
	// APIVersion is the admin API version segment of the endpoint URL.
	APIVersion string `mapstructure:"api_version" default:"2023-10"`
	// AccessToken is the admin API access token.
	AccessToken string `mapstructure:"access_token" default:""`
	// TimeoutSeconds bounds each API call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PageSize is the number of products fetched per page (max 250).
	PageSize int `mapstructure:"page_size" default:"250"`
}
