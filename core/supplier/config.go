package supplier

// Config holds configuration for the supplier pricing feed.
type Config struct {
	// URL is the bulk price lookup endpoint.
	URL string `mapstructure:"url" default:""`
	// Token is the API token sent in the request body.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds bounds the whole bulk request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
