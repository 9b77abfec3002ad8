package gateway

// Config holds configuration for the gateway API client.
type Config struct {
	// AccountID is the gateway account identifier.
	AccountID string `mapstructure:"account_id" default:""`
	// APIToken is the bearer token used for authentication.
	APIToken string `mapstructure:"api_token" default:""`
	// BaseURL is the API endpoint root.
	BaseURL string `mapstructure:"base_url" default:"https://api.cloudflare.com/client/v4"`
}
