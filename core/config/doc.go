// Package config provides configuration management for the gateway
// manager.
//
// It utilizes Viper for loading configuration from environment
// variables and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP status server settings (port, API key)
//   - Gateway: account id, API token and endpoint of the policy store
//   - Source: block list fetch timeouts and s3 credentials
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Gateway.AccountID)
package config
