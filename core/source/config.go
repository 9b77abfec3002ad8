package source

// Config holds configuration for block list source fetching.
type Config struct {
	// TimeoutSeconds is the fetch timeout for HTTP sources.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// S3Endpoint is the object storage endpoint for s3:// sources.
	S3Endpoint string `mapstructure:"s3_endpoint" default:"localhost:9000"`
	// S3AccessKey is the access key ID for s3:// sources.
	S3AccessKey string `mapstructure:"s3_access_key" default:""`
	// S3SecretKey is the secret access key for s3:// sources.
	S3SecretKey string `mapstructure:"s3_secret_key" default:""`
	// S3UseSSL indicates whether to use SSL/TLS for s3:// sources.
	S3UseSSL bool `mapstructure:"s3_use_ssl" default:"false"`
	// S3Region is the bucket region for s3:// sources.
	S3Region string `mapstructure:"s3_region" default:""`
}
