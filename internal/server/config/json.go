package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/contactbook/internal/flagx"
	"github.com/dmitrijs2005/contactbook/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
// Pointer-free zero values mean "not set" and keep the current value.
type JsonConfig struct {
	HTTPAddr         string         `json:"http_addr"`
	DatabaseDSN      string         `json:"database_dsn"`
	SecretKey        string         `json:"secret_key"`
	SessionTokenTTL  timex.Duration `json:"session_token_ttl"`
	ResetTokenTTL    timex.Duration `json:"reset_token_ttl"`
	BcryptCost       int            `json:"bcrypt_cost"`
	AvatarMaxBytes   int64          `json:"avatar_max_bytes"`
	RateLimitMax     int            `json:"rate_limit_max"`
	RateLimitWindow  timex.Duration `json:"rate_limit_window"`
	CORSAllowOrigins string         `json:"cors_allow_origins"`
	LogLevel         string         `json:"log_level"`
	S3RootUser       string         `json:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c/-config (or $CONFIG) into config.
// Without a file nothing happens. An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.CORSAllowOrigins, c.CORSAllowOrigins)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.SessionTokenTTL.Duration > 0 {
		config.SessionTokenTTL = c.SessionTokenTTL.Duration
	}
	if c.ResetTokenTTL.Duration > 0 {
		config.ResetTokenTTL = c.ResetTokenTTL.Duration
	}
	if c.RateLimitWindow.Duration > 0 {
		config.RateLimitWindow = c.RateLimitWindow.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.AvatarMaxBytes > 0 {
		config.AvatarMaxBytes = c.AvatarMaxBytes
	}
	if c.RateLimitMax > 0 {
		config.RateLimitMax = c.RateLimitMax
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
