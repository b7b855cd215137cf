package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations use timex.Duration so
// both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC                   string         `json:"endpoint_addr_grpc"`
	MetricsAddr                        string         `json:"metrics_addr"`
	DatabaseDriver                     string         `json:"database_driver"`
	DatabaseDSN                        string         `json:"database_dsn"`
	LogLevel                           string         `json:"log_level"`
	AccessSecret                       string         `json:"access_secret"`
	RefreshSecret                      string         `json:"refresh_secret"`
	AccessTokenValidityDuration        timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration       timex.Duration `json:"refresh_token_validity_duration"`
	PasswordResetTokenValidityDuration timex.Duration `json:"password_reset_token_validity_duration"`
	VerificationTokenValidityDuration  timex.Duration `json:"verification_token_validity_duration"`
	BcryptCost                         int            `json:"bcrypt_cost"`
	Notifier                           string         `json:"notifier"`
	NATSURL                            string         `json:"nats_url"`
	NATSSubjectPrefix                  string         `json:"nats_subject_prefix"`
	S3RootUser                         string         `json:"s3_root_user"`
	S3RootPassword                     string         `json:"s3_root_password"`
	S3Bucket                           string         `json:"s3_bucket"`
	S3Region                           string         `json:"s3_region"`
	S3BaseEndpoint                     string         `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c/-config in args, if any, and copies
// every non-zero value into config. Missing flag means nothing to load.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.AccessSecret, c.AccessSecret)
	setString(&config.RefreshSecret, c.RefreshSecret)
	setString(&config.Notifier, c.Notifier)
	setString(&config.NATSURL, c.NATSURL)
	setString(&config.NATSSubjectPrefix, c.NATSSubjectPrefix)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.PasswordResetTokenValidityDuration.Duration != 0 {
		config.PasswordResetTokenValidityDuration = c.PasswordResetTokenValidityDuration.Duration
	}
	if c.VerificationTokenValidityDuration.Duration != 0 {
		config.VerificationTokenValidityDuration = c.VerificationTokenValidityDuration.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
