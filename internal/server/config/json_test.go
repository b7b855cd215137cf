package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_grpc":                     "www.example:9000",
		"database_driver":                        "sqlite",
		"database_dsn":                           "auth.db",
		"access_secret":                          "a-secret",
		"refresh_secret":                         "r-secret",
		"access_token_validity_duration":         "30m",
		"refresh_token_validity_duration":        "72h",
		"password_reset_token_validity_duration": "10m",
		"verification_token_validity_duration":   "2h",
		"bcrypt_cost":                            11,
		"notifier":                               "s3",
		"s3_bucket":                              "bucket",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "sqlite", cfg.DatabaseDriver)
		assert.Equal(t, "auth.db", cfg.DatabaseDSN)
		assert.Equal(t, "a-secret", cfg.AccessSecret)
		assert.Equal(t, "r-secret", cfg.RefreshSecret)
		assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 72*time.Hour, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, 10*time.Minute, cfg.PasswordResetTokenValidityDuration)
		assert.Equal(t, 2*time.Hour, cfg.VerificationTokenValidityDuration)
		assert.Equal(t, 11, cfg.BcryptCost)
		assert.Equal(t, "s3", cfg.Notifier)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, ":9090", cfg.MetricsAddr, "absent keys keep defaults")
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		cfg := &Config{EndpointAddrGRPC: "defaults:1234", BcryptCost: 12}
		require.NoError(t, parseJson(cfg, nil))
		assert.Equal(t, "defaults:1234", cfg.EndpointAddrGRPC)
		assert.Equal(t, 12, cfg.BcryptCost)
	})

	t.Run("missing file", func(t *testing.T) {
		err := parseJson(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		require.ErrorContains(t, err, "read config file")
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		err := parseJson(&Config{}, []string{"-c", bad})
		require.ErrorContains(t, err, "parse config file")
	})
}
