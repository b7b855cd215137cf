package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

var knownFlags = []string{
	"-a", "-m", "-k", "-d", "-l", "-s", "-x", "-t", "-r", "-w", "-v", "-o",
	"-n", "-q", "-j", "-u", "-p", "-b", "-g", "-e",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address (e.g., ":9090")
//	-k string   database driver: pgx | sqlite
//	-d string   database DSN
//	-l string   log level
//	-s string   access token secret
//	-x string   refresh token secret
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-w int      password reset token validity, minutes
//	-v int      verification token validity, minutes
//	-o int      bcrypt cost
//	-n string   notifier: log | nats | s3
//	-q string   NATS URL
//	-j string   NATS subject prefix
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint
//
// Only recognized flags are parsed (flagx.FilterArgs), so -c/-config and
// flags owned by other components do not collide. Durations are whole
// minutes.
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("gophauth", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port to serve metrics")
	fs.StringVar(&config.DatabaseDriver, "k", config.DatabaseDriver, "database driver (pgx|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.AccessSecret, "s", config.AccessSecret, "access token secret")
	fs.StringVar(&config.RefreshSecret, "x", config.RefreshSecret, "refresh token secret")

	access := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refresh := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")
	reset := fs.Int("w", int(config.PasswordResetTokenValidityDuration.Minutes()), "password reset token validity (in minutes)")
	verification := fs.Int("v", int(config.VerificationTokenValidityDuration.Minutes()), "verification token validity (in minutes)")

	fs.IntVar(&config.BcryptCost, "o", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.Notifier, "n", config.Notifier, "notifier (log|nats|s3)")
	fs.StringVar(&config.NATSURL, "q", config.NATSURL, "NATS URL")
	fs.StringVar(&config.NATSSubjectPrefix, "j", config.NATSSubjectPrefix, "NATS subject prefix")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// Durations are only touched when given, so sub-minute values from JSON
	// or the environment survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*access) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refresh) * time.Minute
		case "w":
			config.PasswordResetTokenValidityDuration = time.Duration(*reset) * time.Minute
		case "v":
			config.VerificationTokenValidityDuration = time.Duration(*verification) * time.Minute
		}
	})
	return nil
}
