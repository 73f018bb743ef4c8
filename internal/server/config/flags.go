package config

import (
	"flag"
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-s", "-t", "-w", "-i", "-k", "-l", "-f", "-u", "-p", "-b", "-g", "-e"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN or "memory"
//	-s string   JWT HMAC secret key
//	-t int      access token validity, hours
//	-w int      session window, minutes
//	-i int      expired session sweep interval, seconds (0 = off)
//	-k int      bcrypt cost
//	-l string   log level
//	-f string   log format (json|text)
//	-u/-p/-b/-g/-e  S3 user, password, bucket, region, endpoint
//
// Unknown arguments are filtered out first with flagx.FilterArgs.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenHours := fs.Int("t", int(config.AccessTokenValidityDuration.Hours()), "access_token_validity_duration (in hours)")
	sessionMinutes := fs.Int("w", int(config.SessionDuration.Minutes()), "session_duration (in minutes)")
	sweepSeconds := fs.Int("i", int(config.SessionSweepInterval.Seconds()), "session_sweep_interval (in seconds, 0 disables)")

	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format (json|text)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 export bucket (empty disables export)")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*tokenHours) * time.Hour
	config.SessionDuration = time.Duration(*sessionMinutes) * time.Minute
	config.SessionSweepInterval = time.Duration(*sweepSeconds) * time.Second
}
