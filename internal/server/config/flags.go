package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/photoshare/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-u string   S3 access key
//	-p string   S3 secret key
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-b string   upload bucket name
//	-t string   thumbnail bucket name
//	-m string   store domain for locator URLs
//	-q string   SQS queue URL for object-created events
//	-i int      presigned upload URL validity, minutes
//	-z int      thumbnail bound, pixels
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. The presign
// expiry is accepted as an integer number of minutes.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-u", "-p", "-g", "-e", "-b", "-t", "-m", "-q", "-i", "-z"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.UploadBucket, "b", config.UploadBucket, "upload bucket")
	fs.StringVar(&config.ThumbnailBucket, "t", config.ThumbnailBucket, "thumbnail bucket")
	fs.StringVar(&config.StoreDomain, "m", config.StoreDomain, "store domain for locator URLs")
	fs.StringVar(&config.SQSQueueURL, "q", config.SQSQueueURL, "SQS queue URL")

	presignExpiry := fs.Int("i", int(config.PresignExpiry.Minutes()), "presign_expiry (in minutes)")
	fs.IntVar(&config.ThumbnailMaxSize, "z", config.ThumbnailMaxSize, "thumbnail bound (pixels)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.PresignExpiry = time.Duration(*presignExpiry) * time.Minute
}
