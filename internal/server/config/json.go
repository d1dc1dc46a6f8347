package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/photoshare/internal/flagx"
	"github.com/dmitrijs2005/photoshare/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "1h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDSN      string         `json:"database_dsn"`
	S3AccessKey      string         `json:"s3_access_key"`
	S3SecretKey      string         `json:"s3_secret_key"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	UploadBucket     string         `json:"upload_bucket"`
	ThumbnailBucket  string         `json:"thumbnail_bucket"`
	StoreDomain      string         `json:"store_domain"`
	SQSQueueURL      string         `json:"sqs_queue_url"`
	PresignExpiry    timex.Duration `json:"presign_expiry"`
	ThumbnailMaxSize int            `json:"thumbnail_max_size"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.UploadBucket = c.UploadBucket
	config.ThumbnailBucket = c.ThumbnailBucket
	config.StoreDomain = c.StoreDomain
	config.SQSQueueURL = c.SQSQueueURL
	config.PresignExpiry = time.Duration(c.PresignExpiry.Duration)
	config.ThumbnailMaxSize = c.ThumbnailMaxSize
}
