// Package config collects the environment-derived settings in one place so
// secrets and endpoints are injected into constructors instead of being read
// from the environment deep inside domain code.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	AppPort string
	BaseURL string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	JWTSecret string
	TokenTTL  time.Duration

	// MailTransport is "ses" for inline delivery or "nats" to queue mail
	// for the worker.
	MailTransport string
	MailFrom      string
	MailFromName  string
	NatsURL       string

	AWSRegion    string
	AWSAccessKey string
	AWSSecretKey string

	// AvatarStorage is "local" or "s3".
	AvatarStorage  string
	AvatarsDir     string
	S3Bucket       string
	S3Endpoint     string
	S3UsePathStyle bool
}

func Load() *Config {
	return &Config{
		AppPort: getenv("APP_PORT", "8001"),
		BaseURL: getenv("BASE_URL", "http://localhost:8001"),

		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBName:     os.Getenv("DB_NAME"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  23 * time.Hour,

		MailTransport: getenv("MAIL_TRANSPORT", "ses"),
		MailFrom:      os.Getenv("MAIL_FROM"),
		MailFromName:  getenv("MAIL_FROM_NAME", "Contacts Service"),
		NatsURL:       getenv("NATS_URL", "nats://localhost:4222"),

		AWSRegion:    getenv("AWS_REGION", "us-east-1"),
		AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),

		AvatarStorage:  getenv("AVATAR_STORAGE", "local"),
		AvatarsDir:     getenv("AVATARS_DIR", "public/avatars"),
		S3Bucket:       os.Getenv("S3_BUCKET_NAME"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3UsePathStyle: os.Getenv("S3_USE_PATH_STYLE") == "true",
	}
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
