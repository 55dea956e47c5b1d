package avatar

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"contacts-service/internal/apperr"
)

// Storage moves a processed temp file into durable avatar storage and returns
// the URL path to persist on the user. Implementations consume the temp file
// on success.
type Storage interface {
	Store(ctx context.Context, tempPath, filename string) (string, error)
}

// LocalStorage keeps avatars under a public static directory.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Store(_ context.Context, tempPath, filename string) (string, error) {
	if err := os.Rename(tempPath, filepath.Join(s.dir, filename)); err != nil {
		return "", apperr.Internal("Failed to store avatar")
	}

	return path.Join("avatars", filename), nil
}

// S3Storage uploads avatars to an S3 bucket, for deployments where the static
// directory is not shared between instances.
type S3Storage struct {
	client *s3.Client
	bucket string
}

type S3Config struct {
	Region       string
	Bucket       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Storage{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Storage) Store(ctx context.Context, tempPath, filename string) (string, error) {
	f, err := os.Open(tempPath)
	if err != nil {
		return "", apperr.Internal("Failed to store avatar")
	}
	defer f.Close()
	defer os.Remove(tempPath)

	key := path.Join("avatars", filename)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", apperr.Internal("Failed to store avatar")
	}

	return key, nil
}
