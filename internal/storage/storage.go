package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const minioInitTimeout = 10 * time.Second

var (
	client    *minio.Client
	bucket    string
	publicURL string
)

// InitStorage connects to the MinIO deployment that keeps all uploaded media.
// Only URLs returned from here are persisted in the database.
func InitStorage() error {
	endpoint := getEnvOrDefault("MINIO_ENDPOINT", "localhost:9000")
	accessKey := getEnvOrDefault("MINIO_ACCESS_KEY", "minioadmin")
	secretKey := getEnvOrDefault("MINIO_SECRET_KEY", "minioadmin")
	useSSL := getEnvOrDefault("MINIO_USE_SSL", "false") == "true"
	bucket = getEnvOrDefault("MINIO_BUCKET", "videotube")
	publicURL = getEnvOrDefault("MINIO_PUBLIC_URL", "http://"+endpoint)

	var err error
	client, err = minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create minio client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), minioInitTimeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrap(err, "check bucket error")
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return errors.Wrap(err, "create bucket error")
		}
	}

	logrus.Infof("Connected to MinIO at %s, bucket %q", endpoint, bucket)
	return nil
}

// UploadFile pushes a spooled multipart file to object storage and returns
// the public URL to persist.
func UploadFile(ctx context.Context, localPath, objectName string) (string, error) {
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := client.FPutObject(ctx, bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload %s", objectName)
	}

	return fmt.Sprintf("%s/%s/%s", publicURL, bucket, objectName), nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
