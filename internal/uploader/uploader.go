package uploader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/hashicorp/go-hclog"
)

// Uploader pushes report files to an S3 bucket for external collection.
type Uploader struct {
	bucket string
	region string
	logger hclog.Logger
}

// New creates an uploader for the given bucket and region.
func New(bucket, region string, logger hclog.Logger) *Uploader {
	return &Uploader{
		bucket: bucket,
		region: region,
		logger: logger,
	}
}

// Upload stores the file under the given key prefix and returns the object
// location. The key defaults to the file's base name when prefix is empty.
func (u *Uploader) Upload(path, prefix string) (string, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(u.region),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create aws session: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open report file %q: %w", path, err)
	}
	defer f.Close()

	key := filepath.Base(path)
	if prefix != "" {
		key = filepath.Join(prefix, key)
	}

	uploader := s3manager.NewUploader(sess)
	result, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report to s3: %w", err)
	}

	u.logger.Info("report uploaded", "bucket", u.bucket, "key", key, "location", result.Location)
	return result.Location, nil
}
