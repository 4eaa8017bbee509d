package adapter

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/jonno85/graphile-server/internal/service/utils"
)

const (
	maxUploadAttempts = 5
	initialBackoff    = 50 * time.Millisecond
	hashMetadataKey   = "Hash"
)

// ObjectStore stores exported documents keyed by name.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucketName string) error
	PutObjectWithIdempotency(ctx context.Context, bucketName, objectName string, data []byte, contentType string) (bool, error)
}

type S3ClientImpl struct {
	s3Client *minio.Client
	region   string
}

func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*S3ClientImpl, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create MinIO client")
	}
	return &S3ClientImpl{
		s3Client: client,
		region:   "eu-west-1",
	}, nil
}

func (s *S3ClientImpl) EnsureBucket(ctx context.Context, bucketName string) error {
	exists, err := s.s3Client.BucketExists(ctx, bucketName)
	if err != nil {
		return errors.Wrap(err, "check bucket")
	}
	if exists {
		return nil
	}
	if err := s.s3Client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return errors.Wrap(err, "create bucket")
	}
	slog.Info("Bucket created", "bucket", bucketName)
	return nil
}

// PutObjectWithIdempotency uploads data unless the stored object already
// carries the same SHA-256. It reports whether an upload happened.
func (s *S3ClientImpl) PutObjectWithIdempotency(ctx context.Context, bucketName, objectName string, data []byte, contentType string) (bool, error) {
	hash := utils.ComputeHash(data)

	objInfo, err := s.s3Client.StatObject(ctx, bucketName, objectName, minio.StatObjectOptions{})
	if err == nil {
		remoteHash := storedHash(objInfo.UserMetadata)
		if remoteHash == hash {
			slog.Info("Object already exists and hash matches", "object", objectName, "hash", hash)
			return false, nil
		}
		slog.Info("Object exists with a different hash, replacing", "object", objectName, "remoteHash", remoteHash, "hash", hash)
	} else if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return false, errors.Wrap(err, "stat object")
	}

	_, err = utils.Retry(maxUploadAttempts, initialBackoff, func() (minio.UploadInfo, error) {
		return s.s3Client.PutObject(ctx, bucketName, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: map[string]string{hashMetadataKey: hash},
		})
	})
	if err != nil {
		return false, errors.Wrap(err, "upload object")
	}
	slog.Debug("Uploaded object", "bucket", bucketName, "object", objectName, "bytes", len(data))
	return true, nil
}

// storedHash reads the hash metadata of a stat result. Depending on the
// server the key comes back with or without its X-Amz-Meta- prefix.
func storedHash(metadata map[string]string) string {
	if hash := metadata[hashMetadataKey]; hash != "" {
		return hash
	}
	return metadata["X-Amz-Meta-"+hashMetadataKey]
}
