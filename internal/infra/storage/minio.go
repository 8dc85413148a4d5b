package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store archives full resolved source texts in object storage. The database
// keeps a truncated copy; the archive keeps everything that was analyzed.
type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

// New connects to MinIO (or any S3-compatible endpoint) and ensures the
// bucket exists.
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

// Put uploads text under key and returns the object URL. Public buckets can
// serve it directly; private ones need a presigned URL instead.
func (s *Store) Put(ctx context.Context, key string, text string) (string, error) {
	body := strings.NewReader(text)
	_, err := s.client.PutObject(ctx, s.bucketName, key, body, int64(body.Len()), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://%s/%s/%s", s.client.EndpointURL().Host, s.bucketName, key)
	return url, nil
}
