package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rohits-web03/collabdrive/internal/config"
)

var (
	BlobClient *s3.Client
	BlobBucket string
)

// ErrObjectNotFound is returned by GetObject when the key has no backing
// object. Callers decide whether that is a client 404 or an internal fault.
var ErrObjectNotFound = errors.New("blob object not found")

// InitBlobStore initializes the S3-compatible client using static
// credentials and the account's R2 endpoint.
func InitBlobStore(cfg config.BlobConfig) error {
	BlobBucket = cfg.BucketName
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	BlobClient = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	log.Println("Successfully initialized blob store client")

	return nil
}

// PutObject uploads content under a server-generated key.
func PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := BlobClient.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(BlobBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

// GetObject returns a stream of the full object body.
func GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := BlobClient.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(BlobBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return out.Body, nil
}

// GetObjectRange streams the inclusive byte span [start, end] of the object.
func GetObjectRange(ctx context.Context, key string, start, end int64) (io.ReadCloser, error) {
	out, err := BlobClient.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(BlobBucket),
		Key:    aws.String(key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", start, end)),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return out.Body, nil
}

// DeleteObject removes the object. Deleting an absent key is success, so file
// deletion can be retried after a partial failure.
func DeleteObject(ctx context.Context, key string) error {
	_, err := BlobClient.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(BlobBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil
		}
		return err
	}
	return nil
}

// ReadAllObject collects a whole object into memory, for content that must be
// decrypted before use.
func ReadAllObject(ctx context.Context, key string) ([]byte, error) {
	body, err := GetObject(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}
