package aws

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var s3Client *s3.Client

func GetS3Client() *s3.Client {
	if s3Client != nil {
		return s3Client
	}
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	svc := s3.NewFromConfig(cfg)
	s3Client = svc
	return svc
}

// NewS3Client Replace s3 instance with custom client implementation
func NewS3Client(c *s3.Client) {
	s3Client = c
}

// S3PresignAsset returns a time-limited GET URL for an asset key, or
// ErrNoSuchAsset when the object does not exist in the assets bucket.
var ErrNoSuchAsset = errors.New("asset does not exist")

func S3PresignAsset(ctx context.Context, key string, expires time.Duration) (string, error) {
	assetsBucket := os.Getenv("S3_ASSETS_BUCKET")
	client := GetS3Client()
	_, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(assetsBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return "", ErrNoSuchAsset
		}
		return "", err
	}
	pre := s3.NewPresignClient(client)
	r, err := pre.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(assetsBucket),
		Key:    aws.String(key),
	}, func(po *s3.PresignOptions) {
		po.Expires = expires
	})
	if err != nil {
		log.Printf("Could not generate presigned URL for object [%s]: %s\n", key, err.Error())
		return "", err
	}
	return r.URL, nil
}
