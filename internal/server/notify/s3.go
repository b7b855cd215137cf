package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
)

// ObjectPutter is the part of *s3.Client used for delivery.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Notifier drops each delivery as a JSON object under
// outbox/<kind>/<uuid>.json for a mailer to pick up.
type S3Notifier struct {
	client ObjectPutter
	bucket string
	newKey func(kind models.DeliveryKind) string
}

func NewS3Notifier(client ObjectPutter, bucket string) *S3Notifier {
	return &S3Notifier{client: client, bucket: bucket, newKey: objectKey}
}

func objectKey(kind models.DeliveryKind) string {
	return fmt.Sprintf("outbox/%s/%s.json", kind, uuid.NewString())
}

// NewS3Client builds an S3 client with static credentials, suitable for
// MinIO as well as AWS.
func NewS3Client(ctx context.Context, c *config.Config) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(c.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return client, nil
}

func (n *S3Notifier) Notify(ctx context.Context, d models.Delivery) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal delivery: %w", err)
	}
	_, err = n.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(n.bucket),
		Key:         aws.String(n.newKey(d.Kind)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put delivery object: %w", err)
	}
	return nil
}
