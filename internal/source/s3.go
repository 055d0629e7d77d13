package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ekisa-team/modelload/internal/config"
)

// ObjectGetter is the subset of the S3 API used to fetch model files.
// *s3.Client satisfies this interface.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds an S3 client from config. Credentials come from the
// standard AWS_* environment variables; requests are anonymous without them.
func NewS3Client(cfg config.ObjectStoreConfig) *s3.Client {
	opts := s3.Options{
		Region:           cfg.Region,
		UsePathStyle:     cfg.PathStyle,
		Credentials:      envCredentials(),
		RetryMaxAttempts: 1,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return s3.New(opts)
}

// envCredentials reads static credentials from the environment.
func envCredentials() aws.CredentialsProvider {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}

	creds := aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}

	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return creds, nil
	})
}

// ObjectStoreFetcher fetches s3://bucket/key references.
type ObjectStoreFetcher struct {
	Client ObjectGetter
}

// Fetch streams the object body into dst.
func (f *ObjectStoreFetcher) Fetch(ctx context.Context, ref Reference, dst io.Writer, p Progress) (int64, error) {
	slog.Info("Downloading model from object store", "bucket", ref.Bucket, "key", ref.Key)

	out, err := f.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	})
	if err != nil {
		return 0, fmt.Errorf("fetching %s: %w", ref.Raw, err)
	}
	defer out.Body.Close()

	total := aws.ToInt64(out.ContentLength)
	n, err := copyChunks(ctx, dst, out.Body, "Downloading "+ref.Raw, total, p)
	if err != nil {
		return n, fmt.Errorf("reading %s: %w", ref.Raw, err)
	}

	return n, nil
}
