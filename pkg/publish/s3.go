package publish

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/logging"
)

// s3Client is the slice of the S3 API the publisher needs; tests substitute
// a fake.
type s3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads bundles under s3://{bucket}/{prefix}/{name}/.
type S3Store struct {
	client s3Client
	bucket string
	prefix string
}

// NewS3Store resolves AWS configuration from the environment.
func NewS3Store(ctx context.Context, bucket, prefix string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// NewS3StoreWithClient injects a client, used by tests.
func NewS3StoreWithClient(client s3Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) Publish(ctx context.Context, b *Bundle) (string, error) {
	base := path.Join(s.prefix, b.Name)

	if err := s.put(ctx, path.Join(base, "topology.py"), b.Script); err != nil {
		return "", err
	}
	rels := maps.Keys(b.Artifacts)
	slices.Sort(rels)
	for _, rel := range rels {
		if err := s.put(ctx, path.Join(base, rel), b.Artifacts[rel]); err != nil {
			return "", err
		}
	}

	location := fmt.Sprintf("s3://%s/%s", s.bucket, base)
	logging.Info("bundle uploaded",
		logging.String("location", location), logging.Int("artifacts", len(b.Artifacts)))
	return location, nil
}

func (s *S3Store) put(ctx context.Context, key string, content []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}
