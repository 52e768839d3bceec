package source

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/opendq/opendq/internal/errdefs"
)

// S3Source fetches a dataset object from S3. Credentials and region
// come from the standard AWS environment and config files.
type S3Source struct {
	bucket string
	key    string

	once    sync.Once
	client  *s3.Client
	initErr error
}

// NewS3Source parses an s3://bucket/key reference.
func NewS3Source(ref string) (*S3Source, error) {
	rest := strings.TrimPrefix(ref, "s3://")
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return nil, errdefs.Newf(errdefs.CodeConfig, "invalid S3 reference: %s", ref)
	}
	return &S3Source{bucket: bucket, key: key}, nil
}

func (s *S3Source) Location() string {
	return "s3://" + s.bucket + "/" + s.key
}

func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	s.once.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			s.initErr = errdefs.Wrap(err, errdefs.CodeConfig, "cannot load AWS configuration")
			return
		}
		s.client = s3.NewFromConfig(cfg)
	})
	if s.initErr != nil {
		return nil, s.initErr
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, errdefs.Wrapf(err, errdefs.CodeDownload, "cannot fetch %s", s.Location())
	}
	return out.Body, nil
}
