package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3CacheControl = "public, max-age=31536000, immutable"

// S3 stores uploads in a bucket fronted by PublicBaseURL (usually a CDN).
type S3 struct {
	client        *s3.Client
	bucket        string
	prefix        string
	publicBaseURL string
}

type S3Config struct {
	Region        string
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3{
		client:        s3.NewFromConfig(awsCfg),
		bucket:        cfg.Bucket,
		prefix:        strings.Trim(cfg.Prefix, "/"),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *S3) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func (s *S3) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	id, err := CleanPublicID(in.PublicID)
	if err != nil {
		return PutResult{}, err
	}
	key := s.key(id + extensionFor(in.ContentType))
	cacheControl := s3CacheControl

	input := &s3.PutObjectInput{
		Bucket:       &s.bucket,
		Key:          &key,
		Body:         r,
		CacheControl: &cacheControl,
	}
	if in.ContentType != "" {
		input.ContentType = &in.ContentType
	}
	if in.Filename != "" {
		disposition := fmt.Sprintf("inline; filename=%q", path.Base(in.Filename))
		input.ContentDisposition = &disposition
	}
	if in.Size > 0 {
		input.ContentLength = &in.Size
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return PutResult{}, fmt.Errorf("s3 put %s: %w", key, err)
	}
	return PutResult{PublicID: id, URL: s.publicBaseURL + "/" + key}, nil
}

// Delete lists the id's key prefix to find the stored extension, then removes
// every match.
func (s *S3) Delete(ctx context.Context, publicID string) error {
	id, err := CleanPublicID(publicID)
	if err != nil {
		return err
	}
	base := s.key(id)
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: &base,
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("s3 list %s: %w", base, err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || !sameObject(*obj.Key, base) {
				continue
			}
			if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: &s.bucket,
				Key:    obj.Key,
			}); err != nil {
				return fmt.Errorf("s3 delete %s: %w", *obj.Key, err)
			}
		}
	}
	return nil
}

func (s *S3) String() string { return fmt.Sprintf("s3(%s/%s)", s.bucket, s.prefix) }
