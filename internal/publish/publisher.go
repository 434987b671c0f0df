package publish

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Publisher uploads local files to a bucket.
type Publisher struct {
	client Client
	bucket string
	prefix string
	fs     afero.Fs
	log    *zap.Logger
}

// NewPublisher creates a Publisher reading files from fs.
func NewPublisher(client Client, cfg Config, fs afero.Fs, log *zap.Logger) *Publisher {
	return &Publisher{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		fs:     fs,
		log:    log,
	}
}

// Key returns the object key a file is stored under.
func (p *Publisher) Key(file string) string {
	return path.Join(p.prefix, filepath.Base(file))
}

// Publish uploads files in order, creating the bucket if needed.
// It stops at the first failure; files uploaded before it stay in the bucket.
func (p *Publisher) Publish(ctx context.Context, files []string) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", p.bucket, err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", p.bucket, err)
		}
		p.log.Info("Bucket created", zap.String("bucket", p.bucket))
	}

	for _, file := range files {
		if err := p.upload(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) upload(ctx context.Context, file string) error {
	f, err := p.fs.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", file, err)
	}

	key := p.Key(file)
	_, err = p.client.PutObject(ctx, p.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: "application/xml; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", file, err)
	}
	p.log.Info("Sitemap published",
		zap.String("bucket", p.bucket),
		zap.String("key", key),
		zap.Int64("size", info.Size()))
	return nil
}
