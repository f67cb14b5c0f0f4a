package packager

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Publisher copies a finished delivery to remote storage and returns the
// locations it wrote.
type Publisher interface {
	Publish(ctx context.Context, d *Delivery) ([]string, error)
}

// ObjectPutter is the subset of the S3 client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
}

func NewS3Publisher(cfg aws.Config, bucket, prefix string) *S3Publisher {
	return NewS3PublisherWithClient(s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), bucket, prefix)
}

func NewS3PublisherWithClient(client ObjectPutter, bucket, prefix string) *S3Publisher {
	return &S3Publisher{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (p *S3Publisher) Publish(ctx context.Context, d *Delivery) ([]string, error) {
	urls := make([]string, 0, len(d.Files)+1)
	files := append(append([]string(nil), d.Files...), "version.json")
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(d.Dir, name))
		if err != nil {
			return urls, err
		}
		key := path.Join(p.prefix, d.Version.JobID, d.Version.VersionID, name)
		_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(p.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType(name)),
		})
		if err != nil {
			return urls, fmt.Errorf("put %s: %w", key, err)
		}
		urls = append(urls, fmt.Sprintf("s3://%s/%s", p.bucket, key))
	}
	return urls, nil
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	case ".md":
		return "text/markdown; charset=utf-8"
	case ".php":
		return "application/x-httpd-php"
	default:
		return "application/octet-stream"
	}
}
