// Package source opens the byte sources archives are read from.
package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ossyrian/pkparse/internal/pkzip"
)

// Options customises Open.
type Options struct {
	// AWSProfile is the shared config profile used for s3:// inputs.
	// Empty means the default credential chain.
	AWSProfile string

	// BufferSize is the read-ahead of each ranged GetObject call.
	BufferSize int
}

// Open returns the byte source named by uri and the closer that releases it.
//
// uri is either a local path or s3://bucket/key.
func Open(ctx context.Context, uri string, optFns ...func(*Options)) (pkzip.Source, io.Closer, error) {
	opts := &Options{BufferSize: DefaultBufferSize}
	for _, fn := range optFns {
		fn(opts)
	}

	if bucket, key, ok := ParseS3URI(uri); ok {
		var loadOpts []func(*config.LoadOptions) error
		if opts.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.AWSProfile))
		}

		cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		obj, err := NewS3Object(ctx, s3.NewFromConfig(cfg), bucket, key, opts.BufferSize)
		if err != nil {
			return nil, nil, err
		}
		return obj, io.NopCloser(obj), nil
	}

	return OpenFile(uri)
}

// OpenFile returns a file-backed source. Closing the returned closer closes
// the file.
func OpenFile(path string) (pkzip.Source, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open archive: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("failed to stat archive: %w", err)
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%s is a directory", path)
	}

	return &fileSource{File: f, size: fi.Size()}, f, nil
}

type fileSource struct {
	*os.File
	size int64
}

func (f *fileSource) Size() int64 { return f.size }

// ParseS3URI splits s3://bucket/key. ok is false for anything else.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	if !strings.HasPrefix(uri, "s3://") {
		return "", "", false
	}

	u, err := url.Parse(uri)
	if err != nil || u.Host == "" {
		return "", "", false
	}

	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", false
	}

	return u.Host, key, true
}
