package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultBufferSize is the default read-ahead of an S3Object.
//
// Decoding a record issues many small reads, so each GetObject fetches at
// least this much.
const DefaultBufferSize = 64 * 1024

// S3Client abstracts the S3 APIs needed by S3Object.
type S3Client interface {
	GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(context.Context, *s3.HeadObjectInput, ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

var errSeekBeforeStart = errors.New("seek ends up before first byte")

// S3Object reads an S3 object with ranged GetObject calls.
type S3Object struct {
	ctx         context.Context
	client      S3Client
	bucket, key string
	off, size   int64
	buf         bytes.Buffer
	bufferSize  int
}

// NewS3Object returns the S3Object for bucket and key, sized by HeadObject.
func NewS3Object(ctx context.Context, client S3Client, bucket, key string, bufferSize int) (*S3Object, error) {
	out, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to determine size of s3://%s/%s: %w", bucket, key, err)
	}

	return &S3Object{
		ctx:        ctx,
		client:     client,
		bucket:     bucket,
		key:        key,
		size:       aws.ToInt64(out.ContentLength),
		bufferSize: bufferSize,
	}, nil
}

func (o *S3Object) Size() int64 { return o.size }

// Read serves from the read-ahead buffer, refilling it with one ranged
// GetObject call when empty.
func (o *S3Object) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if o.buf.Len() == 0 {
		if o.off >= o.size {
			return 0, io.EOF
		}

		end := min(o.size, o.off+int64(max(len(p), o.bufferSize))) - 1
		out, err := o.client.GetObject(o.ctx, &s3.GetObjectInput{
			Bucket: aws.String(o.bucket),
			Key:    aws.String(o.key),
			Range:  aws.String(fmt.Sprintf("bytes=%d-%d", o.off, end)),
		})
		if err != nil {
			return 0, fmt.Errorf("failed to get bytes %d-%d of s3://%s/%s: %w", o.off, end, o.bucket, o.key, err)
		}

		_, err = o.buf.ReadFrom(out.Body)
		if _ = out.Body.Close(); err != nil {
			o.buf.Reset()
			return 0, fmt.Errorf("failed to read bytes %d-%d of s3://%s/%s: %w", o.off, end, o.bucket, o.key, err)
		}
		if o.buf.Len() == 0 {
			return 0, io.ErrUnexpectedEOF
		}
	}

	n, _ := o.buf.Read(p)
	o.off += int64(n)
	return n, nil
}

// Seek keeps buffered bytes when moving forward within them.
func (o *S3Object) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = o.off + offset
	case io.SeekEnd:
		abs = o.size + offset
	default:
		return o.off, fmt.Errorf("invalid whence: %d", whence)
	}

	if abs < 0 {
		return o.off, errSeekBeforeStart
	}

	if d := abs - o.off; d >= 0 && d <= int64(o.buf.Len()) {
		o.buf.Next(int(d))
	} else {
		o.buf.Reset()
	}

	o.off = abs
	return abs, nil
}
