package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Client is the subset of the S3 API used by S3Store. *s3.Client
// satisfies it.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Config describes a bucket on AWS S3 or an S3-compatible service
// (MinIO, R2, ...).
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
}

// NewS3Client builds an S3 client from static settings.
func NewS3Client(cfg S3Config) (*s3.Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: s3 bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{
		Region:       region,
		UsePathStyle: cfg.PathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		creds := aws.Credentials{
			AccessKeyID:     cfg.AccessKey,
			SecretAccessKey: cfg.SecretKey,
			Source:          "vaani-config",
		}
		opts.Credentials = aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return creds, nil
		})
	}
	return s3.New(opts), nil
}

// S3Store implements FileStore on an S3 bucket. Keys live under an
// optional prefix.
type S3Store struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3 creates an S3-backed FileStore. Pass "" for no prefix.
func NewS3(client S3Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(p string) (string, error) {
	p, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return p, nil
	}
	return path.Join(s.prefix, p), nil
}

// Read fetches the object with GetObject. Missing keys yield an error
// wrapping fs.ErrNotExist.
func (s *S3Store) Read(ctx context.Context, p string) (io.ReadCloser, error) {
	key, err := s.key(p)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("storage: read %s: %w", p, fs.ErrNotExist)
		}
		return nil, err
	}
	return out.Body, nil
}

// Write buffers data in memory and uploads it with PutObject on Close, so
// the request carries a Content-Length and a seekable body.
func (s *S3Store) Write(ctx context.Context, p string) (io.WriteCloser, error) {
	key, err := s.key(p)
	if err != nil {
		return nil, err
	}
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if ct := contentType(key); ct != "" {
		in.ContentType = aws.String(ct)
	}
	return &s3Writer{ctx: ctx, client: s.client, in: in}, nil
}

func (s *S3Store) Delete(ctx context.Context, p string) error {
	key, err := s.key(p)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Store) Exists(ctx context.Context, p string) (bool, error) {
	key, err := s.key(p)
	if err != nil {
		return false, err
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type s3Writer struct {
	ctx    context.Context
	client S3Client
	in     *s3.PutObjectInput
	buf    bytes.Buffer
	done   bool
}

func (w *s3Writer) Write(p []byte) (int, error) {
	if w.done {
		return 0, fs.ErrClosed
	}
	return w.buf.Write(p)
}

// Close uploads the buffered content.
func (w *s3Writer) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	w.in.Body = bytes.NewReader(w.buf.Bytes())
	w.in.ContentLength = aws.Int64(int64(w.buf.Len()))
	_, err := w.client.PutObject(w.ctx, w.in)
	return err
}

// Abort discards the buffer without uploading.
func (w *s3Writer) Abort() error {
	w.done = true
	w.buf.Reset()
	return nil
}

var (
	_ FileStore = (*S3Store)(nil)
	_ Aborter   = (*s3Writer)(nil)
)

// contentType picks the object Content-Type; the platform mime table does
// not reliably know .wav.
func contentType(key string) string {
	switch ext := path.Ext(key); ext {
	case ".wav":
		return "audio/wav"
	default:
		return mime.TypeByExtension(ext)
	}
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
