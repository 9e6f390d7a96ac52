package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

type apiError struct {
	code string
	msg  string
}

func (e *apiError) Error() string                 { return e.msg }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.msg }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

var (
	errNoSuchKey = &apiError{code: "NoSuchKey", msg: "no such key"}
	errNotFound  = &apiError{code: "NotFound", msg: "not found"}
)

// bucket is an in-memory S3 stand-in.
type bucket struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	lengths      map[string]int64
	puts         int

	getErr  error
	putErr  error
	headErr error
}

func newBucket() *bucket {
	return &bucket{
		objects:      map[string][]byte{},
		contentTypes: map[string]string{},
		lengths:      map[string]int64{},
	}
}

func (b *bucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errNoSuchKey
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (b *bucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b.mu.Lock()
	b.puts++
	b.mu.Unlock()
	if b.putErr != nil {
		return nil, b.putErr
	}
	// The SDK needs a seekable body to sign and retry without buffering.
	if _, ok := in.Body.(io.Seeker); !ok {
		return nil, errors.New("body is not seekable")
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	key := aws.ToString(in.Key)
	b.objects[key] = data
	b.contentTypes[key] = aws.ToString(in.ContentType)
	if in.ContentLength != nil {
		b.lengths[key] = *in.ContentLength
	}
	return &s3.PutObjectOutput{}, nil
}

func (b *bucket) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (b *bucket) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if b.headErr != nil {
		return nil, b.headErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[aws.ToString(in.Key)]; !ok {
		return nil, errNotFound
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3ResponseAudioRoundTrip(t *testing.T) {
	b := newBucket()
	store := NewS3(b, "replies", "vaani")
	ctx := context.Background()

	wav := []byte("RIFF....WAVEdata")
	if err := WriteFile(ctx, store, ResponseAudioKey, wav); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	b.mu.Lock()
	ct := b.contentTypes["vaani/response.wav"]
	size, sized := b.lengths["vaani/response.wav"]
	_, stored := b.objects["vaani/response.wav"]
	b.mu.Unlock()
	if !stored {
		t.Fatal("object not stored under prefixed key")
	}
	if ct != "audio/wav" {
		t.Errorf("content type = %q, want audio/wav", ct)
	}
	if !sized || size != int64(len(wav)) {
		t.Errorf("content length = %d (set %v), want %d", size, sized, len(wav))
	}

	got, err := ReadFile(ctx, store, ResponseAudioKey)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(got, wav) {
		t.Errorf("got %q, want %q", got, wav)
	}
}

func TestS3ReadMissing(t *testing.T) {
	store := NewS3(newBucket(), "b", "")
	_, err := store.Read(context.Background(), ResponseAudioKey)
	if !IsNotExist(err) {
		t.Fatalf("got %v, want not-exist", err)
	}
}

func TestS3ReadOtherError(t *testing.T) {
	b := newBucket()
	b.getErr = errors.New("network timeout")
	_, err := NewS3(b, "b", "").Read(context.Background(), "x")
	if err == nil || IsNotExist(err) {
		t.Fatalf("got %v, want a plain error", err)
	}
}

func TestS3Exists(t *testing.T) {
	b := newBucket()
	store := NewS3(b, "b", "")
	ctx := context.Background()

	ok, err := store.Exists(ctx, ResponseAudioKey)
	if err != nil || ok {
		t.Fatalf("Exists() = %v, %v; want false, nil", ok, err)
	}
	if err := WriteFile(ctx, store, ResponseAudioKey, []byte("x")); err != nil {
		t.Fatal(err)
	}
	ok, err = store.Exists(ctx, ResponseAudioKey)
	if err != nil || !ok {
		t.Fatalf("Exists() = %v, %v; want true, nil", ok, err)
	}

	b.headErr = errors.New("network failure")
	if _, err := store.Exists(ctx, ResponseAudioKey); err == nil {
		t.Error("expected head error")
	}
}

func TestS3Delete(t *testing.T) {
	store := NewS3(newBucket(), "b", "")
	ctx := context.Background()
	if err := store.Delete(ctx, "ghost"); err != nil {
		t.Fatal(err)
	}
	WriteFile(ctx, store, "tmp.wav", []byte("x"))
	if err := store.Delete(ctx, "tmp.wav"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := store.Exists(ctx, "tmp.wav"); ok {
		t.Error("object should be gone after delete")
	}
}

func TestS3WriteUploadError(t *testing.T) {
	b := newBucket()
	b.putErr = errors.New("upload failed")
	err := WriteFile(context.Background(), NewS3(b, "b", ""), "obj", []byte("data"))
	if err == nil {
		t.Fatal("expected upload error")
	}
	if !errors.Is(err, b.putErr) {
		t.Errorf("got %v, want wrapped upload error", err)
	}
}

func TestS3WriteAbort(t *testing.T) {
	b := newBucket()
	store := NewS3(b, "b", "")
	ctx := context.Background()

	w, err := store.Write(ctx, ResponseAudioKey)
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte("partial"))
	if err := w.(Aborter).Abort(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if b.puts != 0 {
		t.Errorf("PutObject called %d times after abort", b.puts)
	}
	if ok, _ := store.Exists(ctx, ResponseAudioKey); ok {
		t.Error("aborted object was uploaded")
	}
}

func TestS3InvalidKey(t *testing.T) {
	store := NewS3(newBucket(), "b", "")
	for _, p := range []string{"", "../escape", "a/../../b"} {
		if _, err := store.Read(context.Background(), p); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Read(%q) = %v, want ErrInvalidPath", p, err)
		}
	}
}

func TestIsS3NotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"NoSuchKey", errNoSuchKey, true},
		{"NotFound", errNotFound, true},
		{"other api error", &apiError{code: "AccessDenied", msg: "denied"}, false},
		{"plain error", errors.New("timeout"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isS3NotFound(tt.err); got != tt.want {
				t.Fatalf("isS3NotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewS3Client(t *testing.T) {
	if _, err := NewS3Client(S3Config{}); err == nil {
		t.Error("expected error without bucket")
	}
	c, err := NewS3Client(S3Config{
		Bucket:    "replies",
		Endpoint:  "http://127.0.0.1:9000",
		PathStyle: true,
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	if err != nil {
		t.Fatalf("NewS3Client() error = %v", err)
	}
	opts := c.Options()
	if opts.Region != "us-east-1" {
		t.Errorf("Region = %q, want us-east-1", opts.Region)
	}
	if !opts.UsePathStyle {
		t.Error("UsePathStyle = false, want true")
	}
	creds, err := opts.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessKeyID != "minio" {
		t.Errorf("AccessKeyID = %q, want minio", creds.AccessKeyID)
	}
}
