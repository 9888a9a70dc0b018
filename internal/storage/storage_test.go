package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/uploads/"})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "frames/1/a.png", strings.NewReader("png-bytes"), "image/png"))

	exists, err := s.Exists(ctx, "frames/1/a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Get(ctx, "frames/1/a.png")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "png-bytes", string(data))

	url, err := s.GetURL(ctx, "frames/1/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/frames/1/a.png", url)

	require.NoError(t, s.Delete(ctx, "frames/1/a.png"))
	exists, _ = s.Exists(ctx, "frames/1/a.png")
	assert.False(t, exists)

	// повторное удаление не ошибка
	assert.NoError(t, s.Delete(ctx, "frames/1/a.png"))
}

func TestLocalStorage_StaysInsideBasePath(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: base})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "../../escape.txt", strings.NewReader("x"), "text/plain"))
	exists, err := s.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, exists, "path with .. must be resolved inside base path")

	assert.ErrorIs(t, s.Save(ctx, "..", strings.NewReader("x"), "text/plain"), ErrInvalidPath)
}

type fakeS3 struct {
	s3iface.S3API
	headErr   error
	deleted   []string
	getBodies map[string]string
}

func (f *fakeS3) HeadObjectWithContext(aws.Context, *s3.HeadObjectInput, ...request.Option) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	body, ok := f.getBodies[*in.Key]
	if !ok {
		return nil, awserr.NewRequestFailure(awserr.New(s3.ErrCodeNoSuchKey, "no such key", nil), 404, "req-1")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestR2Storage_Objects(t *testing.T) {
	ctx := context.Background()
	client := &fakeS3{getBodies: map[string]string{"frames/1/a.png": "png-bytes"}}
	s := &R2Storage{client: client, bucket: "frames", baseURL: "https://cdn.example.edu"}

	exists, err := s.Exists(ctx, "frames/1/a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Get(ctx, "frames/1/a.png")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "png-bytes", string(data))

	_, err = s.Get(ctx, "frames/1/missing.png")
	assert.Error(t, err)

	require.NoError(t, s.Delete(ctx, "frames/1/a.png"))
	assert.Equal(t, []string{"frames/frames/1/a.png"}, client.deleted)

	url, err := s.GetURL(ctx, "frames/1/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.edu/frames/1/a.png", url)

	client.headErr = awserr.NewRequestFailure(awserr.New("NotFound", "not found", nil), 404, "req-2")
	exists, err = s.Exists(ctx, "frames/1/a.png")
	require.NoError(t, err)
	assert.False(t, exists)

	client.headErr = awserr.NewRequestFailure(awserr.New("Forbidden", "denied", nil), 403, "req-3")
	_, err = s.Exists(ctx, "frames/1/a.png")
	assert.Error(t, err)
}

func TestNewStorage_R2Config(t *testing.T) {
	_, err := NewStorage(Config{Type: "r2", Bucket: "frames"})
	assert.Error(t, err)

	_, err = NewStorage(Config{Type: "r2", Endpoint: "https://acc.r2.cloudflarestorage.com"})
	assert.Error(t, err)

	s, err := NewStorage(Config{
		Type:      "r2",
		Endpoint:  "https://acc.r2.cloudflarestorage.com",
		Bucket:    "frames",
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	url, _ := s.GetURL(context.Background(), "frames/1/a.png")
	assert.Equal(t, "https://frames.r2.dev/frames/1/a.png", url)

	_, err = NewStorage(Config{Type: "ftp"})
	assert.Error(t, err)
}
