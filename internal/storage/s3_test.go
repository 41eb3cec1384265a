package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	putErr  error
	deleted [][]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = string(data)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjects(_ context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	var batch []string
	for _, obj := range in.Delete.Objects {
		batch = append(batch, aws.ToString(obj.Key))
		delete(f.objects, aws.ToString(obj.Key))
	}
	f.deleted = append(f.deleted, batch)
	return &s3.DeleteObjectsOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var contents []types.Object
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			contents = append(contents, types.Object{Key: aws.String(key)})
		}
	}
	return &s3.ListObjectsV2Output{Contents: contents, IsTruncated: aws.Bool(false)}, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{URL: "https://s3.local/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key) + "?X-Amz-Signature=sig"}, nil
}

func TestS3StoragePutAndURL(t *testing.T) {
	api := newFakeS3()
	s := newS3Storage("recipes", api, fakePresigner{})
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "recipes/c1/a.png", strings.NewReader("img"), 3, "image/png"))
	assert.Equal(t, "img", api.objects["recipes/c1/a.png"])

	url, err := s.URL(ctx, "recipes/c1/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.local/recipes/recipes/c1/a.png?X-Amz-Signature=sig", url)

	require.NoError(t, s.Delete(ctx, "recipes/c1/a.png"))
	assert.Empty(t, api.objects)
}

func TestS3StorageDeletePrefix(t *testing.T) {
	api := newFakeS3()
	api.objects["recipes/c1/a.png"] = "a"
	api.objects["recipes/c1/b.png"] = "b"
	api.objects["recipes/c10/c.png"] = "c"
	s := newS3Storage("recipes", api, fakePresigner{})

	require.NoError(t, s.DeletePrefix(context.Background(), RecipePrefix("c1")))

	assert.Len(t, api.deleted, 1)
	assert.ElementsMatch(t, []string{"recipes/c1/a.png", "recipes/c1/b.png"}, api.deleted[0])
	assert.Contains(t, api.objects, "recipes/c10/c.png")
}

func TestS3StoragePutError(t *testing.T) {
	api := newFakeS3()
	api.putErr = errors.New("boom")
	s := newS3Storage("recipes", api, fakePresigner{})

	err := s.Put(context.Background(), "recipes/c1/a.png", strings.NewReader("x"), 1, "image/png")
	require.Error(t, err)
	assert.ErrorIs(t, err, api.putErr)

	assert.ErrorIs(t, s.Put(context.Background(), "../x", strings.NewReader("x"), 1, "image/png"), ErrInvalidKey)
}
