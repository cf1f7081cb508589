// Package r2test provides an in-memory stand-in for the R2 S3 API.
package r2test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Object is one stored object.
type Object struct {
	Data            []byte
	ETag            string
	ContentType     string
	ContentEncoding string
	Metadata        map[string]string
	LastModified    time.Time
}

// API implements r2client.API in memory. Conditional writes follow R2:
// a failed If-None-Match or If-Match yields PreconditionFailed.
type API struct {
	mu      sync.Mutex
	objects map[string]Object
	seq     int

	// PutErr, when set, fails every PutObject call.
	PutErr error
}

// New returns an empty bucket.
func New() *API {
	return &API{objects: make(map[string]Object)}
}

// Object returns the stored object at key.
func (a *API) Object(key string) (Object, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	obj, ok := a.objects[key]
	return obj, ok
}

// Keys returns all stored keys in order.
func (a *API) Keys() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Sorted(maps.Keys(a.objects))
}

func preconditionFailed() error {
	return &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "At least one of the pre-conditions you specified did not hold"}
}

func (a *API) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if a.PutErr != nil {
		return nil, a.PutErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := aws.ToString(in.Key)
	cur, exists := a.objects[key]
	if aws.ToString(in.IfNoneMatch) == "*" && exists {
		return nil, preconditionFailed()
	}
	if in.IfMatch != nil && (!exists || strings.Trim(*in.IfMatch, `"`) != cur.ETag) {
		return nil, preconditionFailed()
	}

	a.seq++
	etag := fmt.Sprintf("etag-%d", a.seq)
	a.objects[key] = Object{
		Data:            data,
		ETag:            etag,
		ContentType:     aws.ToString(in.ContentType),
		ContentEncoding: aws.ToString(in.ContentEncoding),
		Metadata:        maps.Clone(in.Metadata),
		LastModified:    time.Now().UTC(),
	}
	return &s3.PutObjectOutput{ETag: aws.String(`"` + etag + `"`)}, nil
}

func (a *API) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	obj, ok := a.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(obj.Data)),
		ETag:          aws.String(`"` + obj.ETag + `"`),
		ContentLength: aws.Int64(int64(len(obj.Data))),
		LastModified:  aws.Time(obj.LastModified),
		Metadata:      maps.Clone(obj.Metadata),
	}, nil
}

func (a *API) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	obj, ok := a.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{
		ETag:          aws.String(`"` + obj.ETag + `"`),
		ContentLength: aws.Int64(int64(len(obj.Data))),
		LastModified:  aws.Time(obj.LastModified),
		Metadata:      maps.Clone(obj.Metadata),
	}, nil
}

func (a *API) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (a *API) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prefix := aws.ToString(in.Prefix)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, key := range slices.Sorted(maps.Keys(a.objects)) {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		obj := a.objects[key]
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(key),
			ETag:         aws.String(`"` + obj.ETag + `"`),
			Size:         aws.Int64(int64(len(obj.Data))),
			LastModified: aws.Time(obj.LastModified),
		})
	}
	out.KeyCount = aws.Int32(int32(len(out.Contents)))
	return out, nil
}
