package archive

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestPutUsesPrefixAndNormalizedKey(t *testing.T) {
	fake := &fakeClient{}
	store, err := NewStoreWithClient("sqlagent", "query-history", fake)
	if err != nil {
		t.Fatalf("NewStoreWithClient() error = %v", err)
	}

	_, err = store.Put(context.Background(), "/date=2026-02-19/part-1.parquet", bytes.NewBufferString("abc"), 3, PutOptions{ContentType: "application/octet-stream"})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if fake.lastPutBucket != "sqlagent" {
		t.Fatalf("bucket = %q", fake.lastPutBucket)
	}
	if fake.lastPutKey != "query-history/date=2026-02-19/part-1.parquet" {
		t.Fatalf("key = %q", fake.lastPutKey)
	}
	if fake.lastContentType != "application/octet-stream" {
		t.Fatalf("content type = %q", fake.lastContentType)
	}
}

func TestPutRejectsPathTraversal(t *testing.T) {
	fake := &fakeClient{}
	store, err := NewStoreWithClient("sqlagent", "", fake)
	if err != nil {
		t.Fatalf("NewStoreWithClient() error = %v", err)
	}
	_, err = store.Put(context.Background(), "../secrets.txt", bytes.NewBufferString("x"), 1, PutOptions{})
	if err == nil {
		t.Fatal("expected path traversal validation error")
	}
}

func TestEnsureBucketCreatesWhenMissing(t *testing.T) {
	fake := &fakeClient{bucketExists: false}
	store, err := NewStoreWithClient("sqlagent", "", fake)
	if err != nil {
		t.Fatalf("NewStoreWithClient() error = %v", err)
	}

	if err := store.ensureBucket(context.Background(), "us-east-1"); err != nil {
		t.Fatalf("ensureBucket() error = %v", err)
	}
	if !fake.createBucketCalled {
		t.Fatal("expected CreateBucket to be called")
	}
}

func TestEnsureBucketSkipsWhenPresent(t *testing.T) {
	fake := &fakeClient{bucketExists: true}
	store, err := NewStoreWithClient("sqlagent", "", fake)
	if err != nil {
		t.Fatalf("NewStoreWithClient() error = %v", err)
	}

	if err := store.ensureBucket(context.Background(), "us-east-1"); err != nil {
		t.Fatalf("ensureBucket() error = %v", err)
	}
	if fake.createBucketCalled {
		t.Fatal("CreateBucket must not be called for an existing bucket")
	}
}

func TestHealthCheckReportsMissingBucket(t *testing.T) {
	store, err := NewStoreWithClient("sqlagent", "", &fakeClient{bucketExists: true})
	if err != nil {
		t.Fatalf("NewStoreWithClient() error = %v", err)
	}
	if err := store.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}

	store, err = NewStoreWithClient("sqlagent", "", &fakeClient{bucketExists: false})
	if err != nil {
		t.Fatalf("NewStoreWithClient() error = %v", err)
	}
	err = store.HealthCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("HealthCheck() error = %v, want missing bucket error", err)
	}
}

func TestParseEndpoint(t *testing.T) {
	endpoint, secure, err := parseEndpoint("https://minio.example.com", false)
	if err != nil {
		t.Fatalf("parseEndpoint() error = %v", err)
	}
	if endpoint != "minio.example.com" || !secure {
		t.Fatalf("endpoint/secure = %q/%v", endpoint, secure)
	}

	endpoint, secure, err = parseEndpoint("localhost:9000", false)
	if err != nil {
		t.Fatalf("parseEndpoint() error = %v", err)
	}
	if endpoint != "localhost:9000" || secure {
		t.Fatalf("endpoint/secure = %q/%v", endpoint, secure)
	}
}

type fakeClient struct {
	lastPutBucket      string
	lastPutKey         string
	lastContentType    string
	bucketExists       bool
	createBucketCalled bool
}

func (f *fakeClient) Put(_ context.Context, bucket, key string, reader io.Reader, size int64, contentType string) (ObjectInfo, error) {
	f.lastPutBucket = bucket
	f.lastPutKey = key
	f.lastContentType = contentType
	_, _ = io.Copy(io.Discard, reader)
	return ObjectInfo{Key: key, Size: size, ETag: "etag-1"}, nil
}

func (f *fakeClient) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, nil
}

func (f *fakeClient) CreateBucket(_ context.Context, _, _ string) error {
	f.createBucketCalled = true
	return nil
}
