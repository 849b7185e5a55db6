package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"movie-catalog/internal/config"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// recordingTransport answers S3 calls in-process and remembers what it saw.
type recordingTransport struct {
	mu       sync.Mutex
	requests []string
	status   int
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.mu.Lock()
	rt.requests = append(rt.requests, req.Method+" "+req.URL.Path)
	rt.mu.Unlock()

	status := rt.status
	if status == 0 {
		status = http.StatusNoContent
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     http.Header{},
		Request:    req,
	}, nil
}

func newMockS3Service(t *testing.T, rt *recordingTransport) *S3Service {
	t.Helper()
	cfg := &config.PosterStorageConfig{
		Driver:          config.PosterStorageS3,
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		BucketName:      "movie-posters",
		Region:          "us-east-1",
		PathStyle:       true,
		UploadExpiry:    15 * time.Minute,
	}
	svc, err := NewS3Service(context.Background(), cfg, quietLogger(), func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
	})
	if err != nil {
		t.Fatalf("NewS3Service: %v", err)
	}
	return svc
}

func TestS3PresignUpload(t *testing.T) {
	svc := newMockS3Service(t, &recordingTransport{})

	upload, err := svc.PresignUpload(context.Background(), "dune-part-two.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("PresignUpload: %v", err)
	}
	if !strings.HasPrefix(upload.ObjectKey, "posters/dune-part-two_") || !strings.HasSuffix(upload.ObjectKey, ".jpg") {
		t.Fatalf("unexpected object key %q", upload.ObjectKey)
	}

	signed, err := url.Parse(upload.UploadURL)
	if err != nil {
		t.Fatalf("parse presigned url: %v", err)
	}
	if signed.Host != "mock.s3.local" || !strings.HasPrefix(signed.Path, "/movie-posters/posters/") {
		t.Fatalf("presigned url not path-style against the endpoint: %s", upload.UploadURL)
	}
	if signed.Query().Get("X-Amz-Expires") != "900" {
		t.Fatalf("expected 15 minute expiry, got %q", signed.Query().Get("X-Amz-Expires"))
	}

	key, ok := svc.ObjectKey(upload.PublicURL)
	if !ok || key != upload.ObjectKey {
		t.Fatalf("public url %q does not resolve to %q", upload.PublicURL, upload.ObjectKey)
	}
}

func TestS3Delete(t *testing.T) {
	rt := &recordingTransport{}
	svc := newMockS3Service(t, rt)

	if err := svc.Delete(context.Background(), "posters/old.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(rt.requests) != 1 || rt.requests[0] != "DELETE /movie-posters/posters/old.jpg" {
		t.Fatalf("unexpected requests %v", rt.requests)
	}
}

func TestS3DeleteReportsFailure(t *testing.T) {
	svc := newMockS3Service(t, &recordingTransport{status: http.StatusForbidden})

	if err := svc.Delete(context.Background(), "posters/old.jpg"); err == nil {
		t.Fatalf("expected error on forbidden delete")
	}
}

func TestNewS3ServiceRequiresBucket(t *testing.T) {
	_, err := NewS3Service(context.Background(), &config.PosterStorageConfig{Driver: config.PosterStorageS3}, quietLogger())
	if err == nil {
		t.Fatalf("expected error without bucket")
	}
}
