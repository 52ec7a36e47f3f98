package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectStoreClient uploads one object to remote storage. The key is
// unique per batch; implementations must not overwrite existing keys.
type ObjectStoreClient interface {
	Put(ctx context.Context, key string, body []byte) error
}

// HTTPObjectStore uploads objects with HTTP PUT to
// <endpoint>/<bucket>/<key>, authenticating with a bearer token.
type HTTPObjectStore struct {
	endpoint    string
	bucket      string
	token       string
	instanceID  string
	contentType string
	client      *http.Client
}

// HTTPObjectStoreConfig holds configuration for the HTTP client
type HTTPObjectStoreConfig struct {
	// Endpoint is the object store base URL
	Endpoint string
	// Bucket is the target bucket name
	Bucket string
	// Token is the bearer credential (may be empty for open endpoints)
	Token string
	// ContentType of uploaded objects (default: application/octet-stream)
	ContentType string
	// Client overrides the HTTP client (per-attempt timeouts come from
	// the request context, so no client timeout is set by default)
	Client *http.Client
}

// NewHTTPObjectStore creates a new HTTP object store client
func NewHTTPObjectStore(cfg HTTPObjectStoreConfig) (*HTTPObjectStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if cfg.ContentType == "" {
		cfg.ContentType = "application/octet-stream"
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}

	return &HTTPObjectStore{
		endpoint:    strings.TrimRight(cfg.Endpoint, "/"),
		bucket:      cfg.Bucket,
		token:       cfg.Token,
		instanceID:  uuid.New().String(),
		contentType: cfg.ContentType,
		client:      cfg.Client,
	}, nil
}

// Put uploads one object
func (c *HTTPObjectStore) Put(ctx context.Context, key string, body []byte) error {
	url := c.endpoint + "/" + c.bucket + "/" + key

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return &SinkError{Sink: "remote", Op: "put", Kind: Permanent, Err: err}
	}
	req.Header.Set("Content-Type", c.contentType)
	req.Header.Set("X-Instance-ID", c.instanceID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &SinkError{Sink: "remote", Op: "put", Kind: Transient, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	kind := Transient
	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		kind = Permanent
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return &SinkError{
		Sink: "remote",
		Op:   "put",
		Kind: kind,
		Err:  fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
	}
}

// sleepCtx waits d or until ctx is done, whichever comes first
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
