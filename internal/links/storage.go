package links

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// StorageOptions configures a StorageClient.
type StorageOptions struct {
	URL        string // Project URL, e.g. https://xyz.supabase.co
	Key        string // Service key
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
}

// StatusError is a non-2xx answer from the storage or download host.
type StatusError struct {
	Op   string // "storage" or "download"
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s status %d", e.Op, e.Code)
	}
	return fmt.Sprintf("%s status %d: %s", e.Op, e.Code, body)
}

// IsBadRequest reports whether the host rejected the request itself,
// typically an object name it does not accept.
func (e *StatusError) IsBadRequest() bool {
	return e.Code == http.StatusBadRequest
}

// StorageClient talks to the Supabase Storage REST API.
type StorageClient struct {
	client  *resty.Client
	baseURL string
}

// NewStorageClient creates a client authenticating with opts.Key.
// Network errors, 429 and 5xx answers are retried; other answers are not.
func NewStorageClient(opts StorageOptions) *StorageClient {
	base := strings.TrimRight(opts.URL, "/")

	client := resty.New().
		SetBaseURL(base+"/storage/v1").
		SetTimeout(opts.Timeout).
		SetHeader("Authorization", "Bearer "+opts.Key).
		SetHeader("apikey", opts.Key).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(10 * opts.RetryWait)

	client.AddRetryCondition(retryCondition)

	return &StorageClient{client: client, baseURL: base}
}

// retryCondition retries transport failures, throttling and server errors.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code == http.StatusTooManyRequests || code >= 500
}

// Upload stores body under bucket/objectPath. With upsert an existing object
// is replaced instead of rejected.
func (c *StorageClient) Upload(ctx context.Context, bucket, objectPath string, body []byte, contentType string, upsert bool) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", strconv.FormatBool(upsert)).
		SetBody(body).
		Post("/object/" + escapePath(bucket, objectPath))
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, objectPath, err)
	}
	if resp.IsError() {
		return &StatusError{Op: "storage", Code: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}

// Remove deletes objects from bucket. Objects that do not exist are not
// an error.
func (c *StorageClient) Remove(ctx context.Context, bucket string, objectPaths ...string) error {
	for _, p := range objectPaths {
		resp, err := c.client.R().
			SetContext(ctx).
			Delete("/object/" + escapePath(bucket, p))
		if err != nil {
			return fmt.Errorf("remove %s/%s: %w", bucket, p, err)
		}
		if resp.StatusCode() == http.StatusNotFound {
			continue
		}
		if resp.IsError() {
			return &StatusError{Op: "storage", Code: resp.StatusCode(), Body: resp.String()}
		}
	}
	return nil
}

// PublicURL returns the public address of an object in a public bucket.
func (c *StorageClient) PublicURL(bucket, objectPath string) string {
	return c.baseURL + "/storage/v1/object/public/" + escapePath(bucket, objectPath)
}

// escapePath joins bucket and object path, escaping each segment.
func escapePath(bucket, objectPath string) string {
	segments := strings.Split(strings.Trim(objectPath, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return url.PathEscape(bucket) + "/" + strings.Join(segments, "/")
}
