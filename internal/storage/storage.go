// Package storage uploads rendered chart artifacts to S3-compatible object
// storage and hands back publicly reachable URLs.
package storage

import (
	"context"
	"errors"
)

// ErrUploadFailed wraps any provider-side upload failure. A failed upload
// surfaces as a failed job, never as a process crash.
var ErrUploadFailed = errors.New("artifact upload failed")

// Uploader stores a byte blob under an object name and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
	Ping(ctx context.Context) error
}

// Disabled is used when object storage is turned off: artifacts are returned
// inline in the response and no URL is produced.
type Disabled struct{}

func (Disabled) Upload(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	return "", nil
}

func (Disabled) Ping(_ context.Context) error { return nil }

var _ Uploader = Disabled{}
