package storage

import "context"

// MockUploader satisfies Uploader for testing.
type MockUploader struct {
	UploadFunc func(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
	PingFunc   func(ctx context.Context) error
}

func (m *MockUploader) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, objectName, data, contentType)
	}
	return "https://storage.test/charts/" + objectName, nil
}

func (m *MockUploader) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

var _ Uploader = (*MockUploader)(nil)
