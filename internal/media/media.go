package media

import (
	"context"
	"io"

	"github.com/mapsocial/mapsocial-go/internal/api"
)

// Uploader resolves a binary attachment to a reference URL. The only
// outcomes are success-with-url or failure; callers must wait for the URL
// before any dependent create call.
type Uploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (string, error)
}

// APIUploader stores attachments through the service's own /upload/image
// endpoint.
type APIUploader struct {
	client *api.Client
}

func NewAPIUploader(client *api.Client) *APIUploader {
	return &APIUploader{client: client}
}

func (u *APIUploader) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	return u.client.UploadImage(ctx, filename, file)
}
