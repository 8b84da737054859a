package media

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
)

// CloudinaryUploader pushes attachments straight to Cloudinary instead of
// the API's disk storage. Useful for deployments where the API host has no
// writable media directory.
type CloudinaryUploader struct {
	CLD    *cloudinary.Cloudinary
	Folder string
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret, folder string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, errors.Wrap(err, "initialize cloudinary")
	}
	return &CloudinaryUploader{CLD: cld, Folder: folder}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	resp, err := u.CLD.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   u.Folder,
		PublicID: filename,
	})
	if err != nil {
		return "", errors.Wrap(err, "cloudinary upload")
	}
	return resp.SecureURL, nil
}
