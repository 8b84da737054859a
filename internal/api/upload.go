package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
)

// UploadImage transmits an image as a multipart body to /upload/image and
// returns the stored file's URL. Requires a signed-in identity.
func (c *Client) UploadImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	if err := c.requireAuth(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", errors.Wrap(err, "create form file")
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", errors.Wrap(err, "copy file contents")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "finalize multipart body")
	}

	reqURL, err := c.buildURL("/upload/image", nil)
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, reqURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(req, &out); err != nil {
		return "", errors.Wrap(err, "upload image")
	}
	return out.URL, nil
}
