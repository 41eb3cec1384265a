package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/spec-kit/recipe-service/internal/service"
)

// maxUploadBytes bounds a single file read. Per-kind limits are enforced by
// the services; this only keeps a hostile part from being buffered whole.
const maxUploadBytes = 8 << 20

func readUpload(fh *multipart.FileHeader) (service.ImageInput, error) {
	f, err := fh.Open()
	if err != nil {
		return service.ImageInput{}, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return service.ImageInput{}, fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}
	return service.ImageInput{Filename: fh.Filename, Content: content}, nil
}

func readUploads(files []*multipart.FileHeader) ([]service.ImageInput, error) {
	out := make([]service.ImageInput, 0, len(files))
	for _, fh := range files {
		img, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}
