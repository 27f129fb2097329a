package service

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/bdsvietnam/bdshub.go/common"
)

// UploadedImage is a stored image returned to the client as a data URL.
type UploadedImage struct {
	Filename string `json:"filename"`
	ImageURL string `json:"image_url"`
	Size     int64  `json:"size"`
}

// decodedLen is the size of the payload of a base64 data URL without decoding it.
func decodedLen(image string) int {
	payload := image
	if strings.HasPrefix(image, "data:") {
		idx := strings.Index(image, ",")
		if idx < 0 {
			return 0
		}
		payload = image[idx+1:]
	}
	return base64.StdEncoding.DecodedLen(len(payload)) - strings.Count(payload[max(0, len(payload)-2):], "=")
}

// CheckInlineImages enforces the per image and per request caps on base64
// images embedded in JSON bodies. Plain URLs are accepted as they are.
func CheckInlineImages(images []string) error {
	if len(images) > common.MaxImagesPerBatch {
		return fmt.Errorf("maximum %d images allowed: %w", common.MaxImagesPerBatch, ErrImageTooLarge)
	}
	total := 0
	for i, image := range images {
		if !strings.HasPrefix(image, "data:") {
			continue
		}
		if !strings.HasPrefix(image, "data:image/") || !strings.Contains(image, ";base64,") {
			return fmt.Errorf("image %d is not a base64 image: %w", i, ErrInvalidImage)
		}
		size := decodedLen(image)
		if size > common.MaxImageSize {
			return fmt.Errorf("image %d is too large (max 5MB): %w", i, ErrImageTooLarge)
		}
		total += size
		if total > common.MaxImagesTotal {
			return fmt.Errorf("total image size too large (max 25MB): %w", ErrImageTooLarge)
		}
	}
	return nil
}

// EncodeUploads turns multipart image files into data URLs. Sizes are checked
// from the multipart headers before any file is read.
func EncodeUploads(files []*multipart.FileHeader) ([]UploadedImage, int64, error) {
	if len(files) == 0 {
		return nil, 0, fmt.Errorf("no files: %w", ErrInvalidImage)
	}
	if len(files) > common.MaxImagesPerBatch {
		return nil, 0, fmt.Errorf("maximum %d images allowed: %w", common.MaxImagesPerBatch, ErrImageTooLarge)
	}
	var total int64
	for _, fh := range files {
		contentType := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return nil, 0, fmt.Errorf("file %s must be an image: %w", fh.Filename, ErrInvalidImage)
		}
		if fh.Size > common.MaxImageSize {
			return nil, 0, fmt.Errorf("file %s is too large (max 5MB): %w", fh.Filename, ErrImageTooLarge)
		}
		total += fh.Size
	}
	if total > common.MaxImagesTotal {
		return nil, 0, fmt.Errorf("total file size too large (max 25MB): %w", ErrImageTooLarge)
	}

	result := make([]UploadedImage, 0, len(files))
	for _, fh := range files {
		img, err := encodeUpload(fh)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *img)
	}
	return result, total, nil
}

func encodeUpload(fh *multipart.FileHeader) (*UploadedImage, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, common.MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(content) > common.MaxImageSize {
		return nil, fmt.Errorf("file %s is too large (max 5MB): %w", fh.Filename, ErrImageTooLarge)
	}
	return &UploadedImage{
		Filename: fh.Filename,
		ImageURL: fmt.Sprintf("data:%s;base64,%s", fh.Header.Get("Content-Type"), base64.StdEncoding.EncodeToString(content)),
		Size:     int64(len(content)),
	}, nil
}
