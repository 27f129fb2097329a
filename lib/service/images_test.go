package service

import (
	"encoding/base64"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/bdsvietnam/bdshub.go/common"
	"github.com/stretchr/testify/assert"
)

func dataURL(size int) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(make([]byte, size))
}

func TestDecodedLen(t *testing.T) {
	assert.Equal(t, 3, decodedLen(dataURL(3)))
	assert.Equal(t, 4, decodedLen(dataURL(4)))
	assert.Equal(t, 5, decodedLen(dataURL(5)))
	assert.Equal(t, 0, decodedLen("data:image/png;base64"))
}

func TestCheckInlineImages(t *testing.T) {
	assert.NoError(t, CheckInlineImages(nil))
	assert.NoError(t, CheckInlineImages([]string{"https://cdn.example.com/a.jpg", dataURL(1024)}))

	err := CheckInlineImages([]string{dataURL(common.MaxImageSize + 1)})
	assert.ErrorIs(t, err, ErrImageTooLarge)

	err = CheckInlineImages([]string{"data:text/plain;base64,aGVsbG8="})
	assert.ErrorIs(t, err, ErrInvalidImage)

	tooMany := make([]string, common.MaxImagesPerBatch+1)
	for i := range tooMany {
		tooMany[i] = "https://cdn.example.com/a.jpg"
	}
	assert.ErrorIs(t, CheckInlineImages(tooMany), ErrImageTooLarge)

	big := dataURL(common.MaxImageSize - 1)
	err = CheckInlineImages([]string{big, big, big, big, big, big})
	assert.ErrorIs(t, err, ErrImageTooLarge)
	assert.True(t, strings.Contains(err.Error(), "total image size"))
}

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestEncodeUploadsRejectsBeforeReading(t *testing.T) {
	_, _, err := EncodeUploads(nil)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, _, err = EncodeUploads([]*multipart.FileHeader{fileHeader("a.pdf", "application/pdf", 10)})
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, _, err = EncodeUploads([]*multipart.FileHeader{fileHeader("a.png", "image/png", common.MaxImageSize+1)})
	assert.ErrorIs(t, err, ErrImageTooLarge)

	files := []*multipart.FileHeader{}
	for i := 0; i < 6; i++ {
		files = append(files, fileHeader("a.png", "image/png", common.MaxImageSize))
	}
	_, _, err = EncodeUploads(files)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}
