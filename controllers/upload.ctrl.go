package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/bdsvietnam/bdshub.go/lib/responses"
	"github.com/bdsvietnam/bdshub.go/lib/service"
	"github.com/labstack/echo/v4"
)

// UploadController turns uploaded images into data URLs that can be stored
// inline on listings.
type UploadController struct{}

func NewUploadController() *UploadController {
	return &UploadController{}
}

type UploadResponse struct {
	Success   bool                    `json:"success"`
	Images    []service.UploadedImage `json:"images"`
	TotalSize int64                   `json:"total_size"`
}

// Image godoc
// @Summary      Upload one image
// @Accept       mpfd
// @Produce      json
// @Tags         Upload
// @Param        file  formData  file  true  "Image"
// @Success      200   {object}  UploadResponse
// @Failure      400   {object}  responses.ErrorResponse
// @Router       /upload/image [post]
// @Security     OAuth2Password
func (controller *UploadController) Image(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError.WithMessage("file is required"))
	}
	return controller.encode(c, []*multipart.FileHeader{fh})
}

func (controller *UploadController) MultipleImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError.WithMessage("multipart form required"))
	}
	return controller.encode(c, form.File["files"])
}

func (controller *UploadController) encode(c echo.Context, files []*multipart.FileHeader) error {
	images, total, err := service.EncodeUploads(files)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, &UploadResponse{Success: true, Images: images, TotalSize: total})
}
