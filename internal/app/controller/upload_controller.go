package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/shopmall-backend/internal/errors"
	"github.com/ikkim/shopmall-backend/internal/middleware"
	"github.com/ikkim/shopmall-backend/internal/storage"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s3 *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: s3,
	}
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"`
}

// Presign returns a pre-signed PUT URL for browser-side image uploads
// (product photos, channel QR codes).
// POST /api/v1/admin/uploads/presign
func (ctrl *UploadController) Presign(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Filename and content type are required")
		return
	}

	if err := storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG and WebP images are allowed")
		return
	}

	folder := req.Folder
	switch folder {
	case "products", "channels":
	default:
		folder = "uploads"
	}

	resp, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare upload")
		return
	}

	c.JSON(http.StatusOK, resp)
}
