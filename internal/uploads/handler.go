package uploads

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobtracker-backend/internal/shared/server/middleware"
	"jobtracker-backend/internal/shared/server/respond"
	"jobtracker-backend/internal/shared/storage/object"
)

// Handler wires HTTP handlers to the upload service.
type Handler struct {
	Svc   *Service
	Store object.ObjectStore
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, store object.ObjectStore) *Handler {
	return &Handler{Svc: svc, Store: store}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads", h.upload)
	rg.GET("/uploads", h.list)
	rg.GET("/uploads/:id", h.get)
	rg.GET("/uploads/:id/download", h.download)
	rg.DELETE("/uploads/:id", h.remove)
}

// UploadResponse is the API shape of a stored upload.
type UploadResponse struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId,omitempty"`
	FileName      string    `json:"fileName"`
	MimeType      string    `json:"mimeType"`
	SizeBytes     int64     `json:"sizeBytes"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toUploadResponse(u Upload) UploadResponse {
	return UploadResponse{
		ID:            u.ID,
		ApplicationID: u.ApplicationID,
		FileName:      u.FileName,
		MimeType:      u.MimeType,
		SizeBytes:     u.SizeBytes,
		CreatedAt:     u.CreatedAt,
	}
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file field is required", nil)
		return
	}
	defer file.Close()

	applicationID := c.PostForm("applicationId")

	upload, err := h.Svc.Upload(c.Request.Context(), userID, applicationID, header.Filename, file)
	if err != nil {
		h.respondServiceError(c, err, "failed to store upload")
		return
	}

	respond.JSON(c, http.StatusCreated, toUploadResponse(upload))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	applicationID := c.Query("applicationId")

	items, err := h.Svc.List(c.Request.Context(), userID, applicationID)
	if err != nil {
		h.respondServiceError(c, err, "failed to list uploads")
		return
	}

	resp := make([]UploadResponse, 0, len(items))
	for _, upload := range items {
		resp = append(resp, toUploadResponse(upload))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	uploadID := c.Param("id")
	if uploadID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "upload id is required", nil)
		return
	}

	upload, err := h.Svc.Get(c.Request.Context(), userID, uploadID)
	if err != nil {
		h.respondServiceError(c, err, "failed to fetch upload")
		return
	}

	respond.JSON(c, http.StatusOK, toUploadResponse(upload))
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	uploadID := c.Param("id")
	if uploadID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "upload id is required", nil)
		return
	}

	upload, err := h.Svc.Get(c.Request.Context(), userID, uploadID)
	if err != nil {
		h.respondServiceError(c, err, "failed to fetch upload")
		return
	}

	reader, err := h.Store.Open(c.Request.Context(), upload.StorageKey)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load upload", nil)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", upload.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", upload.FileName))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	uploadID := c.Param("id")
	if uploadID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "upload id is required", nil)
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), userID, uploadID); err != nil {
		h.respondServiceError(c, err, "failed to delete upload")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrUnsupportedFile):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_file", "file must be a PDF or DOCX document", nil)
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "upload not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
