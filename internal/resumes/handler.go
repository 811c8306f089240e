package resumes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobtracker-backend/internal/applications"
	"jobtracker-backend/internal/shared/server/middleware"
	"jobtracker-backend/internal/shared/server/respond"
	"jobtracker-backend/internal/shared/storage/object"
	"jobtracker-backend/internal/templates"
	"jobtracker-backend/resume/encode"
	"jobtracker-backend/resume/model"
)

// Handler wires HTTP handlers to the resume service.
type Handler struct {
	Svc          *Service
	Templates    templates.Repo
	Applications applications.Repo
	Store        object.ObjectStore
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, templateRepo templates.Repo, applicationRepo applications.Repo, store object.ObjectStore) *Handler {
	return &Handler{
		Svc:          svc,
		Templates:    templateRepo,
		Applications: applicationRepo,
		Store:        store,
	}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.generate)
	rg.POST("/resumes/preview", h.preview)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
	rg.PATCH("/resumes/:id", h.rename)
	rg.DELETE("/resumes/:id", h.remove)
	rg.GET("/resumes/:id/download", h.download)
}

type generateRequest struct {
	TemplateID    string          `json:"templateId"`
	ApplicationID string          `json:"applicationId"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Format        string          `json:"format"`
	Data          json.RawMessage `json:"data"`
}

type renameRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ResumeResponse is the API shape of a generated resume record.
type ResumeResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	TemplateID         string    `json:"templateId"`
	TemplateName       string    `json:"templateName,omitempty"`
	ApplicationID      string    `json:"applicationId,omitempty"`
	ApplicationSummary string    `json:"applicationSummary,omitempty"`
	FileURL            string    `json:"fileUrl,omitempty"`
	FileFormat         string    `json:"fileFormat"`
	Version            int       `json:"version"`
	GeneratedAt        time.Time `json:"generatedAt"`
	CreatedAt          time.Time `json:"createdAt"`
}

func (h *Handler) toResponse(c *gin.Context, record ResumeRecord) ResumeResponse {
	resp := ResumeResponse{
		ID:            record.ID,
		Name:          record.Name,
		Description:   record.Description,
		TemplateID:    record.TemplateID,
		ApplicationID: record.ApplicationID,
		FileURL:       "/api/v1/resumes/" + record.ID + "/download",
		FileFormat:    record.FileFormat,
		Version:       record.Version,
		GeneratedAt:   record.GeneratedAt,
		CreatedAt:     record.CreatedAt,
	}
	ctx := c.Request.Context()
	if template, err := h.Templates.GetByID(ctx, record.UserID, record.TemplateID); err == nil {
		resp.TemplateName = template.Name
	}
	if record.ApplicationID != "" {
		if application, err := h.Applications.GetByID(ctx, record.UserID, record.ApplicationID); err == nil {
			resp.ApplicationSummary = application.Summary()
		}
	}
	return resp
}

func (h *Handler) generate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	override, err := decodeOverride(req.Data)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	record, err := h.Svc.Generate(c.Request.Context(), userID, GenerateParams{
		TemplateID:    req.TemplateID,
		ApplicationID: req.ApplicationID,
		Name:          req.Name,
		Description:   req.Description,
		Format:        req.Format,
		Override:      override,
	})
	if err != nil {
		h.respondServiceError(c, err, "failed to generate resume")
		return
	}

	respond.JSON(c, http.StatusCreated, h.toResponse(c, record))
}

func (h *Handler) preview(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	override, err := decodeOverride(req.Data)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	preview, err := h.Svc.Preview(c.Request.Context(), userID, GenerateParams{
		TemplateID: req.TemplateID,
		Override:   override,
	})
	if err != nil {
		h.respondServiceError(c, err, "failed to preview resume")
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"html":         preview.HTML,
		"templateName": preview.TemplateName,
	})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	applicationID := c.Query("applicationId")
	templateID := c.Query("templateId")

	records, err := h.Svc.List(c.Request.Context(), userID, applicationID, templateID)
	if err != nil {
		h.respondServiceError(c, err, "failed to list resumes")
		return
	}

	resp := make([]ResumeResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, h.toResponse(c, record))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	if resumeID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume id is required", nil)
		return
	}

	record, err := h.Svc.Get(c.Request.Context(), userID, resumeID)
	if err != nil {
		h.respondServiceError(c, err, "failed to fetch resume")
		return
	}

	respond.JSON(c, http.StatusOK, h.toResponse(c, record))
}

func (h *Handler) rename(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	if resumeID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume id is required", nil)
		return
	}

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	record, err := h.Svc.Rename(c.Request.Context(), userID, resumeID, req.Name, req.Description)
	if err != nil {
		h.respondServiceError(c, err, "failed to rename resume")
		return
	}

	respond.JSON(c, http.StatusOK, h.toResponse(c, record))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	if resumeID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume id is required", nil)
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), userID, resumeID); err != nil {
		h.respondServiceError(c, err, "failed to delete resume")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")
	if resumeID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume id is required", nil)
		return
	}

	record, err := h.Svc.Get(c.Request.Context(), userID, resumeID)
	if err != nil {
		h.respondServiceError(c, err, "failed to fetch resume")
		return
	}

	reader, err := h.Store.Open(c.Request.Context(), record.StorageKey)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load resume artifact", nil)
		return
	}
	defer reader.Close()

	contentType, ok := encode.ContentTypeFor(record.FileFormat)
	if !ok {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadFileName(record)))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func downloadFileName(record ResumeRecord) string {
	ext, _ := encode.ExtensionFor(record.FileFormat)
	return fmt.Sprintf("%s_v%d%s", record.Name, record.Version, ext)
}

func (h *Handler) respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrTemplateNotFound):
		respond.Error(c, http.StatusNotFound, "template_not_found", "template not found", nil)
	case errors.Is(err, ErrApplicationNotFound):
		respond.Error(c, http.StatusNotFound, "application_not_found", "application not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case errors.Is(err, ErrVersionConflict):
		respond.Error(c, http.StatusConflict, "version_conflict", "concurrent generation, retry", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

// decodeOverride schema-checks an optional override payload before decoding.
func decodeOverride(raw json.RawMessage) (*model.TemplateData, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if err := templates.ValidateDataJSON(raw); err != nil {
		return nil, err
	}
	var data model.TemplateData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.New("invalid resume data")
	}
	return &data, nil
}
