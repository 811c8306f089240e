package templates

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobtracker-backend/internal/shared/server/middleware"
	"jobtracker-backend/internal/shared/server/respond"
	"jobtracker-backend/resume/model"
)

// Handler wires HTTP handlers to the template service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches template routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/templates", h.create)
	rg.GET("/templates", h.list)
	rg.GET("/templates/:id", h.get)
	rg.PUT("/templates/:id", h.update)
	rg.POST("/templates/:id/clone", h.clone)
	rg.DELETE("/templates/:id", h.remove)
}

type templateRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
}

type cloneRequest struct {
	Name string `json:"name"`
}

// TemplateResponse is the API shape of a stored template.
type TemplateResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Data        model.TemplateData `json:"data"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func toTemplateResponse(t Template) TemplateResponse {
	return TemplateResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Data:        t.Data,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	data, err := decodeTemplateData(req.Data)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	template, err := h.Svc.Create(c.Request.Context(), userID, req.Name, req.Description, data)
	if err != nil {
		h.respondServiceError(c, err, "failed to create template")
		return
	}

	respond.JSON(c, http.StatusCreated, toTemplateResponse(template))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		h.respondServiceError(c, err, "failed to list templates")
		return
	}

	resp := make([]TemplateResponse, 0, len(items))
	for _, template := range items {
		resp = append(resp, toTemplateResponse(template))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	templateID := c.Param("id")
	if templateID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "template id is required", nil)
		return
	}

	template, err := h.Svc.Get(c.Request.Context(), userID, templateID)
	if err != nil {
		h.respondServiceError(c, err, "failed to fetch template")
		return
	}

	respond.JSON(c, http.StatusOK, toTemplateResponse(template))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	templateID := c.Param("id")
	if templateID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "template id is required", nil)
		return
	}

	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	data, err := decodeTemplateData(req.Data)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	template, err := h.Svc.Update(c.Request.Context(), userID, templateID, req.Name, req.Description, data)
	if err != nil {
		h.respondServiceError(c, err, "failed to update template")
		return
	}

	respond.JSON(c, http.StatusOK, toTemplateResponse(template))
}

func (h *Handler) clone(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	templateID := c.Param("id")
	if templateID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "template id is required", nil)
		return
	}

	var req cloneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	template, err := h.Svc.Clone(c.Request.Context(), userID, templateID, req.Name)
	if err != nil {
		h.respondServiceError(c, err, "failed to clone template")
		return
	}

	respond.JSON(c, http.StatusCreated, toTemplateResponse(template))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	templateID := c.Param("id")
	if templateID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "template id is required", nil)
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), userID, templateID); err != nil {
		h.respondServiceError(c, err, "failed to delete template")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "template not found", nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "name_conflict", "template name already in use", nil)
	case errors.Is(err, ErrTemplateInUse):
		respond.Error(c, http.StatusConflict, "template_in_use", "template is referenced by generated resumes", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

// decodeTemplateData schema-checks and decodes the raw data payload.
func decodeTemplateData(raw json.RawMessage) (model.TemplateData, error) {
	if len(raw) == 0 {
		return model.TemplateData{}, errors.New("template data is required")
	}
	if err := ValidateDataJSON(raw); err != nil {
		return model.TemplateData{}, err
	}
	var data model.TemplateData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.TemplateData{}, errors.New("invalid template data")
	}
	return data, nil
}
