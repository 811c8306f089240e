package applications

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobtracker-backend/internal/shared/server/middleware"
	"jobtracker-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the application service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.create)
	rg.GET("/applications", h.list)
	rg.GET("/applications/:id", h.get)
	rg.PUT("/applications/:id", h.update)
	rg.DELETE("/applications/:id", h.remove)
}

type applicationRequest struct {
	CompanyName string     `json:"companyName"`
	JobTitle    string     `json:"jobTitle"`
	Status      string     `json:"status"`
	AppliedDate *time.Time `json:"appliedDate"`
	Notes       string     `json:"notes"`
}

// ApplicationResponse is the API shape of a tracked application.
type ApplicationResponse struct {
	ID          string     `json:"id"`
	CompanyName string     `json:"companyName"`
	JobTitle    string     `json:"jobTitle"`
	Status      string     `json:"status"`
	AppliedDate *time.Time `json:"appliedDate,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toApplicationResponse(a Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID,
		CompanyName: a.CompanyName,
		JobTitle:    a.JobTitle,
		Status:      a.Status,
		AppliedDate: a.AppliedDate,
		Notes:       a.Notes,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	application, err := h.Svc.Create(c.Request.Context(), userID, req.CompanyName, req.JobTitle, req.Status, req.Notes, req.AppliedDate)
	if err != nil {
		h.respondServiceError(c, err, "failed to create application")
		return
	}

	respond.JSON(c, http.StatusCreated, toApplicationResponse(application))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		h.respondServiceError(c, err, "failed to list applications")
		return
	}

	resp := make([]ApplicationResponse, 0, len(items))
	for _, application := range items {
		resp = append(resp, toApplicationResponse(application))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	applicationID := c.Param("id")
	if applicationID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "application id is required", nil)
		return
	}

	application, err := h.Svc.Get(c.Request.Context(), userID, applicationID)
	if err != nil {
		h.respondServiceError(c, err, "failed to fetch application")
		return
	}

	respond.JSON(c, http.StatusOK, toApplicationResponse(application))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	applicationID := c.Param("id")
	if applicationID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "application id is required", nil)
		return
	}

	var req applicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	application, err := h.Svc.Update(c.Request.Context(), userID, applicationID, req.CompanyName, req.JobTitle, req.Status, req.Notes, req.AppliedDate)
	if err != nil {
		h.respondServiceError(c, err, "failed to update application")
		return
	}

	respond.JSON(c, http.StatusOK, toApplicationResponse(application))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	applicationID := c.Param("id")
	if applicationID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "application id is required", nil)
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), userID, applicationID); err != nil {
		h.respondServiceError(c, err, "failed to delete application")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
