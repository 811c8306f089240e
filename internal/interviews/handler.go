package interviews

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jobtracker-backend/internal/applications"
	"jobtracker-backend/internal/shared/server/middleware"
	"jobtracker-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the interview service.
type Handler struct {
	Svc          *Service
	Applications applications.Repo
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, applicationRepo applications.Repo) *Handler {
	return &Handler{Svc: svc, Applications: applicationRepo}
}

// RegisterRoutes attaches interview routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interviews", h.create)
	rg.GET("/interviews/upcoming", h.upcoming)
	rg.GET("/interviews/:id", h.get)
	rg.PUT("/interviews/:id", h.update)
	rg.DELETE("/interviews/:id", h.remove)
	rg.GET("/applications/:id/interviews", h.listByApplication)
}

type interviewRequest struct {
	ApplicationID string    `json:"applicationId"`
	InterviewDate time.Time `json:"interviewDate"`
	InterviewType string    `json:"interviewType"`
	Stage         string    `json:"stage"`
	Interviewer   string    `json:"interviewer"`
	Outcome       string    `json:"outcome"`
	Notes         string    `json:"notes"`
}

// InterviewResponse is the API shape of a scheduled interview.
type InterviewResponse struct {
	ID                 string    `json:"id"`
	ApplicationID      string    `json:"applicationId"`
	ApplicationSummary string    `json:"applicationSummary,omitempty"`
	InterviewDate      time.Time `json:"interviewDate"`
	InterviewType      string    `json:"interviewType"`
	Stage              string    `json:"stage,omitempty"`
	Interviewer        string    `json:"interviewer,omitempty"`
	Outcome            string    `json:"outcome"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (h *Handler) toResponse(c *gin.Context, interview Interview) InterviewResponse {
	resp := InterviewResponse{
		ID:            interview.ID,
		ApplicationID: interview.ApplicationID,
		InterviewDate: interview.InterviewDate,
		InterviewType: interview.InterviewType,
		Stage:         interview.Stage,
		Interviewer:   interview.Interviewer,
		Outcome:       interview.Outcome,
		Notes:         interview.Notes,
		CreatedAt:     interview.CreatedAt,
		UpdatedAt:     interview.UpdatedAt,
	}
	if application, err := h.Applications.GetByID(c.Request.Context(), interview.UserID, interview.ApplicationID); err == nil {
		resp.ApplicationSummary = application.Summary()
	}
	return resp
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req interviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	interview, err := h.Svc.Create(c.Request.Context(), userID, ScheduleParams{
		ApplicationID: req.ApplicationID,
		InterviewDate: req.InterviewDate,
		InterviewType: req.InterviewType,
		Stage:         req.Stage,
		Interviewer:   req.Interviewer,
		Notes:         req.Notes,
	})
	if err != nil {
		h.respondServiceError(c, err, "failed to schedule interview")
		return
	}

	respond.JSON(c, http.StatusCreated, h.toResponse(c, interview))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	interviewID := c.Param("id")
	if interviewID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "interview id is required", nil)
		return
	}

	interview, err := h.Svc.Get(c.Request.Context(), userID, interviewID)
	if err != nil {
		h.respondServiceError(c, err, "failed to fetch interview")
		return
	}

	respond.JSON(c, http.StatusOK, h.toResponse(c, interview))
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	interviewID := c.Param("id")
	if interviewID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "interview id is required", nil)
		return
	}

	var req interviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid json body", nil)
		return
	}

	interview, err := h.Svc.Update(c.Request.Context(), userID, interviewID, ScheduleParams{
		InterviewDate: req.InterviewDate,
		InterviewType: req.InterviewType,
		Stage:         req.Stage,
		Interviewer:   req.Interviewer,
		Outcome:       req.Outcome,
		Notes:         req.Notes,
	})
	if err != nil {
		h.respondServiceError(c, err, "failed to update interview")
		return
	}

	respond.JSON(c, http.StatusOK, h.toResponse(c, interview))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	interviewID := c.Param("id")
	if interviewID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "interview id is required", nil)
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), userID, interviewID); err != nil {
		h.respondServiceError(c, err, "failed to delete interview")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) upcoming(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "days must be an integer", nil)
			return
		}
		days = parsed
	}

	items, err := h.Svc.ListUpcoming(c.Request.Context(), userID, days)
	if err != nil {
		h.respondServiceError(c, err, "failed to list upcoming interviews")
		return
	}

	resp := make([]InterviewResponse, 0, len(items))
	for _, interview := range items {
		resp = append(resp, h.toResponse(c, interview))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) listByApplication(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	applicationID := c.Param("id")
	if applicationID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "application id is required", nil)
		return
	}

	items, err := h.Svc.ListByApplication(c.Request.Context(), userID, applicationID)
	if err != nil {
		h.respondServiceError(c, err, "failed to list interviews")
		return
	}

	resp := make([]InterviewResponse, 0, len(items))
	for _, interview := range items {
		resp = append(resp, h.toResponse(c, interview))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrApplicationNotFound):
		respond.Error(c, http.StatusNotFound, "application_not_found", "application not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "interview not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
