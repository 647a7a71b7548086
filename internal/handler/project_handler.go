package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pulseofproject/internal/service/project"
	"pulseofproject/internal/tracker"
)

type ProjectHandler struct {
	store  *tracker.Store
	svc    *project.Service
	logger *zap.Logger
}

func NewProjectHandler(store *tracker.Store, svc *project.Service, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{store: store, svc: svc, logger: logger}
}

// GetProject returns the full dashboard snapshot. The load goes through the
// tracker store so a backend failure falls back to the retained local copy.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID := c.Param("id")
	h.logger.Info("GetProject request received",
		zap.String("project_id", projectID),
		zap.String("client_ip", c.ClientIP()),
	)

	snapshot, err := h.store.LoadProject(c.Request.Context(), projectID)
	if err != nil {
		h.logger.Error("GetProject: failed to load project",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// GetProgress returns the derived overall progress for a project.
func (h *ProjectHandler) GetProgress(c *gin.Context) {
	projectID := c.Param("id")

	if h.store.GetProject(projectID) == nil {
		if _, err := h.store.LoadProject(c.Request.Context(), projectID); err != nil {
			h.logger.Warn("GetProgress: project not found",
				zap.String("project_id", projectID),
				zap.Error(err),
			)
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id": projectID,
		"progress":   h.store.ProjectProgress(projectID),
	})
}

type createProjectRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	ClientName  string    `json:"client_name"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("CreateProject: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.svc.CreateProject(c.Request.Context(), project.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		ClientName:  req.ClientName,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		h.logger.Error("CreateProject: failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	h.logger.Info("CreateProject: success", zap.String("project_id", p.ID))
	c.JSON(http.StatusCreated, p)
}

type createMilestoneRequest struct {
	Name         string    `json:"name" binding:"required"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Progress     int       `json:"progress"`
	Deliverables []string  `json:"deliverables"`
	AssignedTo   []string  `json:"assigned_to"`
	Dependencies []string  `json:"dependencies"`
	Order        int       `json:"order"`
}

func (h *ProjectHandler) CreateMilestone(c *gin.Context) {
	projectID := c.Param("id")

	var req createMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("CreateMilestone: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	m, err := h.svc.CreateMilestone(c.Request.Context(), project.CreateMilestoneInput{
		ProjectID:    projectID,
		Name:         req.Name,
		Description:  req.Description,
		Status:       req.Status,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Progress:     req.Progress,
		Deliverables: req.Deliverables,
		AssignedTo:   req.AssignedTo,
		Dependencies: req.Dependencies,
		Order:        req.Order,
	})
	if err != nil {
		h.logger.Error("CreateMilestone: failed",
			zap.String("project_id", projectID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create milestone"})
		return
	}

	h.logger.Info("CreateMilestone: success",
		zap.String("project_id", projectID),
		zap.String("milestone_id", m.ID),
	)
	c.JSON(http.StatusCreated, m)
}
