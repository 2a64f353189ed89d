package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hackhub-dev/hackhub/internal/apierr"
	"github.com/hackhub-dev/hackhub/internal/metrics"
	"github.com/hackhub-dev/hackhub/internal/models"
	"github.com/hackhub-dev/hackhub/internal/services"
	"github.com/hackhub-dev/hackhub/internal/utils"
)

type SubmitProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	GithubURL   string `json:"github_url"`
	DemoURL     string `json:"demo_url"`
	Final       bool   `json:"final"`
}

type ProjectHandler struct {
	logger      *zap.SugaredLogger
	submissions *services.SubmissionService
}

func NewProjectHandler(logger *zap.SugaredLogger, submissions *services.SubmissionService) *ProjectHandler {
	return &ProjectHandler{
		logger:      logger,
		submissions: submissions,
	}
}

// Submit saves the team's project. final=false keeps (or reverts) it as a
// draft; final=true submits it and refreshes the submission timestamp.
func (h *ProjectHandler) Submit(ctx *gin.Context) {
	teamID, err := utils.GetTeamID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	var req SubmitProjectRequest

	if err := ctx.BindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind project submit", "err", err)
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	fields := services.ProjectFields{
		Title:       req.Title,
		Description: req.Description,
		GithubURL:   req.GithubURL,
		DemoURL:     req.DemoURL,
	}

	start := time.Now()
	project, err := h.submissions.Submit(teamID, userID, fields, req.Final)
	metrics.ObserveWorkflowOp("submit_project", start, err)

	if err != nil {
		if apierr.Handle(ctx, err) {
			return
		}
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"project": projectResponse(project)})
}

func (h *ProjectHandler) Get(ctx *gin.Context) {
	teamID, err := utils.GetTeamID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	project, err := h.submissions.Get(teamID, userID)

	if err != nil {
		if apierr.Handle(ctx, err) {
			return
		}
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"project": projectResponse(project)})
}

func projectResponse(project *models.Project) gin.H {
	return gin.H{
		"id":           project.ID,
		"team_id":      project.TeamID,
		"title":        project.Title,
		"description":  project.Description,
		"github_url":   project.GithubURL,
		"demo_url":     project.DemoURL,
		"submitted":    project.Submitted,
		"submitted_at": project.SubmittedAt,
	}
}
