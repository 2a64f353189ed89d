package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hackhub-dev/hackhub/internal/apierr"
	"github.com/hackhub-dev/hackhub/internal/metrics"
	"github.com/hackhub-dev/hackhub/internal/models"
	"github.com/hackhub-dev/hackhub/internal/services"
	"github.com/hackhub-dev/hackhub/internal/utils"
)

// The four sub-scores are pointers so that a missing field fails binding
// instead of silently averaging in a zero.
type EvaluateRequest struct {
	Innovation   *float64 `json:"innovation" binding:"required"`
	Technical    *float64 `json:"technical" binding:"required"`
	Presentation *float64 `json:"presentation" binding:"required"`
	Usefulness   *float64 `json:"usefulness" binding:"required"`
	Comments     string   `json:"comments"`
	Final        bool     `json:"final"`
}

type EvaluationHandler struct {
	logger      *zap.SugaredLogger
	evaluations *services.EvaluationService
	hub         *RankingsHub
}

func NewEvaluationHandler(logger *zap.SugaredLogger, evaluations *services.EvaluationService, hub *RankingsHub) *EvaluationHandler {
	return &EvaluationHandler{
		logger:      logger,
		evaluations: evaluations,
		hub:         hub,
	}
}

func (h *EvaluationHandler) Evaluate(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	var req EvaluateRequest

	if err := ctx.BindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind evaluation", "err", err)
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.InvalidScores)
		return
	}

	scores := services.Scores{
		Innovation:   *req.Innovation,
		Technical:    *req.Technical,
		Presentation: *req.Presentation,
		Usefulness:   *req.Usefulness,
	}

	start := time.Now()
	evaluation, err := h.evaluations.Evaluate(projectID, userID, scores, req.Comments, req.Final)
	metrics.ObserveWorkflowOp("evaluate_project", start, err)

	if err != nil {
		if apierr.Handle(ctx, err) {
			return
		}
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	if req.Final {
		if hackathonID, err := h.evaluations.HackathonIDForProject(projectID); err == nil {
			go h.hub.Broadcast(hackathonID)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"evaluation": evaluationResponse(evaluation)})
}

// Own returns the caller's evaluation of the project, if one exists.
func (h *EvaluationHandler) Own(ctx *gin.Context) {
	projectID, err := utils.GetProjectID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	evaluation, err := h.evaluations.Own(projectID, userID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierr.WriteJSON(ctx, http.StatusNotFound, apierr.NotFound)
			return
		}
		h.logger.Errorw("failed to fetch evaluation", "projectID", projectID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"evaluation": evaluationResponse(evaluation)})
}

// ProjectsToEvaluate lists the hackathon's submitted projects for an assigned
// jury member.
func (h *EvaluationHandler) ProjectsToEvaluate(ctx *gin.Context) {
	hackathonID, err := utils.GetHackathonID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	projects, err := h.evaluations.ProjectsToEvaluate(hackathonID, userID)

	if err != nil {
		if apierr.Handle(ctx, err) {
			return
		}
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Rankings returns the hackathon leaderboard. Public.
func (h *EvaluationHandler) Rankings(ctx *gin.Context) {
	hackathonID, err := utils.GetHackathonID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	rankings, err := h.evaluations.Rankings(hackathonID)

	if err != nil {
		if apierr.Handle(ctx, err) {
			return
		}
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"rankings": rankings})
}

func evaluationResponse(evaluation *models.Evaluation) gin.H {
	return gin.H{
		"id":                 evaluation.ID,
		"project_id":         evaluation.ProjectID,
		"jury_id":            evaluation.JuryID,
		"innovation_score":   evaluation.InnovationScore,
		"technical_score":    evaluation.TechnicalScore,
		"presentation_score": evaluation.PresentationScore,
		"usefulness_score":   evaluation.UsefulnessScore,
		"overall_score":      evaluation.OverallScore,
		"comments":           evaluation.Comments,
		"submitted":          evaluation.Submitted,
	}
}
