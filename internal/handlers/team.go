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
	"github.com/hackhub-dev/hackhub/internal/types"
	"github.com/hackhub-dev/hackhub/internal/utils"
)

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type TeamMemberResponse struct {
	UserID         uint                 `json:"user_id"`
	FullName       string               `json:"full_name"`
	Email          string               `json:"email"`
	GithubUsername string               `json:"github_username,omitempty"`
	Role           types.MembershipRole `json:"role"`
}

type JoinRequestResponse struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	GithubUsername string    `json:"github_username,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	RequestedAt    time.Time `json:"requested_at"`
}

type TeamHandler struct {
	logger      *zap.SugaredLogger
	db          *gorm.DB
	memberships *services.MembershipService
}

func NewTeamHandler(logger *zap.SugaredLogger, db *gorm.DB, memberships *services.MembershipService) *TeamHandler {
	return &TeamHandler{
		logger:      logger,
		db:          db,
		memberships: memberships,
	}
}

func (h *TeamHandler) Create(ctx *gin.Context) {
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

	var req CreateTeamRequest

	if err := ctx.BindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind team create", "err", err)
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	start := time.Now()
	team, err := h.memberships.CreateTeam(hackathonID, userID, req.Name, req.Description)
	metrics.ObserveWorkflowOp("create_team", start, err)

	if err != nil {
		if apierr.Handle(ctx, err) {
			return
		}
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"team": teamResponse(team)})
}

// Get returns the team with its accepted members and project, if any.
func (h *TeamHandler) Get(ctx *gin.Context) {
	teamID, err := utils.GetTeamID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	var team models.Team
	if err := h.db.Preload("Hackathon").Preload("Leader").First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierr.WriteJSON(ctx, http.StatusNotFound, apierr.NotFound)
		} else {
			h.logger.Errorw("failed to fetch team", "teamID", teamID, "err", err)
			apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		}
		return
	}

	var memberships []models.TeamMembership
	err = h.db.Preload("User").
		Where("team_id = ? AND status = ?", teamID, types.MembershipAccepted).
		Find(&memberships).Error

	if err != nil {
		h.logger.Errorw("failed to list team members", "teamID", teamID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	members := make([]TeamMemberResponse, 0, len(memberships))
	for _, membership := range memberships {
		members = append(members, TeamMemberResponse{
			UserID:         membership.UserID,
			FullName:       membership.User.FullName,
			Email:          membership.User.Email,
			GithubUsername: membership.User.GithubUsername,
			Role:           membership.Role,
		})
	}

	response := gin.H{
		"team":            teamResponse(&team),
		"hackathon_title": team.Hackathon.Title,
		"leader_name":     team.Leader.FullName,
		"members":         members,
	}

	var project models.Project
	err = h.db.Where("team_id = ?", teamID).First(&project).Error

	if err == nil {
		response["project"] = projectResponse(&project)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Errorw("failed to fetch project", "teamID", teamID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	if currentUser, err := utils.GetCurrentUser(ctx); err == nil {
		response["is_leader"] = currentUser.ID == team.LeaderID
	}

	ctx.JSON(http.StatusOK, response)
}

// Update renames the team or edits its description. Leader only; the name
// stays unique within the hackathon.
func (h *TeamHandler) Update(ctx *gin.Context) {
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

	var req UpdateTeamRequest

	if err := ctx.BindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind team update", "err", err)
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	var team models.Team
	if err := h.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierr.WriteJSON(ctx, http.StatusNotFound, apierr.NotFound)
		} else {
			h.logger.Errorw("failed to fetch team", "teamID", teamID, "err", err)
			apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		}
		return
	}

	if team.LeaderID != userID {
		apierr.WriteJSON(ctx, http.StatusForbidden, apierr.NotLeader)
		return
	}

	var existing models.Team
	err = h.db.Where("hackathon_id = ? AND name = ? AND id != ?", team.HackathonID, req.Name, teamID).
		First(&existing).Error

	if err == nil {
		apierr.WriteJSON(ctx, http.StatusConflict, apierr.TeamNameTaken)
		return
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Errorw("failed to check team name", "teamID", teamID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	team.Name = req.Name
	team.Description = req.Description

	if err := h.db.Save(&team).Error; err != nil {
		h.logger.Errorw("failed to update team", "teamID", teamID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"team": teamResponse(&team)})
}

func (h *TeamHandler) RequestJoin(ctx *gin.Context) {
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

	start := time.Now()
	request, err := h.memberships.RequestJoin(teamID, userID)
	metrics.ObserveWorkflowOp("request_join", start, err)

	if err != nil {
		if apierr.Handle(ctx, err) {
			return
		}
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"request": membershipResponse(request)})
}

func (h *TeamHandler) PendingRequests(ctx *gin.Context) {
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

	requests, err := h.memberships.PendingRequests(teamID, userID)

	if err != nil {
		if apierr.Handle(ctx, err) {
			return
		}
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	response := make([]JoinRequestResponse, 0, len(requests))
	for _, request := range requests {
		response = append(response, JoinRequestResponse{
			ID:             request.ID,
			UserID:         request.UserID,
			FullName:       request.User.FullName,
			Email:          request.User.Email,
			GithubUsername: request.User.GithubUsername,
			Bio:            request.User.Bio,
			RequestedAt:    request.CreatedAt,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"requests": response})
}

func (h *TeamHandler) ApproveRequest(ctx *gin.Context) {
	h.resolveRequest(ctx, "approve_request", h.memberships.Approve)
}

func (h *TeamHandler) RejectRequest(ctx *gin.Context) {
	h.resolveRequest(ctx, "reject_request", h.memberships.Reject)
}

func (h *TeamHandler) resolveRequest(ctx *gin.Context, op string, resolve func(requestID, actingUserID uint) (*models.TeamMembership, error)) {
	requestID, err := utils.GetRequestID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	start := time.Now()
	request, err := resolve(requestID, userID)
	metrics.ObserveWorkflowOp(op, start, err)

	if err != nil {
		if apierr.Handle(ctx, err) {
			return
		}
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"request": membershipResponse(request)})
}

func teamResponse(team *models.Team) gin.H {
	return gin.H{
		"id":           team.ID,
		"hackathon_id": team.HackathonID,
		"name":         team.Name,
		"leader_id":    team.LeaderID,
		"description":  team.Description,
	}
}

func membershipResponse(membership *models.TeamMembership) gin.H {
	return gin.H{
		"id":      membership.ID,
		"team_id": membership.TeamID,
		"user_id": membership.UserID,
		"status":  membership.Status,
		"role":    membership.Role,
	}
}
