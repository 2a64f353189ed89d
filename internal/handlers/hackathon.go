package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hackhub-dev/hackhub/internal/apierr"
	"github.com/hackhub-dev/hackhub/internal/models"
	"github.com/hackhub-dev/hackhub/internal/types"
	"github.com/hackhub-dev/hackhub/internal/utils"
)

type CreateHackathonRequest struct {
	Title                string          `json:"title" binding:"required"`
	Description          string          `json:"description" binding:"required"`
	StartDate            time.Time       `json:"start_date" binding:"required"`
	EndDate              time.Time       `json:"end_date" binding:"required"`
	RegistrationDeadline time.Time       `json:"registration_deadline" binding:"required"`
	MinTeamSize          int             `json:"min_team_size"`
	MaxTeamSize          int             `json:"max_team_size"`
	IsOnline             bool            `json:"is_online"`
	Prizes               json.RawMessage `json:"prizes"`
}

type UpdateHackathonRequest struct {
	Title                string          `json:"title" binding:"required"`
	Description          string          `json:"description" binding:"required"`
	StartDate            time.Time       `json:"start_date" binding:"required"`
	EndDate              time.Time       `json:"end_date" binding:"required"`
	RegistrationDeadline time.Time       `json:"registration_deadline" binding:"required"`
	MinTeamSize          int             `json:"min_team_size"`
	MaxTeamSize          int             `json:"max_team_size"`
	IsOnline             bool            `json:"is_online"`
	Status               string          `json:"status" binding:"required"`
	Prizes               json.RawMessage `json:"prizes"`
}

type AssignJuryRequest struct {
	JuryID uint `json:"jury_id" binding:"required"`
}

type HackathonSummary struct {
	ID                   uint                  `json:"id"`
	Title                string                `json:"title"`
	Description          string                `json:"description"`
	StartDate            time.Time             `json:"start_date"`
	EndDate              time.Time             `json:"end_date"`
	RegistrationDeadline time.Time             `json:"registration_deadline"`
	MinTeamSize          int                   `json:"min_team_size"`
	MaxTeamSize          int                   `json:"max_team_size"`
	Status               types.HackathonStatus `json:"status"`
	IsOnline             bool                  `json:"is_online"`
	OrganizerName        string                `json:"organizer_name"`
	TeamCount            int                   `json:"team_count"`
}

type TeamSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LeaderName  string `json:"leader_name"`
	MemberCount int    `json:"member_count"`
	Submitted   bool   `json:"submitted"`
}

type HackathonHandler struct {
	logger *zap.SugaredLogger
	db     *gorm.DB
}

func NewHackathonHandler(logger *zap.SugaredLogger, db *gorm.DB) *HackathonHandler {
	return &HackathonHandler{
		logger: logger,
		db:     db,
	}
}

// List returns hackathons open for registration or currently running.
func (h *HackathonHandler) List(ctx *gin.Context) {
	var hackathons []HackathonSummary

	err := h.db.Model(&models.Hackathon{}).
		Select(`hackathons.id, hackathons.title, hackathons.description, hackathons.start_date,
			hackathons.end_date, hackathons.registration_deadline, hackathons.min_team_size,
			hackathons.max_team_size, hackathons.status, hackathons.is_online,
			users.full_name AS organizer_name,
			(SELECT COUNT(*) FROM teams WHERE teams.hackathon_id = hackathons.id AND teams.deleted_at IS NULL) AS team_count`).
		Joins("JOIN users ON users.id = hackathons.organizer_id").
		Where("hackathons.status IN ?", []types.HackathonStatus{types.HackathonOpenRegistration, types.HackathonOngoing}).
		Order("hackathons.start_date ASC").
		Scan(&hackathons).Error

	if err != nil {
		h.logger.Errorw("failed to list hackathons", "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"hackathons": hackathons})
}

// Get returns one hackathon with its teams.
func (h *HackathonHandler) Get(ctx *gin.Context) {
	hackathonID, err := utils.GetHackathonID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	var hackathon models.Hackathon
	if err := h.db.Preload("Organizer").First(&hackathon, hackathonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierr.WriteJSON(ctx, http.StatusNotFound, apierr.NotFound)
		} else {
			h.logger.Errorw("failed to fetch hackathon", "hackathonID", hackathonID, "err", err)
			apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		}
		return
	}

	var teams []TeamSummary
	err = h.db.Model(&models.Team{}).
		Select(`teams.id, teams.name, teams.description, users.full_name AS leader_name,
			(SELECT COUNT(*) FROM team_memberships tm
				WHERE tm.team_id = teams.id AND tm.status = 'accepted' AND tm.deleted_at IS NULL) AS member_count,
			COALESCE(projects.submitted, false) AS submitted`).
		Joins("JOIN users ON users.id = teams.leader_id").
		Joins("LEFT JOIN projects ON projects.team_id = teams.id AND projects.deleted_at IS NULL").
		Where("teams.hackathon_id = ?", hackathonID).
		Order("teams.created_at DESC").
		Scan(&teams).Error

	if err != nil {
		h.logger.Errorw("failed to list teams", "hackathonID", hackathonID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	response := gin.H{
		"hackathon": hackathonResponse(&hackathon),
		"teams":     teams,
	}

	// Logged-in viewers also get their own team in this hackathon, if any.
	if currentUser, err := utils.GetCurrentUser(ctx); err == nil {
		var myTeam models.Team
		err := h.db.Joins("JOIN team_memberships ON team_memberships.team_id = teams.id AND team_memberships.deleted_at IS NULL").
			Where("teams.hackathon_id = ? AND team_memberships.user_id = ? AND team_memberships.status = ?",
				hackathonID, currentUser.ID, types.MembershipAccepted).
			First(&myTeam).Error

		if err == nil {
			response["my_team"] = gin.H{
				"id":   myTeam.ID,
				"name": myTeam.Name,
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger.Errorw("failed to fetch viewer team", "hackathonID", hackathonID, "err", err)
		}
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *HackathonHandler) Create(ctx *gin.Context) {
	var req CreateHackathonRequest

	if err := ctx.BindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind hackathon create", "err", err)
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	if !req.RegistrationDeadline.Before(req.StartDate) {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.InvalidDates)
		return
	}

	hackathon := models.Hackathon{
		OrganizerID:          userID,
		Title:                req.Title,
		Description:          req.Description,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		RegistrationDeadline: req.RegistrationDeadline,
		MinTeamSize:          req.MinTeamSize,
		MaxTeamSize:          req.MaxTeamSize,
		Status:               types.HackathonDraft,
		IsOnline:             req.IsOnline,
		Prizes:               datatypes.JSON(req.Prizes),
	}

	if hackathon.MinTeamSize == 0 {
		hackathon.MinTeamSize = 1
	}

	if hackathon.MaxTeamSize == 0 {
		hackathon.MaxTeamSize = 4
	}

	if err := h.db.Create(&hackathon).Error; err != nil {
		h.logger.Errorw("failed to create hackathon", "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"hackathon": hackathonResponse(&hackathon)})
}

// Update edits a hackathon. Ownership is re-derived from the store: the row
// must belong to the acting organizer.
func (h *HackathonHandler) Update(ctx *gin.Context) {
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

	var req UpdateHackathonRequest

	if err := ctx.BindJSON(&req); err != nil {
		h.logger.Warnw("failed to bind hackathon update", "err", err)
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	status := types.HackathonStatus(req.Status)
	if !status.Valid() {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.APIError{
			Code:    "INVALID_STATUS",
			Message: "unknown hackathon status",
		})
		return
	}

	if !req.RegistrationDeadline.Before(req.StartDate) {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.InvalidDates)
		return
	}

	var hackathon models.Hackathon
	if err := h.db.Where("id = ? AND organizer_id = ?", hackathonID, userID).First(&hackathon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierr.WriteJSON(ctx, http.StatusForbidden, apierr.NotOrganizer)
		} else {
			h.logger.Errorw("failed to fetch hackathon", "hackathonID", hackathonID, "err", err)
			apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		}
		return
	}

	updates := map[string]interface{}{
		"title":                 req.Title,
		"description":           req.Description,
		"start_date":            req.StartDate,
		"end_date":              req.EndDate,
		"registration_deadline": req.RegistrationDeadline,
		"min_team_size":         req.MinTeamSize,
		"max_team_size":         req.MaxTeamSize,
		"is_online":             req.IsOnline,
		"status":                status,
	}

	if len(req.Prizes) > 0 {
		updates["prizes"] = datatypes.JSON(req.Prizes)
	}

	if err := h.db.Model(&hackathon).Updates(updates).Error; err != nil {
		h.logger.Errorw("failed to update hackathon", "hackathonID", hackathonID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	if err := h.db.First(&hackathon, hackathon.ID).Error; err != nil {
		h.logger.Errorw("failed to refresh hackathon", "hackathonID", hackathonID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"hackathon": hackathonResponse(&hackathon)})
}

// AssignJury adds a jury-role user to the hackathon's jury panel.
func (h *HackathonHandler) AssignJury(ctx *gin.Context) {
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

	var req AssignJuryRequest

	if err := ctx.BindJSON(&req); err != nil {
		apierr.WriteJSON(ctx, http.StatusBadRequest, apierr.BadRequest)
		return
	}

	var hackathon models.Hackathon
	if err := h.db.Where("id = ? AND organizer_id = ?", hackathonID, userID).First(&hackathon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierr.WriteJSON(ctx, http.StatusForbidden, apierr.NotOrganizer)
		} else {
			h.logger.Errorw("failed to fetch hackathon", "hackathonID", hackathonID, "err", err)
			apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		}
		return
	}

	var jury models.User
	if err := h.db.First(&jury, req.JuryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierr.WriteJSON(ctx, http.StatusNotFound, apierr.NotFound)
		} else {
			h.logger.Errorw("failed to fetch jury user", "juryID", req.JuryID, "err", err)
			apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		}
		return
	}

	if jury.Role != types.RoleJury {
		apierr.WriteJSON(ctx, http.StatusConflict, apierr.NotJuryUser)
		return
	}

	assignment := models.JuryAssignment{
		HackathonID: hackathonID,
		JuryID:      req.JuryID,
	}

	if err := h.db.Create(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "SQLSTATE 23505") {
			apierr.WriteJSON(ctx, http.StatusConflict, apierr.AlreadyAssigned)
			return
		}
		h.logger.Errorw("failed to create jury assignment", "hackathonID", hackathonID, "juryID", req.JuryID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"assignment": gin.H{
		"id":           assignment.ID,
		"hackathon_id": assignment.HackathonID,
		"jury_id":      assignment.JuryID,
	}})
}

// ListJury returns the hackathon's jury panel. Organizer and owner only.
func (h *HackathonHandler) ListJury(ctx *gin.Context) {
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

	var hackathon models.Hackathon
	if err := h.db.Where("id = ? AND organizer_id = ?", hackathonID, userID).First(&hackathon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierr.WriteJSON(ctx, http.StatusForbidden, apierr.NotOrganizer)
		} else {
			h.logger.Errorw("failed to fetch hackathon", "hackathonID", hackathonID, "err", err)
			apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		}
		return
	}

	var assignments []models.JuryAssignment
	if err := h.db.Preload("Jury").Where("hackathon_id = ?", hackathonID).Find(&assignments).Error; err != nil {
		h.logger.Errorw("failed to list jury assignments", "hackathonID", hackathonID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	jury := make([]types.UserResponse, 0, len(assignments))
	for _, assignment := range assignments {
		jury = append(jury, userResponse(&assignment.Jury))
	}

	ctx.JSON(http.StatusOK, gin.H{"jury": jury})
}

func hackathonResponse(hackathon *models.Hackathon) gin.H {
	return gin.H{
		"id":                    hackathon.ID,
		"organizer_id":          hackathon.OrganizerID,
		"title":                 hackathon.Title,
		"description":           hackathon.Description,
		"start_date":            hackathon.StartDate,
		"end_date":              hackathon.EndDate,
		"registration_deadline": hackathon.RegistrationDeadline,
		"min_team_size":         hackathon.MinTeamSize,
		"max_team_size":         hackathon.MaxTeamSize,
		"status":                hackathon.Status,
		"is_online":             hackathon.IsOnline,
		"prizes":                json.RawMessage(hackathon.Prizes),
	}
}
