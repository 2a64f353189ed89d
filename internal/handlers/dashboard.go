package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hackhub-dev/hackhub/internal/apierr"
	"github.com/hackhub-dev/hackhub/internal/models"
	"github.com/hackhub-dev/hackhub/internal/types"
	"github.com/hackhub-dev/hackhub/internal/utils"
)

type OrganizerHackathonSummary struct {
	ID             uint                  `json:"id"`
	Title          string                `json:"title"`
	Status         types.HackathonStatus `json:"status"`
	StartDate      time.Time             `json:"start_date"`
	EndDate        time.Time             `json:"end_date"`
	TeamCount      int                   `json:"team_count"`
	SubmittedCount int                   `json:"submitted_count"`
}

type JuryHackathonSummary struct {
	HackathonID    uint                  `json:"hackathon_id"`
	Title          string                `json:"title"`
	Status         types.HackathonStatus `json:"status"`
	StartDate      time.Time             `json:"start_date"`
	TotalProjects  int                   `json:"total_projects"`
	EvaluatedCount int                   `json:"evaluated_count"`
}

type ParticipantTeamSummary struct {
	TeamID           uint                  `json:"team_id"`
	TeamName         string                `json:"team_name"`
	HackathonID      uint                  `json:"hackathon_id"`
	HackathonTitle   string                `json:"hackathon_title"`
	HackathonStatus  types.HackathonStatus `json:"hackathon_status"`
	MemberCount      int                   `json:"member_count"`
	ProjectTitle     string                `json:"project_title,omitempty"`
	ProjectSubmitted bool                  `json:"project_submitted"`
}

type OwnJoinRequestSummary struct {
	ID             uint                   `json:"id"`
	TeamID         uint                   `json:"team_id"`
	TeamName       string                 `json:"team_name"`
	HackathonTitle string                 `json:"hackathon_title"`
	Status         types.MembershipStatus `json:"status"`
	RequestedAt    time.Time              `json:"requested_at"`
}

type DashboardHandler struct {
	logger *zap.SugaredLogger
	db     *gorm.DB
}

func NewDashboardHandler(logger *zap.SugaredLogger, db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		logger: logger,
		db:     db,
	}
}

// Get returns a role-shaped dashboard: organizers see their hackathons, jury
// members their assignments with progress, participants their teams and the
// state of their join requests.
func (h *DashboardHandler) Get(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		apierr.WriteJSON(ctx, http.StatusUnauthorized, apierr.Unauthorized)
		return
	}

	switch currentUser.Role {
	case types.RoleOrganizer:
		h.organizer(ctx, currentUser.ID)
	case types.RoleJury:
		h.jury(ctx, currentUser.ID)
	default:
		h.participant(ctx, currentUser.ID)
	}
}

func (h *DashboardHandler) organizer(ctx *gin.Context, userID uint) {
	var hackathons []OrganizerHackathonSummary

	err := h.db.Model(&models.Hackathon{}).
		Select(`hackathons.id, hackathons.title, hackathons.status, hackathons.start_date, hackathons.end_date,
			(SELECT COUNT(*) FROM teams
				WHERE teams.hackathon_id = hackathons.id AND teams.deleted_at IS NULL) AS team_count,
			(SELECT COUNT(*) FROM teams
				JOIN projects ON projects.team_id = teams.id AND projects.deleted_at IS NULL
				WHERE teams.hackathon_id = hackathons.id AND teams.deleted_at IS NULL
					AND projects.submitted = true) AS submitted_count`).
		Where("hackathons.organizer_id = ?", userID).
		Order("hackathons.created_at DESC").
		Scan(&hackathons).Error

	if err != nil {
		h.logger.Errorw("failed to load organizer dashboard", "userID", userID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"role": types.RoleOrganizer, "hackathons": hackathons})
}

func (h *DashboardHandler) jury(ctx *gin.Context, userID uint) {
	var assignments []JuryHackathonSummary

	err := h.db.Model(&models.Hackathon{}).
		Select(`hackathons.id AS hackathon_id, hackathons.title, hackathons.status, hackathons.start_date,
			(SELECT COUNT(*) FROM teams
				JOIN projects ON projects.team_id = teams.id AND projects.deleted_at IS NULL
				WHERE teams.hackathon_id = hackathons.id AND teams.deleted_at IS NULL
					AND projects.submitted = true) AS total_projects,
			(SELECT COUNT(*) FROM evaluations
				JOIN projects ON projects.id = evaluations.project_id AND projects.deleted_at IS NULL
				JOIN teams ON teams.id = projects.team_id AND teams.deleted_at IS NULL
				WHERE teams.hackathon_id = hackathons.id AND evaluations.jury_id = ?
					AND evaluations.submitted = true AND evaluations.deleted_at IS NULL) AS evaluated_count`, userID).
		Joins("JOIN jury_assignments ON jury_assignments.hackathon_id = hackathons.id AND jury_assignments.deleted_at IS NULL").
		Where("jury_assignments.jury_id = ?", userID).
		Order("hackathons.start_date DESC").
		Scan(&assignments).Error

	if err != nil {
		h.logger.Errorw("failed to load jury dashboard", "userID", userID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"role": types.RoleJury, "assignments": assignments})
}

func (h *DashboardHandler) participant(ctx *gin.Context, userID uint) {
	var teams []ParticipantTeamSummary

	err := h.db.Model(&models.Team{}).
		Select(`teams.id AS team_id, teams.name AS team_name, hackathons.id AS hackathon_id,
			hackathons.title AS hackathon_title, hackathons.status AS hackathon_status,
			(SELECT COUNT(*) FROM team_memberships tm
				WHERE tm.team_id = teams.id AND tm.status = 'accepted' AND tm.deleted_at IS NULL) AS member_count,
			COALESCE(projects.title, '') AS project_title,
			COALESCE(projects.submitted, false) AS project_submitted`).
		Joins("JOIN hackathons ON hackathons.id = teams.hackathon_id AND hackathons.deleted_at IS NULL").
		Joins("JOIN team_memberships ON team_memberships.team_id = teams.id AND team_memberships.deleted_at IS NULL").
		Joins("LEFT JOIN projects ON projects.team_id = teams.id AND projects.deleted_at IS NULL").
		Where("team_memberships.user_id = ? AND team_memberships.status = ?", userID, types.MembershipAccepted).
		Order("teams.created_at DESC").
		Scan(&teams).Error

	if err != nil {
		h.logger.Errorw("failed to load participant teams", "userID", userID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	var joinRequests []OwnJoinRequestSummary

	err = h.db.Model(&models.TeamMembership{}).
		Select(`team_memberships.id, teams.id AS team_id, teams.name AS team_name,
			hackathons.title AS hackathon_title, team_memberships.status,
			team_memberships.created_at AS requested_at`).
		Joins("JOIN teams ON teams.id = team_memberships.team_id AND teams.deleted_at IS NULL").
		Joins("JOIN hackathons ON hackathons.id = teams.hackathon_id AND hackathons.deleted_at IS NULL").
		Where("team_memberships.user_id = ? AND team_memberships.status IN ?",
			userID, []types.MembershipStatus{types.MembershipPending, types.MembershipRejected}).
		Order("team_memberships.created_at DESC").
		Scan(&joinRequests).Error

	if err != nil {
		h.logger.Errorw("failed to load join requests", "userID", userID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	var pendingForLedTeams int64

	err = h.db.Model(&models.TeamMembership{}).
		Joins("JOIN teams ON teams.id = team_memberships.team_id AND teams.deleted_at IS NULL").
		Where("teams.leader_id = ? AND team_memberships.status = ?", userID, types.MembershipPending).
		Count(&pendingForLedTeams).Error

	if err != nil {
		h.logger.Errorw("failed to count pending requests", "userID", userID, "err", err)
		apierr.WriteJSON(ctx, http.StatusInternalServerError, apierr.InternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"role":                  types.RoleParticipant,
		"teams":                 teams,
		"join_requests":         joinRequests,
		"pending_team_requests": pendingForLedTeams,
	})
}
