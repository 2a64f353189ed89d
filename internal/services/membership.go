package services

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hackhub-dev/hackhub/internal/models"
	"github.com/hackhub-dev/hackhub/internal/types"
)

// MembershipService owns the team membership workflow: team creation, join
// requests and their approval or rejection by the team leader. Every compound
// write runs inside a single transaction.
type MembershipService struct {
	logger *zap.SugaredLogger
	db     *gorm.DB
}

func NewMembershipService(logger *zap.SugaredLogger, db *gorm.DB) *MembershipService {
	return &MembershipService{
		logger: logger,
		db:     db,
	}
}

// isUniqueViolation catches constraint errors gorm does not wrap inside
// transactions (SQLSTATE 23505 is the postgres unique_violation code).
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "SQLSTATE 23505")
}

// CreateTeam inserts the team and the leader's accepted membership as one
// transactional unit; neither row is visible unless both succeed.
func (s *MembershipService) CreateTeam(hackathonID, leaderID uint, name, description string) (*models.Team, error) {
	s.logger.Debugw("CreateTeam()", "hackathonID", hackathonID, "leaderID", leaderID, "name", name)

	var team models.Team
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var hackathon models.Hackathon
		if err := tx.First(&hackathon, hackathonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHackathonNotFound
			}
			return err
		}

		var existing models.TeamMembership
		err := tx.Joins("JOIN teams ON teams.id = team_memberships.team_id").
			Where("teams.hackathon_id = ? AND team_memberships.user_id = ?", hackathonID, leaderID).
			First(&existing).Error

		if err == nil {
			return ErrAlreadyInTeam
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		team = models.Team{
			HackathonID: hackathonID,
			Name:        name,
			LeaderID:    leaderID,
			Description: description,
		}

		if err := tx.Create(&team).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrTeamNameTaken
			}
			return err
		}

		membership := models.TeamMembership{
			TeamID: team.ID,
			UserID: leaderID,
			Status: types.MembershipAccepted,
			Role:   types.MembershipLeader,
		}

		return tx.Create(&membership).Error
	})

	if err != nil {
		s.logger.Warnw("failed to create team", "hackathonID", hackathonID, "leaderID", leaderID, "err", err)
		return nil, err
	}

	s.logger.Debugw("team created", "teamID", team.ID, "hackathonID", hackathonID)
	return &team, nil
}

// RequestJoin inserts a pending membership row for (team, user). An existing
// row of any status is a conflict, with a distinct code per status; the
// uniqueness constraint backstops concurrent duplicate requests.
func (s *MembershipService) RequestJoin(teamID, userID uint) (*models.TeamMembership, error) {
	s.logger.Debugw("RequestJoin()", "teamID", teamID, "userID", userID)

	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	var existing models.TeamMembership
	err := s.db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&existing).Error

	if err == nil {
		switch existing.Status {
		case types.MembershipAccepted:
			return nil, ErrAlreadyMember
		case types.MembershipPending:
			return nil, ErrRequestPending
		default:
			return nil, ErrRequestRejected
		}
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.acceptedTeamInHackathon(s.db, team.HackathonID, userID, 0); err != nil {
		return nil, err
	}

	membership := models.TeamMembership{
		TeamID: teamID,
		UserID: userID,
		Status: types.MembershipPending,
		Role:   types.MembershipMember,
	}

	if err := s.db.Create(&membership).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrRequestPending
		}
		s.logger.Errorw("failed to create join request", "teamID", teamID, "userID", userID, "err", err)
		return nil, err
	}

	s.logger.Debugw("join request created", "requestID", membership.ID, "teamID", teamID, "userID", userID)
	return &membership, nil
}

// Approve flips a pending request to accepted. Only the team leader may
// approve, and the one-accepted-team-per-hackathon invariant is re-checked
// inside the same transaction as the status flip.
func (s *MembershipService) Approve(requestID, actingUserID uint) (*models.TeamMembership, error) {
	s.logger.Debugw("Approve()", "requestID", requestID, "actingUserID", actingUserID)

	var request models.TeamMembership
	err := s.db.Transaction(func(tx *gorm.DB) error {
		request, team, err := s.pendingRequest(tx, requestID, actingUserID)
		if err != nil {
			return err
		}

		if err := s.acceptedTeamInHackathon(tx, team.HackathonID, request.UserID, request.TeamID); err != nil {
			return err
		}

		return tx.Model(request).Update("status", types.MembershipAccepted).Error
	})

	if err != nil {
		s.logger.Warnw("failed to approve request", "requestID", requestID, "err", err)
		return nil, err
	}

	if err := s.db.First(&request, requestID).Error; err != nil {
		return nil, err
	}

	s.logger.Debugw("request approved", "requestID", requestID)
	return &request, nil
}

// Reject flips a pending request to rejected. The row stays, so the user
// cannot re-request; see the uniqueness constraint on team_memberships.
func (s *MembershipService) Reject(requestID, actingUserID uint) (*models.TeamMembership, error) {
	s.logger.Debugw("Reject()", "requestID", requestID, "actingUserID", actingUserID)

	var request models.TeamMembership
	err := s.db.Transaction(func(tx *gorm.DB) error {
		request, _, err := s.pendingRequest(tx, requestID, actingUserID)
		if err != nil {
			return err
		}

		return tx.Model(request).Update("status", types.MembershipRejected).Error
	})

	if err != nil {
		s.logger.Warnw("failed to reject request", "requestID", requestID, "err", err)
		return nil, err
	}

	if err := s.db.First(&request, requestID).Error; err != nil {
		return nil, err
	}

	s.logger.Debugw("request rejected", "requestID", requestID)
	return &request, nil
}

// PendingRequests lists a team's open join requests with requester profiles.
// Leader only.
func (s *MembershipService) PendingRequests(teamID, actingUserID uint) ([]models.TeamMembership, error) {
	s.logger.Debugw("PendingRequests()", "teamID", teamID, "actingUserID", actingUserID)

	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if team.LeaderID != actingUserID {
		return nil, ErrNotLeader
	}

	var requests []models.TeamMembership
	err := s.db.Preload("User").
		Where("team_id = ? AND status = ?", teamID, types.MembershipPending).
		Order("created_at ASC").
		Find(&requests).Error

	if err != nil {
		s.logger.Errorw("failed to list pending requests", "teamID", teamID, "err", err)
		return nil, err
	}

	return requests, nil
}

// pendingRequest loads a request in pending status together with its team and
// authorizes the acting user as that team's leader.
func (s *MembershipService) pendingRequest(tx *gorm.DB, requestID, actingUserID uint) (*models.TeamMembership, *models.Team, error) {
	var request models.TeamMembership
	err := tx.Where("id = ? AND status = ?", requestID, types.MembershipPending).First(&request).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrRequestNotFound
		}
		return nil, nil, err
	}

	var team models.Team
	if err := tx.First(&team, request.TeamID).Error; err != nil {
		return nil, nil, err
	}

	if team.LeaderID != actingUserID {
		return nil, nil, ErrNotLeader
	}

	return &request, &team, nil
}

// acceptedTeamInHackathon returns ErrAlreadyInTeam when the user already holds
// an accepted membership in a team of the hackathon other than excludeTeamID.
func (s *MembershipService) acceptedTeamInHackathon(tx *gorm.DB, hackathonID, userID, excludeTeamID uint) error {
	var existing models.TeamMembership
	err := tx.Joins("JOIN teams ON teams.id = team_memberships.team_id").
		Where("teams.hackathon_id = ? AND team_memberships.user_id = ? AND team_memberships.status = ? AND team_memberships.team_id != ?",
			hackathonID, userID, types.MembershipAccepted, excludeTeamID).
		First(&existing).Error

	if err == nil {
		return ErrAlreadyInTeam
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return nil
}
