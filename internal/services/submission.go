package services

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hackhub-dev/hackhub/internal/models"
	"github.com/hackhub-dev/hackhub/internal/types"
)

// ProjectFields carries the editable part of a project submission.
type ProjectFields struct {
	Title       string
	Description string
	GithubURL   string
	DemoURL     string
}

// SubmissionService owns the per-team project draft/submit workflow. A team
// has at most one project row; saves upsert it in place.
type SubmissionService struct {
	logger *zap.SugaredLogger
	db     *gorm.DB
}

func NewSubmissionService(logger *zap.SugaredLogger, db *gorm.DB) *SubmissionService {
	return &SubmissionService{
		logger: logger,
		db:     db,
	}
}

// Submit saves the team's project. final=true marks it submitted and stamps
// submitted_at with the current time on every call; final=false reverts the
// project to a draft even if it was submitted before.
func (s *SubmissionService) Submit(teamID, actingUserID uint, fields ProjectFields, final bool) (*models.Project, error) {
	s.logger.Debugw("Submit()", "teamID", teamID, "actingUserID", actingUserID, "final", final)

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

	var submittedAt *time.Time
	if final {
		now := time.Now()
		submittedAt = &now
	}

	var project models.Project
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("team_id = ?", teamID).First(&project).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			project = models.Project{
				TeamID:      teamID,
				Title:       fields.Title,
				Description: fields.Description,
				GithubURL:   fields.GithubURL,
				DemoURL:     fields.DemoURL,
				Submitted:   final,
				SubmittedAt: submittedAt,
			}
			return tx.Create(&project).Error
		}

		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"title":        fields.Title,
			"description":  fields.Description,
			"github_url":   fields.GithubURL,
			"demo_url":     fields.DemoURL,
			"submitted":    final,
			"submitted_at": submittedAt,
		}

		if err := tx.Model(&project).Updates(updates).Error; err != nil {
			return err
		}

		return tx.First(&project, project.ID).Error
	})

	if err != nil {
		s.logger.Errorw("failed to save project", "teamID", teamID, "err", err)
		return nil, err
	}

	s.logger.Debugw("project saved", "projectID", project.ID, "teamID", teamID, "submitted", final)
	return &project, nil
}

// Get returns the team's project for accepted members of the team.
func (s *SubmissionService) Get(teamID, actingUserID uint) (*models.Project, error) {
	s.logger.Debugw("Get()", "teamID", teamID, "actingUserID", actingUserID)

	var membership models.TeamMembership
	err := s.db.Where("team_id = ? AND user_id = ? AND status = ?", teamID, actingUserID, types.MembershipAccepted).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		return nil, err
	}

	var project models.Project
	if err := s.db.Where("team_id = ?", teamID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	return &project, nil
}
