package services

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hackhub-dev/hackhub/internal/models"
)

// Scores holds the four jury sub-scores, each on a 0-10 scale.
type Scores struct {
	Innovation   float64
	Technical    float64
	Presentation float64
	Usefulness   float64
}

func (s Scores) Valid() bool {
	for _, v := range []float64{s.Innovation, s.Technical, s.Presentation, s.Usefulness} {
		if v < 0 || v > 10 {
			return false
		}
	}
	return true
}

// Overall is the arithmetic mean of the four sub-scores.
func (s Scores) Overall() float64 {
	return (s.Innovation + s.Technical + s.Presentation + s.Usefulness) / 4
}

// RankingEntry is one row of the hackathon leaderboard. FinalScore is the mean
// of overall scores across all submitted evaluations for the project.
type RankingEntry struct {
	ProjectID       uint    `json:"project_id"`
	TeamName        string  `json:"team_name"`
	ProjectTitle    string  `json:"project_title"`
	GithubURL       string  `json:"github_url"`
	DemoURL         string  `json:"demo_url"`
	FinalScore      float64 `json:"final_score"`
	EvaluationCount int     `json:"evaluation_count"`
}

// ProjectToEvaluate is a submitted project as shown to an assigned jury
// member, with that member's own evaluation progress.
type ProjectToEvaluate struct {
	ProjectID   uint   `json:"project_id"`
	TeamName    string `json:"team_name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	GithubURL   string `json:"github_url"`
	DemoURL     string `json:"demo_url"`
	Evaluated   bool   `json:"evaluated"`
}

// EvaluationService owns jury scoring and the ranking aggregation.
type EvaluationService struct {
	logger *zap.SugaredLogger
	db     *gorm.DB
}

func NewEvaluationService(logger *zap.SugaredLogger, db *gorm.DB) *EvaluationService {
	return &EvaluationService{
		logger: logger,
		db:     db,
	}
}

// Evaluate upserts the jury member's evaluation for a submitted project. The
// jury must be assigned to the project's hackathon; this is checked on every
// write, not just when listing projects.
func (s *EvaluationService) Evaluate(projectID, juryID uint, scores Scores, comments string, final bool) (*models.Evaluation, error) {
	s.logger.Debugw("Evaluate()", "projectID", projectID, "juryID", juryID, "final", final)

	if !scores.Valid() {
		return nil, ErrInvalidScores
	}

	var project models.Project
	err := s.db.Preload("Team").First(&project, projectID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if !project.Submitted {
		return nil, ErrNotSubmitted
	}

	if err := s.assignment(project.Team.HackathonID, juryID); err != nil {
		return nil, err
	}

	var evaluation models.Evaluation
	err = s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("project_id = ? AND jury_id = ?", projectID, juryID).First(&evaluation).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			evaluation = models.Evaluation{
				ProjectID:         projectID,
				JuryID:            juryID,
				InnovationScore:   scores.Innovation,
				TechnicalScore:    scores.Technical,
				PresentationScore: scores.Presentation,
				UsefulnessScore:   scores.Usefulness,
				OverallScore:      scores.Overall(),
				Comments:          comments,
				Submitted:         final,
			}
			return tx.Create(&evaluation).Error
		}

		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"innovation_score":   scores.Innovation,
			"technical_score":    scores.Technical,
			"presentation_score": scores.Presentation,
			"usefulness_score":   scores.Usefulness,
			"overall_score":      scores.Overall(),
			"comments":           comments,
			"submitted":          final,
		}

		if err := tx.Model(&evaluation).Updates(updates).Error; err != nil {
			return err
		}

		return tx.First(&evaluation, evaluation.ID).Error
	})

	if err != nil {
		s.logger.Errorw("failed to save evaluation", "projectID", projectID, "juryID", juryID, "err", err)
		return nil, err
	}

	s.logger.Debugw("evaluation saved", "evaluationID", evaluation.ID, "submitted", final)
	return &evaluation, nil
}

// Own returns the jury member's evaluation of a project, if any.
func (s *EvaluationService) Own(projectID, juryID uint) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	err := s.db.Where("project_id = ? AND jury_id = ?", projectID, juryID).First(&evaluation).Error

	if err != nil {
		return nil, err
	}

	return &evaluation, nil
}

// ProjectsToEvaluate lists the hackathon's submitted projects for an assigned
// jury member, newest submission first.
func (s *EvaluationService) ProjectsToEvaluate(hackathonID, juryID uint) ([]ProjectToEvaluate, error) {
	s.logger.Debugw("ProjectsToEvaluate()", "hackathonID", hackathonID, "juryID", juryID)

	if err := s.assignment(hackathonID, juryID); err != nil {
		return nil, err
	}

	var projects []ProjectToEvaluate
	err := s.db.Model(&models.Project{}).
		Select(`projects.id AS project_id, teams.name AS team_name, projects.title, projects.description,
			projects.github_url, projects.demo_url,
			EXISTS (
				SELECT 1 FROM evaluations e
				WHERE e.project_id = projects.id AND e.jury_id = ? AND e.submitted = true AND e.deleted_at IS NULL
			) AS evaluated`, juryID).
		Joins("JOIN teams ON teams.id = projects.team_id AND teams.deleted_at IS NULL").
		Where("teams.hackathon_id = ? AND projects.submitted = true", hackathonID).
		Order("projects.submitted_at DESC").
		Scan(&projects).Error

	if err != nil {
		s.logger.Errorw("failed to list projects to evaluate", "hackathonID", hackathonID, "err", err)
		return nil, err
	}

	return projects, nil
}

// Rankings recomputes the leaderboard from scratch: mean overall score across
// submitted evaluations, per submitted project. Projects without a single
// submitted evaluation are left out entirely rather than scored as zero. Ties
// order by evaluation count, then team name, so the output is deterministic.
func (s *EvaluationService) Rankings(hackathonID uint) ([]RankingEntry, error) {
	s.logger.Debugw("Rankings()", "hackathonID", hackathonID)

	var hackathon models.Hackathon
	if err := s.db.First(&hackathon, hackathonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHackathonNotFound
		}
		return nil, err
	}

	var entries []RankingEntry
	err := s.db.Model(&models.Project{}).
		Select(`projects.id AS project_id, teams.name AS team_name, projects.title AS project_title,
			projects.github_url, projects.demo_url,
			AVG(evaluations.overall_score) AS final_score,
			COUNT(evaluations.id) AS evaluation_count`).
		Joins("JOIN teams ON teams.id = projects.team_id AND teams.deleted_at IS NULL").
		Joins("JOIN evaluations ON evaluations.project_id = projects.id AND evaluations.submitted = true AND evaluations.deleted_at IS NULL").
		Where("teams.hackathon_id = ? AND projects.submitted = true", hackathonID).
		Group("projects.id, teams.name").
		Order("final_score DESC, evaluation_count DESC, team_name ASC").
		Scan(&entries).Error

	if err != nil {
		s.logger.Errorw("failed to compute rankings", "hackathonID", hackathonID, "err", err)
		return nil, err
	}

	return entries, nil
}

// HackathonIDForProject resolves the hackathon a project belongs to.
func (s *EvaluationService) HackathonIDForProject(projectID uint) (uint, error) {
	var project models.Project
	err := s.db.Preload("Team").First(&project, projectID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProjectNotFound
		}
		return 0, err
	}

	return project.Team.HackathonID, nil
}

func (s *EvaluationService) assignment(hackathonID, juryID uint) error {
	var assignment models.JuryAssignment
	err := s.db.Where("hackathon_id = ? AND jury_id = ?", hackathonID, juryID).First(&assignment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotAssigned
		}
		return err
	}

	return nil
}
