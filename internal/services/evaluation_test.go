package services_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/hackhub-dev/hackhub/internal/services"
)

var evaluationColumns = []string{
	"id", "project_id", "jury_id",
	"innovation_score", "technical_score", "presentation_score", "usefulness_score",
	"overall_score", "comments", "submitted",
}

func TestScoresOverall(t *testing.T) {
	tests := []struct {
		name   string
		scores services.Scores
		want   float64
	}{
		{"mixed", services.Scores{Innovation: 8, Technical: 7, Presentation: 9, Usefulness: 6}, 7.5},
		{"all max", services.Scores{Innovation: 10, Technical: 10, Presentation: 10, Usefulness: 10}, 10},
		{"all zero", services.Scores{}, 0},
		{"fractional", services.Scores{Innovation: 7.5, Technical: 8, Presentation: 6.5, Usefulness: 9}, 7.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, tt.scores.Overall(), 1e-9)
		})
	}
}

func TestScoresValid(t *testing.T) {
	tests := []struct {
		name   string
		scores services.Scores
		want   bool
	}{
		{"in range", services.Scores{Innovation: 5, Technical: 0, Presentation: 10, Usefulness: 7.5}, true},
		{"negative", services.Scores{Innovation: -0.1, Technical: 5, Presentation: 5, Usefulness: 5}, false},
		{"above ten", services.Scores{Innovation: 5, Technical: 10.5, Presentation: 5, Usefulness: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.scores.Valid())
		})
	}
}

func TestEvaluate_InvalidScores(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewEvaluationService(testLogger(), gdb)

	_, err := svc.Evaluate(3, 6, services.Scores{Innovation: 11}, "", true)

	require.ErrorIs(t, err, services.ErrInvalidScores)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluate_CreatesEvaluation(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewEvaluationService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "submitted"}).AddRow(3, 5, true))
	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))
	mock.ExpectQuery(`FROM "jury_assignments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "jury_id"}).AddRow(1, 2, 6))
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "evaluations"`).
		WillReturnRows(sqlmock.NewRows(evaluationColumns))
	mock.ExpectQuery(`INSERT INTO "evaluations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectCommit()

	scores := services.Scores{Innovation: 8, Technical: 7, Presentation: 9, Usefulness: 6}
	evaluation, err := svc.Evaluate(3, 6, scores, "solid demo", true)

	require.NoError(t, err)
	require.Equal(t, uint(4), evaluation.ID)
	require.InDelta(t, 7.5, evaluation.OverallScore, 1e-9)
	require.True(t, evaluation.Submitted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluate_UpdatesExistingEvaluation(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewEvaluationService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "submitted"}).AddRow(3, 5, true))
	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))
	mock.ExpectQuery(`FROM "jury_assignments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "jury_id"}).AddRow(1, 2, 6))
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "evaluations"`).
		WillReturnRows(sqlmock.NewRows(evaluationColumns).
			AddRow(4, 3, 6, 5, 5, 5, 5, 5, "first pass", false))
	mock.ExpectExec(`UPDATE "evaluations"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM "evaluations"`).
		WillReturnRows(sqlmock.NewRows(evaluationColumns).
			AddRow(4, 3, 6, 8, 7, 9, 6, 7.5, "second pass", true))
	mock.ExpectCommit()

	scores := services.Scores{Innovation: 8, Technical: 7, Presentation: 9, Usefulness: 6}
	evaluation, err := svc.Evaluate(3, 6, scores, "second pass", true)

	require.NoError(t, err)
	require.InDelta(t, 7.5, evaluation.OverallScore, 1e-9)
	require.Equal(t, "second pass", evaluation.Comments)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluate_ProjectNotSubmitted(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewEvaluationService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "submitted"}).AddRow(3, 5, false))
	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))

	scores := services.Scores{Innovation: 8, Technical: 7, Presentation: 9, Usefulness: 6}
	_, err := svc.Evaluate(3, 6, scores, "", true)

	require.ErrorIs(t, err, services.ErrNotSubmitted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEvaluate_NotAssigned(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewEvaluationService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "team_id", "submitted"}).AddRow(3, 5, true))
	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))
	mock.ExpectQuery(`FROM "jury_assignments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	scores := services.Scores{Innovation: 8, Technical: 7, Presentation: 9, Usefulness: 6}
	_, err := svc.Evaluate(3, 6, scores, "", true)

	require.ErrorIs(t, err, services.ErrNotAssigned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectsToEvaluate_NotAssigned(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewEvaluationService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "jury_assignments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.ProjectsToEvaluate(2, 6)

	require.ErrorIs(t, err, services.ErrNotAssigned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectsToEvaluate_Success(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewEvaluationService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "jury_assignments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "jury_id"}).AddRow(1, 2, 6))
	mock.ExpectQuery(`FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"project_id", "team_name", "title", "description", "github_url", "demo_url", "evaluated"}).
			AddRow(3, "bitshifters", "Crisis Mapper", "maps crises", "", "", true).
			AddRow(4, "nullpointers", "Bug Radar", "finds bugs", "", "", false))

	projects, err := svc.ProjectsToEvaluate(2, 6)

	require.NoError(t, err)
	require.Len(t, projects, 2)
	require.True(t, projects[0].Evaluated)
	require.False(t, projects[1].Evaluated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRankings_HackathonNotFound(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewEvaluationService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "hackathons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Rankings(42)

	require.ErrorIs(t, err, services.ErrHackathonNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The leaderboard keeps the database ordering: mean score descending, with
// evaluation count and team name breaking ties. Projects without submitted
// evaluations never appear.
func TestRankings_Success(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewEvaluationService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "hackathons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(`FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"project_id", "team_name", "project_title", "github_url", "demo_url", "final_score", "evaluation_count"}).
			AddRow(4, "nullpointers", "Bug Radar", "", "", 8.25, 3).
			AddRow(3, "bitshifters", "Crisis Mapper", "", "", 7.5, 2))

	rankings, err := svc.Rankings(2)

	require.NoError(t, err)
	require.Len(t, rankings, 2)
	require.Equal(t, "nullpointers", rankings[0].TeamName)
	require.InDelta(t, 8.25, rankings[0].FinalScore, 1e-9)
	require.Equal(t, 3, rankings[0].EvaluationCount)
	require.Equal(t, "bitshifters", rankings[1].TeamName)
	require.NoError(t, mock.ExpectationsWereMet())
}
