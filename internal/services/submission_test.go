package services_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/hackhub-dev/hackhub/internal/services"
	"github.com/hackhub-dev/hackhub/internal/types"
)

var projectColumns = []string{"id", "team_id", "title", "description", "github_url", "demo_url", "submitted", "submitted_at"}

func TestSubmit_CreatesFinalProject(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewSubmissionService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "projects"`).
		WillReturnRows(sqlmock.NewRows(projectColumns))
	mock.ExpectQuery(`INSERT INTO "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	project, err := svc.Submit(5, 9, services.ProjectFields{
		Title:     "Crisis Mapper",
		GithubURL: "https://github.com/bitshifters/crisis-mapper",
	}, true)

	require.NoError(t, err)
	require.Equal(t, uint(3), project.ID)
	require.True(t, project.Submitted)
	require.NotNil(t, project.SubmittedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Saving a draft over a previously submitted project reverts it to draft and
// clears the submission timestamp.
func TestSubmit_DraftRevertsSubmission(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewSubmissionService(testLogger(), gdb)

	submittedAt := time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "projects"`).
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow(3, 5, "Crisis Mapper", "", "", "", true, submittedAt))
	mock.ExpectExec(`UPDATE "projects"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM "projects"`).
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow(3, 5, "Crisis Mapper v2", "", "", "", false, nil))
	mock.ExpectCommit()

	project, err := svc.Submit(5, 9, services.ProjectFields{Title: "Crisis Mapper v2"}, false)

	require.NoError(t, err)
	require.Equal(t, "Crisis Mapper v2", project.Title)
	require.False(t, project.Submitted)
	require.Nil(t, project.SubmittedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_TeamNotFound(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewSubmissionService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Submit(5, 9, services.ProjectFields{Title: "x"}, false)

	require.ErrorIs(t, err, services.ErrTeamNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmit_NotLeader(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewSubmissionService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))

	_, err := svc.Submit(5, 3, services.ProjectFields{Title: "x"}, true)

	require.ErrorIs(t, err, services.ErrNotLeader)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_Success(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewSubmissionService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns).
			AddRow(11, 5, 3, types.MembershipAccepted, types.MembershipMember))
	mock.ExpectQuery(`FROM "projects"`).
		WillReturnRows(sqlmock.NewRows(projectColumns).
			AddRow(3, 5, "Crisis Mapper", "maps crises", "", "", true, time.Now()))

	project, err := svc.Get(5, 3)

	require.NoError(t, err)
	require.Equal(t, "Crisis Mapper", project.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotMember(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewSubmissionService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns))

	_, err := svc.Get(5, 3)

	require.ErrorIs(t, err, services.ErrNotMember)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_ProjectNotFound(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewSubmissionService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns).
			AddRow(11, 5, 3, types.MembershipAccepted, types.MembershipMember))
	mock.ExpectQuery(`FROM "projects"`).
		WillReturnRows(sqlmock.NewRows(projectColumns))

	_, err := svc.Get(5, 3)

	require.ErrorIs(t, err, services.ErrProjectNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
