package services_test

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/hackhub-dev/hackhub/internal/services"
	"github.com/hackhub-dev/hackhub/internal/types"
)

var membershipColumns = []string{"id", "team_id", "user_id", "status", "role"}

func TestCreateTeam_Success(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "hackathons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns))
	mock.ExpectQuery(`INSERT INTO "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`INSERT INTO "team_memberships"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	team, err := svc.CreateTeam(2, 9, "bitshifters", "late night crew")

	require.NoError(t, err)
	require.Equal(t, uint(7), team.ID)
	require.Equal(t, uint(9), team.LeaderID)
	require.Equal(t, "bitshifters", team.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTeam_HackathonNotFound(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "hackathons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := svc.CreateTeam(42, 9, "bitshifters", "")

	require.ErrorIs(t, err, services.ErrHackathonNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTeam_AlreadyInTeam(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "hackathons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns).
			AddRow(3, 4, 9, types.MembershipAccepted, types.MembershipMember))
	mock.ExpectRollback()

	_, err := svc.CreateTeam(2, 9, "bitshifters", "")

	require.ErrorIs(t, err, services.ErrAlreadyInTeam)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTeam_NameTaken(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "hackathons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns))
	mock.ExpectQuery(`INSERT INTO "teams"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_hackathon_team_name" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	_, err := svc.CreateTeam(2, 9, "bitshifters", "")

	require.ErrorIs(t, err, services.ErrTeamNameTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestJoin_Success(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns))
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "team_memberships"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	membership, err := svc.RequestJoin(5, 3)

	require.NoError(t, err)
	require.Equal(t, uint(11), membership.ID)
	require.Equal(t, types.MembershipPending, membership.Status)
	require.Equal(t, types.MembershipMember, membership.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestJoin_TeamNotFound(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.RequestJoin(5, 3)

	require.ErrorIs(t, err, services.ErrTeamNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestJoin_ExistingRowConflicts(t *testing.T) {
	tests := []struct {
		name    string
		status  types.MembershipStatus
		wantErr error
	}{
		{"already a member", types.MembershipAccepted, services.ErrAlreadyMember},
		{"request still pending", types.MembershipPending, services.ErrRequestPending},
		{"request was rejected", types.MembershipRejected, services.ErrRequestRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gdb, mock, closeFn := newMockDB(t)
			defer closeFn()

			svc := services.NewMembershipService(testLogger(), gdb)

			mock.ExpectQuery(`FROM "teams"`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))
			mock.ExpectQuery(`FROM "team_memberships"`).
				WillReturnRows(sqlmock.NewRows(membershipColumns).
					AddRow(11, 5, 3, tt.status, types.MembershipMember))

			_, err := svc.RequestJoin(5, 3)

			require.ErrorIs(t, err, tt.wantErr)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRequestJoin_AcceptedElsewhereInHackathon(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns))
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns).
			AddRow(8, 4, 3, types.MembershipAccepted, types.MembershipMember))

	_, err := svc.RequestJoin(5, 3)

	require.ErrorIs(t, err, services.ErrAlreadyInTeam)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_Success(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns).
			AddRow(11, 5, 3, types.MembershipPending, types.MembershipMember))
	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns))
	mock.ExpectExec(`UPDATE "team_memberships"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns).
			AddRow(11, 5, 3, types.MembershipAccepted, types.MembershipMember))

	request, err := svc.Approve(11, 9)

	require.NoError(t, err)
	require.Equal(t, types.MembershipAccepted, request.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_RequestNotFound(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns))
	mock.ExpectRollback()

	_, err := svc.Approve(11, 9)

	require.ErrorIs(t, err, services.ErrRequestNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove_NotLeader(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns).
			AddRow(11, 5, 3, types.MembershipPending, types.MembershipMember))
	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))
	mock.ExpectRollback()

	_, err := svc.Approve(11, 3)

	require.ErrorIs(t, err, services.ErrNotLeader)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The requester joined another team between requesting and approval; the
// transaction must fail instead of accepting a second membership.
func TestApprove_AcceptedElsewhereSinceRequest(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns).
			AddRow(11, 5, 3, types.MembershipPending, types.MembershipMember))
	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns).
			AddRow(14, 6, 3, types.MembershipAccepted, types.MembershipMember))
	mock.ExpectRollback()

	_, err := svc.Approve(11, 9)

	require.ErrorIs(t, err, services.ErrAlreadyInTeam)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReject_Success(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns).
			AddRow(11, 5, 3, types.MembershipPending, types.MembershipMember))
	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))
	mock.ExpectExec(`UPDATE "team_memberships"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns).
			AddRow(11, 5, 3, types.MembershipRejected, types.MembershipMember))

	request, err := svc.Reject(11, 9)

	require.NoError(t, err)
	require.Equal(t, types.MembershipRejected, request.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingRequests_LeaderOnly(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))

	_, err := svc.PendingRequests(5, 3)

	require.ErrorIs(t, err, services.ErrNotLeader)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingRequests_Success(t *testing.T) {
	gdb, mock, closeFn := newMockDB(t)
	defer closeFn()

	svc := services.NewMembershipService(testLogger(), gdb)

	mock.ExpectQuery(`FROM "teams"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "hackathon_id", "leader_id"}).AddRow(5, 2, 9))
	mock.ExpectQuery(`FROM "team_memberships"`).
		WillReturnRows(sqlmock.NewRows(membershipColumns).
			AddRow(11, 5, 3, types.MembershipPending, types.MembershipMember).
			AddRow(12, 5, 4, types.MembershipPending, types.MembershipMember))
	mock.ExpectQuery(`FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email"}).
			AddRow(3, "Ada Byron", "ada@example.com").
			AddRow(4, "Grace Hopper", "grace@example.com"))

	requests, err := svc.PendingRequests(5, 9)

	require.NoError(t, err)
	require.Len(t, requests, 2)
	require.Equal(t, "Ada Byron", requests[0].User.FullName)
	require.NoError(t, mock.ExpectationsWereMet())
}
