package apierr_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hackhub-dev/hackhub/internal/apierr"
	"github.com/hackhub-dev/hackhub/internal/services"
)

func TestMap(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantKnown  bool
	}{
		{"team not found", services.ErrTeamNotFound, http.StatusNotFound, "NOT_FOUND", true},
		{"gorm record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "NOT_FOUND", true},
		{"not leader", services.ErrNotLeader, http.StatusForbidden, "NOT_TEAM_LEADER", true},
		{"not assigned", services.ErrNotAssigned, http.StatusForbidden, "JURY_NOT_ASSIGNED", true},
		{"team name taken", services.ErrTeamNameTaken, http.StatusConflict, "TEAM_NAME_TAKEN", true},
		{"already in team", services.ErrAlreadyInTeam, http.StatusConflict, "ALREADY_IN_TEAM", true},
		{"request rejected", services.ErrRequestRejected, http.StatusConflict, "REQUEST_REJECTED", true},
		{"invalid scores", services.ErrInvalidScores, http.StatusBadRequest, "INVALID_SCORES", true},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, apiErr, known := apierr.Map(tt.err)

			require.Equal(t, tt.wantStatus, status)
			require.Equal(t, tt.wantCode, apiErr.Code)
			require.Equal(t, tt.wantKnown, known)
		})
	}
}
