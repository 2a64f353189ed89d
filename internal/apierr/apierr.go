package apierr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hackhub-dev/hackhub/internal/services"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrResponse struct {
	Error APIError `json:"error"`
}

// Map keeps response codes stable even if the underlying error text changes.
func Map(err error) (int, APIError, bool) {
	switch {
	case errors.Is(err, services.ErrHackathonNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, NotFound, true

	case errors.Is(err, services.ErrNotLeader):
		return http.StatusForbidden, NotLeader, true
	case errors.Is(err, services.ErrNotOrganizer):
		return http.StatusForbidden, NotOrganizer, true
	case errors.Is(err, services.ErrNotAssigned):
		return http.StatusForbidden, NotAssigned, true
	case errors.Is(err, services.ErrNotMember):
		return http.StatusForbidden, NotMember, true

	case errors.Is(err, services.ErrTeamNameTaken):
		return http.StatusConflict, TeamNameTaken, true
	case errors.Is(err, services.ErrAlreadyMember):
		return http.StatusConflict, AlreadyMember, true
	case errors.Is(err, services.ErrRequestPending):
		return http.StatusConflict, RequestPending, true
	case errors.Is(err, services.ErrRequestRejected):
		return http.StatusConflict, RequestRejected, true
	case errors.Is(err, services.ErrAlreadyInTeam):
		return http.StatusConflict, AlreadyInTeam, true
	case errors.Is(err, services.ErrAlreadyAssigned):
		return http.StatusConflict, AlreadyAssigned, true
	case errors.Is(err, services.ErrNotSubmitted):
		return http.StatusConflict, NotSubmitted, true
	case errors.Is(err, services.ErrNotJuryUser):
		return http.StatusConflict, NotJuryUser, true

	case errors.Is(err, services.ErrInvalidScores):
		return http.StatusBadRequest, InvalidScores, true
	case errors.Is(err, services.ErrInvalidDates):
		return http.StatusBadRequest, InvalidDates, true

	default:
		return http.StatusInternalServerError, InternalServerError, false
	}
}

func Handle(c *gin.Context, err error) bool {
	if status, apiErr, ok := Map(err); ok {
		WriteJSON(c, status, apiErr)
		return true
	}

	return false
}

func WriteJSON(c *gin.Context, status int, apiErr APIError) {
	c.JSON(status, ErrResponse{
		Error: apiErr,
	})
}
