package services

import "errors"

// Workflow sentinel errors. Handlers map these to HTTP responses through the
// apierr package; everything else bubbles up as an internal error.
var (
	ErrHackathonNotFound = errors.New("HACKATHON_NOT_FOUND")
	ErrTeamNotFound      = errors.New("TEAM_NOT_FOUND")
	ErrProjectNotFound   = errors.New("PROJECT_NOT_FOUND")
	ErrRequestNotFound   = errors.New("REQUEST_NOT_FOUND")

	ErrNotLeader    = errors.New("NOT_TEAM_LEADER")
	ErrNotOrganizer = errors.New("NOT_ORGANIZER")
	ErrNotAssigned  = errors.New("JURY_NOT_ASSIGNED")
	ErrNotMember    = errors.New("NOT_TEAM_MEMBER")

	ErrTeamNameTaken   = errors.New("TEAM_NAME_TAKEN")
	ErrAlreadyMember   = errors.New("ALREADY_MEMBER")
	ErrRequestPending  = errors.New("REQUEST_PENDING")
	ErrRequestRejected = errors.New("REQUEST_REJECTED")
	ErrAlreadyInTeam   = errors.New("ALREADY_IN_TEAM")
	ErrAlreadyAssigned = errors.New("JURY_ALREADY_ASSIGNED")
	ErrNotSubmitted    = errors.New("PROJECT_NOT_SUBMITTED")
	ErrNotJuryUser     = errors.New("USER_NOT_JURY")

	ErrInvalidScores = errors.New("INVALID_SCORES")
	ErrInvalidDates  = errors.New("INVALID_DATES")
)
