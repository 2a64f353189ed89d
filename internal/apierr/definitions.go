package apierr

var (
	BadRequest = APIError{
		Code:    "INVALID_REQUEST",
		Message: "invalid request body",
	}
	Unauthorized = APIError{
		Code:    "UNAUTHORIZED_REQUEST",
		Message: "unauthorized request",
	}
	NotFound = APIError{
		Code:    "NOT_FOUND",
		Message: "resource not found",
	}
	InternalServerError = APIError{
		Code:    "INTERNAL_SERVER_ERROR",
		Message: "internal server error",
	}
	NotLeader = APIError{
		Code:    "NOT_TEAM_LEADER",
		Message: "only the team leader may perform this action",
	}
	NotOrganizer = APIError{
		Code:    "NOT_ORGANIZER",
		Message: "only the hackathon organizer may perform this action",
	}
	NotAssigned = APIError{
		Code:    "JURY_NOT_ASSIGNED",
		Message: "jury member is not assigned to this hackathon",
	}
	NotMember = APIError{
		Code:    "NOT_TEAM_MEMBER",
		Message: "you are not a member of this team",
	}
	TeamNameTaken = APIError{
		Code:    "TEAM_NAME_TAKEN",
		Message: "a team with this name already exists in this hackathon",
	}
	AlreadyMember = APIError{
		Code:    "ALREADY_MEMBER",
		Message: "you are already a member of this team",
	}
	RequestPending = APIError{
		Code:    "REQUEST_PENDING",
		Message: "you already have a pending request for this team",
	}
	RequestRejected = APIError{
		Code:    "REQUEST_REJECTED",
		Message: "your previous request to this team was rejected",
	}
	AlreadyInTeam = APIError{
		Code:    "ALREADY_IN_TEAM",
		Message: "you are already in a team for this hackathon",
	}
	AlreadyAssigned = APIError{
		Code:    "JURY_ALREADY_ASSIGNED",
		Message: "jury member is already assigned to this hackathon",
	}
	NotSubmitted = APIError{
		Code:    "PROJECT_NOT_SUBMITTED",
		Message: "project has not been submitted for evaluation",
	}
	NotJuryUser = APIError{
		Code:    "USER_NOT_JURY",
		Message: "user does not have the jury role",
	}
	InvalidScores = APIError{
		Code:    "INVALID_SCORES",
		Message: "all four scores are required and must be between 0 and 10",
	}
	InvalidDates = APIError{
		Code:    "INVALID_DATES",
		Message: "registration deadline must precede the start date",
	}
)
