package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Role is the account role fixed at registration. There is no role-change flow.
type Role string

const (
	RoleOrganizer   Role = "organizer"
	RoleJury        Role = "jury"
	RoleParticipant Role = "participant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOrganizer, RoleJury, RoleParticipant:
		return true
	}
	return false
}

type HackathonStatus string

const (
	HackathonDraft            HackathonStatus = "draft"
	HackathonOpenRegistration HackathonStatus = "open_registration"
	HackathonOngoing          HackathonStatus = "ongoing"
	HackathonCompleted        HackathonStatus = "completed"
	HackathonCancelled        HackathonStatus = "cancelled"
)

func (s HackathonStatus) Valid() bool {
	switch s {
	case HackathonDraft, HackathonOpenRegistration, HackathonOngoing, HackathonCompleted, HackathonCancelled:
		return true
	}
	return false
}

// MembershipStatus tracks a join request: pending until the team leader
// approves or rejects it. Accepted and rejected are terminal.
type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "pending"
	MembershipAccepted MembershipStatus = "accepted"
	MembershipRejected MembershipStatus = "rejected"
)

type MembershipRole string

const (
	MembershipLeader MembershipRole = "leader"
	MembershipMember MembershipRole = "member"
)

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
