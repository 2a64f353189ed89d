package models

import (
	"gorm.io/gorm"

	"github.com/hackhub-dev/hackhub/internal/types"
)

type User struct {
	gorm.Model

	Email          string     `gorm:"uniqueIndex;not null"`
	PasswordHash   string     `gorm:"not null"`
	FullName       string     `gorm:"not null"`
	Role           types.Role `gorm:"not null;default:participant"`
	Bio            string
	GithubUsername string

	// Relationships
	OrganizedHackathons []Hackathon      `gorm:"foreignKey:OrganizerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	LedTeams            []Team           `gorm:"foreignKey:LeaderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships         []TeamMembership `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	JuryAssignments     []JuryAssignment `gorm:"foreignKey:JuryID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Evaluations         []Evaluation     `gorm:"foreignKey:JuryID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
