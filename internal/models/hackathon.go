package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hackhub-dev/hackhub/internal/types"
)

type Hackathon struct {
	gorm.Model

	OrganizerID          uint   `gorm:"not null;index"`
	Title                string `gorm:"not null"`
	Description          string `gorm:"not null"`
	StartDate            time.Time
	EndDate              time.Time
	RegistrationDeadline time.Time
	MinTeamSize          int                   `gorm:"not null;default:1"`
	MaxTeamSize          int                   `gorm:"not null;default:4"`
	Status               types.HackathonStatus `gorm:"not null;default:draft"`
	IsOnline             bool                  `gorm:"not null;default:false"`
	Prizes               datatypes.JSON        `gorm:"type:jsonb"`

	// Relationships
	Organizer       User             `gorm:"foreignKey:OrganizerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Teams           []Team           `gorm:"foreignKey:HackathonID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	JuryAssignments []JuryAssignment `gorm:"foreignKey:HackathonID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
