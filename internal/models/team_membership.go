package models

import (
	"gorm.io/gorm"

	"github.com/hackhub-dev/hackhub/internal/types"
)

// TeamMembership doubles as the join request: a row is created as pending and
// flipped to accepted or rejected by the team leader. The uniqueIndex keeps a
// single row per (team, user) pair, so a rejected request cannot be re-sent.
type TeamMembership struct {
	gorm.Model

	TeamID uint                   `gorm:"not null;uniqueIndex:idx_team_user"`
	UserID uint                   `gorm:"not null;uniqueIndex:idx_team_user"`
	Status types.MembershipStatus `gorm:"not null;default:pending"`
	Role   types.MembershipRole   `gorm:"not null;default:member"`

	// Relationships
	Team Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
