package models

import "gorm.io/gorm"

// JuryAssignment grants a jury member visibility into a hackathon's submitted
// projects and the right to evaluate them.
type JuryAssignment struct {
	gorm.Model

	HackathonID uint `gorm:"not null;uniqueIndex:idx_hackathon_jury"`
	JuryID      uint `gorm:"not null;uniqueIndex:idx_hackathon_jury"`

	// Relationships
	Hackathon Hackathon `gorm:"foreignKey:HackathonID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Jury      User      `gorm:"foreignKey:JuryID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
