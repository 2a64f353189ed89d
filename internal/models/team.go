package models

import "gorm.io/gorm"

type Team struct {
	gorm.Model

	HackathonID uint   `gorm:"not null;uniqueIndex:idx_hackathon_team_name"`
	Name        string `gorm:"not null;uniqueIndex:idx_hackathon_team_name"`
	LeaderID    uint   `gorm:"not null;index"`
	Description string

	// Relationships
	Hackathon   Hackathon        `gorm:"foreignKey:HackathonID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Leader      User             `gorm:"foreignKey:LeaderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Memberships []TeamMembership `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Project     *Project         `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
