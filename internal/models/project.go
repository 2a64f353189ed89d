package models

import (
	"time"

	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	TeamID      uint   `gorm:"not null;uniqueIndex"`
	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`
	GithubURL   string
	DemoURL     string
	Submitted   bool `gorm:"not null;default:false"`
	SubmittedAt *time.Time

	// Relationships
	Team        Team         `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Evaluations []Evaluation `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
