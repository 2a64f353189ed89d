package models

import "gorm.io/gorm"

// Evaluation holds one jury member's scores for one project. OverallScore is
// the arithmetic mean of the four sub-scores and is recomputed on every save.
type Evaluation struct {
	gorm.Model

	ProjectID         uint    `gorm:"not null;uniqueIndex:idx_project_jury"`
	JuryID            uint    `gorm:"not null;uniqueIndex:idx_project_jury"`
	InnovationScore   float64 `gorm:"not null"`
	TechnicalScore    float64 `gorm:"not null"`
	PresentationScore float64 `gorm:"not null"`
	UsefulnessScore   float64 `gorm:"not null"`
	OverallScore      float64 `gorm:"not null"`
	Comments          string
	Submitted         bool `gorm:"not null;default:false"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Jury    User    `gorm:"foreignKey:JuryID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
