package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hackhub-dev/hackhub/internal/models"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Hackathon{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Project{},
		&models.JuryAssignment{},
		&models.Evaluation{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
