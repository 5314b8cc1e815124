package database

import (
	"maidhub/internal/models"
)

// ModelsToMigrate lists every table owned by GORM, parents before children.
// Partial indexes and check constraints live in the SQL migrations.
var ModelsToMigrate = []any{
	&models.User{},
	&models.ExperienceAnswer{},
	&models.UserFile{},
	&models.Job{},
	&models.JobHistory{},
	&models.Application{},
	&models.Message{},
	&models.MessageRead{},
	&models.MessageReport{},
	&models.Notification{},
	&models.Rating{},
}
