package seed

import (
	"time"

	"maidhub/config"
	"maidhub/internal/services"

	. "maidhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const SEED_PASSWORD = "password123"

// Seed creates development accounts and one open job. It is only run by the
// seed command, which starts from an empty schema.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding development data", "environment", config.Environment)

	hash, err := bcrypt.GenerateFromPassword([]byte(SEED_PASSWORD), bcrypt.DefaultCost)
	if err != nil {
		return log.Err("failed to hash seed password", err)
	}

	years := 6
	rate := decimal.NewFromInt(12)
	users := []*User{
		{Email: "admin@example.com", Role: RoleAdmin, FirstName: "Admin", LastName: "User"},
		{Email: "client@example.com", Role: RoleClient, FirstName: "Ivana", LastName: "Horvat", City: "Zagreb"},
		{
			Email:           "maid@example.com",
			Role:            RoleMaid,
			FirstName:       "Marija",
			LastName:        "Kovac",
			City:            "Zagreb",
			HourlyRate:      &rate,
			YearsExperience: &years,
			Services:        []string{"deep cleaning", "windows", "ironing"},
		},
	}

	for _, user := range users {
		user.PasswordHash = string(hash)
		user.IsActive = true
		if err := db.Create(user).Error; err != nil {
			return log.Err("failed to create user", err, "email", user.Email)
		}
		log.Info("Seeded user", "email", user.Email, "role", user.Role)
	}

	client, maid := users[1], users[2]

	answers := []*ExperienceAnswer{
		{UserID: maid.ID, QuestionKey: "pets", Values: []string{"dogs", "cats"}},
		{UserID: maid.ID, QuestionKey: "equipment", Values: []string{"own supplies"}},
	}
	if err := db.Create(&answers).Error; err != nil {
		return log.Err("failed to create experience answers", err)
	}

	workDate := time.Now().UTC().AddDate(0, 0, 7).Format(WorkDateLayout)
	address := "Ilica 10, Zagreb"
	job := &Job{
		ClientID:    client.ID,
		Title:       "Two bedroom apartment clean",
		Description: "Weekly clean of a two bedroom apartment, kitchen and one bathroom.",
		Area:        "Donji grad",
		Address:     &address,
		Price:       decimal.NewFromInt(60),
		PaymentType: PaymentTypeFixed,
		Rooms:       2,
		Bathrooms:   1,
		WorkDates:   []string{workDate},
		Status:      JobStatusOpen,
	}
	if err := db.Create(job).Error; err != nil {
		return log.Err("failed to create job", err)
	}

	history := &JobHistory{
		JobID:     job.ID,
		Status:    JobStatusOpen,
		Note:      services.NoteJobPosted,
		ChangedBy: &client.ID,
	}
	if err := db.Create(history).Error; err != nil {
		return log.Err("failed to create job history", err)
	}

	log.Info("Seed complete", "users", len(users), "jobID", job.ID)
	return nil
}
