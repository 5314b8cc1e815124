package repositories

import (
	"context"

	. "maidhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rating *Rating) error
	Exists(ctx context.Context, tx *gorm.DB, jobID, raterID uuid.UUID) (bool, error)
}

type ratingRepository struct {
	log logger.Logger
}

func NewRatingRepository() RatingRepository {
	return &ratingRepository{
		log: logger.New("ratingRepository"),
	}
}

func (r *ratingRepository) Create(ctx context.Context, tx *gorm.DB, rating *Rating) error {
	log := r.log.Function("Create")

	if err := gorm.G[Rating](tx).Create(ctx, rating); err != nil {
		return log.Err("failed to create rating", err, "jobID", rating.JobID, "raterID", rating.RaterID)
	}

	return nil
}

func (r *ratingRepository) Exists(ctx context.Context, tx *gorm.DB, jobID, raterID uuid.UUID) (bool, error) {
	log := r.log.Function("Exists")

	count, err := gorm.G[Rating](tx).
		Where("job_id = ? AND rater_id = ?", jobID, raterID).
		Count(ctx, "id")
	if err != nil {
		return false, log.Err("failed to check rating", err, "jobID", jobID)
	}

	return count > 0, nil
}
