package repositories

import (
	"errors"

	"maidhub/internal/database"
	ierr "maidhub/internal/errors"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	User         UserRepository
	Job          JobRepository
	History      HistoryRepository
	Application  ApplicationRepository
	Message      MessageRepository
	Report       ReportRepository
	Notification NotificationRepository
	File         FileRepository
	Rating       RatingRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:         NewUserRepository(db.Cache.User),
		Job:          NewJobRepository(),
		History:      NewHistoryRepository(),
		Application:  NewApplicationRepository(),
		Message:      NewMessageRepository(),
		Report:       NewReportRepository(),
		Notification: NewNotificationRepository(db.Cache.User),
		File:         NewFileRepository(),
		Rating:       NewRatingRepository(),
	}
}

// forUpdate adds SELECT ... FOR UPDATE to the query.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

// lookupErr converts a missing row into a NotFound domain error carrying hint
// and logs anything else as a database failure.
func lookupErr(log logger.Logger, err error, hint string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ierr.WithError(err).WithHint(hint).Mark(ierr.ErrNotFound)
	}
	return log.Err("database lookup failed", err, args...)
}
