package mocks

import "maidhub/internal/repositories"

// Repositories bundles one mock per repository. Repository() exposes them as
// the aggregate the controllers receive.
type Repositories struct {
	User         *MockUserRepository
	Job          *MockJobRepository
	History      *MockHistoryRepository
	Application  *MockApplicationRepository
	Message      *MockMessageRepository
	Report       *MockReportRepository
	Notification *MockNotificationRepository
	File         *MockFileRepository
	Rating       *MockRatingRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		User:         &MockUserRepository{},
		Job:          &MockJobRepository{},
		History:      &MockHistoryRepository{},
		Application:  &MockApplicationRepository{},
		Message:      &MockMessageRepository{},
		Report:       &MockReportRepository{},
		Notification: &MockNotificationRepository{},
		File:         &MockFileRepository{},
		Rating:       &MockRatingRepository{},
	}
}

func (r *Repositories) Repository() repositories.Repository {
	return repositories.Repository{
		User:         r.User,
		Job:          r.Job,
		History:      r.History,
		Application:  r.Application,
		Message:      r.Message,
		Report:       r.Report,
		Notification: r.Notification,
		File:         r.File,
		Rating:       r.Rating,
	}
}
