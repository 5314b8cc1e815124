package testutil

import (
	"maidhub/internal/database"
	"maidhub/internal/repositories"
	"maidhub/internal/services"
)

// NewServices wires the in-process services controllers depend on around db
// and repos. Collaborators that talk to the outside world are left nil.
func NewServices(db database.DB, repos repositories.Repository) services.Service {
	transaction := services.NewTransactionService(db)

	return services.Service{
		Transaction: transaction,
		Notifier:    services.NewNotifierService(repos.Notification),
		Lifecycle:   services.NewJobLifecycleService(db, transaction, repos),
	}
}
