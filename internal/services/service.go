package services

import (
	"context"

	"maidhub/config"
	"maidhub/internal/database"
	"maidhub/internal/repositories"
)

type Service struct {
	Transaction    *TransactionService
	Scheduler      *SchedulerService
	Token          *TokenService
	Storage        ObjectStore
	TextGeneration TextGenerator
	Places         PlacesProvider
	Notifier       *NotifierService
	Lifecycle      *JobLifecycleService
	FileCleanup    *FileCleanupService
}

func New(
	ctx context.Context,
	db database.DB,
	config config.Config,
	repos repositories.Repository,
) (Service, error) {
	transactionService := NewTransactionService(db)

	storageService, err := NewStorageService(ctx, config)
	if err != nil {
		return Service{}, err
	}

	return Service{
		Transaction:    transactionService,
		Scheduler:      NewSchedulerService(),
		Token:          NewTokenService(config),
		Storage:        storageService,
		TextGeneration: NewTextGenerationService(config),
		Places:         NewPlacesService(config, db.Cache.General),
		Notifier:       NewNotifierService(repos.Notification),
		Lifecycle:      NewJobLifecycleService(db, transactionService, repos),
		FileCleanup:    NewFileCleanupService(db, repos.File, storageService),
	}, nil
}
