package controllers

import (
	"maidhub/config"
	"maidhub/internal/database"
	"maidhub/internal/events"
	"maidhub/internal/repositories"
	"maidhub/internal/services"

	applicationController "maidhub/internal/controllers/applications"
	assistController "maidhub/internal/controllers/assist"
	authController "maidhub/internal/controllers/auth"
	fileController "maidhub/internal/controllers/files"
	jobController "maidhub/internal/controllers/jobs"
	messageController "maidhub/internal/controllers/messages"
	notificationController "maidhub/internal/controllers/notifications"
	reportController "maidhub/internal/controllers/reports"
	userController "maidhub/internal/controllers/users"
)

type Controllers struct {
	Auth         authController.AuthControllerInterface
	User         userController.UserControllerInterface
	Job          jobController.JobControllerInterface
	Application  applicationController.ApplicationControllerInterface
	Message      messageController.MessageControllerInterface
	Report       reportController.ReportControllerInterface
	Notification notificationController.NotificationControllerInterface
	File         fileController.FileControllerInterface
	Assist       assistController.AssistControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Auth:         authController.New(repos, services, db),
		User:         userController.New(repos, services, config, db),
		Job:          jobController.New(repos, services, config, db),
		Application:  applicationController.New(repos, services, config, db),
		Message:      messageController.New(repos, services, eventBus, config, db),
		Report:       reportController.New(repos, services, config, db),
		Notification: notificationController.New(repos, db),
		File:         fileController.New(repos, services, db),
		Assist:       assistController.New(repos, services, db),
	}
}
