package applicationController

import (
	"context"

	"maidhub/config"
	"maidhub/internal/database"
	ierr "maidhub/internal/errors"
	. "maidhub/internal/models"
	"maidhub/internal/repositories"
	"maidhub/internal/services"
	"maidhub/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type ApplicationController struct {
	applicationRepo repositories.ApplicationRepository
	jobRepo         repositories.JobRepository
	userRepo        repositories.UserRepository
	transaction     *services.TransactionService
	lifecycle       *services.JobLifecycleService
	notifier        *services.NotifierService
	db              database.DB
	Config          config.Config
	log             logger.Logger
}

type ApplicationControllerInterface interface {
	Apply(ctx context.Context, user *User, jobID uuid.UUID, req *ApplyRequest) (*Application, error)
	ListForJob(ctx context.Context, user *User, jobID uuid.UUID) ([]*Application, error)
	ListMine(ctx context.Context, user *User) ([]*Application, error)
	UpdateStatus(
		ctx context.Context,
		user *User,
		applicationID uuid.UUID,
		req *UpdateStatusRequest,
	) (*Application, error)
}

type ApplyRequest struct {
	Message string `json:"message" validate:"max=2000"`
}

type UpdateStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required,oneof=ACCEPTED REJECTED"`
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) ApplicationControllerInterface {
	return &ApplicationController{
		applicationRepo: repos.Application,
		jobRepo:         repos.Job,
		userRepo:        repos.User,
		transaction:     services.Transaction,
		lifecycle:       services.Lifecycle,
		notifier:        services.Notifier,
		db:              db,
		Config:          config,
		log:             logger.New("applicationController"),
	}
}

// Apply creates a PENDING application, or refreshes the message of the maid's
// existing PENDING one. Only the first application notifies the client.
func (ac *ApplicationController) Apply(
	ctx context.Context,
	user *User,
	jobID uuid.UUID,
	req *ApplyRequest,
) (*Application, error) {
	log := ac.log.Function("Apply")

	if !user.IsMaid() {
		return nil, ierr.Forbidden("Only maids can apply to jobs")
	}

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	message := utils.CleanText(req.Message)

	var application *Application
	err := ac.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		job, err := ac.jobRepo.GetForUpdate(ctx, tx, jobID)
		if err != nil {
			return err
		}

		if job.Status != JobStatusOpen {
			return ierr.InvalidState("This job is no longer accepting applications")
		}

		existing, err := ac.applicationRepo.FindByJobAndMaid(ctx, tx, job.ID, user.ID)
		if err != nil {
			return err
		}

		if existing != nil {
			if !existing.IsPending() {
				return ierr.InvalidState("Your application for this job has already been decided")
			}

			existing.Message = message
			application = existing
			return ac.applicationRepo.Save(ctx, tx, existing)
		}

		application = &Application{
			JobID:   job.ID,
			MaidID:  user.ID,
			Message: message,
			Status:  ApplicationStatusPending,
		}
		if err := ac.applicationRepo.Create(ctx, tx, application); err != nil {
			return err
		}

		log.Info("Application created", "applicationID", application.ID, "jobID", job.ID, "maidID", user.ID)

		return ac.notifier.Notify(
			ctx, tx, job.ClientID, &job.ID,
			NotificationInfo, services.NoticeApplicationReceived, user.FullName(), job.Title,
		)
	})
	if err != nil {
		return nil, err
	}

	return application, nil
}

func (ac *ApplicationController) ListForJob(
	ctx context.Context,
	user *User,
	jobID uuid.UUID,
) ([]*Application, error) {
	job, err := ac.jobRepo.GetByID(ctx, ac.db.SQL, jobID)
	if err != nil {
		return nil, err
	}

	if job.ClientID != user.ID && !user.IsAdmin() {
		return nil, ierr.Forbidden("Only the job's client can view its applications")
	}

	return ac.applicationRepo.ListByJob(ctx, ac.db.SQL, job.ID)
}

func (ac *ApplicationController) ListMine(ctx context.Context, user *User) ([]*Application, error) {
	if !user.IsMaid() {
		return nil, ierr.Forbidden("Only maids have applications")
	}

	return ac.applicationRepo.ListByMaid(ctx, ac.db.SQL, user.ID)
}

// UpdateStatus accepts or rejects a PENDING application. The job row is
// locked before the application row, the same order Apply uses, and both
// locks are held before anything is written.
func (ac *ApplicationController) UpdateStatus(
	ctx context.Context,
	user *User,
	applicationID uuid.UUID,
	req *UpdateStatusRequest,
) (*Application, error) {
	log := ac.log.Function("UpdateStatus")

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	var application *Application
	err := ac.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		target, err := ac.applicationRepo.GetByID(ctx, tx, applicationID)
		if err != nil {
			return err
		}

		job, err := ac.jobRepo.GetForUpdate(ctx, tx, target.JobID)
		if err != nil {
			return err
		}

		locked, err := ac.applicationRepo.GetForUpdate(ctx, tx, target.ID)
		if err != nil {
			return err
		}
		application = locked

		if job.ClientID != user.ID && !user.IsAdmin() {
			return ierr.Forbidden("Only the job's client can decide on applications")
		}

		if locked.Status == req.Status {
			return nil
		}

		if !locked.IsPending() {
			return ierr.InvalidState("This application has already been decided")
		}

		if req.Status == ApplicationStatusAccepted {
			return ac.accept(ctx, tx, user, job, locked)
		}

		return ac.reject(ctx, tx, job, locked)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Application decided", "applicationID", application.ID, "status", application.Status)

	return application, nil
}

// accept runs the accept flow: assign the maid, move the job to IN_PROGRESS,
// close every other pending application and notify all parties.
func (ac *ApplicationController) accept(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	job *Job,
	application *Application,
) error {
	if job.Status != JobStatusOpen ||
		(job.AssignedMaidID != nil && *job.AssignedMaidID != application.MaidID) {
		return ierr.InvalidState("Another maid has already been assigned to this job")
	}

	now := ac.lifecycle.Now()
	application.Status = ApplicationStatusAccepted
	application.DecidedAt = &now
	if err := ac.applicationRepo.Save(ctx, tx, application); err != nil {
		return err
	}

	job.AssignedMaidID = &application.MaidID
	if err := ac.lifecycle.Transition(
		ctx, tx, job,
		JobStatusInProgress, services.NoteMaidAssigned, &user.ID,
	); err != nil {
		return err
	}

	if err := ac.notifier.Notify(
		ctx, tx, application.MaidID, &job.ID,
		NotificationSuccess, services.NoticeApplicationAccepted, job.Title,
	); err != nil {
		return err
	}

	others, err := ac.applicationRepo.ListPendingForUpdate(ctx, tx, job.ID, application.ID)
	if err != nil {
		return err
	}

	if len(others) > 0 {
		ids := lo.Map(others, func(a *Application, _ int) uuid.UUID { return a.ID })
		if err := ac.applicationRepo.RejectMany(ctx, tx, ids, now); err != nil {
			return err
		}

		for _, other := range others {
			if err := ac.notifier.Notify(
				ctx, tx, other.MaidID, &job.ID,
				NotificationError, services.NoticeApplicationClosed, job.Title,
			); err != nil {
				return err
			}
		}
	}

	maid, err := ac.userRepo.GetByID(ctx, tx, application.MaidID)
	if err != nil {
		return err
	}

	return ac.notifier.Notify(
		ctx, tx, job.ClientID, &job.ID,
		NotificationInfo, services.NoticeMaidAssigned, maid.FullName(), job.Title,
	)
}

func (ac *ApplicationController) reject(
	ctx context.Context,
	tx *gorm.DB,
	job *Job,
	application *Application,
) error {
	now := ac.lifecycle.Now()
	application.Status = ApplicationStatusRejected
	application.DecidedAt = &now
	if err := ac.applicationRepo.Save(ctx, tx, application); err != nil {
		return err
	}

	return ac.notifier.Notify(
		ctx, tx, application.MaidID, &job.ID,
		NotificationError, services.NoticeApplicationRejected, job.Title,
	)
}
