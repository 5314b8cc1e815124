package jobController

import (
	"context"
	"time"

	"maidhub/config"
	"maidhub/internal/access"
	"maidhub/internal/database"
	ierr "maidhub/internal/errors"
	. "maidhub/internal/models"
	"maidhub/internal/repositories"
	"maidhub/internal/services"
	"maidhub/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DEFAULT_JOB_LIST_LIMIT = 200

type JobController struct {
	jobRepo         repositories.JobRepository
	historyRepo     repositories.HistoryRepository
	applicationRepo repositories.ApplicationRepository
	userRepo        repositories.UserRepository
	ratingRepo      repositories.RatingRepository
	transaction     *services.TransactionService
	lifecycle       *services.JobLifecycleService
	notifier        *services.NotifierService
	db              database.DB
	Config          config.Config
	log             logger.Logger
}

type JobControllerInterface interface {
	Create(ctx context.Context, user *User, req *CreateJobRequest) (*Job, error)
	List(ctx context.Context, user *User, filter ListJobsFilter) ([]*Job, error)
	Get(ctx context.Context, user *User, jobID uuid.UUID) (*Job, error)
	Update(ctx context.Context, user *User, jobID uuid.UUID, req *UpdateJobRequest) (*Job, error)
	Complete(ctx context.Context, user *User, jobID uuid.UUID) (*Job, error)
	Cancel(ctx context.Context, user *User, jobID uuid.UUID) (*Job, error)
	History(ctx context.Context, user *User, jobID uuid.UUID) ([]*JobHistory, error)
	Rate(ctx context.Context, user *User, jobID uuid.UUID, req *RateRequest) (*Rating, error)
}

type CreateJobRequest struct {
	Title       string          `json:"title"       validate:"required,max=200"`
	Description string          `json:"description" validate:"required,max=5000"`
	Area        string          `json:"area"        validate:"required,max=200"`
	Address     *string         `json:"address"     validate:"omitempty,max=500"`
	Latitude    *float64        `json:"latitude"    validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64        `json:"longitude"   validate:"omitempty,gte=-180,lte=180"`
	PlaceID     *string         `json:"placeId"     validate:"omitempty,max=300"`
	Price       decimal.Decimal `json:"price"`
	PaymentType PaymentType     `json:"paymentType" validate:"required,oneof=FIXED HOURLY"`
	Rooms       int             `json:"rooms"       validate:"gte=0,lte=100"`
	Bathrooms   int             `json:"bathrooms"   validate:"gte=0,lte=100"`
	AreaSize    *int            `json:"areaSize"    validate:"omitempty,gt=0"`
	WorkDate    *string         `json:"workDate"`
	WorkDates   []string        `json:"workDates"   validate:"max=60"`
}

// UpdateJobRequest is a partial update; nil fields are left unchanged.
type UpdateJobRequest struct {
	Title       *string          `json:"title"       validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,min=1,max=5000"`
	Area        *string          `json:"area"        validate:"omitempty,min=1,max=200"`
	Address     *string          `json:"address"     validate:"omitempty,max=500"`
	Latitude    *float64         `json:"latitude"    validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64         `json:"longitude"   validate:"omitempty,gte=-180,lte=180"`
	PlaceID     *string          `json:"placeId"     validate:"omitempty,max=300"`
	Price       *decimal.Decimal `json:"price"`
	PaymentType *PaymentType     `json:"paymentType" validate:"omitempty,oneof=FIXED HOURLY"`
	Rooms       *int             `json:"rooms"       validate:"omitempty,gte=0,lte=100"`
	Bathrooms   *int             `json:"bathrooms"   validate:"omitempty,gte=0,lte=100"`
	AreaSize    *int             `json:"areaSize"    validate:"omitempty,gt=0"`
	WorkDate    *string          `json:"workDate"`
	WorkDates   []string         `json:"workDates"   validate:"omitempty,max=60"`
}

type ListJobsFilter struct {
	Status *JobStatus
	Mine   bool
}

type RateRequest struct {
	Score   int    `json:"score"   validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) JobControllerInterface {
	return &JobController{
		jobRepo:         repos.Job,
		historyRepo:     repos.History,
		applicationRepo: repos.Application,
		userRepo:        repos.User,
		ratingRepo:      repos.Rating,
		transaction:     services.Transaction,
		lifecycle:       services.Lifecycle,
		notifier:        services.Notifier,
		db:              db,
		Config:          config,
		log:             logger.New("jobController"),
	}
}

func (jc *JobController) Create(ctx context.Context, user *User, req *CreateJobRequest) (*Job, error) {
	log := jc.log.Function("Create")

	if !user.IsClient() {
		return nil, ierr.Forbidden("Only clients can post jobs")
	}

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	if !req.Price.IsPositive() {
		return nil, ierr.Validation("price must be greater than 0")
	}

	workDates, err := utils.NormalizeWorkDates(req.WorkDates)
	if err != nil {
		return nil, err
	}

	workDate, err := parseWorkDate(req.WorkDate)
	if err != nil {
		return nil, err
	}

	if len(workDates) == 0 && workDate == nil {
		return nil, ierr.Validation("At least one work date is required")
	}

	job := &Job{
		ClientID:    user.ID,
		Title:       utils.CleanText(req.Title),
		Description: utils.CleanText(req.Description),
		Area:        utils.CleanText(req.Area),
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		PlaceID:     req.PlaceID,
		Price:       req.Price,
		PaymentType: req.PaymentType,
		Rooms:       req.Rooms,
		Bathrooms:   req.Bathrooms,
		AreaSize:    req.AreaSize,
		WorkDate:    workDate,
		WorkDates:   datatypes.JSONSlice[string](workDates),
		Status:      JobStatusOpen,
	}

	err = jc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := jc.jobRepo.Create(ctx, tx, job); err != nil {
			return err
		}

		if err := jc.lifecycle.RecordHistory(ctx, tx, job, services.NoteJobPosted, &user.ID); err != nil {
			return err
		}

		return jc.notifier.Notify(
			ctx, tx, user.ID, &job.ID,
			NotificationInfo, services.NoticeJobPosted, job.Title,
		)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Job posted", "jobID", job.ID, "clientID", user.ID)

	return job, nil
}

func (jc *JobController) List(ctx context.Context, user *User, filter ListJobsFilter) ([]*Job, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, ierr.Validation("Unknown job status")
	}

	jc.sweep(ctx)

	query := repositories.JobFilter{Status: filter.Status, Limit: DEFAULT_JOB_LIST_LIMIT}

	switch user.Role {
	case RoleClient:
		if filter.Mine {
			query.ClientID = &user.ID
		} else if query.Status == nil {
			open := JobStatusOpen
			query.Status = &open
		}
	case RoleMaid:
		query.MaidID = &user.ID
	}

	jobs, err := jc.jobRepo.List(ctx, jc.db.SQL, query)
	if err != nil {
		return nil, err
	}

	if err := jc.redact(ctx, user, jobs...); err != nil {
		return nil, err
	}

	return jobs, nil
}

func (jc *JobController) Get(ctx context.Context, user *User, jobID uuid.UUID) (*Job, error) {
	jc.sweep(ctx)

	job, err := jc.jobRepo.GetByID(ctx, jc.db.SQL, jobID)
	if err != nil {
		return nil, err
	}

	if err := jc.redact(ctx, user, job); err != nil {
		return nil, err
	}

	return job, nil
}

// Update edits job content while the job is still OPEN. The row is locked
// before the status check so a concurrent accept cannot slip in between.
func (jc *JobController) Update(
	ctx context.Context,
	user *User,
	jobID uuid.UUID,
	req *UpdateJobRequest,
) (*Job, error) {
	log := jc.log.Function("Update")

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	if req.Price != nil && !req.Price.IsPositive() {
		return nil, ierr.Validation("price must be greater than 0")
	}

	var workDates []string
	if req.WorkDates != nil {
		normalized, err := utils.NormalizeWorkDates(req.WorkDates)
		if err != nil {
			return nil, err
		}
		workDates = normalized
	}

	workDate, err := parseWorkDate(req.WorkDate)
	if err != nil {
		return nil, err
	}

	var job *Job
	err = jc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		locked, err := jc.jobRepo.GetForUpdate(ctx, tx, jobID)
		if err != nil {
			return err
		}

		if locked.ClientID != user.ID && !user.IsAdmin() {
			return ierr.Forbidden("You can only edit your own jobs")
		}

		if !locked.IsEditable() {
			return ierr.Locked("Job can no longer be edited once a maid has been assigned")
		}

		applyUpdate(locked, req, workDates, workDate)

		if len(locked.WorkDates) == 0 && locked.WorkDate == nil {
			return ierr.Validation("At least one work date is required")
		}

		if err := jc.jobRepo.Save(ctx, tx, locked); err != nil {
			return err
		}

		job = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Job updated", "jobID", job.ID, "userID", user.ID)

	return job, nil
}

func applyUpdate(job *Job, req *UpdateJobRequest, workDates []string, workDate *time.Time) {
	if req.Title != nil {
		job.Title = utils.CleanText(*req.Title)
	}
	if req.Description != nil {
		job.Description = utils.CleanText(*req.Description)
	}
	if req.Area != nil {
		job.Area = utils.CleanText(*req.Area)
	}
	if req.Address != nil {
		job.Address = req.Address
	}
	if req.Latitude != nil {
		job.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		job.Longitude = req.Longitude
	}
	if req.PlaceID != nil {
		job.PlaceID = req.PlaceID
	}
	if req.Price != nil {
		job.Price = *req.Price
	}
	if req.PaymentType != nil {
		job.PaymentType = *req.PaymentType
	}
	if req.Rooms != nil {
		job.Rooms = *req.Rooms
	}
	if req.Bathrooms != nil {
		job.Bathrooms = *req.Bathrooms
	}
	if req.AreaSize != nil {
		job.AreaSize = req.AreaSize
	}
	if req.WorkDates != nil {
		job.WorkDates = datatypes.JSONSlice[string](workDates)
	}
	if workDate != nil {
		job.WorkDate = workDate
	}
}

func (jc *JobController) Complete(ctx context.Context, user *User, jobID uuid.UUID) (*Job, error) {
	log := jc.log.Function("Complete")

	var job *Job
	completed := false
	err := jc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		locked, err := jc.jobRepo.GetForUpdate(ctx, tx, jobID)
		if err != nil {
			return err
		}
		job = locked

		if !user.IsClient() || locked.ClientID != user.ID {
			return ierr.Forbidden("Only the client who posted the job can complete it")
		}

		switch locked.Status {
		case JobStatusCompleted:
			return nil
		case JobStatusInProgress:
		default:
			return ierr.InvalidState("Only jobs in progress can be completed")
		}

		completed = true
		return jc.lifecycle.Transition(
			ctx, tx, locked,
			JobStatusCompleted, services.NoteClientCompleted, &user.ID,
		)
	})
	if err != nil {
		return nil, err
	}

	if completed {
		log.Info("Job completed", "jobID", job.ID)
	}

	return job, nil
}

// Cancel closes an OPEN or IN_PROGRESS job. Pending applications are
// rejected and every affected party is notified in the same transaction.
func (jc *JobController) Cancel(ctx context.Context, user *User, jobID uuid.UUID) (*Job, error) {
	log := jc.log.Function("Cancel")

	var job *Job
	err := jc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		locked, err := jc.jobRepo.GetForUpdate(ctx, tx, jobID)
		if err != nil {
			return err
		}
		job = locked

		if locked.ClientID != user.ID && !user.IsAdmin() {
			return ierr.Forbidden("You can only cancel your own jobs")
		}

		switch locked.Status {
		case JobStatusCancelled:
			return nil
		case JobStatusCompleted:
			return ierr.InvalidState("Completed jobs cannot be cancelled")
		}

		if err := jc.lifecycle.Transition(
			ctx, tx, locked,
			JobStatusCancelled, services.NoteJobCancelled, &user.ID,
		); err != nil {
			return err
		}

		pending, err := jc.applicationRepo.ListPendingForUpdate(ctx, tx, locked.ID, uuid.Nil)
		if err != nil {
			return err
		}

		if len(pending) > 0 {
			ids := lo.Map(pending, func(a *Application, _ int) uuid.UUID { return a.ID })
			if err := jc.applicationRepo.RejectMany(ctx, tx, ids, jc.lifecycle.Now()); err != nil {
				return err
			}
		}

		recipients := lo.Map(pending, func(a *Application, _ int) uuid.UUID { return a.MaidID })
		if locked.AssignedMaidID != nil {
			recipients = append(recipients, *locked.AssignedMaidID)
		}
		if locked.ClientID != user.ID {
			recipients = append(recipients, locked.ClientID)
		}

		for _, recipient := range lo.Uniq(recipients) {
			if err := jc.notifier.Notify(
				ctx, tx, recipient, &locked.ID,
				NotificationWarning, services.NoticeJobCancelled, locked.Title,
			); err != nil {
				return err
			}
		}

		log.Info("Job cancelled", "jobID", locked.ID, "rejectedApplications", len(pending))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return job, nil
}

func (jc *JobController) History(ctx context.Context, user *User, jobID uuid.UUID) ([]*JobHistory, error) {
	job, err := jc.jobRepo.GetByID(ctx, jc.db.SQL, jobID)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin() && job.ClientID != user.ID && !job.IsAssignedTo(user.ID) {
		return nil, ierr.Forbidden("You cannot view this job's history")
	}

	return jc.historyRepo.ListByJob(ctx, jc.db.SQL, job.ID)
}

// Rate records the rater's score for the other party of a completed job and
// folds it into the ratee's running average under a row lock.
func (jc *JobController) Rate(ctx context.Context, user *User, jobID uuid.UUID, req *RateRequest) (*Rating, error) {
	log := jc.log.Function("Rate")

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	var rating *Rating
	err := jc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		job, err := jc.jobRepo.GetByID(ctx, tx, jobID)
		if err != nil {
			return err
		}

		if job.Status != JobStatusCompleted {
			return ierr.InvalidState("Only completed jobs can be rated")
		}

		var rateeID uuid.UUID
		switch {
		case job.ClientID == user.ID && job.AssignedMaidID != nil:
			rateeID = *job.AssignedMaidID
		case job.IsAssignedTo(user.ID):
			rateeID = job.ClientID
		default:
			return ierr.Forbidden("Only the client and the assigned maid can rate this job")
		}

		exists, err := jc.ratingRepo.Exists(ctx, tx, job.ID, user.ID)
		if err != nil {
			return err
		}
		if exists {
			return ierr.NewError("rating already submitted").
				WithHint("You have already rated this job").
				Mark(ierr.ErrAlreadyExists)
		}

		ratee, err := jc.userRepo.GetForUpdate(ctx, tx, rateeID)
		if err != nil {
			return err
		}

		ratee.ApplyRating(req.Score)
		if err := jc.userRepo.Update(ctx, tx, ratee); err != nil {
			return err
		}

		rating = &Rating{
			JobID:   job.ID,
			RaterID: user.ID,
			RateeID: rateeID,
			Score:   req.Score,
			Comment: utils.CleanText(req.Comment),
		}
		return jc.ratingRepo.Create(ctx, tx, rating)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Job rated", "jobID", jobID, "raterID", user.ID, "score", req.Score)

	return rating, nil
}

// sweep completes overdue jobs before a read. Failures only delay the
// transition until the next read or scheduled run.
func (jc *JobController) sweep(ctx context.Context) {
	if _, err := jc.lifecycle.SweepOverdue(ctx); err != nil {
		jc.log.Function("sweep").Warn("overdue sweep failed", "error", err)
	}
}

// redact clears the private location of every job the user may not see.
func (jc *JobController) redact(ctx context.Context, user *User, jobs ...*Job) error {
	accepted := map[uuid.UUID]bool{}

	if user.IsMaid() && len(jobs) > 0 {
		ids := lo.Map(jobs, func(j *Job, _ int) uuid.UUID { return j.ID })
		acceptedIDs, err := jc.applicationRepo.AcceptedJobIDs(ctx, jc.db.SQL, user.ID, ids)
		if err != nil {
			return err
		}
		for _, id := range acceptedIDs {
			accepted[id] = true
		}
	}

	for _, job := range jobs {
		access.RedactJob(user, job, accepted[job.ID])
	}

	return nil
}

func parseWorkDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	dates, err := utils.NormalizeWorkDates([]string{*raw})
	if err != nil {
		return nil, err
	}

	day, _ := time.Parse(WorkDateLayout, dates[0])
	return &day, nil
}
