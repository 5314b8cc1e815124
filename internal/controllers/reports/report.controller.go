package reportController

import (
	"context"
	"time"

	"maidhub/config"
	"maidhub/internal/database"
	ierr "maidhub/internal/errors"
	. "maidhub/internal/models"
	"maidhub/internal/repositories"
	"maidhub/internal/services"
	"maidhub/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportController struct {
	reportRepo  repositories.ReportRepository
	transaction *services.TransactionService
	db          database.DB
	Config      config.Config
	log         logger.Logger
}

type ReportControllerInterface interface {
	ListReports(ctx context.Context, user *User, status *ReportStatus) ([]*MessageReport, error)
	UpdateReport(
		ctx context.Context,
		user *User,
		reportID uuid.UUID,
		req *UpdateReportRequest,
	) (*MessageReport, error)
}

type UpdateReportRequest struct {
	Status         ReportStatus `json:"status"         validate:"required,oneof=OPEN REVIEWED RESOLVED"`
	ResolutionNote *string      `json:"resolutionNote" validate:"omitempty,max=2000"`
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) ReportControllerInterface {
	return &ReportController{
		reportRepo:  repos.Report,
		transaction: services.Transaction,
		db:          db,
		Config:      config,
		log:         logger.New("reportController"),
	}
}

func (rc *ReportController) ListReports(
	ctx context.Context,
	user *User,
	status *ReportStatus,
) ([]*MessageReport, error) {
	if !user.IsAdmin() {
		return nil, ierr.Forbidden("Only admins can review reports")
	}

	if status != nil && !status.IsValid() {
		return nil, ierr.Validation("Unknown report status")
	}

	return rc.reportRepo.List(ctx, rc.db.SQL, status)
}

// UpdateReport moves a report through triage. Redacting the reported message
// is a separate admin action.
func (rc *ReportController) UpdateReport(
	ctx context.Context,
	user *User,
	reportID uuid.UUID,
	req *UpdateReportRequest,
) (*MessageReport, error) {
	log := rc.log.Function("UpdateReport")

	if !user.IsAdmin() {
		return nil, ierr.Forbidden("Only admins can review reports")
	}

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	var report *MessageReport
	err := rc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		locked, err := rc.reportRepo.GetForUpdate(ctx, tx, reportID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		locked.Status = req.Status
		locked.ReviewedBy = &user.ID
		locked.ReviewedAt = &now
		if req.ResolutionNote != nil {
			locked.ResolutionNote = utils.CleanText(*req.ResolutionNote)
		}

		report = locked
		return rc.reportRepo.Save(ctx, tx, locked)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Report updated", "reportID", report.ID, "status", report.Status, "adminID", user.ID)

	return report, nil
}
