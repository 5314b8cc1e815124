package repositories

import (
	"context"

	. "maidhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, tx *gorm.DB, report *MessageReport) error
	GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MessageReport, error)
	Save(ctx context.Context, tx *gorm.DB, report *MessageReport) error
	List(ctx context.Context, tx *gorm.DB, status *ReportStatus) ([]*MessageReport, error)
}

type reportRepository struct {
	log logger.Logger
}

func NewReportRepository() ReportRepository {
	return &reportRepository{
		log: logger.New("reportRepository"),
	}
}

func (r *reportRepository) Create(ctx context.Context, tx *gorm.DB, report *MessageReport) error {
	log := r.log.Function("Create")

	if err := gorm.G[MessageReport](tx).Create(ctx, report); err != nil {
		return log.Err("failed to create report", err, "messageID", report.MessageID)
	}

	return nil
}

func (r *reportRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*MessageReport, error) {
	log := r.log.Function("GetForUpdate")

	var report MessageReport
	if err := forUpdate(tx.WithContext(ctx)).First(&report, "id = ?", id).Error; err != nil {
		return nil, lookupErr(log, err, "Report not found", "reportID", id)
	}

	return &report, nil
}

func (r *reportRepository) Save(ctx context.Context, tx *gorm.DB, report *MessageReport) error {
	log := r.log.Function("Save")

	if err := tx.WithContext(ctx).Omit("Message").Save(report).Error; err != nil {
		return log.Err("failed to save report", err, "reportID", report.ID)
	}

	return nil
}

func (r *reportRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	status *ReportStatus,
) ([]*MessageReport, error) {
	log := r.log.Function("List")

	query := tx.WithContext(ctx).Preload("Message")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var reports []*MessageReport
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, log.Err("failed to list reports", err)
	}

	return reports, nil
}
