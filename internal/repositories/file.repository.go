package repositories

import (
	"context"
	"time"

	. "maidhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileRepository interface {
	Create(ctx context.Context, tx *gorm.DB, file *UserFile) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*UserFile, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*UserFile, error)
	ListOrphanAttachments(ctx context.Context, tx *gorm.DB, before time.Time, limit int) ([]*UserFile, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type fileRepository struct {
	log logger.Logger
}

func NewFileRepository() FileRepository {
	return &fileRepository{
		log: logger.New("fileRepository"),
	}
}

func (r *fileRepository) Create(ctx context.Context, tx *gorm.DB, file *UserFile) error {
	log := r.log.Function("Create")

	if err := gorm.G[UserFile](tx).Create(ctx, file); err != nil {
		return log.Err("failed to create file record", err, "ownerID", file.OwnerID)
	}

	return nil
}

func (r *fileRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*UserFile, error) {
	log := r.log.Function("GetByID")

	file, err := gorm.G[*UserFile](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, lookupErr(log, err, "File not found", "fileID", id)
	}

	return file, nil
}

func (r *fileRepository) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*UserFile, error) {
	log := r.log.Function("GetByIDs")

	if len(ids) == 0 {
		return nil, nil
	}

	files, err := gorm.G[*UserFile](tx).Where("id IN ?", ids).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to load files", err, "count", len(ids))
	}

	return files, nil
}

// ListOrphanAttachments returns attachment uploads created before the cutoff
// that no message references.
func (r *fileRepository) ListOrphanAttachments(
	ctx context.Context,
	tx *gorm.DB,
	before time.Time,
	limit int,
) ([]*UserFile, error) {
	log := r.log.Function("ListOrphanAttachments")

	files, err := gorm.G[*UserFile](tx).
		Where("purpose = ? AND created_at < ?", FilePurposeAttachment, before).
		Where(`NOT EXISTS (
			SELECT 1 FROM messages
			WHERE messages.attachments @> jsonb_build_array(user_files.id::text)
		)`).
		Order("created_at ASC").
		Limit(limit).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list orphan attachments", err, "before", before)
	}

	return files, nil
}

func (r *fileRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if _, err := gorm.G[UserFile](tx).Where("id = ?", id).Delete(ctx); err != nil {
		return log.Err("failed to delete file record", err, "fileID", id)
	}

	return nil
}
