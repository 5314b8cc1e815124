package repositories

import (
	"context"
	"time"

	. "maidhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobUnreadCount struct {
	JobID uuid.UUID `json:"jobId"`
	Count int64     `json:"count"`
}

type MessageRepository interface {
	Create(ctx context.Context, tx *gorm.DB, message *Message) error
	Save(ctx context.Context, tx *gorm.DB, message *Message) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Message, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Message, error)
	ListByJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*Message, error)
	ReadMessageIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, messageIDs []uuid.UUID) ([]uuid.UUID, error)
	UnreadIDs(ctx context.Context, tx *gorm.DB, jobID, userID uuid.UUID) ([]uuid.UUID, error)
	// MarkRead inserts read receipts, skipping ones that already exist, and
	// returns the ids that were newly marked.
	MarkRead(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		messageIDs []uuid.UUID,
		readAt time.Time,
	) ([]uuid.UUID, error)
	UnreadCounts(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]JobUnreadCount, error)
	IsAttachmentVisibleTo(ctx context.Context, tx *gorm.DB, fileID, userID uuid.UUID) (bool, error)
}

type messageRepository struct {
	log logger.Logger
}

func NewMessageRepository() MessageRepository {
	return &messageRepository{
		log: logger.New("messageRepository"),
	}
}

func (r *messageRepository) Create(ctx context.Context, tx *gorm.DB, message *Message) error {
	log := r.log.Function("Create")

	if err := gorm.G[Message](tx).Create(ctx, message); err != nil {
		return log.Err("failed to create message", err, "jobID", message.JobID)
	}

	return nil
}

func (r *messageRepository) Save(ctx context.Context, tx *gorm.DB, message *Message) error {
	log := r.log.Function("Save")

	if err := tx.WithContext(ctx).Omit("Job").Save(message).Error; err != nil {
		return log.Err("failed to save message", err, "messageID", message.ID)
	}

	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Message, error) {
	log := r.log.Function("GetByID")

	message, err := gorm.G[*Message](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, lookupErr(log, err, "Message not found", "messageID", id)
	}

	return message, nil
}

func (r *messageRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Message, error) {
	log := r.log.Function("GetForUpdate")

	var message Message
	if err := forUpdate(tx.WithContext(ctx)).First(&message, "id = ?", id).Error; err != nil {
		return nil, lookupErr(log, err, "Message not found", "messageID", id)
	}

	return &message, nil
}

func (r *messageRepository) ListByJob(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) ([]*Message, error) {
	log := r.log.Function("ListByJob")

	messages, err := gorm.G[*Message](tx).
		Where("job_id = ?", jobID).
		Order("created_at ASC, id ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list messages", err, "jobID", jobID)
	}

	return messages, nil
}

func (r *messageRepository) ReadMessageIDs(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	messageIDs []uuid.UUID,
) ([]uuid.UUID, error) {
	log := r.log.Function("ReadMessageIDs")

	if len(messageIDs) == 0 {
		return nil, nil
	}

	var ids []uuid.UUID
	err := tx.WithContext(ctx).
		Model(&MessageRead{}).
		Where("user_id = ? AND message_id IN ?", userID, messageIDs).
		Pluck("message_id", &ids).Error
	if err != nil {
		return nil, log.Err("failed to load read receipts", err, "userID", userID)
	}

	return ids, nil
}

func (r *messageRepository) UnreadIDs(
	ctx context.Context,
	tx *gorm.DB,
	jobID, userID uuid.UUID,
) ([]uuid.UUID, error) {
	log := r.log.Function("UnreadIDs")

	var ids []uuid.UUID
	err := tx.WithContext(ctx).
		Model(&Message{}).
		Where("job_id = ? AND receiver_id = ? AND deleted_at IS NULL", jobID, userID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = messages.id AND mr.user_id = ?)", userID).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, log.Err("failed to list unread messages", err, "jobID", jobID, "userID", userID)
	}

	return ids, nil
}

func (r *messageRepository) MarkRead(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	messageIDs []uuid.UUID,
	readAt time.Time,
) ([]uuid.UUID, error) {
	log := r.log.Function("MarkRead")

	marked := make([]uuid.UUID, 0, len(messageIDs))
	for _, messageID := range messageIDs {
		result := tx.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&MessageRead{MessageID: messageID, UserID: userID, ReadAt: readAt})
		if result.Error != nil {
			return nil, log.Err("failed to mark message read", result.Error, "messageID", messageID)
		}
		if result.RowsAffected > 0 {
			marked = append(marked, messageID)
		}
	}

	return marked, nil
}

func (r *messageRepository) UnreadCounts(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]JobUnreadCount, error) {
	log := r.log.Function("UnreadCounts")

	var counts []JobUnreadCount
	err := tx.WithContext(ctx).
		Model(&Message{}).
		Select("job_id, COUNT(*) AS count").
		Where("receiver_id = ? AND deleted_at IS NULL", userID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = messages.id AND mr.user_id = ?)", userID).
		Group("job_id").
		Scan(&counts).Error
	if err != nil {
		return nil, log.Err("failed to count unread messages", err, "userID", userID)
	}

	return counts, nil
}

func (r *messageRepository) IsAttachmentVisibleTo(
	ctx context.Context,
	tx *gorm.DB,
	fileID, userID uuid.UUID,
) (bool, error) {
	log := r.log.Function("IsAttachmentVisibleTo")

	var count int64
	err := tx.WithContext(ctx).
		Model(&Message{}).
		Where("attachments @> ?::jsonb", `["`+fileID.String()+`"]`).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Count(&count).Error
	if err != nil {
		return false, log.Err("failed to check attachment access", err, "fileID", fileID)
	}

	return count > 0, nil
}
