package messageController

import (
	"context"
	"time"

	"maidhub/config"
	"maidhub/internal/access"
	"maidhub/internal/database"
	ierr "maidhub/internal/errors"
	"maidhub/internal/events"
	. "maidhub/internal/models"
	"maidhub/internal/repositories"
	"maidhub/internal/services"
	"maidhub/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MessageController struct {
	messageRepo     repositories.MessageRepository
	reportRepo      repositories.ReportRepository
	jobRepo         repositories.JobRepository
	applicationRepo repositories.ApplicationRepository
	fileRepo        repositories.FileRepository
	transaction     *services.TransactionService
	storage         services.ObjectStore
	eventBus        *events.EventBus
	db              database.DB
	Config          config.Config
	log             logger.Logger
}

type MessageControllerInterface interface {
	Participants(ctx context.Context, user *User, jobID uuid.UUID) (*access.Participants, error)
	List(ctx context.Context, user *User, jobID uuid.UUID) ([]*MessageView, error)
	Send(ctx context.Context, user *User, jobID uuid.UUID, req *SendMessageRequest) (*MessageView, error)
	Edit(ctx context.Context, user *User, messageID uuid.UUID, req *EditMessageRequest) (*MessageView, error)
	Delete(ctx context.Context, user *User, messageID uuid.UUID) (*MessageView, error)
	Redact(ctx context.Context, user *User, messageID uuid.UUID) (*MessageView, error)
	MarkRead(ctx context.Context, user *User, messageID uuid.UUID) error
	MarkAllRead(ctx context.Context, user *User, jobID uuid.UUID) ([]uuid.UUID, error)
	Report(ctx context.Context, user *User, messageID uuid.UUID, req *ReportRequest) (*MessageReport, error)
	UnreadCounts(ctx context.Context, user *User) ([]repositories.JobUnreadCount, error)
	AuthorizeSubscription(ctx context.Context, user *User, jobID uuid.UUID) error
}

type SendMessageRequest struct {
	ReceiverID    *uuid.UUID  `json:"receiverId"`
	Content       string      `json:"content"`
	AttachmentIDs []uuid.UUID `json:"attachmentIds" validate:"max=10"`
}

type EditMessageRequest struct {
	Content string `json:"content"`
}

type ReportRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

// AttachmentView is a stored attachment with a freshly signed URL. The URL
// is never persisted.
type AttachmentView struct {
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"fileName"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"sizeBytes"`
	URL       string    `json:"url"`
}

type MessageView struct {
	*Message
	Attachments []AttachmentView `json:"attachments"`
	IsRead      bool             `json:"isRead"`
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) MessageControllerInterface {
	return &MessageController{
		messageRepo:     repos.Message,
		reportRepo:      repos.Report,
		jobRepo:         repos.Job,
		applicationRepo: repos.Application,
		fileRepo:        repos.File,
		transaction:     services.Transaction,
		storage:         services.Storage,
		eventBus:        eventBus,
		db:              db,
		Config:          config,
		log:             logger.New("messageController"),
	}
}

// gate loads the job and applies the messaging eligibility rules.
func (mc *MessageController) gate(ctx context.Context, tx *gorm.DB, jobID uuid.UUID) (*access.Participants, error) {
	job, err := mc.jobRepo.GetByID(ctx, tx, jobID)
	if err != nil {
		return nil, err
	}

	var accepted *Application
	if job.AssignedMaidID != nil {
		accepted, err = mc.applicationRepo.FindByJobAndMaid(ctx, tx, job.ID, *job.AssignedMaidID)
		if err != nil {
			return nil, err
		}
	}

	return access.MessagingParticipants(job, accepted)
}

func (mc *MessageController) participantsFor(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	jobID uuid.UUID,
) (*access.Participants, error) {
	participants, err := mc.gate(ctx, tx, jobID)
	if err != nil {
		return nil, err
	}

	if err := access.RequireParticipant(user, participants); err != nil {
		return nil, err
	}

	return participants, nil
}

func (mc *MessageController) Participants(
	ctx context.Context,
	user *User,
	jobID uuid.UUID,
) (*access.Participants, error) {
	return mc.participantsFor(ctx, mc.db.SQL, user, jobID)
}

// AuthorizeSubscription decides whether user may join the job's live room.
// Admins only need the job to exist.
func (mc *MessageController) AuthorizeSubscription(ctx context.Context, user *User, jobID uuid.UUID) error {
	if user.IsAdmin() {
		_, err := mc.jobRepo.GetByID(ctx, mc.db.SQL, jobID)
		return err
	}

	_, err := mc.participantsFor(ctx, mc.db.SQL, user, jobID)
	return err
}

func (mc *MessageController) List(ctx context.Context, user *User, jobID uuid.UUID) ([]*MessageView, error) {
	if user.IsAdmin() {
		if _, err := mc.jobRepo.GetByID(ctx, mc.db.SQL, jobID); err != nil {
			return nil, err
		}
	} else if _, err := mc.participantsFor(ctx, mc.db.SQL, user, jobID); err != nil {
		return nil, err
	}

	messages, err := mc.messageRepo.ListByJob(ctx, mc.db.SQL, jobID)
	if err != nil {
		return nil, err
	}

	return mc.views(ctx, messages...)
}

func (mc *MessageController) Send(
	ctx context.Context,
	user *User,
	jobID uuid.UUID,
	req *SendMessageRequest,
) (*MessageView, error) {
	log := mc.log.Function("Send")

	// A job that is not ready for messaging is reported as such before any
	// check on the sender or the body.
	participants, err := mc.participantsFor(ctx, mc.db.SQL, user, jobID)
	if err != nil {
		return nil, err
	}

	if user.IsAdmin() {
		return nil, ierr.Forbidden("Admins cannot send messages")
	}

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	content := utils.CleanText(req.Content)
	attachmentIDs := lo.Uniq(req.AttachmentIDs)

	if err := validateContent(content, len(attachmentIDs)); err != nil {
		return nil, err
	}

	receiverID := participants.Counterpart(user.ID)
	if req.ReceiverID != nil {
		receiverID = *req.ReceiverID
	}

	if receiverID == user.ID {
		return nil, ierr.Validation("You cannot send a message to yourself")
	}
	if !participants.Includes(receiverID) {
		return nil, ierr.Validation("The receiver is not a participant in this conversation")
	}

	if err := mc.checkAttachments(ctx, user.ID, attachmentIDs); err != nil {
		return nil, err
	}

	message := &Message{
		JobID:       jobID,
		SenderID:    user.ID,
		ReceiverID:  receiverID,
		Content:     content,
		Attachments: datatypes.JSONSlice[uuid.UUID](attachmentIDs),
	}

	if err := mc.messageRepo.Create(ctx, mc.db.SQL, message); err != nil {
		return nil, err
	}

	log.Info("Message sent", "messageID", message.ID, "jobID", jobID, "attachments", len(attachmentIDs))

	return mc.publishView(ctx, events.MESSAGE_CREATED, message)
}

// checkAttachments verifies every referenced file exists, belongs to the
// sender, and is an allowed type and size.
func (mc *MessageController) checkAttachments(ctx context.Context, senderID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	files, err := mc.fileRepo.GetByIDs(ctx, mc.db.SQL, ids)
	if err != nil {
		return err
	}

	byID := lo.KeyBy(files, func(f *UserFile) uuid.UUID { return f.ID })
	for _, id := range ids {
		file, ok := byID[id]
		switch {
		case !ok:
			return ierr.NewError("attachment not found").
				WithHintf("Attachment %s not found", id).
				Mark(ierr.ErrValidation)
		case file.OwnerID != senderID:
			return ierr.NewError("attachment not owned by sender").
				WithHintf("Attachment %s was not uploaded by you", id).
				Mark(ierr.ErrValidation)
		case !IsAllowedAttachmentMime(file.MimeType):
			return ierr.NewError("attachment type not allowed").
				WithHintf("Attachment %q must be a PDF, PNG, JPEG or WEBP file", file.FileName).
				Mark(ierr.ErrValidation)
		case file.SizeBytes > MaxAttachmentSizeBytes:
			return ierr.NewError("attachment too large").
				WithHintf("Attachment %q exceeds the 100MB limit", file.FileName).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

func (mc *MessageController) Edit(
	ctx context.Context,
	user *User,
	messageID uuid.UUID,
	req *EditMessageRequest,
) (*MessageView, error) {
	content := utils.CleanText(req.Content)
	if utils.RuneLength(content) > MaxMessageLength {
		return nil, ierr.Validation("Message content must be at most 5000 characters")
	}

	message, err := mc.mutate(ctx, messageID, func(message *Message) error {
		if message.SenderID != user.ID && !user.IsAdmin() {
			return ierr.Forbidden("You can only edit your own messages")
		}
		if message.IsDeleted() {
			return ierr.InvalidState("Deleted messages cannot be edited")
		}
		if message.IsRedacted() {
			return ierr.InvalidState("Redacted messages cannot be edited")
		}
		if content == "" && len(message.Attachments) == 0 {
			return ierr.Validation("Message content is required")
		}

		now := time.Now().UTC()
		message.Content = content
		message.EditedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mc.publishView(ctx, events.MESSAGE_UPDATED, message)
}

func (mc *MessageController) Delete(ctx context.Context, user *User, messageID uuid.UUID) (*MessageView, error) {
	message, err := mc.mutate(ctx, messageID, func(message *Message) error {
		if message.SenderID != user.ID && !user.IsAdmin() {
			return ierr.Forbidden("You can only delete your own messages")
		}
		if message.IsDeleted() {
			return ierr.InvalidState("Message is already deleted")
		}

		message.SoftDelete(user.ID, time.Now().UTC())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mc.publishView(ctx, events.MESSAGE_DELETED, message)
}

// Redact replaces a message with the moderator placeholder.
func (mc *MessageController) Redact(ctx context.Context, user *User, messageID uuid.UUID) (*MessageView, error) {
	if !user.IsAdmin() {
		return nil, ierr.Forbidden("Only admins can redact messages")
	}

	message, err := mc.mutate(ctx, messageID, func(message *Message) error {
		if message.IsDeleted() {
			return ierr.InvalidState("Deleted messages cannot be redacted")
		}

		message.Redact(user.ID, time.Now().UTC())
		return nil
	})
	if err != nil {
		return nil, err
	}

	mc.log.Function("Redact").Info("Message redacted", "messageID", message.ID, "adminID", user.ID)

	return mc.publishView(ctx, events.MESSAGE_UPDATED, message)
}

// mutate locks the message, applies fn and saves the result in one transaction.
func (mc *MessageController) mutate(
	ctx context.Context,
	messageID uuid.UUID,
	fn func(message *Message) error,
) (*Message, error) {
	var message *Message
	err := mc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		locked, err := mc.messageRepo.GetForUpdate(ctx, tx, messageID)
		if err != nil {
			return err
		}

		if err := fn(locked); err != nil {
			return err
		}

		message = locked
		return mc.messageRepo.Save(ctx, tx, locked)
	})
	if err != nil {
		return nil, err
	}

	return message, nil
}

func (mc *MessageController) MarkRead(ctx context.Context, user *User, messageID uuid.UUID) error {
	if user.IsAdmin() {
		return ierr.Forbidden("Admins do not have read receipts")
	}

	message, err := mc.messageRepo.GetByID(ctx, mc.db.SQL, messageID)
	if err != nil {
		return err
	}

	if message.ReceiverID != user.ID {
		return ierr.Forbidden("Only the receiver can mark a message as read")
	}

	newlyRead, err := mc.messageRepo.MarkRead(ctx, mc.db.SQL, user.ID, []uuid.UUID{message.ID}, time.Now().UTC())
	if err != nil {
		return err
	}

	mc.publishRead(message.JobID, user.ID, newlyRead)
	return nil
}

// MarkAllRead marks every unread message addressed to user on the job and
// returns only the ids that were not read before.
func (mc *MessageController) MarkAllRead(ctx context.Context, user *User, jobID uuid.UUID) ([]uuid.UUID, error) {
	log := mc.log.Function("MarkAllRead")

	if user.IsAdmin() {
		return nil, ierr.Forbidden("Admins do not have read receipts")
	}

	if _, err := mc.participantsFor(ctx, mc.db.SQL, user, jobID); err != nil {
		return nil, err
	}

	unread, err := mc.messageRepo.UnreadIDs(ctx, mc.db.SQL, jobID, user.ID)
	if err != nil {
		return nil, err
	}

	if len(unread) == 0 {
		return []uuid.UUID{}, nil
	}

	newlyRead, err := mc.messageRepo.MarkRead(ctx, mc.db.SQL, user.ID, unread, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	log.Debug("Messages marked read", "jobID", jobID, "userID", user.ID, "count", len(newlyRead))

	mc.publishRead(jobID, user.ID, newlyRead)
	return newlyRead, nil
}

func (mc *MessageController) Report(
	ctx context.Context,
	user *User,
	messageID uuid.UUID,
	req *ReportRequest,
) (*MessageReport, error) {
	log := mc.log.Function("Report")

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	message, err := mc.messageRepo.GetByID(ctx, mc.db.SQL, messageID)
	if err != nil {
		return nil, err
	}

	if !message.IsParty(user.ID) {
		return nil, ierr.Forbidden("You can only report messages in your own conversations")
	}

	report := &MessageReport{
		MessageID:  message.ID,
		ReporterID: user.ID,
		Reason:     utils.CleanText(req.Reason),
		Status:     ReportStatusOpen,
	}

	if err := mc.reportRepo.Create(ctx, mc.db.SQL, report); err != nil {
		return nil, err
	}

	log.Info("Message reported", "reportID", report.ID, "messageID", message.ID)

	return report, nil
}

func (mc *MessageController) UnreadCounts(ctx context.Context, user *User) ([]repositories.JobUnreadCount, error) {
	return mc.messageRepo.UnreadCounts(ctx, mc.db.SQL, user.ID)
}

func (mc *MessageController) publishView(
	ctx context.Context,
	eventType events.MessageType,
	message *Message,
) (*MessageView, error) {
	views, err := mc.views(ctx, message)
	if err != nil {
		return nil, err
	}
	view := views[0]

	data, err := events.ToData(view)
	if err != nil {
		mc.log.Function("publishView").Er("failed to encode message event", err, "messageID", message.ID)
		return view, nil
	}

	mc.publish(message.JobID, eventType, data)
	return view, nil
}

func (mc *MessageController) publishRead(jobID, readerID uuid.UUID, messageIDs []uuid.UUID) {
	if len(messageIDs) == 0 {
		return
	}

	mc.publish(jobID, events.MESSAGE_READ, map[string]any{
		"readerId":   readerID.String(),
		"messageIds": lo.Map(messageIDs, func(id uuid.UUID, _ int) string { return id.String() }),
	})
}

// publish is best effort; live subscribers reconcile on their next read.
func (mc *MessageController) publish(jobID uuid.UUID, eventType events.MessageType, data map[string]any) {
	if mc.eventBus == nil {
		return
	}

	if err := mc.eventBus.PublishJobEvent(jobID, eventType, data); err != nil {
		mc.log.Function("publish").Warn("failed to publish job event", "jobID", jobID, "type", eventType, "error", err)
	}
}

// views resolves attachments to signed URLs and read state for each message.
func (mc *MessageController) views(ctx context.Context, messages ...*Message) ([]*MessageView, error) {
	attachments, err := mc.resolveAttachments(ctx, messages)
	if err != nil {
		return nil, err
	}

	read, err := mc.readByReceiver(ctx, messages)
	if err != nil {
		return nil, err
	}

	views := make([]*MessageView, 0, len(messages))
	for _, message := range messages {
		resolved := make([]AttachmentView, 0, len(message.Attachments))
		for _, id := range message.Attachments {
			if attachment, ok := attachments[id]; ok {
				resolved = append(resolved, attachment)
			}
		}

		views = append(views, &MessageView{
			Message:     message,
			Attachments: resolved,
			IsRead:      read[message.ID],
		})
	}

	return views, nil
}

func (mc *MessageController) resolveAttachments(
	ctx context.Context,
	messages []*Message,
) (map[uuid.UUID]AttachmentView, error) {
	log := mc.log.Function("resolveAttachments")

	ids := lo.Uniq(lo.FlatMap(messages, func(m *Message, _ int) []uuid.UUID { return m.Attachments }))
	if len(ids) == 0 {
		return map[uuid.UUID]AttachmentView{}, nil
	}

	files, err := mc.fileRepo.GetByIDs(ctx, mc.db.SQL, ids)
	if err != nil {
		return nil, err
	}

	resolved := make(map[uuid.UUID]AttachmentView, len(files))
	for _, file := range files {
		url, err := mc.storage.SignedURL(ctx, file.ObjectKey)
		if err != nil {
			log.Warn("failed to sign attachment url", "fileID", file.ID, "error", err)
		}

		resolved[file.ID] = AttachmentView{
			ID:        file.ID,
			FileName:  file.FileName,
			MimeType:  file.MimeType,
			SizeBytes: file.SizeBytes,
			URL:       url,
		}
	}

	return resolved, nil
}

// readByReceiver reports, per message, whether its receiver has read it.
func (mc *MessageController) readByReceiver(ctx context.Context, messages []*Message) (map[uuid.UUID]bool, error) {
	read := map[uuid.UUID]bool{}

	byReceiver := lo.GroupBy(messages, func(m *Message) uuid.UUID { return m.ReceiverID })
	for receiverID, received := range byReceiver {
		ids := lo.Map(received, func(m *Message, _ int) uuid.UUID { return m.ID })

		readIDs, err := mc.messageRepo.ReadMessageIDs(ctx, mc.db.SQL, receiverID, ids)
		if err != nil {
			return nil, err
		}

		for _, id := range readIDs {
			read[id] = true
		}
	}

	return read, nil
}

func validateContent(content string, attachments int) error {
	if content == "" && attachments == 0 {
		return ierr.Validation("A message needs content or at least one attachment")
	}

	if utils.RuneLength(content) > MaxMessageLength {
		return ierr.Validation("Message content must be at most 5000 characters")
	}

	return nil
}
