package fileController

import (
	"context"
	"io"
	"path/filepath"

	"maidhub/internal/database"
	ierr "maidhub/internal/errors"
	. "maidhub/internal/models"
	"maidhub/internal/repositories"
	"maidhub/internal/services"
	"maidhub/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var avatarMimeTypes = []string{"image/png", "image/jpeg", "image/webp"}

type FileController struct {
	fileRepo    repositories.FileRepository
	messageRepo repositories.MessageRepository
	storage     services.ObjectStore
	db          database.DB
	log         logger.Logger
}

type FileControllerInterface interface {
	Upload(ctx context.Context, user *User, req *UploadRequest) (*UploadResponse, error)
	GetURL(ctx context.Context, user *User, fileID uuid.UUID) (string, error)
}

type UploadRequest struct {
	FileName string      `validate:"required,max=255"`
	Size     int64       `validate:"gt=0"`
	Purpose  FilePurpose `validate:"required,oneof=CV ATTACHMENT AVATAR"`
	Content  io.ReadSeeker
}

type UploadResponse struct {
	File *UserFile `json:"file"`
	URL  string    `json:"url"`
}

func New(repos repositories.Repository, services services.Service, db database.DB) FileControllerInterface {
	return &FileController{
		fileRepo:    repos.File,
		messageRepo: repos.Message,
		storage:     services.Storage,
		db:          db,
		log:         logger.New("fileController"),
	}
}

// Upload sniffs the content type, stores the object and records the file.
// The object is written before the row so no transaction spans the upload.
func (fc *FileController) Upload(ctx context.Context, user *User, req *UploadRequest) (*UploadResponse, error) {
	log := fc.log.Function("Upload")

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	if req.Size > MaxAttachmentSizeBytes {
		return nil, ierr.Validation("File exceeds the 100MB limit")
	}

	detected, err := mimetype.DetectReader(req.Content)
	if err != nil {
		return nil, log.Err("failed to read upload", err, "userID", user.ID)
	}

	if _, err := req.Content.Seek(0, io.SeekStart); err != nil {
		return nil, log.Err("failed to rewind upload", err, "userID", user.ID)
	}

	allowed := AllowedAttachmentMimeTypes
	if req.Purpose == FilePurposeAvatar {
		allowed = avatarMimeTypes
	}

	mimeType, ok := matchMime(detected, allowed)
	if !ok {
		log.Info("Rejected upload type", "userID", user.ID, "detected", detected.String(), "purpose", req.Purpose)
		return nil, ierr.NewError("file type not allowed").
			WithHintf("Files of type %s are not allowed", detected.String()).
			Mark(ierr.ErrValidation)
	}

	key := services.NewObjectKey(user.ID, detected.Extension())
	if err := fc.storage.PutObject(ctx, key, req.Content, req.Size, mimeType); err != nil {
		return nil, err
	}

	file := &UserFile{
		OwnerID:   user.ID,
		ObjectKey: key,
		FileName:  filepath.Base(utils.CleanText(req.FileName)),
		MimeType:  mimeType,
		SizeBytes: req.Size,
		Purpose:   req.Purpose,
	}

	if err := fc.fileRepo.Create(ctx, fc.db.SQL, file); err != nil {
		return nil, err
	}

	url, err := fc.storage.SignedURL(ctx, key)
	if err != nil {
		return nil, err
	}

	log.Info("File uploaded", "fileID", file.ID, "userID", user.ID, "purpose", file.Purpose, "size", file.SizeBytes)

	return &UploadResponse{File: file, URL: url}, nil
}

// GetURL signs a read URL for the owner, admins, parties to a message
// carrying the file, and anyone for avatars.
func (fc *FileController) GetURL(ctx context.Context, user *User, fileID uuid.UUID) (string, error) {
	file, err := fc.fileRepo.GetByID(ctx, fc.db.SQL, fileID)
	if err != nil {
		return "", err
	}

	if !(file.OwnerID == user.ID || user.IsAdmin() || file.Purpose == FilePurposeAvatar) {
		visible, err := fc.messageRepo.IsAttachmentVisibleTo(ctx, fc.db.SQL, file.ID, user.ID)
		if err != nil {
			return "", err
		}
		if !visible {
			return "", ierr.Forbidden("You do not have access to this file")
		}
	}

	return fc.storage.SignedURL(ctx, file.ObjectKey)
}

func matchMime(detected *mimetype.MIME, allowed []string) (string, bool) {
	for _, mimeType := range allowed {
		if detected.Is(mimeType) {
			return mimeType, true
		}
	}
	return "", false
}
