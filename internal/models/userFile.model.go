package models

import "github.com/google/uuid"

type FilePurpose string

const (
	FilePurposeCV         FilePurpose = "CV"
	FilePurposeAttachment FilePurpose = "ATTACHMENT"
	FilePurposeAvatar     FilePurpose = "AVATAR"
)

func (p FilePurpose) IsValid() bool {
	switch p {
	case FilePurposeCV, FilePurposeAttachment, FilePurposeAvatar:
		return true
	}
	return false
}

type UserFile struct {
	BaseUUIDModel
	OwnerID   uuid.UUID   `gorm:"type:uuid;not null;index"     json:"ownerId"`
	Owner     *User       `gorm:"foreignKey:OwnerID"           json:"-"`
	ObjectKey string      `gorm:"type:text;not null;uniqueIndex" json:"-"`
	FileName  string      `gorm:"type:text;not null"           json:"fileName"`
	MimeType  string      `gorm:"type:text;not null"           json:"mimeType"`
	SizeBytes int64       `gorm:"type:bigint;not null"         json:"sizeBytes"`
	Purpose   FilePurpose `gorm:"type:text;not null"           json:"purpose"`
}
