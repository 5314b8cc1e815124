package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleClient UserRole = "CLIENT"
	RoleMaid   UserRole = "MAID"
	RoleAdmin  UserRole = "ADMIN"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleClient, RoleMaid, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	BaseUUIDModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email        string   `gorm:"type:text;uniqueIndex;not null"      json:"email"`
	PasswordHash string   `gorm:"type:text;not null"                  json:"-"`
	Role         UserRole `gorm:"type:text;not null;default:'CLIENT'" json:"role"`
	FirstName    string   `gorm:"type:text"                           json:"firstName"`
	LastName     string   `gorm:"type:text"                           json:"lastName"`
	Phone        string   `gorm:"type:text"                           json:"phone"`
	Bio          string   `gorm:"type:text"                           json:"bio"`
	City         string   `gorm:"type:text"                           json:"city"`

	AvatarFileID *uuid.UUID `gorm:"type:uuid" json:"avatarFileId,omitempty"`

	// Maid profile
	HourlyRate      *decimal.Decimal            `gorm:"type:decimal(10,2)" json:"hourlyRate,omitempty"`
	YearsExperience *int                        `gorm:"type:int"           json:"yearsExperience,omitempty"`
	Services        datatypes.JSONSlice[string] `gorm:"type:jsonb"         json:"services"`

	Rating      decimal.Decimal `gorm:"type:decimal(3,2);not null;default:0" json:"rating"`
	RatingCount int             `gorm:"type:int;not null;default:0"          json:"ratingCount"`

	IsActive    bool       `gorm:"type:bool;default:true" json:"isActive"`
	LastLoginAt *time.Time `gorm:"type:timestamp"         json:"lastLoginAt,omitempty"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsClient() bool {
	return u != nil && u.Role == RoleClient
}

func (u *User) IsMaid() bool {
	return u != nil && u.Role == RoleMaid
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ApplyRating folds a new score into the running average.
func (u *User) ApplyRating(score int) {
	total := u.Rating.Mul(decimal.NewFromInt(int64(u.RatingCount))).Add(decimal.NewFromInt(int64(score)))
	u.RatingCount++
	u.Rating = total.Div(decimal.NewFromInt(int64(u.RatingCount))).Round(2)
}

// UserProfile is the public view of a user.
type UserProfile struct {
	ID              string           `json:"id"`
	Role            UserRole         `json:"role"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	FullName        string           `json:"fullName"`
	Email           string           `json:"email,omitempty"`
	Phone           string           `json:"phone,omitempty"`
	Bio             string           `json:"bio"`
	City            string           `json:"city"`
	AvatarFileID    *uuid.UUID       `json:"avatarFileId,omitempty"`
	HourlyRate      *decimal.Decimal `json:"hourlyRate,omitempty"`
	YearsExperience *int             `json:"yearsExperience,omitempty"`
	Services        []string         `json:"services,omitempty"`
	Rating          decimal.Decimal  `json:"rating"`
	RatingCount     int              `json:"ratingCount"`
	IsActive        bool             `json:"isActive"`
	LastLoginAt     *time.Time       `json:"lastLoginAt,omitempty"`
}

// ToProfile converts a User to a UserProfile. Contact details are only
// included when includeContact is set (self or admin).
func (u *User) ToProfile(includeContact bool) UserProfile {
	profile := UserProfile{
		ID:              u.ID.String(),
		Role:            u.Role,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		FullName:        u.FullName(),
		Bio:             u.Bio,
		City:            u.City,
		AvatarFileID:    u.AvatarFileID,
		HourlyRate:      u.HourlyRate,
		YearsExperience: u.YearsExperience,
		Services:        u.Services,
		Rating:          u.Rating,
		RatingCount:     u.RatingCount,
		IsActive:        u.IsActive,
	}

	if includeContact {
		profile.Email = u.Email
		profile.Phone = u.Phone
		profile.LastLoginAt = u.LastLoginAt
	}

	return profile
}

type ExperienceAnswer struct {
	BaseUUIDModel
	UserID      uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:idx_experience_user_question" json:"userId"`
	User        *User                       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"               json:"-"`
	QuestionKey string                      `gorm:"type:text;not null;uniqueIndex:idx_experience_user_question" json:"questionKey"`
	Values      datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"                                         json:"values"`
}
