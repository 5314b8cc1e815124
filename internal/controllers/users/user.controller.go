package userController

import (
	"context"
	"strings"

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
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserController struct {
	userRepo    repositories.UserRepository
	fileRepo    repositories.FileRepository
	transaction *services.TransactionService
	db          database.DB
	Config      config.Config
	log         logger.Logger
}

type UserControllerInterface interface {
	GetProfile(ctx context.Context, viewer *User, userID uuid.UUID) (UserProfile, error)
	UpdateProfile(ctx context.Context, user *User, req *UpdateProfileRequest) (UserProfile, error)
	ListExperienceAnswers(ctx context.Context, userID uuid.UUID) ([]*ExperienceAnswer, error)
	SetExperienceAnswers(
		ctx context.Context,
		user *User,
		req *SetExperienceAnswersRequest,
	) ([]*ExperienceAnswer, error)
}

// UpdateProfileRequest is a partial update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName       *string          `json:"firstName"       validate:"omitempty,min=1,max=100"`
	LastName        *string          `json:"lastName"        validate:"omitempty,min=1,max=100"`
	Phone           *string          `json:"phone"           validate:"omitempty,max=40"`
	Bio             *string          `json:"bio"             validate:"omitempty,max=2000"`
	City            *string          `json:"city"            validate:"omitempty,max=100"`
	AvatarFileID    *uuid.UUID       `json:"avatarFileId"`
	HourlyRate      *decimal.Decimal `json:"hourlyRate"`
	YearsExperience *int             `json:"yearsExperience" validate:"omitempty,gte=0,lte=80"`
	Services        []string         `json:"services"        validate:"omitempty,max=30,dive,min=1,max=100"`
}

type ExperienceAnswerInput struct {
	QuestionKey string   `json:"questionKey" validate:"required,max=100"`
	Values      []string `json:"values"      validate:"required,min=1,max=20,dive,min=1,max=200"`
}

type SetExperienceAnswersRequest struct {
	Answers []ExperienceAnswerInput `json:"answers" validate:"max=50,dive"`
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) UserControllerInterface {
	return &UserController{
		userRepo:    repos.User,
		fileRepo:    repos.File,
		transaction: services.Transaction,
		db:          db,
		Config:      config,
		log:         logger.New("userController"),
	}
}

func (uc *UserController) GetProfile(ctx context.Context, viewer *User, userID uuid.UUID) (UserProfile, error) {
	user, err := uc.userRepo.GetByID(ctx, uc.db.SQL, userID)
	if err != nil {
		return UserProfile{}, err
	}

	return user.ToProfile(viewer.IsAdmin() || viewer.ID == user.ID), nil
}

func (uc *UserController) UpdateProfile(
	ctx context.Context,
	user *User,
	req *UpdateProfileRequest,
) (UserProfile, error) {
	log := uc.log.Function("UpdateProfile")

	if err := utils.ValidateRequest(req); err != nil {
		return UserProfile{}, err
	}

	if req.HourlyRate != nil && req.HourlyRate.IsNegative() {
		return UserProfile{}, ierr.Validation("hourlyRate must not be negative")
	}

	var updated *User
	err := uc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		current, err := uc.userRepo.GetForUpdate(ctx, tx, user.ID)
		if err != nil {
			return err
		}

		if req.AvatarFileID != nil {
			if err := uc.checkAvatar(ctx, tx, current.ID, *req.AvatarFileID); err != nil {
				return err
			}
			current.AvatarFileID = req.AvatarFileID
		}

		applyProfile(current, req)

		if err := uc.userRepo.Update(ctx, tx, current); err != nil {
			return err
		}

		updated = current
		return nil
	})
	if err != nil {
		return UserProfile{}, err
	}

	log.Info("Profile updated", "userID", updated.ID)

	return updated.ToProfile(true), nil
}

func applyProfile(user *User, req *UpdateProfileRequest) {
	if req.FirstName != nil {
		user.FirstName = utils.CleanText(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = utils.CleanText(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = utils.CleanText(*req.Phone)
	}
	if req.Bio != nil {
		user.Bio = utils.CleanText(*req.Bio)
	}
	if req.City != nil {
		user.City = utils.CleanText(*req.City)
	}

	// Maid profile fields are ignored for everyone else
	if !user.IsMaid() {
		return
	}

	if req.HourlyRate != nil {
		user.HourlyRate = req.HourlyRate
	}
	if req.YearsExperience != nil {
		user.YearsExperience = req.YearsExperience
	}
	if req.Services != nil {
		user.Services = datatypes.JSONSlice[string](lo.Uniq(lo.Map(req.Services, func(s string, _ int) string {
			return utils.CleanText(s)
		})))
	}
}

func (uc *UserController) checkAvatar(ctx context.Context, tx *gorm.DB, ownerID, fileID uuid.UUID) error {
	file, err := uc.fileRepo.GetByID(ctx, tx, fileID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return ierr.Validation("Avatar file not found")
		}
		return err
	}

	if file.OwnerID != ownerID {
		return ierr.Validation("Avatar file must be uploaded by you")
	}

	if !strings.HasPrefix(file.MimeType, "image/") {
		return ierr.Validation("Avatar must be an image")
	}

	return nil
}

func (uc *UserController) ListExperienceAnswers(
	ctx context.Context,
	userID uuid.UUID,
) ([]*ExperienceAnswer, error) {
	if _, err := uc.userRepo.GetByID(ctx, uc.db.SQL, userID); err != nil {
		return nil, err
	}

	return uc.userRepo.GetExperienceAnswers(ctx, uc.db.SQL, userID)
}

// SetExperienceAnswers replaces the maid's full answer set.
func (uc *UserController) SetExperienceAnswers(
	ctx context.Context,
	user *User,
	req *SetExperienceAnswersRequest,
) ([]*ExperienceAnswer, error) {
	log := uc.log.Function("SetExperienceAnswers")

	if !user.IsMaid() {
		return nil, ierr.Forbidden("Only maids can answer experience questions")
	}

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	answers, err := buildAnswers(user.ID, req.Answers)
	if err != nil {
		return nil, err
	}

	err = uc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return uc.userRepo.ReplaceExperienceAnswers(ctx, tx, user.ID, answers)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Experience answers replaced", "userID", user.ID, "count", len(answers))

	return answers, nil
}

func buildAnswers(userID uuid.UUID, inputs []ExperienceAnswerInput) ([]*ExperienceAnswer, error) {
	seen := make(map[string]bool, len(inputs))
	answers := make([]*ExperienceAnswer, 0, len(inputs))

	for _, input := range inputs {
		key := strings.TrimSpace(input.QuestionKey)
		if key == "" {
			return nil, ierr.Validation("questionKey is required")
		}
		if seen[key] {
			return nil, ierr.NewError("duplicate question key").
				WithHintf("Question %q is answered more than once", key).
				Mark(ierr.ErrValidation)
		}
		seen[key] = true

		values := make([]string, 0, len(input.Values))
		for _, value := range input.Values {
			cleaned := utils.CleanText(value)
			if cleaned == "" {
				return nil, ierr.NewError("blank answer value").
					WithHintf("Answers for %q must not be blank", key).
					Mark(ierr.ErrValidation)
			}
			values = append(values, cleaned)
		}

		answers = append(answers, &ExperienceAnswer{
			UserID:      userID,
			QuestionKey: key,
			Values:      datatypes.JSONSlice[string](lo.Uniq(values)),
		})
	}

	return answers, nil
}
