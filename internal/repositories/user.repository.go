package repositories

import (
	"context"
	"time"

	"maidhub/internal/constants"
	"maidhub/internal/database"
	ierr "maidhub/internal/errors"
	. "maidhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	Update(ctx context.Context, tx *gorm.DB, user *User) error
	TouchLastLogin(ctx context.Context, tx *gorm.DB, user *User) error
	GetExperienceAnswers(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*ExperienceAnswer, error)
	ReplaceExperienceAnswers(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		answers []*ExperienceAnswer,
	) error
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{
		cache: cache,
		log:   logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var cached User
	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(constants.UserCachePrefix).
		Get(&cached)
	if err != nil && err != database.ErrCacheUnavailable {
		log.Warn("failed to get user from cache", "userID", id, "error", err)
	}
	if found {
		return &cached, nil
	}

	user, err := gorm.G[*User](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, lookupErr(log, err, "User not found", "userID", id)
	}

	r.cacheUser(ctx, user)

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error) {
	log := r.log.Function("GetByEmail")

	user, err := gorm.G[*User](tx).Where("email = ?", NormalizeEmail(email)).First(ctx)
	if err != nil {
		return nil, lookupErr(log, err, "User not found")
	}

	return user, nil
}

func (r *userRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetForUpdate")

	var user User
	if err := forUpdate(tx.WithContext(ctx)).First(&user, "id = ?", id).Error; err != nil {
		return nil, lookupErr(log, err, "User not found", "userID", id)
	}

	return &user, nil
}

func (r *userRepository) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	log := r.log.Function("EmailExists")

	count, err := gorm.G[User](tx.Unscoped()).Where("email = ?", NormalizeEmail(email)).Count(ctx, "id")
	if err != nil {
		return false, log.Err("failed to check email", err)
	}

	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Create")

	if err := gorm.G[User](tx).Create(ctx, user); err != nil {
		if ierr.SQLState(err) == ierr.SQLStateUniqueViolation {
			return duplicateEmailErr(err)
		}
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	r.clearUserCache(ctx, user.ID)

	return nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("TouchLastLogin")

	now := time.Now()
	if err := tx.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", user.ID).
		Update("last_login_at", now).Error; err != nil {
		return log.Err("failed to update last login", err, "userID", user.ID)
	}

	user.LastLoginAt = &now
	r.clearUserCache(ctx, user.ID)

	return nil
}

func (r *userRepository) GetExperienceAnswers(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*ExperienceAnswer, error) {
	log := r.log.Function("GetExperienceAnswers")

	answers, err := gorm.G[*ExperienceAnswer](tx).
		Where("user_id = ?", userID).
		Order("question_key ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get experience answers", err, "userID", userID)
	}

	return answers, nil
}

func (r *userRepository) ReplaceExperienceAnswers(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	answers []*ExperienceAnswer,
) error {
	log := r.log.Function("ReplaceExperienceAnswers")

	if _, err := gorm.G[ExperienceAnswer](tx).Where("user_id = ?", userID).Delete(ctx); err != nil {
		return log.Err("failed to clear experience answers", err, "userID", userID)
	}

	if len(answers) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).Create(&answers).Error; err != nil {
		return log.Err("failed to create experience answers", err, "userID", userID)
	}

	return nil
}

func (r *userRepository) cacheUser(ctx context.Context, user *User) {
	err := database.NewCacheBuilder(r.cache, user.ID).
		WithContext(ctx).
		WithHash(constants.UserCachePrefix).
		WithStruct(user).
		WithTTL(constants.UserCacheExpiry).
		Set()
	if err != nil && err != database.ErrCacheUnavailable {
		r.log.Function("cacheUser").Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}
}

// duplicateEmailErr covers the registration that loses the race between the
// email check and the insert.
func duplicateEmailErr(err error) error {
	return ierr.WithError(err).
		WithHint("An account with this email already exists").
		Mark(ierr.ErrAlreadyExists)
}

// clearUserCache evicts the cached user once the caller's transaction commits.
func (r *userRepository) clearUserCache(ctx context.Context, userID uuid.UUID) {
	database.AfterCommit(ctx, func(ctx context.Context) {
		err := database.NewCacheBuilder(r.cache, userID).
			WithContext(ctx).
			WithHash(constants.UserCachePrefix).
			Delete()
		if err != nil && err != database.ErrCacheUnavailable {
			r.log.Function("clearUserCache").Warn("failed to clear user cache", "userID", userID, "error", err)
		}
	})
}
