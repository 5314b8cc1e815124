package authController

import (
	"context"
	"sync"
	"time"

	"maidhub/internal/database"
	ierr "maidhub/internal/errors"
	. "maidhub/internal/models"
	"maidhub/internal/repositories"
	"maidhub/internal/services"
	"maidhub/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	userRepo   repositories.UserRepository
	tokens     *services.TokenService
	db         database.DB
	bcryptCost int
	log        logger.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

type AuthControllerInterface interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Me(ctx context.Context, user *User) UserProfile
}

type RegisterRequest struct {
	Email     string   `json:"email"     validate:"required,email,max=254"`
	Password  string   `json:"password"  validate:"required,min=8,max=72"`
	Role      UserRole `json:"role"      validate:"required,oneof=CLIENT MAID"`
	FirstName string   `json:"firstName" validate:"required,max=100"`
	LastName  string   `json:"lastName"  validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserProfile `json:"user"`
}

func New(
	repos repositories.Repository,
	services services.Service,
	db database.DB,
) AuthControllerInterface {
	return &AuthController{
		userRepo:   repos.User,
		tokens:     services.Token,
		db:         db,
		bcryptCost: bcrypt.DefaultCost,
		log:        logger.New("authController"),
	}
}

func (ac *AuthController) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	log := ac.log.Function("Register")

	if err := utils.ValidateRequest(req); err != nil {
		return nil, err
	}

	email := NormalizeEmail(req.Email)

	exists, err := ac.userRepo.EmailExists(ctx, ac.db.SQL, email)
	if err != nil {
		return nil, err
	}
	if exists {
		log.Info("Registration with existing email rejected")
		return nil, ierr.NewError("email already registered").
			WithHint("An account with this email already exists").
			Mark(ierr.ErrAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), ac.bcryptCost)
	if err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	user := &User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		FirstName:    utils.CleanText(req.FirstName),
		LastName:     utils.CleanText(req.LastName),
		IsActive:     true,
	}

	if err := ac.userRepo.Create(ctx, ac.db.SQL, user); err != nil {
		return nil, err
	}

	log.Info("User registered", "userID", user.ID, "role", user.Role)

	return ac.issue(user)
}

// Login fails with the same InvalidCredentials error for an unknown email,
// an inactive account and a wrong password. Unknown emails still pay for a
// bcrypt comparison.
func (ac *AuthController) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	log := ac.log.Function("Login")

	if err := utils.ValidateRequest(req); err != nil {
		return nil, invalidCredentials()
	}

	user, err := ac.userRepo.GetByEmail(ctx, ac.db.SQL, req.Email)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(ac.dummyPasswordHash(), []byte(req.Password))
		return nil, invalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Info("Login failed", "userID", user.ID)
		return nil, invalidCredentials()
	}

	if !user.IsActive {
		log.Info("Login for inactive user rejected", "userID", user.ID)
		return nil, invalidCredentials()
	}

	if err := ac.userRepo.TouchLastLogin(ctx, ac.db.SQL, user); err != nil {
		log.Warn("failed to record last login", "userID", user.ID, "error", err)
	}

	return ac.issue(user)
}

func (ac *AuthController) Me(ctx context.Context, user *User) UserProfile {
	return user.ToProfile(true)
}

func (ac *AuthController) issue(user *User) (*AuthResponse, error) {
	token, expiresAt, err := ac.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.ToProfile(true),
	}, nil
}

func (ac *AuthController) dummyPasswordHash() []byte {
	ac.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("maidhub-placeholder-password"), ac.bcryptCost)
		if err != nil {
			ac.log.Function("dummyPasswordHash").Er("failed to build placeholder hash", err)
			return
		}
		ac.dummyHash = hash
	})
	return ac.dummyHash
}

func invalidCredentials() error {
	return ierr.NewError("invalid credentials").
		WithHint("Invalid email or password").
		Mark(ierr.ErrInvalidCredentials)
}
