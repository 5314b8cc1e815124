package authController

import (
	"context"
	"testing"

	"maidhub/config"
	"maidhub/internal/database"
	ierr "maidhub/internal/errors"
	"maidhub/internal/models"
	"maidhub/internal/repositories/mocks"
	"maidhub/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestController() (*AuthController, *mocks.Repositories) {
	repos := mocks.NewRepositories()
	tokens := services.NewTokenService(config.Config{
		SecurityJWTSecret:     "test-secret",
		SecurityTokenTTLHours: 1,
	})

	controller := New(repos.Repository(), services.Service{Token: tokens}, database.DB{}).(*AuthController)
	controller.bcryptCost = bcrypt.MinCost

	return controller, repos
}

func hashed(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister_Success(t *testing.T) {
	controller, repos := newTestController()
	ctx := context.Background()

	repos.User.On("EmailExists", ctx, mock.Anything, "ana@example.com").Return(false, nil)
	repos.User.On("Create", ctx, mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*models.User).ID = uuid.New()
		}).
		Return(nil)

	resp, err := controller.Register(ctx, &RegisterRequest{
		Email:     " Ana@Example.com ",
		Password:  "correct-horse",
		Role:      models.RoleMaid,
		FirstName: "Ana",
		LastName:  "Horvat",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, models.RoleMaid, resp.User.Role)

	created := repos.User.Calls[1].Arguments.Get(2).(*models.User)
	assert.NotEqual(t, "correct-horse", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct-horse")))
	repos.User.AssertExpectations(t)
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	controller, repos := newTestController()

	_, err := controller.Register(context.Background(), &RegisterRequest{
		Email:     "root@example.com",
		Password:  "correct-horse",
		Role:      models.RoleAdmin,
		FirstName: "Root",
		LastName:  "User",
	})

	assert.True(t, ierr.IsValidation(err))
	repos.User.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_EmailTaken(t *testing.T) {
	controller, repos := newTestController()
	ctx := context.Background()

	repos.User.On("EmailExists", ctx, mock.Anything, "ana@example.com").Return(true, nil)

	_, err := controller.Register(ctx, &RegisterRequest{
		Email:     "ana@example.com",
		Password:  "correct-horse",
		Role:      models.RoleClient,
		FirstName: "Ana",
		LastName:  "Horvat",
	})

	assert.True(t, ierr.Is(err, ierr.ErrAlreadyExists))
}

func TestLogin(t *testing.T) {
	user := &models.User{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		Email:         "ana@example.com",
		PasswordHash:  hashed(t, "correct-horse"),
		Role:          models.RoleClient,
		IsActive:      true,
	}
	inactive := *user
	inactive.IsActive = false

	tests := []struct {
		name      string
		password  string
		found     *models.User
		lookupErr error
		expectOK  bool
	}{
		{name: "valid credentials", password: "correct-horse", found: user, expectOK: true},
		{name: "wrong password", password: "wrong-horse", found: user},
		{name: "inactive user", password: "correct-horse", found: &inactive},
		{name: "unknown email", password: "correct-horse", lookupErr: ierr.NotFound("User not found")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, repos := newTestController()
			ctx := context.Background()

			repos.User.On("GetByEmail", ctx, mock.Anything, "ana@example.com").Return(tt.found, tt.lookupErr)
			repos.User.On("TouchLastLogin", ctx, mock.Anything, mock.Anything).Return(nil).Maybe()

			resp, err := controller.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: tt.password})

			if !tt.expectOK {
				assert.True(t, ierr.Is(err, ierr.ErrInvalidCredentials))
				assert.Equal(t, "Invalid email or password", ierr.Hint(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID.String(), resp.User.ID)

			claims, err := controller.tokens.Parse(resp.Token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
		})
	}
}

func TestLogin_LastLoginFailureIsNotFatal(t *testing.T) {
	controller, repos := newTestController()
	ctx := context.Background()

	user := &models.User{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		Email:         "ana@example.com",
		PasswordHash:  hashed(t, "correct-horse"),
		Role:          models.RoleMaid,
		IsActive:      true,
	}

	repos.User.On("GetByEmail", ctx, mock.Anything, "ana@example.com").Return(user, nil)
	repos.User.On("TouchLastLogin", ctx, mock.Anything, user).Return(assert.AnError)

	resp, err := controller.Login(ctx, &LoginRequest{Email: "ana@example.com", Password: "correct-horse"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestMe_IncludesContactDetails(t *testing.T) {
	controller, _ := newTestController()

	user := &models.User{
		BaseUUIDModel: models.BaseUUIDModel{ID: uuid.New()},
		Email:         "ana@example.com",
		Phone:         "+385 1 234 567",
		Role:          models.RoleClient,
	}

	profile := controller.Me(context.Background(), user)

	assert.Equal(t, "ana@example.com", profile.Email)
	assert.Equal(t, "+385 1 234 567", profile.Phone)
}
