package services

import (
	"time"

	"maidhub/config"
	ierr "maidhub/internal/errors"
	"maidhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TOKEN_ISSUER = "maidhub"

type TokenClaims struct {
	UserID uuid.UUID       `json:"uid"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    logger.Logger
}

func NewTokenService(config config.Config) *TokenService {
	return &TokenService{
		secret: []byte(config.SecurityJWTSecret),
		ttl:    time.Duration(config.SecurityTokenTTLHours) * time.Hour,
		now:    time.Now,
		log:    logger.New("TokenService"),
	}
}

func (s *TokenService) Issue(user *models.User) (string, time.Time, error) {
	log := s.log.Function("Issue")

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := TokenClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TOKEN_ISSUER,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, log.Err("failed to sign token", err, "userID", user.ID)
	}

	return signed, expiresAt, nil
}

// Parse verifies signature, issuer and expiry and returns the claims.
// Every failure is reported as ErrUnauthenticated.
func (s *TokenService) Parse(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TOKEN_ISSUER),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err == nil && !token.Valid {
		err = jwt.ErrTokenSignatureInvalid
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid or expired token").
			Mark(ierr.ErrUnauthenticated)
	}

	if claims.UserID == uuid.Nil {
		return nil, ierr.NewError("token without user").
			WithHint("Invalid or expired token").
			Mark(ierr.ErrUnauthenticated)
	}

	return claims, nil
}
