package services

import (
	"context"
	"strconv"
	"time"

	"fieldops/config"
	"fieldops/internal/lifecycle"
	. "fieldops/internal/models"
	"fieldops/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Role lifecycle.Role `json:"role"`
	jwt.RegisteredClaims
}

// IdentityService resolves the calling principal from a bearer token. Tokens
// are issued elsewhere; IssueToken exists for seeding and tests.
type IdentityService struct {
	userRepo repositories.UserRepository
	secret   []byte
	issuer   string
	log      logger.Logger
}

func NewIdentityService(repos repositories.Repository, config config.Config) *IdentityService {
	return &IdentityService{
		userRepo: repos.User,
		secret:   []byte(config.JWTSecret),
		issuer:   config.JWTIssuer,
		log:      logger.New("identityService"),
	}
}

func (s *IdentityService) IssueToken(user *User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", s.log.Function("IssueToken").Err("failed to sign token", err, "userID", user.ID)
	}
	return token, nil
}

// ParseToken validates signature, expiry and issuer and returns the user id.
func (s *IdentityService) ParseToken(tokenString string) (int64, error) {
	log := s.log.Function("ParseToken")

	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, options...)
	if err != nil {
		log.Debug("token rejected", "error", err)
		return 0, lifecycle.Forbidden("invalid token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, lifecycle.Forbidden("invalid token subject")
	}
	return userID, nil
}

// Resolve turns a token into the principal. The stored role wins over the
// claim so a demoted user loses capabilities immediately.
func (s *IdentityService) Resolve(ctx context.Context, tokenString string) (lifecycle.Principal, *User, error) {
	userID, err := s.ParseToken(tokenString)
	if err != nil {
		return lifecycle.Principal{}, nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if lifecycle.Kind(err) == lifecycle.ErrNotFound {
			return lifecycle.Principal{}, nil, lifecycle.Forbidden("unknown user")
		}
		return lifecycle.Principal{}, nil, err
	}

	if !user.IsActive || !user.Role.IsValid() {
		return lifecycle.Principal{}, nil, lifecycle.Forbidden("user %d is inactive", user.ID)
	}

	return user.Principal(), user, nil
}
