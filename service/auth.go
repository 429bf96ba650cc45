package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"stream-backend/entities"
	"stream-backend/repository"
)

// Credential flows get an explicit deadline; a slow database must not pin a
// login request forever.
const loginTimeout = 10 * time.Second

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService interface {
	Register(ctx context.Context, email, name, password string) (*entities.User, string, error)
	Login(ctx context.Context, email, password string) (*entities.User, string, error)
	GoogleLogin(ctx context.Context, email, name, googleId string) (*entities.User, string, error)
	ValidateToken(userId, token string) bool
}

type authService struct {
	repo   repository.Repository
	secret string
}

func NewAuthService(repo repository.Repository, secret string) AuthService {
	return &authService{
		repo:   repo,
		secret: secret,
	}
}

func (s *authService) Register(ctx context.Context, email, name, password string) (*entities.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.repo.FindUserByEmail(ctx, email)
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &entities.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to create user")
		return nil, "", err
	}

	return user, s.sign(user.ID.String()), nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*entities.User, string, error) {
	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if user.PasswordHash == "" {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	return user, s.sign(user.ID.String()), nil
}

// GoogleLogin trusts the upstream identity payload and upserts by email.
// Verifying the Google id token is handled before this backend.
func (s *authService) GoogleLogin(ctx context.Context, email, name, googleId string) (*entities.User, string, error) {
	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}
		user = &entities.User{
			Email:    email,
			Name:     name,
			GoogleId: &googleId,
		}
		if err := s.repo.CreateUser(ctx, user); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("failed to create google user")
			return nil, "", err
		}
	}

	return user, s.sign(user.ID.String()), nil
}

func (s *authService) ValidateToken(userId, token string) bool {
	expected := s.sign(userId)
	return hmac.Equal([]byte(expected), []byte(token))
}

func (s *authService) sign(msg string) string {
	h := hmac.New(sha256.New, []byte(s.secret))
	h.Write([]byte(msg))
	return hex.EncodeToString(h.Sum(nil))
}
