package service

import (
	"context"
	"errors"
	"io"
	"time"

	"anoa.com/tradeaid/internal/model"
	"anoa.com/tradeaid/internal/password"
	"anoa.com/tradeaid/internal/repository"
	"anoa.com/tradeaid/internal/token"
	"anoa.com/tradeaid/pkg/apperror"
	"anoa.com/tradeaid/pkg/storage"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const loginAction = "login"

type RegisterInput struct {
	Email    string  `json:"email" form:"email" binding:"required,email"`
	Password string  `json:"password" form:"password" binding:"required,min=4"`
	FullName string  `json:"full_name" form:"full_name" binding:"required"`
	Gender   *string `json:"gender" form:"gender"`
	Address  *string `json:"address" form:"address"`
	Phone    *string `json:"phone" form:"phone"`
	Profile  *string `json:"profile" form:"profile"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UploadFile carries an uploaded file from the handler to the service.
type UploadFile struct {
	Reader   io.Reader
	FileName string
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput, picture *UploadFile) (*AuthResponse, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
}

type authService struct {
	repo        repository.UserRepository
	hasher      *password.Hasher
	issuer      *token.Issuer
	fileStorage storage.FileStorage
	sanitizer   *bluemonday.Policy
	rdb         *redis.Client
	loginLimit  time.Duration
}

func NewAuthService(
	repo repository.UserRepository,
	hasher *password.Hasher,
	issuer *token.Issuer,
	fileStorage storage.FileStorage,
	rdb *redis.Client,
	loginLimit time.Duration,
) AuthService {
	return &authService{
		repo:        repo,
		hasher:      hasher,
		issuer:      issuer,
		fileStorage: fileStorage,
		sanitizer:   bluemonday.StrictPolicy(),
		rdb:         rdb,
		loginLimit:  loginLimit,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput, picture *UploadFile) (*AuthResponse, error) {
	if err := s.ensureEmailUnique(ctx, input.Email); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// Upload only after the business checks passed so rejected
	// registrations leave nothing behind in storage.
	profileRef := sanitizeOptional(s.sanitizer, input.Profile)
	if picture != nil && picture.Reader != nil && s.fileStorage != nil {
		ref, err := s.fileStorage.Upload(ctx, picture.Reader, "", picture.FileName)
		if err != nil {
			return nil, err
		}
		profileRef = &ref
	}

	user := &model.User{
		Email:          input.Email,
		PasswordHash:   hashed,
		FullName:       s.sanitizer.Sanitize(input.FullName),
		Gender:         sanitizeOptional(s.sanitizer, input.Gender),
		Address:        sanitizeOptional(s.sanitizer, input.Address),
		Phone:          sanitizeOptional(s.sanitizer, input.Phone),
		ProfilePicture: profileRef,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the pre-check; the
		// unique index is the authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Wrap(apperror.ErrConflict, "Email already registered")
		}
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	if s.loginLimit > 0 {
		ttl, err := GetRateLimitTTL(ctx, s.rdb, input.Email, loginAction)
		if err == nil && ttl > 0 {
			return nil, apperror.Wrap(apperror.ErrRateLimitExceeded, "Too many failed logins, try again later")
		}
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.failLogin(ctx, input.Email)
		}
		return nil, err
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, s.failLogin(ctx, input.Email)
	}

	if s.loginLimit > 0 {
		_ = ClearRateLimit(ctx, s.rdb, input.Email, loginAction)
	}

	return s.buildAuthResponse(user)
}

// failLogin records the failed attempt and returns the uniform credentials
// error. Unknown emails and wrong passwords are indistinguishable.
func (s *authService) failLogin(ctx context.Context, email string) error {
	if s.loginLimit > 0 {
		_, _ = CheckAndSetRateLimit(ctx, s.rdb, email, loginAction, s.loginLimit)
	}
	return apperror.Wrap(apperror.ErrUnauthorized, "Invalid credentials")
}

func (s *authService) buildAuthResponse(user *model.User) (*AuthResponse, error) {
	signed, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:  user,
		Token: signed,
	}, nil
}

func (s *authService) ensureEmailUnique(ctx context.Context, email string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return apperror.Wrap(apperror.ErrConflict, "Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func sanitizeOptional(p *bluemonday.Policy, value *string) *string {
	if value == nil {
		return nil
	}

	cleaned := p.Sanitize(*value)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
