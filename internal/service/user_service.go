package service

import (
	"context"
	"errors"

	"anoa.com/tradeaid/internal/model"
	"anoa.com/tradeaid/internal/password"
	"anoa.com/tradeaid/internal/repository"
	"anoa.com/tradeaid/pkg/apperror"
	"anoa.com/tradeaid/pkg/storage"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

type BasicRegisterInput struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type UpdateProfileInput struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	FullName string `json:"full_name" form:"full_name"`
	Gender   string `json:"gender" form:"gender"`
	Address  string `json:"address" form:"address"`
	Phone    string `json:"phone" form:"phone"`
}

type UserService interface {
	// Register creates a bare account with only credentials; the profile is
	// completed later through UpdateProfile.
	Register(ctx context.Context, input BasicRegisterInput) (*model.User, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput, picture *UploadFile) (*model.User, error)
}

type userService struct {
	repo        repository.UserRepository
	hasher      *password.Hasher
	fileStorage storage.FileStorage
	sanitizer   *bluemonday.Policy
}

func NewUserService(repo repository.UserRepository, hasher *password.Hasher, fileStorage storage.FileStorage) UserService {
	return &userService{
		repo:        repo,
		hasher:      hasher,
		fileStorage: fileStorage,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

func (s *userService) Register(ctx context.Context, input BasicRegisterInput) (*model.User, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.Wrap(apperror.ErrBadRequest, "Email already exists. Please log in.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: hashed,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Wrap(apperror.ErrBadRequest, "Email already exists. Please log in.")
		}
		return nil, err
	}

	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, input UpdateProfileInput, picture *UploadFile) (*model.User, error) {
	// Only supplied fields overwrite stored values; empty strings keep the
	// prior value, matching COALESCE(NULLIF(...)) update semantics.
	fields := map[string]interface{}{}
	if v := s.sanitizer.Sanitize(input.FullName); v != "" {
		fields["full_name"] = v
	}
	if v := s.sanitizer.Sanitize(input.Gender); v != "" {
		fields["gender"] = v
	}
	if v := s.sanitizer.Sanitize(input.Address); v != "" {
		fields["address"] = v
	}
	if v := s.sanitizer.Sanitize(input.Phone); v != "" {
		fields["phone"] = v
	}

	if picture != nil && picture.Reader != nil && s.fileStorage != nil {
		ref, err := s.fileStorage.Upload(ctx, picture.Reader, "", picture.FileName)
		if err != nil {
			return nil, err
		}
		fields["profile_picture"] = ref
	}

	user, err := s.repo.UpdateProfile(ctx, input.Email, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "User not found")
		}
		return nil, err
	}

	return user, nil
}
