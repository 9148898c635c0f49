package service

import (
	"context"
	"errors"

	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/apperror"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/repository/specification"
	"studybuddy-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IUserService interface {
	GetProfile(user *entity.User) *dto.UserResponse
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IUserService {
	return &userService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *userService) GetProfile(user *entity.User) *dto.UserResponse {
	return toUserResponse(user)
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	var newEmail, newUsername string
	if email, ok := req.Email.Get(); ok {
		if email = normalizeEmail(email); email != user.Email {
			newEmail = email
		}
	}
	if username, ok := req.Username.Get(); ok && username != user.Username {
		newUsername = username
	}
	if err := ensureUnique(ctx, uow, newEmail, newUsername, user.Id); err != nil {
		return nil, err
	}

	if newEmail != "" {
		user.Email = newEmail
	}
	if newUsername != "" {
		user.Username = newUsername
	}
	if fullName, ok := req.FullName.Get(); ok {
		user.FullName = &fullName
	} else if req.FullName.Null {
		user.FullName = nil
	}
	if password, ok := req.Password.Get(); ok {
		hash, err := hashPassword(password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateConflict(ctx, s.uowFactory, newEmail, newUsername, user.Id)
		}
		return nil, apperror.Internal(err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Info("USER", "Profile updated", map[string]interface{}{"user_id": user.Id.String()})
	return toUserResponse(user), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:        u.Id,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}
