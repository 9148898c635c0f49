package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/entity"
	"studybuddy-be/internal/pkg/apperror"
	"studybuddy-be/internal/pkg/logger"
	"studybuddy-be/internal/repository/specification"
	"studybuddy-be/internal/repository/unitofwork"
	"studybuddy-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	msgEmailTaken         = "Email already registered"
	msgUsernameTaken      = "Username already taken"
	msgAccountTaken       = "Email or username already registered"
	msgBadCredentials     = "Incorrect email/username or password"
	msgInactiveAccount    = "Account is inactive"
	msgInvalidCredentials = "Could not validate credentials"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Authenticate resolves a bearer token to its user. The active flag is not checked.
	Authenticate(ctx context.Context, rawToken string) (*entity.User, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	tokens         TokenIssuer
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, tokens TokenIssuer, eventPublisher events.Publisher, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		tokens:         tokens,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	email := normalizeEmail(req.Email)

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	if err := ensureUnique(ctx, uow, email, req.Username, uuid.Nil); err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         entity.UserRoleStudent,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateConflict(ctx, s.uowFactory, email, req.Username, uuid.Nil)
		}
		return nil, apperror.Internal(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Info("AUTH", "User registered", map[string]interface{}{"user_id": user.Id.String()})
	publishEvent(ctx, s.eventPublisher, s.logger, events.NewEvent(events.TypeUserRegistered, map[string]interface{}{
		"user_id":  user.Id.String(),
		"username": user.Username,
	}))

	return s.tokenResponse(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmailOrUsername{Identifier: strings.TrimSpace(req.EmailOrUsername)})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apperror.Unauthorized(msgBadCredentials)
	}
	if !user.IsActive {
		return nil, apperror.Forbidden(msgInactiveAccount)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, apperror.Internal(err)
	}

	publishEvent(ctx, s.eventPublisher, s.logger, events.NewEvent(events.TypeUserLogin, map[string]interface{}{
		"user_id": user.Id.String(),
		"time":    now.UTC().Format(time.RFC3339),
	}))

	return s.tokenResponse(user)
}

func (s *authService) Authenticate(ctx context.Context, rawToken string) (*entity.User, error) {
	if rawToken == "" {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}
	userID, err := s.tokens.Verify(rawToken)
	if err != nil {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}
	return user, nil
}

func (s *authService) tokenResponse(user *entity.User) (*dto.TokenResponse, error) {
	signed, err := s.tokens.Issue(user.Id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &dto.TokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		User:        toUserResponse(user),
	}, nil
}

// ensureUnique rejects an email or username already held by another account.
// Pass uuid.Nil as self when registering.
func ensureUnique(ctx context.Context, uow unitofwork.UnitOfWork, email, username string, self uuid.UUID) error {
	if email != "" {
		specs := []specification.Specification{specification.ByEmail{Email: email}}
		if self != uuid.Nil {
			specs = append(specs, specification.ExcludeID{ID: self})
		}
		count, err := uow.UserRepository().Count(ctx, specs...)
		if err != nil {
			return apperror.Internal(err)
		}
		if count > 0 {
			return apperror.Conflict(msgEmailTaken)
		}
	}

	if username != "" {
		specs := []specification.Specification{specification.ByUsername{Username: username}}
		if self != uuid.Nil {
			specs = append(specs, specification.ExcludeID{ID: self})
		}
		count, err := uow.UserRepository().Count(ctx, specs...)
		if err != nil {
			return apperror.Internal(err)
		}
		if count > 0 {
			return apperror.Conflict(msgUsernameTaken)
		}
	}
	return nil
}

// duplicateConflict names the field behind a unique violation raised by a
// concurrent write. The failed transaction cannot be queried any more, so the
// lookup runs outside it.
func duplicateConflict(ctx context.Context, uowFactory unitofwork.RepositoryFactory, email, username string, self uuid.UUID) error {
	if err := ensureUnique(ctx, uowFactory.NewUnitOfWork(ctx), email, username, self); err != nil {
		return err
	}
	return apperror.Conflict(msgAccountTaken)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperror.Validation("Validation failed", map[string]string{
				"password": "password must be at most 72 bytes",
			})
		}
		return "", apperror.Internal(err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
