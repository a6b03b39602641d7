package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"order-upload/internal/data/entity"
	"order-upload/internal/data/repository"
	"order-upload/internal/dto/request"
	"order-upload/internal/dto/response"
	"order-upload/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSessionTTL = 24 * time.Hour

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, userID int64) (*response.UserResponse, error)
	// Authenticate resolves a session token to the caller it belongs to.
	Authenticate(ctx context.Context, token string) (*utils.Principal, error)
	CreateSeller(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	CleanExpiredSessions(ctx context.Context) error
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionStore
	config   utils.SessionConfig
	log      *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionStore,
	config utils.SessionConfig,
	log *zap.Logger,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		config:   config,
		log:      log.With(zap.String("service", "auth")),
	}
}

// Register creates a customer account and logs it in. Seller accounts are
// only created through CreateSeller.
func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	user, err := s.createUser(ctx, req, false)
	if err != nil {
		return nil, err
	}

	session, err := s.createSession(ctx, user.ID, req.UserAgent, req.IPAddress)
	if err != nil {
		s.log.Warn("Failed to create session after register",
			zap.Error(err), zap.Int64("user_id", user.ID))
	}

	s.log.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) CreateSeller(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	user, err := s.createUser(ctx, req, true)
	if err != nil {
		return nil, err
	}

	s.log.Info("Seller created",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Login rejected", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	session, err := s.createSession(ctx, user.ID, req.UserAgent, req.IPAddress)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.Bool("is_seller", user.IsSeller))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if _, err := utils.ParseUUID(token); err != nil {
		return fmt.Errorf("%w: malformed session token", ErrUnauthorized)
	}

	if err := s.sessions.Revoke(ctx, token); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("failed to logout: %w", err)
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, userID int64) (*response.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d no longer exists", ErrUnauthorized, userID)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*utils.Principal, error) {
	if _, err := utils.ParseUUID(token); err != nil {
		return nil, fmt.Errorf("%w: malformed session token", ErrUnauthorized)
	}

	session, err := s.sessions.FindValidSession(ctx, token)
	if err != nil {
		s.log.Error("Failed to load session", zap.Error(err))
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session expired or revoked", ErrUnauthorized)
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		s.log.Error("Failed to find session user", zap.Error(err), zap.Int64("user_id", session.UserID))
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: session user no longer exists", ErrUnauthorized)
	}

	return &utils.Principal{
		UserID:   user.ID,
		Username: user.Username,
		IsSeller: user.IsSeller,
	}, nil
}

func (s *authService) CleanExpiredSessions(ctx context.Context) error {
	if err := s.sessions.CleanExpiredSessions(ctx); err != nil {
		s.log.Error("Failed to clean expired sessions", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) createUser(ctx context.Context, req *request.RegisterRequest, isSeller bool) (*entity.User, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password: %w", err)
	}

	user := &entity.User{
		Username:     req.Username,
		PasswordHash: hashedPassword,
		IsSeller:     isSeller,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username already taken", ErrConflict)
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return user, nil
}

func (s *authService) createSession(ctx context.Context, userID int64, userAgent, ip string) (*entity.Session, error) {
	ttl := s.config.TTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     utils.GenerateSessionToken(),
		UserAgent: optional(userAgent),
		IPAddress: optional(ip),
		ExpiresAt: now.Add(ttl),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
