package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gauravnehare1411/introducer-app-backend/internal/domain"
	"github.com/gauravnehare1411/introducer-app-backend/internal/mailer"
	"github.com/gauravnehare1411/introducer-app-backend/internal/password"
	"github.com/gauravnehare1411/introducer-app-backend/internal/repository"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/auth"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/config"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/events"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/logger"
	"github.com/google/uuid"
)

type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) error
	ResendCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, req *domain.VerifyCodeRequest) (*domain.TokenResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenResponse, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type authService struct {
	userRepo    repository.UserRepository
	verifyRepo  repository.VerifyRepository
	mailer      mailer.Service
	eventBus    events.Publisher
	tokens      *auth.TokenService
	referralIDs *referralIDGenerator
	codeTTL     time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	verifyRepo repository.VerifyRepository,
	mailer mailer.Service,
	eventBus events.Publisher,
	tokens *auth.TokenService,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		verifyRepo:  verifyRepo,
		mailer:      mailer,
		eventBus:    eventBus,
		tokens:      tokens,
		referralIDs: newReferralIDGenerator(userRepo, cfg.Auth.ReferralIDMaxAttempts),
		codeTTL:     cfg.Auth.VerificationCodeTTL,
	}
}

// Register stages a pending registration and emails a one-time code. Calling
// it again for the same email simply replaces the earlier attempt, so retries
// are harmless.
func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return domain.ErrEmailTaken
	}

	passwordHash, err := password.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := randomDigits(6)
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	pending := &domain.PendingRegistration{
		Email:         req.Email,
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		PasswordHash:  passwordHash,
		Code:          code,
		ExpiresAt:     time.Now().Add(s.codeTTL),
	}

	if err := s.verifyRepo.UpsertPending(ctx, pending); err != nil {
		return fmt.Errorf("failed to stage pending registration: %w", err)
	}

	s.notifyCode(ctx, req.Email, req.Name, code)

	if err := s.eventBus.Publish(ctx, events.UserRegistered, events.UserRegisteredEvent{
		Email:        req.Email,
		RegisteredAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish registration event", "error", err)
	}

	return nil
}

// ResendCode rotates the pending code once the current one has expired.
// While the current code is still live it refuses, which throttles
// notification spam.
func (s *authService) ResendCode(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)

	pending, err := s.verifyRepo.FindPending(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to load pending registration: %w", err)
	}
	if pending == nil {
		return domain.ErrNoPendingRegistration
	}

	if time.Now().Before(pending.ExpiresAt) {
		return domain.ErrCodeStillValid
	}

	code, err := randomDigits(6)
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	if err := s.verifyRepo.RotateCode(ctx, email, code, time.Now().Add(s.codeTTL)); err != nil {
		return fmt.Errorf("failed to rotate verification code: %w", err)
	}

	s.notifyCode(ctx, email, pending.Name, code)

	return nil
}

// VerifyCode promotes a pending registration into a durable account and
// returns freshly minted tokens. Missing record, wrong code, and expired code
// all collapse into one error so callers cannot tell which case occurred.
func (s *authService) VerifyCode(ctx context.Context, req *domain.VerifyCodeRequest) (*domain.TokenResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	pending, err := s.verifyRepo.FindPending(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending registration: %w", err)
	}
	if pending == nil || pending.Code != req.Code || !time.Now().Before(pending.ExpiresAt) {
		return nil, domain.ErrInvalidOrExpiredCode
	}

	// Conditional delete makes finalization single-winner: of two concurrent
	// verifications only the one whose delete removed the record proceeds.
	deleted, err := s.verifyRepo.DeletePending(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to consume pending registration: %w", err)
	}
	if !deleted {
		return nil, domain.ErrInvalidOrExpiredCode
	}

	referralID, err := s.referralIDs.Generate(ctx, pending.Name)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:            uuid.NewString(),
		Name:          pending.Name,
		Email:         pending.Email,
		ContactNumber: pending.ContactNumber,
		ReferralID:    referralID,
		PasswordHash:  pending.PasswordHash,
		Role:          domain.RoleUser,
		CreatedAt:     time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.eventBus.Publish(ctx, events.UserVerified, events.UserVerifiedEvent{
		UserID:     user.ID,
		Email:      user.Email,
		ReferralID: user.ReferralID,
		VerifiedAt: time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish verification event", "error", err)
	}

	return s.issueTokens(user.Email)
}

// Login authenticates with email and password. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	valid, err := password.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueTokens(user.Email)
}

// RefreshToken exchanges a refresh-scoped token for a new access+refresh
// pair. The old refresh token is not revoked, an accepted limitation.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenResponse, error) {
	subject, err := s.tokens.Validate(refreshToken, auth.ScopeRefresh)
	if err != nil {
		logger.DebugContext(ctx, "Refresh token rejected", "reason", err)
		return nil, domain.ErrUnauthorized
	}

	user, err := s.userRepo.FindByEmail(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrAccountNotFound
	}

	return s.issueTokens(user.Email)
}

// Authenticate validates an access-scoped token and loads the account behind
// it. Every failure, including a deleted account, collapses to unauthorized.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	subject, err := s.tokens.Validate(accessToken, auth.ScopeAccess)
	if err != nil {
		logger.DebugContext(ctx, "Access token rejected", "reason", err)
		return nil, domain.ErrUnauthorized
	}

	user, err := s.userRepo.FindByEmail(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	return user, nil
}

func (s *authService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// notifyCode dispatches the code email without blocking the caller. Failures
// are logged, never surfaced; the code itself stays out of the logs.
func (s *authService) notifyCode(ctx context.Context, email, name, code string) {
	log := logger.WithContext(ctx)
	go func() {
		if err := s.mailer.SendVerificationCode(email, name, code); err != nil {
			log.Error("Failed to send verification code email", "error", err, "email", email)
		}
	}()
}

func (s *authService) issueTokens(subject string) (*domain.TokenResponse, error) {
	accessToken, err := s.tokens.IssueAccess(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefresh(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}

	return &domain.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}
