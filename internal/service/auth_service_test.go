package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/gauravnehare1411/introducer-app-backend/internal/domain"
	"github.com/gauravnehare1411/introducer-app-backend/internal/password"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/auth"
	"github.com/gauravnehare1411/introducer-app-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc        AuthService
	userRepo   *mockUserRepo
	verifyRepo *mockVerifyRepo
	mailer     *mockMailer
	tokens     *auth.TokenService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTL:        time.Hour,
			RefreshTokenTTL:       7 * 24 * time.Hour,
			VerificationCodeTTL:   5 * time.Minute,
			ReferralIDMaxAttempts: 100,
		},
	}

	userRepo := newMockUserRepo()
	verifyRepo := newMockVerifyRepo()
	mail := &mockMailer{}
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)

	return &authFixture{
		svc:        NewAuthService(userRepo, verifyRepo, mail, &mockPublisher{}, tokens, cfg),
		userRepo:   userRepo,
		verifyRepo: verifyRepo,
		mailer:     mail,
		tokens:     tokens,
	}
}

func registerReq() *domain.RegisterRequest {
	return &domain.RegisterRequest{
		Name:          "John Smith",
		Email:         "John.Smith@Example.com",
		ContactNumber: "07700900123",
		Password:      "correct-horse",
	}
}

func TestRegisterStagesPendingRegistration(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, registerReq()))

	// Email normalized to lowercase, no account created yet.
	assert.Equal(t, 0, f.userRepo.count())
	p := f.verifyRepo.get("john.smith@example.com")
	require.NotNil(t, p)

	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), p.Code)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), p.ExpiresAt, 10*time.Second)

	// The staged hash is a digest, not the plaintext.
	ok, err := password.Verify("correct-horse", p.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterTwiceKeepsOnePendingRecord(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, registerReq()))
	first := f.verifyRepo.get("john.smith@example.com")

	require.NoError(t, f.svc.Register(ctx, registerReq()))
	second := f.verifyRepo.get("john.smith@example.com")

	assert.Equal(t, 1, f.verifyRepo.count())
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.False(t, second.ExpiresAt.Before(first.ExpiresAt))
}

func TestRegisterEmailTaken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.userRepo.Create(ctx, &domain.User{
		ID:    "u1",
		Email: "john.smith@example.com",
	}))

	err := f.svc.Register(ctx, registerReq())
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Equal(t, 0, f.verifyRepo.count())
}

func TestResendCodeWithoutPending(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.ResendCode(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNoPendingRegistration)
}

func TestResendCodeThrottledWhileValid(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, registerReq()))

	err := f.svc.ResendCode(ctx, "john.smith@example.com")
	assert.ErrorIs(t, err, domain.ErrCodeStillValid)
	assert.Equal(t, 0, f.verifyRepo.rotates)
}

func TestResendCodeRotatesAfterExpiry(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, registerReq()))
	f.verifyRepo.expire("john.smith@example.com")

	require.NoError(t, f.svc.ResendCode(ctx, "john.smith@example.com"))

	assert.Equal(t, 1, f.verifyRepo.rotates)
	p := f.verifyRepo.get("john.smith@example.com")
	require.NotNil(t, p)
	assert.True(t, p.ExpiresAt.After(time.Now()))
}

func TestVerifyCodeFinalizesAccount(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, registerReq()))
	p := f.verifyRepo.get("john.smith@example.com")
	require.NotNil(t, p)

	tokens, err := f.svc.VerifyCode(ctx, &domain.VerifyCodeRequest{
		Email: "john.smith@example.com",
		Code:  p.Code,
	})
	require.NoError(t, err)

	assert.Equal(t, "bearer", tokens.TokenType)
	assert.Equal(t, int64(3600), tokens.ExpiresIn)

	subject, err := f.tokens.Validate(tokens.AccessToken, auth.ScopeAccess)
	require.NoError(t, err)
	assert.Equal(t, "john.smith@example.com", subject)

	subject, err = f.tokens.Validate(tokens.RefreshToken, auth.ScopeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "john.smith@example.com", subject)

	// Pending record consumed, exactly one account created.
	assert.Equal(t, 0, f.verifyRepo.count())
	require.Equal(t, 1, f.userRepo.count())

	user, err := f.userRepo.FindByEmail(ctx, "john.smith@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Regexp(t, regexp.MustCompile(`^JS\d{4}$`), user.ReferralID)
}

func TestVerifyCodeRejections(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, registerReq()))
	p := f.verifyRepo.get("john.smith@example.com")
	require.NotNil(t, p)

	t.Run("wrong code", func(t *testing.T) {
		wrong := "000000"
		if p.Code == wrong {
			wrong = "000001"
		}
		_, err := f.svc.VerifyCode(ctx, &domain.VerifyCodeRequest{Email: "john.smith@example.com", Code: wrong})
		assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredCode)
	})

	t.Run("no pending record", func(t *testing.T) {
		_, err := f.svc.VerifyCode(ctx, &domain.VerifyCodeRequest{Email: "other@example.com", Code: "123456"})
		assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredCode)
	})

	t.Run("expired code", func(t *testing.T) {
		f.verifyRepo.expire("john.smith@example.com")
		_, err := f.svc.VerifyCode(ctx, &domain.VerifyCodeRequest{Email: "john.smith@example.com", Code: p.Code})
		assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredCode)
	})

	assert.Equal(t, 0, f.userRepo.count())
}

func TestVerifyCodeSecondCallFails(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, registerReq()))
	p := f.verifyRepo.get("john.smith@example.com")
	require.NotNil(t, p)

	req := &domain.VerifyCodeRequest{Email: "john.smith@example.com", Code: p.Code}

	_, err := f.svc.VerifyCode(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.VerifyCode(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredCode)
	assert.Equal(t, 1, f.userRepo.count())
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, registerReq()))
	p := f.verifyRepo.get("john.smith@example.com")
	require.NotNil(t, p)
	_, err := f.svc.VerifyCode(ctx, &domain.VerifyCodeRequest{Email: "john.smith@example.com", Code: p.Code})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		tokens, err := f.svc.Login(ctx, &domain.LoginRequest{
			Email:    "John.Smith@Example.com",
			Password: "correct-horse",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Equal(t, "bearer", tokens.TokenType)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.svc.Login(ctx, &domain.LoginRequest{
			Email:    "john.smith@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := f.svc.Login(ctx, &domain.LoginRequest{
			Email:    "nobody@example.com",
			Password: "correct-horse",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.userRepo.Create(ctx, &domain.User{
		ID:    "u1",
		Email: "alice@example.com",
	}))

	refreshToken, err := f.tokens.IssueRefresh("alice@example.com")
	require.NoError(t, err)

	t.Run("rotation", func(t *testing.T) {
		tokens, err := f.svc.RefreshToken(ctx, refreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
	})

	t.Run("access token rejected", func(t *testing.T) {
		accessToken, err := f.tokens.IssueAccess("alice@example.com")
		require.NoError(t, err)

		_, err = f.svc.RefreshToken(ctx, accessToken)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("vanished account", func(t *testing.T) {
		gone, err := f.tokens.IssueRefresh("gone@example.com")
		require.NoError(t, err)

		_, err = f.svc.RefreshToken(ctx, gone)
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestAuthenticate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.userRepo.Create(ctx, &domain.User{
		ID:    "u1",
		Email: "alice@example.com",
	}))

	t.Run("valid access token", func(t *testing.T) {
		token, err := f.tokens.IssueAccess("alice@example.com")
		require.NoError(t, err)

		user, err := f.svc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		token, err := f.tokens.IssueRefresh("alice@example.com")
		require.NoError(t, err)

		_, err = f.svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("deleted account collapses to unauthorized", func(t *testing.T) {
		token, err := f.tokens.IssueAccess("gone@example.com")
		require.NoError(t, err)

		_, err = f.svc.Authenticate(ctx, token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestRegisterVerifyLoginEndToEnd(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Register(ctx, &domain.RegisterRequest{
		Name:     "Alice Wonders",
		Email:    "alice@x.com",
		Password: "s3cret-passw0rd",
	}))

	p := f.verifyRepo.get("alice@x.com")
	require.NotNil(t, p)

	_, err := f.svc.VerifyCode(ctx, &domain.VerifyCodeRequest{Email: "alice@x.com", Code: p.Code})
	require.NoError(t, err)

	tokens, err := f.svc.Login(ctx, &domain.LoginRequest{Email: "alice@x.com", Password: "s3cret-passw0rd"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	_, err = f.svc.Login(ctx, &domain.LoginRequest{Email: "alice@x.com", Password: "not-the-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
