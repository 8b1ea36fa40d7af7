package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/club-service/internal/auth"
	"github.com/spec-kit/club-service/internal/config"
	"github.com/spec-kit/club-service/internal/domain"
	"github.com/spec-kit/club-service/internal/events"
	"github.com/spec-kit/club-service/internal/mail"
	"github.com/spec-kit/club-service/internal/ratelimit"
	"github.com/spec-kit/club-service/internal/repository"
	apperrors "github.com/spec-kit/club-service/pkg/util"
)

// AuthService coordinates registration, OTP verification and login flows.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	mailer     mail.Mailer
	limiter    ratelimit.Limiter
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	otpDigits  int
	otpTTL     time.Duration
	strictMail bool
	now        func() time.Time
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Mailer      mail.Mailer
	OTPLimiter  ratelimit.Limiter
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// RegisterInput describes a registration payload after transport validation.
type RegisterInput struct {
	Email        string
	EnrollmentNo string
	Name         string
	Phone        string
	Branch       domain.Branch
	Year         domain.Year
	Password     string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts:   deps.AccountRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		mailer:     deps.Mailer,
		limiter:    deps.OTPLimiter,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
		otpDigits:  cfg.Auth.OTPDigits,
		otpTTL:     cfg.Auth.OTPTTL(),
		strictMail: cfg.App.IsProduction(),
		now:        time.Now,
	}
}

// Register creates an unverified account and dispatches the first OTP. The
// response never carries a session token; one is only minted after the email
// is proven.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	account := &domain.Account{
		Email:        normalizeEmail(input.Email),
		EnrollmentNo: input.EnrollmentNo,
		Name:         strings.TrimSpace(input.Name),
		Phone:        input.Phone,
		Branch:       input.Branch,
		Year:         input.Year,
		Role:         domain.RoleMember,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if field := apperrors.DuplicateKeyField(err, repository.AccountConstraints); field != "" {
			return nil, apperrors.NewDuplicateKey(field)
		}
		return nil, apperrors.MapError(err)
	}
	account.PasswordHash = ""

	// Mail outage must not block account creation; the user can always
	// request a resend.
	if err := s.issueAndDeliverOTP(ctx, account); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountRegistered,
		AccountID: account.ID,
		Payload: events.AccountRegisteredPayload{
			Email:  account.Email,
			Name:   account.Name,
			Branch: account.Branch,
			Year:   account.Year,
		},
	})
	return account, nil
}

// RequestOTP issues a fresh verification code. Resending always produces a
// new code/expiry pair; any earlier pending code stops validating.
func (s *AuthService) RequestOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("account", nil)
		}
		return apperrors.MapError(err)
	}
	if account.IsEmailVerified {
		return apperrors.NewAlreadyVerified()
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, email)
		if err != nil {
			return apperrors.MapError(err)
		}
		if !allowed {
			return apperrors.NewRateLimited("too many verification requests, try again later")
		}
	}

	return s.issueAndDeliverOTP(ctx, account)
}

// VerifyOTP validates the pending code and, on success, flips the account to
// verified and mints a session token. Validation and the state flip happen in
// one atomic update, so a concurrent reissue can never leave a half-verified
// record.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) (*domain.Account, string, time.Time, error) {
	email = normalizeEmail(email)
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewNotFound("account", nil)
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if account.IsEmailVerified {
		return nil, "", time.Time{}, apperrors.NewAlreadyVerified()
	}

	consumed, err := s.accounts.ConsumeOTP(ctx, account.ID, code, s.now())
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !consumed {
		return nil, "", time.Time{}, apperrors.NewInvalidOrExpiredOTP()
	}
	account.IsEmailVerified = true
	account.OTP = nil
	account.OTPExpiresAt = nil

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountVerified,
		AccountID: account.ID,
		Payload:   events.AccountVerifiedPayload{Email: account.Email},
	})
	return account, token, exp, nil
}

// Login authenticates an account by email and password. Unknown email and
// wrong password are indistinguishable in the result.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	account, err := s.accounts.GetByEmailWithSecret(ctx, normalizeEmail(email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	if !account.IsActive {
		return nil, "", time.Time{}, apperrors.NewDeactivated()
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	account.PasswordHash = ""
	account.OTP = nil
	account.OTPExpiresAt = nil
	return account, token, exp, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return apperrors.MapError(err)
	}
	withSecret, err := s.accounts.GetByEmailWithSecret(ctx, account.Email)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(withSecret.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	return apperrors.MapError(s.accounts.UpdatePassword(ctx, accountID, hash))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issueAndDeliverOTP(ctx context.Context, account *domain.Account) error {
	code, err := auth.GenerateOTP(s.otpDigits)
	if err != nil {
		return apperrors.MapError(err)
	}
	expiresAt := s.now().Add(s.otpTTL)
	if err := s.accounts.SetOTP(ctx, account.ID, code, expiresAt); err != nil {
		return apperrors.MapError(err)
	}

	subject := "Your verification code"
	body := fmt.Sprintf("Hi %s,\n\nYour verification code is %s. It expires in %d minutes.\n",
		account.Name, code, int(s.otpTTL.Minutes()))
	if err := s.mailer.Send(ctx, account.Email, subject, body); err != nil {
		if s.strictMail {
			return apperrors.NewDependencyFailure("mail", err)
		}
		s.logger.Warn("otp mail dispatch failed",
			zap.String("email", account.Email),
			zap.Error(err))
	}
	return nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.Timestamp = s.now()
	_ = s.dispatcher.Publish(ctx, event)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
