package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/tekanya/plumbing-bookings/internal/domain"
	"github.com/tekanya/plumbing-bookings/internal/mailer"
	"github.com/tekanya/plumbing-bookings/internal/otp"
	"github.com/tekanya/plumbing-bookings/internal/repository"
	"github.com/tekanya/plumbing-bookings/pkg/auth"
	"github.com/tekanya/plumbing-bookings/pkg/config"
	"github.com/tekanya/plumbing-bookings/pkg/events"
	"github.com/tekanya/plumbing-bookings/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	// Register starts the two-step signup: it emails a one-time passcode
	// and parks a pending registration. No identity is created yet; the
	// password is only shape-checked and must be resent on verify.
	Register(ctx context.Context, req *domain.RegisterRequest) error
	VerifyOTP(ctx context.Context, req *domain.VerifyOTPRequest) (*domain.User, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error)
	EnsureAdmin(ctx context.Context) error
}

type authService struct {
	userRepo repository.UserRepository
	otpStore otp.Store
	mailer   mailer.Service
	eventBus events.Publisher
	config   *config.Config
}

func NewAuthService(
	userRepo repository.UserRepository,
	otpStore otp.Store,
	mailer mailer.Service,
	eventBus events.Publisher,
	config *config.Config,
) AuthService {
	return &authService{
		userRepo: userRepo,
		otpStore: otpStore,
		mailer:   mailer,
		eventBus: eventBus,
		config:   config,
	}
}

func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return domain.ErrDuplicateEmail
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash OTP: %w", err)
	}

	// A re-initiate for the same email overwrites the previous entry, so
	// at most one passcode is live per address.
	reg := otp.PendingRegistration{
		CodeHash:  string(codeHash),
		ExpiresAt: time.Now().Add(s.config.Auth.OTPTTL),
	}
	if err := s.otpStore.Put(ctx, req.Email, reg); err != nil {
		return fmt.Errorf("failed to store pending registration: %w", err)
	}

	// The user cannot complete signup without the code, so a delivery
	// failure is surfaced rather than swallowed.
	if err := s.mailer.SendOTPEmail(req.Email, code); err != nil {
		logger.ErrorContext(ctx, "Failed to send OTP email", "error", err, "email", req.Email)
		return fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
	}

	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *domain.VerifyOTPRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	reg, err := s.otpStore.Get(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending registration: %w", err)
	}
	if reg == nil || reg.Expired(time.Now()) {
		return nil, domain.ErrInvalidOTP
	}
	if bcrypt.CompareHashAndPassword([]byte(reg.CodeHash), []byte(req.OTP)) != nil {
		return nil, domain.ErrInvalidOTP
	}

	passwordHash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Another path may have claimed the email between initiate and
	// verify; the duplicate surfaces as-is.
	user, err := s.userRepo.Create(ctx, req.Email, passwordHash, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	// Single use: the pending entry is gone once consumed.
	if err := s.otpStore.Delete(ctx, req.Email); err != nil {
		logger.WarnContext(ctx, "Failed to delete pending registration", "error", err, "email", req.Email)
	}

	if err := s.mailer.SendWelcomeEmail(user.Email); err != nil {
		logger.WarnContext(ctx, "Failed to send welcome email", "error", err, "email", user.Email)
	}

	event := events.UserRegisteredEvent{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		RegisteredAt: user.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.UserRegistered, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish user registered event", "error", err, "user_id", user.ID)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := auth.NewAccessToken(
		user.ID,
		user.Email,
		user.Role,
		s.config.Auth.JWTSecret,
		s.config.Auth.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &domain.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.Auth.AccessTokenTTL.Seconds()),
		User:      user.ToUserInfo(),
	}, nil
}

// EnsureAdmin seeds the bootstrap admin account if it does not exist yet.
func (s *authService) EnsureAdmin(ctx context.Context) error {
	existing, err := s.userRepo.FindByEmail(ctx, s.config.Auth.AdminEmail)
	if err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if existing != nil {
		return nil
	}

	passwordHash, err := argon2id.CreateHash(s.config.Auth.AdminPassword, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, s.config.Auth.AdminEmail, passwordHash, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Seeded admin user", "email", user.Email)
	return nil
}

// generateOTP draws a 6-digit code uniformly from [000000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
