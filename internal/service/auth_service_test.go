package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tekanya/plumbing-bookings/internal/domain"
	"github.com/tekanya/plumbing-bookings/internal/otp"
	"github.com/tekanya/plumbing-bookings/internal/service"
	"github.com/tekanya/plumbing-bookings/pkg/auth"
	"github.com/tekanya/plumbing-bookings/pkg/config"
)

// ---------- Mocks ----------

type mockUserRepo struct {
	users  map[string]*domain.User // email -> user
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, email, passwordHash, role string) (*domain.User, error) {
	if _, exists := m.users[email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	user := &domain.User{
		ID:           fmt.Sprintf("user-%d", m.nextID),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.nextID++
	m.users[email] = user
	return user, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.users[email], nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

type mockMailer struct {
	lastTo    string
	lastCode  string
	welcomeTo string
	sendErr   error
}

func (m *mockMailer) SendOTPEmail(toEmail, code string) error {
	m.lastTo = toEmail
	m.lastCode = code
	return m.sendErr
}

func (m *mockMailer) SendWelcomeEmail(toEmail string) error {
	m.welcomeTo = toEmail
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (noopPublisher) Close() error                                       { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret",
			AccessTokenTTL: time.Hour,
			OTPTTL:         10 * time.Minute,
			AdminEmail:     "admin@plumbing.com",
			AdminPassword:  "plumb123",
		},
	}
}

func setupAuthService() (service.AuthService, *mockUserRepo, otp.Store, *mockMailer) {
	userRepo := newMockUserRepo()
	otpStore := otp.NewMemoryStore()
	mailer := &mockMailer{}
	svc := service.NewAuthService(userRepo, otpStore, mailer, noopPublisher{}, testConfig())
	return svc, userRepo, otpStore, mailer
}

// ---------- Tests ----------

func TestRegister_SendsOTPAndParksPending(t *testing.T) {
	svc, _, otpStore, mailer := setupAuthService()
	ctx := context.Background()

	err := svc.Register(ctx, &domain.RegisterRequest{Email: "new@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if mailer.lastTo != "new@example.com" {
		t.Errorf("Expected OTP email to new@example.com, got %q", mailer.lastTo)
	}
	if len(mailer.lastCode) != 6 {
		t.Errorf("Expected 6-digit code, got %q", mailer.lastCode)
	}

	reg, err := otpStore.Get(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if reg == nil {
		t.Fatal("Expected pending registration")
	}
	if reg.CodeHash == mailer.lastCode {
		t.Error("Code stored in plaintext")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, userRepo, _, _ := setupAuthService()
	ctx := context.Background()

	userRepo.Create(ctx, "taken@example.com", "hash", domain.RoleUser)

	err := svc.Register(ctx, &domain.RegisterRequest{Email: "taken@example.com", Password: "secret1"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("Expected ErrDuplicateEmail, got %v", err)
	}
}

func TestRegister_MailFailureSurfaces(t *testing.T) {
	svc, _, _, mailer := setupAuthService()
	mailer.sendErr = errors.New("smtp down")

	err := svc.Register(context.Background(), &domain.RegisterRequest{Email: "new@example.com", Password: "secret1"})
	if !errors.Is(err, domain.ErrMailDelivery) {
		t.Fatalf("Expected ErrMailDelivery, got %v", err)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _, _, _ := setupAuthService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  domain.RegisterRequest
	}{
		{"missing email", domain.RegisterRequest{Password: "secret1"}},
		{"bad email", domain.RegisterRequest{Email: "not-an-email", Password: "secret1"}},
		{"short password", domain.RegisterRequest{Email: "a@b.com", Password: "12345"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			if err := svc.Register(ctx, &req); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestVerifyOTP_CreatesUserAndConsumesCode(t *testing.T) {
	svc, _, otpStore, mailer := setupAuthService()
	ctx := context.Background()

	if err := svc.Register(ctx, &domain.RegisterRequest{Email: "new@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := svc.VerifyOTP(ctx, &domain.VerifyOTPRequest{
		Email: "new@example.com", OTP: mailer.lastCode, Password: "secret1",
	})
	if err != nil {
		t.Fatalf("VerifyOTP failed: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("Expected role %q, got %q", domain.RoleUser, user.Role)
	}
	if mailer.welcomeTo != "new@example.com" {
		t.Errorf("Expected welcome email, got %q", mailer.welcomeTo)
	}

	reg, _ := otpStore.Get(ctx, "new@example.com")
	if reg != nil {
		t.Fatal("Pending registration not deleted after verification")
	}

	// The code is single use.
	_, err = svc.VerifyOTP(ctx, &domain.VerifyOTPRequest{
		Email: "new@example.com", OTP: mailer.lastCode, Password: "secret1",
	})
	if !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("Expected ErrInvalidOTP on reuse, got %v", err)
	}
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	svc, _, _, mailer := setupAuthService()
	ctx := context.Background()

	if err := svc.Register(ctx, &domain.RegisterRequest{Email: "new@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	wrong := "000000"
	if wrong == mailer.lastCode {
		wrong = "000001"
	}

	_, err := svc.VerifyOTP(ctx, &domain.VerifyOTPRequest{
		Email: "new@example.com", OTP: wrong, Password: "secret1",
	})
	if !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("Expected ErrInvalidOTP, got %v", err)
	}
}

func TestVerifyOTP_ExpiredCode(t *testing.T) {
	svc, _, otpStore, _ := setupAuthService()
	ctx := context.Background()

	otpStore.Put(ctx, "new@example.com", otp.PendingRegistration{
		CodeHash:  "irrelevant",
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	_, err := svc.VerifyOTP(ctx, &domain.VerifyOTPRequest{
		Email: "new@example.com", OTP: "123456", Password: "secret1",
	})
	if !errors.Is(err, domain.ErrInvalidOTP) {
		t.Fatalf("Expected ErrInvalidOTP for expired code, got %v", err)
	}
}

func TestVerifyOTP_ReinitiateInvalidatesOldCode(t *testing.T) {
	svc, _, _, mailer := setupAuthService()
	ctx := context.Background()

	if err := svc.Register(ctx, &domain.RegisterRequest{Email: "new@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	firstCode := mailer.lastCode

	if err := svc.Register(ctx, &domain.RegisterRequest{Email: "new@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Second register failed: %v", err)
	}
	secondCode := mailer.lastCode

	if firstCode != secondCode {
		_, err := svc.VerifyOTP(ctx, &domain.VerifyOTPRequest{
			Email: "new@example.com", OTP: firstCode, Password: "secret1",
		})
		if !errors.Is(err, domain.ErrInvalidOTP) {
			t.Fatalf("Expected old code rejected, got %v", err)
		}
	}

	user, err := svc.VerifyOTP(ctx, &domain.VerifyOTPRequest{
		Email: "new@example.com", OTP: secondCode, Password: "secret1",
	})
	if err != nil {
		t.Fatalf("VerifyOTP with latest code failed: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Errorf("Unexpected user email %q", user.Email)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _, _, mailer := setupAuthService()
	ctx := context.Background()

	svc.Register(ctx, &domain.RegisterRequest{Email: "new@example.com", Password: "secret1"})
	if _, err := svc.VerifyOTP(ctx, &domain.VerifyOTPRequest{
		Email: "new@example.com", OTP: mailer.lastCode, Password: "secret1",
	}); err != nil {
		t.Fatalf("VerifyOTP failed: %v", err)
	}

	resp, err := svc.Login(ctx, &domain.LoginRequest{Email: "new@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	claims, err := auth.Parse(resp.Token, "test-secret")
	if err != nil {
		t.Fatalf("Token does not parse: %v", err)
	}
	if claims.Email != "new@example.com" || claims.Role != domain.RoleUser {
		t.Errorf("Unexpected claims: email=%s role=%s", claims.Email, claims.Role)
	}
	if resp.User == nil || resp.User.Email != "new@example.com" {
		t.Error("Expected user info in login response")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _, mailer := setupAuthService()
	ctx := context.Background()

	svc.Register(ctx, &domain.RegisterRequest{Email: "new@example.com", Password: "secret1"})
	if _, err := svc.VerifyOTP(ctx, &domain.VerifyOTPRequest{
		Email: "new@example.com", OTP: mailer.lastCode, Password: "secret1",
	}); err != nil {
		t.Fatalf("VerifyOTP failed: %v", err)
	}

	_, err := svc.Login(ctx, &domain.LoginRequest{Email: "new@example.com", Password: "wrong-pass"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _, _ := setupAuthService()

	_, err := svc.Login(context.Background(), &domain.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	svc, userRepo, _, _ := setupAuthService()
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}

	admin := userRepo.users["admin@plumbing.com"]
	if admin == nil || admin.Role != domain.RoleAdmin {
		t.Fatal("Expected seeded admin user")
	}

	if err := svc.EnsureAdmin(ctx); err != nil {
		t.Fatalf("Second EnsureAdmin failed: %v", err)
	}
	if len(userRepo.users) != 1 {
		t.Fatalf("Expected a single user, got %d", len(userRepo.users))
	}
}
