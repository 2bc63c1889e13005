package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pinit-down/internal/domain/entity"
	"github.com/oksasatya/pinit-down/internal/domain/repository"
	"github.com/oksasatya/pinit-down/pkg/helpers"
	"github.com/oksasatya/pinit-down/pkg/validation"
)

const (
	DefaultVerifyTokenTTL = 24 * time.Hour
	DefaultResetTokenTTL  = time.Hour
	DefaultNotifyTimeout  = 5 * time.Second
)

// AuthOptions tunes token lifetimes. Zero values fall back to the defaults.
type AuthOptions struct {
	VerifyTTL     time.Duration
	ResetTTL      time.Duration
	NotifyTimeout time.Duration
}

// AuthService runs the account flows: registration, login, email verification and password reset.
type AuthService struct {
	Users    repository.UserRepository
	JWT      *helpers.JWTManager
	Notifier Notifier
	Logger   *logrus.Logger

	VerifyTTL     time.Duration
	ResetTTL      time.Duration
	NotifyTimeout time.Duration

	now func() time.Time
	wg  sync.WaitGroup

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repository.UserRepository, jwt *helpers.JWTManager, notifier Notifier, logger *logrus.Logger, opts AuthOptions) *AuthService {
	s := &AuthService{
		Users:         users,
		JWT:           jwt,
		Notifier:      notifier,
		Logger:        logger,
		VerifyTTL:     opts.VerifyTTL,
		ResetTTL:      opts.ResetTTL,
		NotifyTimeout: opts.NotifyTimeout,
		now:           time.Now,
	}
	if s.VerifyTTL <= 0 {
		s.VerifyTTL = DefaultVerifyTokenTTL
	}
	if s.ResetTTL <= 0 {
		s.ResetTTL = DefaultResetTokenTTL
	}
	if s.NotifyTimeout <= 0 {
		s.NotifyTimeout = DefaultNotifyTimeout
	}
	if s.Logger == nil {
		s.Logger = helpers.DiscardLogger()
	}
	return s
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
	Name     string `json:"name" validate:"required,displayname"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type emailInput struct {
	Email string `json:"email" validate:"required,email"`
}

type passwordInput struct {
	Password string `json:"password" validate:"required,pwd"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      entity.PublicUser
}

// ResetTokenUser identifies the account a reset link belongs to.
type ResetTokenUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NormalizeEmail trims and lower-cases an address. Lookups are exact on the result.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified account, queues the verification email and signs the caller in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &entity.User{Email: in.Email, Password: hash, Name: in.Name}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// The account exists at this point; a failed verification setup is recoverable through resend.
	if err := s.startVerification(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("verification setup failed")
	}

	return s.issue(u)
}

// Login checks credentials. Unknown email and wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// keep timing close to the wrong-password path
			helpers.CompareHashAndPassword(s.dummy(), in.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, in.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidVerificationToken
	}
	u, err := s.Users.MarkEmailVerified(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidVerificationToken
		}
		return fmt.Errorf("verify email: %w", err)
	}
	s.Logger.WithField("user_id", u.ID).Info("email verified")
	return nil
}

// ResendVerification replaces any pending verification token and sends a new email.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	in := emailInput{Email: NormalizeEmail(email)}
	if err := validation.Struct(in); err != nil {
		return err
	}
	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	if u.IsEmailVerified {
		return ErrAlreadyVerified
	}
	return s.startVerification(ctx, u)
}

// ForgotPassword issues a reset token when the account exists. The outcome is never revealed to the caller.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	in := emailInput{Email: NormalizeEmail(email)}
	if err := validation.Struct(in); err != nil {
		return nil
	}
	log := s.Logger.WithField("op", "forgot_password")

	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.WithError(err).Error("lookup user failed")
		}
		return nil
	}

	token, err := helpers.GenerateOpaqueToken(helpers.MinOpaqueTokenBytes)
	if err != nil {
		log.WithError(err).Error("generate reset token failed")
		return nil
	}
	expires := s.now().Add(s.ResetTTL)
	if err := s.Users.SetResetToken(ctx, u.ID, token, expires); err != nil {
		log.WithError(err).WithField("user_id", u.ID).Error("store reset token failed")
		return nil
	}

	s.notify(ctx, "forgot_password", func(c context.Context, n Notifier) error {
		return n.SendPasswordResetEmail(c, *u, token, expires)
	})
	return nil
}

// VerifyResetToken reports who a still-valid reset token belongs to without consuming it.
func (s *AuthService) VerifyResetToken(ctx context.Context, token string) (*ResetTokenUser, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidResetToken
	}
	u, err := s.Users.GetByResetToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, fmt.Errorf("lookup reset token: %w", err)
	}
	return &ResetTokenUser{Name: u.Name, Email: u.Email}, nil
}

// ResetPassword sets a new password and consumes the reset token in one conditional update.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if err := validation.Struct(passwordInput{Password: password}); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidResetToken
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u, err := s.Users.ResetPassword(ctx, token, hash, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("reset password: %w", err)
	}
	s.Logger.WithField("user_id", u.ID).Info("password reset")
	return nil
}

// Me returns the caller's own profile.
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.Profile, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	p := u.Profile()
	return &p, nil
}

// Wait blocks until queued notifications have finished.
func (s *AuthService) Wait() {
	s.wg.Wait()
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: u.Public()}, nil
}

func (s *AuthService) startVerification(ctx context.Context, u *entity.User) error {
	token, err := helpers.GenerateOpaqueToken(helpers.MinOpaqueTokenBytes)
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}
	expires := s.now().Add(s.VerifyTTL)
	if err := s.Users.SetVerificationToken(ctx, u.ID, token, expires); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}
	user := *u
	s.notify(ctx, "verify_email", func(c context.Context, n Notifier) error {
		return n.SendVerificationEmail(c, user, token, expires)
	})
	return nil
}

// notify sends in the background on a context detached from the request.
func (s *AuthService) notify(ctx context.Context, kind string, send func(context.Context, Notifier) error) {
	if s.Notifier == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.NotifyTimeout)
		defer cancel()
		if err := send(c, s.Notifier); err != nil {
			s.Logger.WithError(err).WithField("email_type", kind).Warn("send email failed")
		}
	}()
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := helpers.HashPassword("pinit-down-placeholder")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
