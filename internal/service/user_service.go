package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/skylink-air/skylink-backend/internal/auth"
	"github.com/skylink-air/skylink-backend/internal/database"
	"github.com/skylink-air/skylink-backend/internal/mail"
)

// RegisterRequest is the input for user registration.
type RegisterRequest struct {
	Email    string  `json:"email"`
	FullName string  `json:"fullName"`
	Password string  `json:"password"`
	Phone    *string `json:"phone,omitempty"`
	Role     string  `json:"role,omitempty"`
	// StaffCode must match the configured staff access code when registering
	// a staff or admin account.
	StaffCode string `json:"staffCode,omitempty"`
}

// ProfileUpdateRequest carries the optional profile fields; only fields
// present in the request are applied.
type ProfileUpdateRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Password *string `json:"password,omitempty"`
}

// LoginResult is the successful login payload.
type LoginResult struct {
	AccessToken string         `json:"accessToken"`
	TokenType   string         `json:"tokenType"`
	User        *database.User `json:"user"`
}

// UserService covers registration, verification, login, password reset,
// profiles, activity logs and permission checks.
type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*database.User, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Authenticate(ctx context.Context, accessToken string) (*database.User, error)
	UpdateProfile(ctx context.Context, userID int64, req ProfileUpdateRequest) error
	ActivityLogs(ctx context.Context, userID int64) ([]database.ActivityLog, error)
	ListUsers(ctx context.Context, actor *database.User) ([]database.User, error)
	HasPermission(ctx context.Context, user *database.User, permission string) (bool, error)
	LogActivity(ctx context.Context, userID int64, action, details string)
}

// UserServiceConfig holds the knobs the user service needs from configuration.
type UserServiceConfig struct {
	VerificationTTL  time.Duration
	PasswordResetTTL time.Duration
	StaffAccessCode  string
	BcryptCost       int
}

type userServiceImpl struct {
	repo   *database.Repository
	tokens *auth.TokenIssuer
	mailer mail.Mailer
	cfg    UserServiceConfig
}

// NewUserService creates a UserService.
func NewUserService(repo *database.Repository, tokens *auth.TokenIssuer, mailer mail.Mailer, cfg UserServiceConfig) UserService {
	return &userServiceImpl{repo: repo, tokens: tokens, mailer: mailer, cfg: cfg}
}

func (s *userServiceImpl) Register(ctx context.Context, req RegisterRequest) (*database.User, error) {
	if req.Email == "" || len(req.Password) < 6 || len(req.FullName) < 2 {
		return nil, fmt.Errorf("%w: email, full name and a password of at least 6 characters are required", ErrValidation)
	}

	role := req.Role
	if role == "" {
		role = database.RolePassenger
	}
	switch role {
	case database.RolePassenger:
	case database.RoleStaff, database.RoleAdmin:
		// Staff and admin accounts are gated behind the access code issued
		// to airline personnel.
		if s.cfg.StaffAccessCode == "" || req.StaffCode != s.cfg.StaffAccessCode {
			return nil, fmt.Errorf("%w: a valid staff access code is required for role %s", ErrForbidden, role)
		}
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	hashed, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	token, err := auth.GenerateToken()
	if err != nil {
		return nil, err
	}
	expires := time.Now().Add(s.cfg.VerificationTTL)

	user := &database.User{
		Email:                    req.Email,
		FullName:                 req.FullName,
		HashedPassword:           hashed,
		Phone:                    req.Phone,
		Role:                     role,
		IsActive:                 true,
		IsVerified:               false,
		VerificationToken:        &token,
		VerificationTokenExpires: &expires,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email, user.FullName, token); err != nil {
		log.Printf("UserService: failed to send verification email to %s: %v", user.Email, err)
	}
	s.LogActivity(ctx, user.ID, "USER_REGISTERED", "New user registered: "+user.Email)

	return user, nil
}

func (s *userServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.repo.GetUserByVerificationToken(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: invalid verification token", ErrValidation)
	}
	if user.VerificationTokenExpires == nil || user.VerificationTokenExpires.Before(time.Now()) {
		return fmt.Errorf("%w: verification token has expired", ErrValidation)
	}
	if user.IsVerified {
		return nil
	}
	if err := s.repo.MarkUserVerified(ctx, user.ID); err != nil {
		return err
	}
	s.LogActivity(ctx, user.ID, "EMAIL_VERIFIED", "User verified their email")
	return nil
}

func (s *userServiceImpl) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return err
	}
	if err := s.repo.SetVerificationToken(ctx, user.ID, token, time.Now().Add(s.cfg.VerificationTTL)); err != nil {
		return err
	}
	return s.mailer.SendVerificationEmail(ctx, user.Email, user.FullName, token)
}

func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil || !auth.CheckPassword(password, user.HashedPassword) {
		return nil, fmt.Errorf("%w: incorrect email or password", ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user account is inactive", ErrValidation)
	}
	if !user.IsVerified {
		log.Printf("UserService: user %s logged in without email verification", user.Email)
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}
	accessToken, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, err
	}

	s.LogActivity(ctx, user.ID, "USER_LOGIN", "User logged in: "+user.Email)

	return &LoginResult{AccessToken: accessToken, TokenType: "bearer", User: user}, nil
}

func (s *userServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		// Never reveal whether the account exists.
		return nil
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return err
	}
	if err := s.repo.SetPasswordResetToken(ctx, user.ID, token, time.Now().Add(s.cfg.PasswordResetTTL)); err != nil {
		return err
	}
	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, user.FullName, token); err != nil {
		log.Printf("UserService: failed to send reset email to %s: %v", user.Email, err)
	}
	s.LogActivity(ctx, user.ID, "PASSWORD_RESET_REQUESTED", "User requested password reset")
	return nil
}

func (s *userServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	user, err := s.repo.GetUserByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: invalid reset token", ErrValidation)
	}
	if user.PasswordResetTokenExpires == nil || user.PasswordResetTokenExpires.Before(time.Now()) {
		return fmt.Errorf("%w: reset token has expired", ErrValidation)
	}

	hashed, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return err
	}
	s.LogActivity(ctx, user.ID, "PASSWORD_RESET", "User reset their password")
	return nil
}

func (s *userServiceImpl) Authenticate(ctx context.Context, accessToken string) (*database.User, error) {
	email, err := s.tokens.Verify(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: could not validate credentials", ErrUnauthorized)
	}
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: could not validate credentials", ErrUnauthorized)
	}
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID int64, req ProfileUpdateRequest) error {
	upd := database.UserUpdate{FullName: req.FullName, Phone: req.Phone}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
		}
		hashed, err := auth.HashPassword(*req.Password, s.cfg.BcryptCost)
		if err != nil {
			return err
		}
		upd.HashedPassword = &hashed
	}
	if err := s.repo.UpdateUserProfile(ctx, userID, upd); err != nil {
		return err
	}
	s.LogActivity(ctx, userID, "PROFILE_UPDATED", "User updated profile")
	return nil
}

func (s *userServiceImpl) ActivityLogs(ctx context.Context, userID int64) ([]database.ActivityLog, error) {
	return s.repo.ListActivityLogs(ctx, userID, 20)
}

// ListUsers returns the full user roster. Admin only.
func (s *userServiceImpl) ListUsers(ctx context.Context, actor *database.User) ([]database.User, error) {
	if actor.Role != database.RoleAdmin {
		return nil, fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	return s.repo.ListUsers(ctx)
}

func (s *userServiceImpl) HasPermission(ctx context.Context, user *database.User, permission string) (bool, error) {
	if user.Role == database.RoleAdmin {
		return true, nil
	}
	return s.repo.HasPermission(ctx, user.ID, permission)
}

// LogActivity appends an activity record; failures are logged, not surfaced,
// so audit plumbing never breaks the user-facing operation.
func (s *userServiceImpl) LogActivity(ctx context.Context, userID int64, action, details string) {
	entry := &database.ActivityLog{
		UserID:    userID,
		Action:    action,
		Details:   &details,
		Timestamp: time.Now(),
	}
	if err := s.repo.InsertActivityLog(ctx, entry); err != nil {
		log.Printf("UserService: failed to record activity %s: %v", action, err)
	}
}
