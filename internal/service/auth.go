package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"gorm.io/gorm"

	"github.com/mvolkova/taskboard/internal/events"
	"github.com/mvolkova/taskboard/internal/hash"
	"github.com/mvolkova/taskboard/internal/logging"
	"github.com/mvolkova/taskboard/internal/models"
	"github.com/mvolkova/taskboard/internal/repo"
	"github.com/mvolkova/taskboard/internal/tokens"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const passwordSpecials = "!@#$%^&*()-_=+[]{};:,.?"

const passwordRequirements = "password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a digit and a special character"

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	BcryptCost    int
	Events        *events.Producer
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// ValidatePassword enforces the complexity policy: length, upper, lower,
// digit and one character from passwordSpecials.
func ValidatePassword(password string) error {
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if len(password) < 8 || !upper || !lower || !digit || !special {
		return fmt.Errorf("%w: %s", ErrValidation, passwordRequirements)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if !emailRe.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}

	// A taken email wins over a weak password, so probing with bad input
	// still reports the conflict.
	if _, err := s.Repo.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	pwHash, err := hash.Password(password, s.BcryptCost)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	s.publish(ctx, user.ID, map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	l.Info("register_success", "user_id", user.ID)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.Check(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := tokens.SignAccess(user.ID, s.JWTSecret)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign access token", "error", err)
		return nil, err
	}
	refreshToken, err := tokens.SignRefresh(user.ID, s.RefreshSecret)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign refresh token", "error", err)
		return nil, err
	}

	// Overwriting the column invalidates whatever session held the old token.
	if err := s.Repo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot store refresh token", "error", err)
		return nil, err
	}

	s.publish(ctx, user.ID, map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
	})

	l.Info("login_success", "user_id", user.ID)
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a valid, still-current refresh token for a new access
// token. The refresh token itself is not rotated here.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (string, error) {
	if rawToken == "" {
		return "", ErrUnauthenticated
	}

	claims, err := tokens.ParseRefresh(rawToken, s.RefreshSecret)
	if err != nil {
		return "", ErrForbidden
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", ErrForbidden
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrForbidden
		}
		return "", err
	}
	if user.RefreshToken == nil || *user.RefreshToken != rawToken {
		// Superseded or logged-out token presented again.
		return "", ErrForbidden
	}

	return tokens.SignAccess(userID, s.JWTSecret)
}

// Logout clears the stored refresh token when it still matches the presented
// one. It never fails: an absent, invalid or already-cleared token is a no-op.
func (s *AuthService) Logout(ctx context.Context, rawToken string) {
	if rawToken == "" {
		return
	}
	claims, err := tokens.ParseRefresh(rawToken, s.RefreshSecret)
	if err != nil {
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		return
	}
	if err := s.Repo.ClearRefreshToken(ctx, userID, rawToken); err != nil {
		logging.FromContext(ctx).Warn("logout_clear_failed", "user_id", userID, "error", err)
	}
}

func (s *AuthService) publish(ctx context.Context, userID uint, event map[string]any) {
	if err := s.Events.Publish(ctx, fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "error", err)
	}
}
