// Package auth implements the session layer: a credential check against an
// injected user directory, HS256 session tokens and a persisted
// (token, user) pair. Unlike the cart engine, failures here are returned to
// the caller.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkravchenko/marketplace/internal/constants"
	"github.com/mkravchenko/marketplace/internal/events"
	"github.com/mkravchenko/marketplace/internal/hash"
	"github.com/mkravchenko/marketplace/internal/models"
	"github.com/mkravchenko/marketplace/internal/storage"
	"github.com/mkravchenko/marketplace/pkg/logging"
	"github.com/mkravchenko/marketplace/pkg/tokens"
)

var (
	ErrNoSession  = errors.New("no session")
	ErrValidation = errors.New("validation")
)

type SignUpData struct {
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	Role            models.Role `json:"role"`
	BusinessName    string      `json:"businessName,omitempty"`
	BusinessAddress string      `json:"businessAddress,omitempty"`
	BusinessPhone   string      `json:"businessPhone,omitempty"`
}

type Service struct {
	Store    UserStore
	Sessions storage.Store
	Secret   []byte
	Producer *events.Producer

	now func() time.Time
}

func NewService(store UserStore, sessions storage.Store, secret []byte, producer *events.Producer) *Service {
	return &Service{
		Store:    store,
		Sessions: sessions,
		Secret:   secret,
		Producer: producer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) issueSession(ctx context.Context, user *models.User) error {
	token, err := tokens.NewSessionToken(user.ID, user.Email, s.Secret, s.now())
	if err != nil {
		return fmt.Errorf("issue session token: %w", err)
	}
	if err := s.Sessions.Put(ctx, constants.StorageKeyToken, []byte(token)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := s.Sessions.Put(ctx, constants.StorageKeyUser, raw); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, userID string, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, events.TopicUser, userID, event); err != nil {
		logging.FromContext(ctx).Error("user_event_publish_error", "error", err)
	}
}

// SignIn verifies the credentials against the directory and opens a
// session. Unknown email and bad password both come back as
// ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signin", "email", email)

	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", ErrValidation)
	}

	user, pwHash, err := s.Store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			l.Warn("signin_failed", "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("signin_failed", "error", err)
		return nil, err
	}
	if !hash.CheckPassword(pwHash, password) {
		l.Warn("signin_failed", "reason", "bad password")
		return nil, ErrInvalidCredentials
	}

	if err := s.issueSession(ctx, user); err != nil {
		l.Error("signin_failed", "error", err)
		return nil, err
	}

	s.publish(ctx, user.ID, map[string]any{
		"type":  "user_signed_in",
		"email": user.Email,
	})
	l.Info("signin_ok", "user_id", user.ID)
	return user, nil
}

// SignUp registers a new user and opens a session exactly as SignIn does.
// A duplicate email fails with ErrUserExists and leaves the directory
// unchanged.
func (s *Service) SignUp(ctx context.Context, data SignUpData) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup", "email", data.Email)

	if data.Email == "" || data.Password == "" || data.Name == "" {
		return nil, fmt.Errorf("name, email and password required: %w", ErrValidation)
	}

	role := data.Role
	if role == "" {
		role = models.RoleCustomer
	}

	pwHash, err := hash.HashPassword(data.Password)
	if err != nil {
		l.Error("signup_failed", "error", err)
		return nil, err
	}

	now := s.now()
	user := &models.User{
		ID:        uuid.NewString(),
		Email:     data.Email,
		Name:      data.Name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.Insert(ctx, user, pwHash); err != nil {
		if errors.Is(err, ErrUserExists) {
			l.Warn("signup_failed", "reason", "email taken")
			return nil, ErrUserExists
		}
		l.Error("signup_failed", "error", err)
		return nil, err
	}

	if err := s.issueSession(ctx, user); err != nil {
		l.Error("signup_failed", "error", err)
		return nil, err
	}

	s.publish(ctx, user.ID, map[string]any{
		"type":  "user_registered",
		"email": user.Email,
	})
	l.Info("signup_ok", "user_id", user.ID)
	return user, nil
}

// SignOut clears both persisted halves of the session.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.Sessions.Delete(ctx, constants.StorageKeyToken); err != nil {
		return err
	}
	return s.Sessions.Delete(ctx, constants.StorageKeyUser)
}

// CurrentUser returns the persisted user when a complete, still-valid
// session exists, and (nil, nil) otherwise. No session is not an error.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	token, ok, err := s.Sessions.Get(ctx, constants.StorageKeyToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	raw, ok, err := s.Sessions.Get(ctx, constants.StorageKeyUser)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	if _, err := tokens.SessionClaimsFromToken(string(token), s.Secret); err != nil {
		// Expired or tampered token: treat as no session.
		logging.FromContext(ctx).Warn("session_token_invalid", "error", err)
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		logging.FromContext(ctx).Warn("session_user_corrupt", "error", err)
		return nil, nil
	}
	return &user, nil
}

// RefreshToken re-issues a session token for the stored user.
func (s *Service) RefreshToken(ctx context.Context) (string, error) {
	raw, ok, err := s.Sessions.Get(ctx, constants.StorageKeyUser)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoSession
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return "", ErrNoSession
	}

	token, err := tokens.NewSessionToken(user.ID, user.Email, s.Secret, s.now())
	if err != nil {
		return "", err
	}
	if err := s.Sessions.Put(ctx, constants.StorageKeyToken, []byte(token)); err != nil {
		return "", err
	}
	return token, nil
}

// Token returns the raw persisted session token, if any.
func (s *Service) Token(ctx context.Context) (string, bool, error) {
	raw, ok, err := s.Sessions.Get(ctx, constants.StorageKeyToken)
	if err != nil || !ok {
		return "", false, err
	}
	return string(raw), true, nil
}
