package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Orka-kun/Users-API/internal/auth"
	"github.com/Orka-kun/Users-API/internal/domain"

	"github.com/google/uuid"
)

type UsersStore interface {
	CreateUser(ctx context.Context, id, name, email, passwordHash string) (domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.UserWithPassword, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	SetLastLogin(ctx context.Context, userID string, when time.Time) error
	SetUsersStatus(ctx context.Context, ids []string, status domain.UserStatus) error
	DeleteUsers(ctx context.Context, ids []string) error
}

type UsersService struct {
	Store       UsersStore
	TokenSecret []byte
	TokenTTL    time.Duration
	Logger      *slog.Logger
	Now         func() time.Time
}

func (s *UsersService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *UsersService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Register creates a new active account. No session token is issued;
// callers log in separately.
func (s *UsersService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) {
			return domain.User{}, domain.NewValidationError(map[string]string{"password": "required"})
		}
		return domain.User{}, err
	}

	return s.Store.CreateUser(ctx, uuid.NewString(), name, email, passwordHash)
}

// Authenticate checks credentials and returns the account with a fresh
// session token. Unknown email and wrong password fail identically; a
// blocked account is rejected before the password is even compared.
func (s *UsersService) Authenticate(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	u, err := s.Store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", domain.ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}
	if u.Status == domain.UserStatusBlocked {
		return domain.User{}, "", domain.ErrUserBlocked
	}

	ok, err := auth.VerifyPassword(u.PasswordHash, password)
	if err != nil {
		return domain.User{}, "", err
	}
	if !ok {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.Store.SetLastLogin(ctx, u.ID, now); err != nil {
		// The stamp is advisory; a failed write must not block the login.
		s.logger().Warn("set last login failed", "user_id", u.ID, "err", err)
	}

	token, err := auth.IssueToken(u.ID, s.TokenSecret, s.TokenTTL, now)
	if err != nil {
		return domain.User{}, "", err
	}

	lastLogin := now
	u.LastLoginAt = &lastLogin
	return u.User, token, nil
}

// UserForToken resolves a bearer token to a live account. The store is
// consulted on every call, so a just-blocked or just-deleted account is
// rejected even while its token is still cryptographically valid.
func (s *UsersService) UserForToken(ctx context.Context, token string) (domain.User, error) {
	userID, err := auth.VerifyToken(token, s.TokenSecret)
	if err != nil {
		return domain.User{}, domain.ErrUnauthorized
	}

	u, err := s.Store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrForbidden
		}
		return domain.User{}, err
	}
	if u.Status == domain.UserStatusBlocked {
		return domain.User{}, domain.ErrUserBlocked
	}

	return u, nil
}

func (s *UsersService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.ListUsers(ctx)
}

// BlockUsers sets every targeted account to blocked. The whole batch is
// rejected when the actor targets themselves; ids that are malformed or
// match no account are silently dropped.
func (s *UsersService) BlockUsers(ctx context.Context, actorID string, targetIDs []string) error {
	if containsID(targetIDs, actorID) {
		return domain.ErrSelfAction
	}
	ids := validTargetIDs(targetIDs)
	if len(ids) == 0 {
		return nil
	}
	return s.Store.SetUsersStatus(ctx, ids, domain.UserStatusBlocked)
}

// UnblockUsers reactivates the targeted accounts. There is no self guard
// here: an actor may unblock any account including their own, and
// unblocking an already-active account is a no-op.
func (s *UsersService) UnblockUsers(ctx context.Context, targetIDs []string) error {
	ids := validTargetIDs(targetIDs)
	if len(ids) == 0 {
		return nil
	}
	return s.Store.SetUsersStatus(ctx, ids, domain.UserStatusActive)
}

// DeleteUsers hard-deletes the targeted accounts. Same self guard and
// unknown-id leniency as BlockUsers; deleted emails may register again.
func (s *UsersService) DeleteUsers(ctx context.Context, actorID string, targetIDs []string) error {
	if containsID(targetIDs, actorID) {
		return domain.ErrSelfAction
	}
	ids := validTargetIDs(targetIDs)
	if len(ids) == 0 {
		return nil
	}
	return s.Store.DeleteUsers(ctx, ids)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// validTargetIDs drops malformed and duplicate ids so the bulk statement
// never trips over an uncastable uuid.
func validTargetIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
