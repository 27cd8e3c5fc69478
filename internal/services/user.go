package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poseidon-capital/console/internal/mq"
	"github.com/poseidon-capital/console/internal/security"
	"github.com/poseidon-capital/console/internal/store"
	"github.com/poseidon-capital/console/types"
)

const userKind = "user"

// UserRepository defines persistence operations for users.
type UserRepository interface {
	List(ctx context.Context) ([]types.User, error)
	Get(ctx context.Context, id int) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, id int, user types.User) (types.User, error)
	Delete(ctx context.Context, id int) error
}

// SessionInvalidator drops the live sessions of an account.
type SessionInvalidator interface {
	InvalidateUser(username string)
}

// UserService encapsulates user use-cases. Plaintext passwords enter here
// and only their digests leave.
type UserService struct {
	repo     UserRepository
	hasher   security.Hasher
	events   *mq.Publisher
	sessions SessionInvalidator
	logger   *slog.Logger
}

func NewUserService(repo UserRepository, hasher security.Hasher, events *mq.Publisher, sessions SessionInvalidator, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{repo: repo, hasher: hasher, events: events, sessions: sessions, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int) (types.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (types.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Create encodes password and stores the account.
func (s *UserService) Create(ctx context.Context, user types.User, password string) (types.User, error) {
	digest, err := s.hasher.Encode(password)
	if err != nil {
		return types.User{}, err
	}
	user.ID = 0
	user.PasswordHash = digest

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return types.User{}, err
	}
	s.publish(ctx, mq.ActionCreated, created.ID)
	return created, nil
}

// Update replaces the profile of account id. An empty password keeps the
// stored digest. Changing the username or role ends the account's session.
func (s *UserService) Update(ctx context.Context, id int, user types.User, password string) (types.User, error) {
	previous, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.User{}, err
	}

	user.PasswordHash = ""
	if password != "" {
		digest, err := s.hasher.Encode(password)
		if err != nil {
			return types.User{}, err
		}
		user.PasswordHash = digest
	}

	updated, err := s.repo.Update(ctx, id, user)
	if err != nil {
		return types.User{}, err
	}

	if previous.Username != updated.Username || previous.Role != updated.Role {
		s.invalidate(previous.Username)
	}
	s.publish(ctx, mq.ActionUpdated, id)
	return updated, nil
}

// UpdatePassword replaces only the digest of account id.
func (s *UserService) UpdatePassword(ctx context.Context, id int, password string) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	digest, err := s.hasher.Encode(password)
	if err != nil {
		return err
	}
	user.PasswordHash = digest
	if _, err := s.repo.Update(ctx, id, user); err != nil {
		return err
	}
	s.publish(ctx, mq.ActionUpdated, id)
	return nil
}

// Delete removes account id and ends its session.
func (s *UserService) Delete(ctx context.Context, id int) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(user.Username)
	s.publish(ctx, mq.ActionDeleted, id)
	return nil
}

// SeedDefaults creates the admin and user accounts when they are missing.
func (s *UserService) SeedDefaults(ctx context.Context, password string) error {
	defaults := []types.User{
		{Username: "admin", FullName: "Administrator", Role: types.RoleAdmin},
		{Username: "user", FullName: "Standard User", Role: types.RoleUser},
	}
	for _, user := range defaults {
		_, err := s.repo.GetByUsername(ctx, user.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("look up %s: %w", user.Username, err)
		}
		if _, err := s.Create(ctx, user, password); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("seed %s: %w", user.Username, err)
		}
		s.logger.InfoContext(ctx, "seeded default account", "username", user.Username, "role", user.Role)
	}
	return nil
}

func (s *UserService) invalidate(username string) {
	if s.sessions != nil {
		s.sessions.InvalidateUser(username)
	}
}

func (s *UserService) publish(ctx context.Context, action mq.Action, id int) {
	s.events.Publish(ctx, mq.Event{
		Kind:   userKind,
		Action: action,
		ID:     id,
		Actor:  security.ActorFrom(ctx),
	})
}
