package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"technotes/api/internal/ids"
	"technotes/api/internal/models"
	"technotes/api/internal/repository"
	"technotes/api/internal/security"
)

var (
	ErrNoUsers           = errors.New("no users found")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrUserHasNotes      = errors.New("user has assigned notes")
)

type UserService struct {
	users      UserStore
	notes      NoteStore
	bcryptCost int
	log        zerolog.Logger
}

func NewUserService(users UserStore, notes NoteStore, bcryptCost int, log zerolog.Logger) *UserService {
	return &UserService{
		users:      users,
		notes:      notes,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// List returns all users without password hashes. An empty collection is a
// not-found condition, not an empty success.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}
	return users, nil
}

// Create registers a new user. Roles default to Employee when absent. The
// username_key unique index backs up the duplicate pre-check, so a racing
// create with a colliding username still comes back as a conflict.
func (s *UserService) Create(ctx context.Context, username, password string, roles []string) (models.User, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return models.User{}, ErrDuplicateUsername
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	hash, err := security.HashPassword(password, s.bcryptCost)
	if err != nil {
		return models.User{}, err
	}

	if len(roles) == 0 {
		roles = []string{models.RoleEmployee}
	}

	user := models.User{
		ID:           ids.New(),
		Username:     username,
		PasswordHash: hash,
		Roles:        roles,
		Active:       true,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}

	s.log.Info().Str("username", created.Username).Msg("user created")
	return created, nil
}

type UpdateUserInput struct {
	ID       string
	Username string
	Password string
	Roles    []string
	Active   bool
}

// Update overwrites username, roles and active, and re-hashes the password
// only when a new one is supplied. A no-op rename (the user keeps its own
// username) is not a conflict.
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (models.User, error) {
	user, err := s.users.GetByID(ctx, input.ID)
	if err != nil {
		return models.User{}, err
	}

	if existing, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		if existing.ID != input.ID {
			return models.User{}, ErrDuplicateUsername
		}
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	user.Username = input.Username
	user.Roles = input.Roles
	user.Active = input.Active

	if input.Password != "" {
		hash, err := security.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return models.User{}, err
		}
		user.PasswordHash = hash
	}

	updated, err := s.users.Save(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return updated, nil
}

// Delete refuses to remove a user that still owns notes.
func (s *UserService) Delete(ctx context.Context, id string) (string, error) {
	count, err := s.notes.CountByOwner(ctx, id)
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrUserHasNotes
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return "", err
	}

	s.log.Info().Str("username", user.Username).Msg("user deleted")
	return fmt.Sprintf("Username %s with ID %s deleted", user.Username, user.ID), nil
}
