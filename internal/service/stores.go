package service

import (
	"context"

	"technotes/api/internal/models"
)

// UserStore is the credential store surface the services depend on,
// implemented by repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	Save(ctx context.Context, user models.User) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id string) error
}

// NoteStore is the note store surface, implemented by repository.NoteRepository.
type NoteStore interface {
	FindAll(ctx context.Context) ([]models.NoteWithOwner, error)
	GetByID(ctx context.Context, id string) (models.Note, error)
	FindByTitle(ctx context.Context, title string) (models.Note, error)
	Create(ctx context.Context, note models.Note) (models.Note, error)
	Save(ctx context.Context, note models.Note) (models.Note, error)
	Delete(ctx context.Context, id string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}
