package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"technotes/api/internal/ids"
	"technotes/api/internal/models"
	"technotes/api/internal/repository"
)

var (
	ErrNoNotes        = errors.New("no notes found")
	ErrDuplicateTitle = errors.New("duplicate note title")
)

type NoteService struct {
	notes NoteStore
	users UserStore
	log   zerolog.Logger
}

func NewNoteService(notes NoteStore, users UserStore, log zerolog.Logger) *NoteService {
	return &NoteService{
		notes: notes,
		users: users,
		log:   log,
	}
}

// List returns all notes with owner usernames. Empty is a not-found
// condition, matching the user listing behaviour.
func (s *NoteService) List(ctx context.Context) ([]models.NoteWithOwner, error) {
	notes, err := s.notes.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, ErrNoNotes
	}
	return notes, nil
}

// Create adds a note after confirming the owner is an existing, active user
// and the normalized title is unused. The title_key unique index closes the
// window between the pre-check and the insert.
func (s *NoteService) Create(ctx context.Context, ownerID, title, body string) (models.Note, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return models.Note{}, err
	}
	// A deactivated user cannot take new notes; reported the same as missing.
	if !owner.Active {
		return models.Note{}, repository.ErrUserNotFound
	}

	if _, err := s.notes.FindByTitle(ctx, title); err == nil {
		return models.Note{}, ErrDuplicateTitle
	} else if !errors.Is(err, repository.ErrNoteNotFound) {
		return models.Note{}, err
	}

	note := models.Note{
		ID:      ids.New(),
		OwnerID: ownerID,
		Title:   title,
		Body:    body,
	}

	created, err := s.notes.Create(ctx, note)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return models.Note{}, ErrDuplicateTitle
		}
		return models.Note{}, err
	}

	s.log.Info().Str("title", created.Title).Msg("note created")
	return created, nil
}

type UpdateNoteInput struct {
	ID        string
	OwnerID   string
	Title     string
	Body      string
	Completed bool
}

// Update overwrites all note fields. A note keeping its own title is not a
// conflict; a title held by a different note is.
func (s *NoteService) Update(ctx context.Context, input UpdateNoteInput) (models.Note, error) {
	note, err := s.notes.GetByID(ctx, input.ID)
	if err != nil {
		return models.Note{}, err
	}

	owner, err := s.users.GetByID(ctx, input.OwnerID)
	if err != nil {
		return models.Note{}, err
	}
	if !owner.Active {
		return models.Note{}, repository.ErrUserNotFound
	}

	if existing, err := s.notes.FindByTitle(ctx, input.Title); err == nil {
		if existing.ID != input.ID {
			return models.Note{}, ErrDuplicateTitle
		}
	} else if !errors.Is(err, repository.ErrNoteNotFound) {
		return models.Note{}, err
	}

	note.OwnerID = input.OwnerID
	note.Title = input.Title
	note.Body = input.Body
	note.Completed = input.Completed

	updated, err := s.notes.Save(ctx, note)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return models.Note{}, ErrDuplicateTitle
		}
		return models.Note{}, err
	}
	return updated, nil
}

// Delete removes a note unconditionally and reports what was removed.
func (s *NoteService) Delete(ctx context.Context, id string) (string, error) {
	note, err := s.notes.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if err := s.notes.Delete(ctx, id); err != nil {
		return "", err
	}

	s.log.Info().Str("title", note.Title).Msg("note deleted")
	return fmt.Sprintf("Note with title %s and ID %s deleted", note.Title, note.ID), nil
}
