package service

import (
	"context"

	"technotes/api/internal/models"
	"technotes/api/internal/repository"
	"technotes/api/internal/security"
)

// fakeUserStore is an in-memory UserStore that mirrors the real store's
// behaviour: lookups go through the normalized username key and writes fail
// with ErrDuplicateKey on a key collision.
type fakeUserStore struct {
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (f *fakeUserStore) add(user models.User) {
	f.users[user.ID] = user
}

func (f *fakeUserStore) Create(ctx context.Context, user models.User) (models.User, error) {
	key := security.NormalizeKey(user.Username)
	for _, existing := range f.users {
		if security.NormalizeKey(existing.Username) == key {
			return models.User{}, repository.ErrDuplicateKey
		}
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) Save(ctx context.Context, user models.User) (models.User, error) {
	if _, ok := f.users[user.ID]; !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	key := security.NormalizeKey(user.Username)
	for _, existing := range f.users {
		if existing.ID != user.ID && security.NormalizeKey(existing.Username) == key {
			return models.User{}, repository.ErrDuplicateKey
		}
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	key := security.NormalizeKey(username)
	for _, user := range f.users {
		if security.NormalizeKey(user.Username) == key {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) ListAll(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		user.PasswordHash = ""
		users = append(users, user)
	}
	return users, nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id string) error {
	delete(f.users, id)
	return nil
}

// fakeNoteStore is the NoteStore counterpart, keyed on the normalized title.
type fakeNoteStore struct {
	notes map[string]models.Note
	users *fakeUserStore
}

func newFakeNoteStore(users *fakeUserStore) *fakeNoteStore {
	return &fakeNoteStore{
		notes: make(map[string]models.Note),
		users: users,
	}
}

func (f *fakeNoteStore) FindAll(ctx context.Context) ([]models.NoteWithOwner, error) {
	notes := make([]models.NoteWithOwner, 0, len(f.notes))
	for _, note := range f.notes {
		enriched := models.NoteWithOwner{Note: note}
		if owner, ok := f.users.users[note.OwnerID]; ok {
			enriched.Username = owner.Username
		}
		notes = append(notes, enriched)
	}
	return notes, nil
}

func (f *fakeNoteStore) GetByID(ctx context.Context, id string) (models.Note, error) {
	note, ok := f.notes[id]
	if !ok {
		return models.Note{}, repository.ErrNoteNotFound
	}
	return note, nil
}

func (f *fakeNoteStore) FindByTitle(ctx context.Context, title string) (models.Note, error) {
	key := security.NormalizeKey(title)
	for _, note := range f.notes {
		if security.NormalizeKey(note.Title) == key {
			return note, nil
		}
	}
	return models.Note{}, repository.ErrNoteNotFound
}

func (f *fakeNoteStore) Create(ctx context.Context, note models.Note) (models.Note, error) {
	key := security.NormalizeKey(note.Title)
	for _, existing := range f.notes {
		if security.NormalizeKey(existing.Title) == key {
			return models.Note{}, repository.ErrDuplicateKey
		}
	}
	f.notes[note.ID] = note
	return note, nil
}

func (f *fakeNoteStore) Save(ctx context.Context, note models.Note) (models.Note, error) {
	if _, ok := f.notes[note.ID]; !ok {
		return models.Note{}, repository.ErrNoteNotFound
	}
	key := security.NormalizeKey(note.Title)
	for _, existing := range f.notes {
		if existing.ID != note.ID && security.NormalizeKey(existing.Title) == key {
			return models.Note{}, repository.ErrDuplicateKey
		}
	}
	f.notes[note.ID] = note
	return note, nil
}

func (f *fakeNoteStore) Delete(ctx context.Context, id string) error {
	delete(f.notes, id)
	return nil
}

func (f *fakeNoteStore) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	count := 0
	for _, note := range f.notes {
		if note.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}
