package repository

import (
	"context"
	"fmt"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"
	surreal "github.com/surrealdb/surrealdb.go/pkg/models"

	"technotes/api/internal/models"
	"technotes/api/internal/security"
)

type NoteRepository struct {
	db *surrealdb.DB
}

func NewNoteRepository(db *surrealdb.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

type noteRecord struct {
	ID        *surreal.RecordID `json:"id,omitempty"`
	Owner     surreal.RecordID  `json:"owner"`
	Title     string            `json:"title"`
	TitleKey  string            `json:"title_key"`
	Body      string            `json:"body"`
	Completed bool              `json:"completed"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type noteWithOwnerRecord struct {
	noteRecord
	Username string `json:"username"`
}

func (rec noteRecord) toModel() models.Note {
	note := models.Note{
		OwnerID:   fmt.Sprint(rec.Owner.ID),
		Title:     rec.Title,
		Body:      rec.Body,
		Completed: rec.Completed,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.ID != nil {
		note.ID = fmt.Sprint(rec.ID.ID)
	}
	return note
}

func noteContent(note models.Note, now time.Time) noteRecord {
	return noteRecord{
		Owner:     surreal.NewRecordID(userTable, note.OwnerID),
		Title:     note.Title,
		TitleKey:  security.NormalizeKey(note.Title),
		Body:      note.Body,
		Completed: note.Completed,
		CreatedAt: note.CreatedAt,
		UpdatedAt: now,
	}
}

// FindAll returns every note joined with its owner's username. The owner
// field is a record link, so the dereference happens in the one query
// instead of a lookup per note.
func (r *NoteRepository) FindAll(ctx context.Context) ([]models.NoteWithOwner, error) {
	res, err := surrealdb.Query[[]noteWithOwnerRecord](ctx, r.db,
		`SELECT *, owner.username AS username FROM note ORDER BY created_at`, nil)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	if res == nil || len(*res) == 0 {
		return nil, nil
	}

	notes := make([]models.NoteWithOwner, 0, len((*res)[0].Result))
	for _, rec := range (*res)[0].Result {
		notes = append(notes, models.NoteWithOwner{
			Note:     rec.toModel(),
			Username: rec.Username,
		})
	}
	return notes, nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (models.Note, error) {
	rec, err := surrealdb.Select[noteRecord](ctx, r.db, surreal.NewRecordID(noteTable, id))
	if err != nil {
		if isNoResult(err) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, fmt.Errorf("get note: %w", err)
	}
	if rec == nil || rec.ID == nil {
		return models.Note{}, ErrNoteNotFound
	}
	return rec.toModel(), nil
}

// FindByTitle resolves a note by the normalized title key.
func (r *NoteRepository) FindByTitle(ctx context.Context, title string) (models.Note, error) {
	res, err := surrealdb.Query[[]noteRecord](ctx, r.db,
		`SELECT * FROM note WHERE title_key = $key`,
		map[string]any{"key": security.NormalizeKey(title)},
	)
	if err != nil {
		return models.Note{}, fmt.Errorf("find note by title: %w", err)
	}
	if res == nil || len(*res) == 0 || len((*res)[0].Result) == 0 {
		return models.Note{}, ErrNoteNotFound
	}
	return (*res)[0].Result[0].toModel(), nil
}

func (r *NoteRepository) Create(ctx context.Context, note models.Note) (models.Note, error) {
	now := time.Now()
	rec := noteContent(note, now)
	rec.CreatedAt = now

	created, err := surrealdb.Create[noteRecord](ctx, r.db, surreal.NewRecordID(noteTable, note.ID), rec)
	if err != nil {
		if isDuplicateIndex(err) {
			return models.Note{}, ErrDuplicateKey
		}
		return models.Note{}, fmt.Errorf("create note: %w", err)
	}
	return created.toModel(), nil
}

func (r *NoteRepository) Save(ctx context.Context, note models.Note) (models.Note, error) {
	rec := noteContent(note, time.Now())

	updated, err := surrealdb.Update[noteRecord](ctx, r.db, surreal.NewRecordID(noteTable, note.ID), rec)
	if err != nil {
		if isDuplicateIndex(err) {
			return models.Note{}, ErrDuplicateKey
		}
		if isNoResult(err) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, fmt.Errorf("save note: %w", err)
	}
	// surrealcbor decodes a missing record as nil rather than an error.
	if updated == nil || updated.ID == nil {
		return models.Note{}, ErrNoteNotFound
	}
	return updated.toModel(), nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	if _, err := surrealdb.Delete[noteRecord](ctx, r.db, surreal.NewRecordID(noteTable, id)); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func (r *NoteRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	res, err := surrealdb.Query[[]countRow](ctx, r.db,
		`SELECT count() AS total FROM note WHERE owner = $owner GROUP ALL`,
		map[string]any{"owner": surreal.NewRecordID(userTable, ownerID)},
	)
	if err != nil {
		return 0, fmt.Errorf("count notes by owner: %w", err)
	}
	if res == nil || len(*res) == 0 || len((*res)[0].Result) == 0 {
		return 0, nil
	}
	return (*res)[0].Result[0].Total, nil
}

func (r *NoteRepository) CountAll(ctx context.Context) (int, error) {
	res, err := surrealdb.Query[[]countRow](ctx, r.db,
		`SELECT count() AS total FROM note GROUP ALL`, nil)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	if res == nil || len(*res) == 0 || len((*res)[0].Result) == 0 {
		return 0, nil
	}
	return (*res)[0].Result[0].Total, nil
}
