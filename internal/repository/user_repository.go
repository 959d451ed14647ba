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

type UserRepository struct {
	db *surrealdb.DB
}

func NewUserRepository(db *surrealdb.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userRecord struct {
	ID          *surreal.RecordID `json:"id,omitempty"`
	Username    string            `json:"username"`
	UsernameKey string            `json:"username_key"`
	Password    string            `json:"password,omitempty"`
	Roles       []string          `json:"roles"`
	Active      bool              `json:"active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (rec userRecord) toModel() models.User {
	user := models.User{
		Username:     rec.Username,
		PasswordHash: rec.Password,
		Roles:        rec.Roles,
		Active:       rec.Active,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if rec.ID != nil {
		user.ID = fmt.Sprint(rec.ID.ID)
	}
	return user
}

func userContent(user models.User, now time.Time) userRecord {
	return userRecord{
		Username:    user.Username,
		UsernameKey: security.NormalizeKey(user.Username),
		Password:    user.PasswordHash,
		Roles:       user.Roles,
		Active:      user.Active,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   now,
	}
}

// Create inserts the user. The unique index on username_key makes this the
// authoritative duplicate check; a colliding insert returns ErrDuplicateKey.
func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	now := time.Now()
	rec := userContent(user, now)
	rec.CreatedAt = now

	created, err := surrealdb.Create[userRecord](ctx, r.db, surreal.NewRecordID(userTable, user.ID), rec)
	if err != nil {
		if isDuplicateIndex(err) {
			return models.User{}, ErrDuplicateKey
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return created.toModel(), nil
}

// Save overwrites the user record. Renaming onto a taken username trips the
// unique index just like Create does.
func (r *UserRepository) Save(ctx context.Context, user models.User) (models.User, error) {
	rec := userContent(user, time.Now())

	updated, err := surrealdb.Update[userRecord](ctx, r.db, surreal.NewRecordID(userTable, user.ID), rec)
	if err != nil {
		if isDuplicateIndex(err) {
			return models.User{}, ErrDuplicateKey
		}
		if isNoResult(err) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("save user: %w", err)
	}
	// surrealcbor decodes a missing record as nil rather than an error.
	if updated == nil || updated.ID == nil {
		return models.User{}, ErrUserNotFound
	}
	return updated.toModel(), nil
}

// FindByUsername resolves a user by the normalized username key, so lookups
// are case and accent insensitive.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	res, err := surrealdb.Query[[]userRecord](ctx, r.db,
		`SELECT * FROM user WHERE username_key = $key`,
		map[string]any{"key": security.NormalizeKey(username)},
	)
	if err != nil {
		return models.User{}, fmt.Errorf("find user by username: %w", err)
	}
	if res == nil || len(*res) == 0 || len((*res)[0].Result) == 0 {
		return models.User{}, ErrUserNotFound
	}
	return (*res)[0].Result[0].toModel(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	rec, err := surrealdb.Select[userRecord](ctx, r.db, surreal.NewRecordID(userTable, id))
	if err != nil {
		if isNoResult(err) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	if rec == nil || rec.ID == nil {
		return models.User{}, ErrUserNotFound
	}
	return rec.toModel(), nil
}

// ListAll returns every user with the password field omitted at the store.
func (r *UserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	res, err := surrealdb.Query[[]userRecord](ctx, r.db,
		`SELECT * OMIT password FROM user ORDER BY username`, nil)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if res == nil || len(*res) == 0 {
		return nil, nil
	}

	users := make([]models.User, 0, len((*res)[0].Result))
	for _, rec := range (*res)[0].Result {
		users = append(users, rec.toModel())
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := surrealdb.Delete[userRecord](ctx, r.db, surreal.NewRecordID(userTable, id)); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) CountAll(ctx context.Context) (int, error) {
	res, err := surrealdb.Query[[]countRow](ctx, r.db,
		`SELECT count() AS total FROM user GROUP ALL`, nil)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	if res == nil || len(*res) == 0 || len((*res)[0].Result) == 0 {
		return 0, nil
	}
	return (*res)[0].Result[0].Total, nil
}
