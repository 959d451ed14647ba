package database

import (
	"context"
	"fmt"
	"net/url"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"technotes/api/internal/config"
)

// NewSurrealDB connects to SurrealDB over websocket using the surrealcbor
// codec, which SurrealDB needs for correct time.Time and RecordID handling.
func NewSurrealDB(ctx context.Context, cfg config.SurrealConfig) (*surrealdb.DB, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse surreal url: %w", err)
	}

	conf := connection.NewConfig(u)
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	db, err := surrealdb.FromConnection(ctx, gorillaws.New(conf))
	if err != nil {
		return nil, fmt.Errorf("connect surrealdb: %w", err)
	}

	if cfg.Username != "" && cfg.Password != "" {
		if _, err := db.SignIn(ctx, surrealdb.Auth{
			Username: cfg.Username,
			Password: cfg.Password,
		}); err != nil {
			return nil, fmt.Errorf("surrealdb signin: %w", err)
		}
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		return nil, fmt.Errorf("surrealdb use %s/%s: %w", cfg.Namespace, cfg.Database, err)
	}

	return db, nil
}

// schemaStatements declares the unique indexes on the normalized uniqueness
// keys. The indexes make duplicate checks a single conditional write: a
// racing insert with a colliding key fails at the store instead of slipping
// past a read-then-write check.
var schemaStatements = []string{
	`DEFINE TABLE IF NOT EXISTS user SCHEMALESS`,
	`DEFINE INDEX IF NOT EXISTS user_username_key ON TABLE user COLUMNS username_key UNIQUE`,
	`DEFINE TABLE IF NOT EXISTS note SCHEMALESS`,
	`DEFINE INDEX IF NOT EXISTS note_title_key ON TABLE note COLUMNS title_key UNIQUE`,
}

func DefineSchema(ctx context.Context, db *surrealdb.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := surrealdb.Query[any](ctx, db, stmt, nil); err != nil {
			return fmt.Errorf("define schema %q: %w", stmt, err)
		}
	}
	return nil
}
