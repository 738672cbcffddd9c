package infra

import (
	"context"
	"embed"
	"fmt"
	"time"

	"domain-finder/finder/domain"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SQLiteHistoryStore persiste o histórico em um arquivo SQLite.
type SQLiteHistoryStore struct {
	db *sqlx.DB
}

// OpenSQLite abre (ou cria) o banco em path e aplica as migrations pendentes.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path))
	if err != nil {
		return nil, fmt.Errorf("connecting to db : %w", err)
	}

	db.SetMaxOpenConns(1)

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting dialect for migrations : %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying migration : %w", err)
	}
	return db, nil
}

func NewSQLiteHistoryStore(db *sqlx.DB) *SQLiteHistoryStore {
	return &SQLiteHistoryStore{db: db}
}

func (s *SQLiteHistoryStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing history db : %w", err)
	}
	return nil
}

func (s *SQLiteHistoryStore) Append(ctx context.Context, e domain.HistoryEntry) error {
	if e.ID == "" {
		e.ID = newEntryID()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	e.At = e.At.UTC()

	query := `INSERT INTO history (id, user_key, domain, operation, created_at)
	          VALUES (:id, :user_key, :domain, :operation, :created_at)`
	if _, err := s.db.NamedExecContext(ctx, query, e); err != nil {
		return fmt.Errorf("inserting history %s: %w", e.ID, err)
	}
	return nil
}

func (s *SQLiteHistoryStore) List(ctx context.Context, user string, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1 // sem limite no SQLite
	}

	var out []domain.HistoryEntry
	err := s.db.SelectContext(ctx, &out,
		`SELECT id, user_key, domain, operation, created_at
		   FROM history
		  WHERE user_key = ?
		  ORDER BY created_at DESC, id DESC
		  LIMIT ?`, user, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history for %s: %w", user, err)
	}
	return out, nil
}
