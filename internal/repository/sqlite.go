package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/abrezinsky/beastreader/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS builder_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tickets (
			number TEXT PRIMARY KEY,
			issued_at TEXT NOT NULL,
			dates TEXT NOT NULL,
			tracks TEXT NOT NULL,
			pulito_positions TEXT,
			plays TEXT NOT NULL,
			grand_total TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_issued ON tickets(issued_at)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ==================== Builder State ====================

// LoadState returns the saved builder snapshot
func (r *Repository) LoadState(ctx context.Context) (*models.BuilderState, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM builder_state WHERE id = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var state models.BuilderState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("decode builder state: %w", err)
	}
	return &state, nil
}

// SaveState overwrites the builder snapshot
func (r *Repository) SaveState(ctx context.Context, state *models.BuilderState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode builder state: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO builder_state (id, data, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// ClearState removes the builder snapshot
func (r *Repository) ClearState(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM builder_state`)
	return err
}

// ==================== Tickets ====================

// CreateTicket stores an issued ticket
func (r *Repository) CreateTicket(ctx context.Context, t *models.Ticket) error {
	dates, err := json.Marshal(t.Dates)
	if err != nil {
		return err
	}
	tracks, err := json.Marshal(t.Tracks)
	if err != nil {
		return err
	}
	plays, err := json.Marshal(t.Plays)
	if err != nil {
		return err
	}
	var pulito sql.NullString
	if len(t.PulitoPositions) > 0 {
		b, err := json.Marshal(t.PulitoPositions)
		if err != nil {
			return err
		}
		pulito = sql.NullString{String: string(b), Valid: true}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO tickets (number, issued_at, dates, tracks, pulito_positions, plays, grand_total)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Number, t.IssuedAt.UTC().Format(time.RFC3339Nano), string(dates), string(tracks), pulito, string(plays), t.GrandTotal.StringFixed(2))
	if isPrimaryKeyViolation(err) {
		return ErrDuplicateTicket
	}
	return err
}

// GetTicket retrieves an issued ticket by number
func (r *Repository) GetTicket(ctx context.Context, number string) (*models.Ticket, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT number, issued_at, dates, tracks, pulito_positions, plays, grand_total
		 FROM tickets WHERE number = ?`, number)
	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return t, err
}

// ListTickets returns the most recently issued tickets first
func (r *Repository) ListTickets(ctx context.Context, limit int) ([]models.Ticket, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT number, issued_at, dates, tracks, pulito_positions, plays, grand_total
		 FROM tickets ORDER BY issued_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

// TicketExists checks whether a ticket number has been issued
func (r *Repository) TicketExists(ctx context.Context, number string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE number = ?`, number).Scan(&count)
	return count > 0, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTicket(s scanner) (*models.Ticket, error) {
	var (
		t                       models.Ticket
		issuedAt, dates, tracks string
		plays, grandTotal       string
		pulito                  sql.NullString
	)
	if err := s.Scan(&t.Number, &issuedAt, &dates, &tracks, &pulito, &plays, &grandTotal); err != nil {
		return nil, err
	}

	var err error
	if t.IssuedAt, err = time.Parse(time.RFC3339Nano, issuedAt); err != nil {
		return nil, fmt.Errorf("ticket %s issued_at: %w", t.Number, err)
	}
	if err := json.Unmarshal([]byte(dates), &t.Dates); err != nil {
		return nil, fmt.Errorf("ticket %s dates: %w", t.Number, err)
	}
	if err := json.Unmarshal([]byte(tracks), &t.Tracks); err != nil {
		return nil, fmt.Errorf("ticket %s tracks: %w", t.Number, err)
	}
	if err := json.Unmarshal([]byte(plays), &t.Plays); err != nil {
		return nil, fmt.Errorf("ticket %s plays: %w", t.Number, err)
	}
	if pulito.Valid && pulito.String != "" {
		if err := json.Unmarshal([]byte(pulito.String), &t.PulitoPositions); err != nil {
			return nil, fmt.Errorf("ticket %s pulito positions: %w", t.Number, err)
		}
	}
	if t.GrandTotal, err = decimal.NewFromString(grandTotal); err != nil {
		return nil, fmt.Errorf("ticket %s grand total: %w", t.Number, err)
	}
	return &t, nil
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if stderrors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
