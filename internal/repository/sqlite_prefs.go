package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexmendoza/salesboard/internal/db"
)

// SQLitePrefsRepo implements PrefsRepo using the local SQLite cache.
type SQLitePrefsRepo struct {
	db db.DBTX
}

// NewSQLitePrefsRepo creates a new SQLitePrefsRepo.
func NewSQLitePrefsRepo(conn db.DBTX) *SQLitePrefsRepo {
	return &SQLitePrefsRepo{db: conn}
}

func (r *SQLitePrefsRepo) Get(ctx context.Context, username string) (*Prefs, error) {
	query := `SELECT username, search_text, client, account_manager, solution, pic,
		include_weekends, updated_at
		FROM preferences WHERE username = ?`
	row := r.db.QueryRowContext(ctx, query, username)

	var (
		p               Prefs
		includeWeekends int
		updatedAt       string
	)
	err := row.Scan(
		&p.Username,
		&p.Filter.SearchText,
		&p.Filter.Client,
		&p.Filter.AccountManager,
		&p.Filter.Solution,
		&p.Filter.PIC,
		&includeWeekends,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("preferences: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning preferences: %w", err)
	}

	p.IncludeWeekends = intToBool(includeWeekends)
	if p.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing preferences updated_at: %w", err)
	}
	return &p, nil
}

func (r *SQLitePrefsRepo) Save(ctx context.Context, p *Prefs) error {
	query := `INSERT OR REPLACE INTO preferences
		(username, search_text, client, account_manager, solution, pic, include_weekends, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.Username,
		p.Filter.SearchText,
		p.Filter.Client,
		p.Filter.AccountManager,
		p.Filter.Solution,
		p.Filter.PIC,
		boolToInt(p.IncludeWeekends),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}
