// Package storage implements the deal-storage collaborator on SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mferrell/dealflow/internal/common"
	"github.com/mferrell/dealflow/internal/model"
	"github.com/mferrell/dealflow/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements service.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("%w: database path", common.ErrMissingConfig)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the schema when it does not exist yet.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS deals (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		project TEXT NOT NULL DEFAULT '',
		lead TEXT NOT NULL DEFAULT '',
		customer TEXT NOT NULL DEFAULT '',
		region TEXT NOT NULL DEFAULT '',
		owner TEXT NOT NULL DEFAULT '',
		value REAL NOT NULL DEFAULT 0,
		currency TEXT NOT NULL DEFAULT '',
		probability INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		close_date DATETIME,
		stage TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT '',
		handoff TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(stage);
	CREATE INDEX IF NOT EXISTS idx_deals_owner ON deals(owner);`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

const dealColumns = `id, name, project, lead, customer, region, owner,
	value, currency, probability, created_at, close_date,
	stage, priority, handoff, status`

// GetDeals returns the deal collection, optionally scoped by stage and
// windowed by limit/offset. Row order is stable (by id) so the in-memory
// engine's stable sort is reproducible across loads.
func (s *SQLiteStorage) GetDeals(ctx context.Context, filter service.DealFilter) ([]model.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals`
	args := make([]any, 0, 3)

	if filter.Stage != nil {
		query += ` WHERE stage = ?`
		args = append(args, string(*filter.Stage))
	}
	query += ` ORDER BY id`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var deals []model.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deals: %w", err)
	}

	return deals, nil
}

// GetDealByID fetches a single deal.
func (s *SQLiteStorage) GetDealByID(ctx context.Context, id string) (*model.Deal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+dealColumns+` FROM deals WHERE id = ?`, id)

	deal, err := scanDeal(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: deal %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// editableColumns maps inline-editable fields to their columns. Derived
// fields like duration have no column and are rejected as read-only.
var editableColumns = map[model.FieldID]string{
	model.FieldName:        "name",
	model.FieldProject:     "project",
	model.FieldLead:        "lead",
	model.FieldCustomer:    "customer",
	model.FieldRegion:      "region",
	model.FieldOwner:       "owner",
	model.FieldValue:       "value",
	model.FieldCurrency:    "currency",
	model.FieldProbability: "probability",
	model.FieldCloseDate:   "close_date",
	model.FieldStage:       "stage",
	model.FieldPriority:    "priority",
	model.FieldHandoff:     "handoff",
	model.FieldStatus:      "status",
}

// UpdateDealField applies one cell edit. The tagged value selects the
// SQL representation by kind.
func (s *SQLiteStorage) UpdateDealField(ctx context.Context, id string, field model.FieldID, value model.Value) error {
	column, ok := editableColumns[field]
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrFieldReadOnly, field)
	}

	var arg any
	switch value.Kind {
	case model.KindNumeric:
		arg = value.Num
	case model.KindDate:
		if value.Time.IsZero() {
			arg = nil
		} else {
			arg = value.Time.UTC()
		}
	default:
		arg = value.Str
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE deals SET `+column+` = ?, updated_at = ? WHERE id = ?`,
		arg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update deal %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: deal %s", common.ErrNotFound, id)
	}
	return nil
}

// DeleteDeals removes the given deals in one transaction.
func (s *SQLiteStorage) DeleteDeals(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM deals WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete deals: %w", err)
	}
	return nil
}

// ImportDeals inserts partial deals, assigning IDs where missing, and
// returns how many were imported. Existing IDs are overwritten, which
// makes re-imports idempotent.
func (s *SQLiteStorage) ImportDeals(ctx context.Context, deals []model.Deal) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO deals
		(`+dealColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare import: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	count := 0
	for _, d := range deals {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if d.CreatedAt.IsZero() {
			d.CreatedAt = now
		}

		var closeDate any
		if !d.CloseDate.IsZero() {
			closeDate = d.CloseDate.UTC()
		}

		if _, err := stmt.ExecContext(ctx,
			d.ID, d.Name, d.Project, d.Lead, d.Customer, d.Region, d.Owner,
			d.Value, d.Currency, d.Probability, d.CreatedAt.UTC(), closeDate,
			string(d.Stage), string(d.Priority), string(d.Handoff), d.Status,
			now,
		); err != nil {
			return 0, fmt.Errorf("failed to import deal %s: %w", d.ID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return count, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDeal(row scanner) (model.Deal, error) {
	var (
		d         model.Deal
		createdAt sql.NullTime
		closeDate sql.NullTime
		stage     string
		priority  string
		handoff   string
	)

	err := row.Scan(
		&d.ID, &d.Name, &d.Project, &d.Lead, &d.Customer, &d.Region, &d.Owner,
		&d.Value, &d.Currency, &d.Probability, &createdAt, &closeDate,
		&stage, &priority, &handoff, &d.Status,
	)
	if err == sql.ErrNoRows {
		return model.Deal{}, err
	}
	if err != nil {
		return model.Deal{}, fmt.Errorf("failed to scan deal: %w", err)
	}

	d.Stage = model.Stage(stage)
	d.Priority = model.Priority(priority)
	d.Handoff = model.HandoffStatus(handoff)

	if createdAt.Valid {
		d.CreatedAt = createdAt.Time.UTC()
	}
	if closeDate.Valid {
		d.CloseDate = closeDate.Time.UTC()
	}
	return d, nil
}
