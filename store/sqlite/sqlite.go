/*
Package sqlite provides a SQLite-backed implementation of the storage
interface.

PURPOSE:
  Implements agreement.Store using SQLite. In production, the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  agreements:          Agreement records; the editable calculation slice
                       and the derived figures are stored as JSON columns,
                       with the fields the API filters on broken out.
  offices:             Office inventory with list prices and credit
                       allotments.
  termination_notices: Termination actions with computed and overridden
                       end dates.

DERIVED COLUMNS:
  monthly_total and continuous_start are denormalized out of the derived
  JSON so lists can show them without unmarshalling every row. They are
  write-through: every save recomputes them from the record.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/agreements.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := agreement.NewService(store, nil)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - agreement/store.go: Interface definition
  - agreement/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/agreement-engine/agreement"
	"github.com/warp/agreement-engine/engine"
)

// Store implements agreement.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Agreements
	CREATE TABLE IF NOT EXISTS agreements (
		id TEXT PRIMARY KEY,
		doc_id TEXT NOT NULL UNIQUE,
		company_id TEXT NOT NULL,
		licensee_name TEXT,
		commercial_name TEXT,
		building TEXT,
		status TEXT NOT NULL,
		start_date TEXT,
		draft_json TEXT NOT NULL,
		derived_json TEXT NOT NULL,
		monthly_total INTEGER NOT NULL DEFAULT 0,
		continuous_start TEXT,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_agreements_company
		ON agreements(company_id);
	CREATE INDEX IF NOT EXISTS idx_agreements_status
		ON agreements(status);
	CREATE INDEX IF NOT EXISTS idx_agreements_company_status
		ON agreements(company_id, status, start_date DESC);

	-- Offices
	CREATE TABLE IF NOT EXISTS offices (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		building TEXT,
		list_price INTEGER NOT NULL DEFAULT 0,
		mr_credits INTEGER NOT NULL DEFAULT 0,
		print_quota_bw INTEGER NOT NULL DEFAULT 0,
		print_quota_color INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_offices_status
		ON offices(status);

	-- Termination notices
	CREATE TABLE IF NOT EXISTS termination_notices (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		notice_date TEXT NOT NULL,
		expected_end_date TEXT,
		override_end_date TEXT,
		status TEXT NOT NULL,
		notes TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notices_company
		ON termination_notices(company_id);
	CREATE INDEX IF NOT EXISTS idx_notices_status
		ON termination_notices(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// AGREEMENTS
// =============================================================================

// SaveAgreement inserts or replaces an agreement. The derived columns are
// recomputed from the record on every save.
func (s *Store) SaveAgreement(ctx context.Context, a agreement.Agreement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draftJSON, err := json.Marshal(a.Draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	derivedJSON, err := json.Marshal(a.Derived)
	if err != nil {
		return fmt.Errorf("failed to encode derived figures: %w", err)
	}

	var continuousStart *string
	if cs := a.Derived.Term.ContinuousStart; cs != nil {
		v := cs.String()
		continuousStart = &v
	}

	query := `
		INSERT INTO agreements
		(id, doc_id, company_id, licensee_name, commercial_name, building, status,
		 start_date, draft_json, derived_json, monthly_total, continuous_start,
		 notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			doc_id = excluded.doc_id,
			company_id = excluded.company_id,
			licensee_name = excluded.licensee_name,
			commercial_name = excluded.commercial_name,
			building = excluded.building,
			status = excluded.status,
			start_date = excluded.start_date,
			draft_json = excluded.draft_json,
			derived_json = excluded.derived_json,
			monthly_total = excluded.monthly_total,
			continuous_start = excluded.continuous_start,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		a.ID, a.DocID, a.CompanyID, a.LicenseeName, a.CommercialName, a.Building,
		string(a.Status),
		nullString(a.Draft.StartDate.String()),
		string(draftJSON), string(derivedJSON),
		int64(a.Derived.Totals.Monthly),
		continuousStart,
		a.Notes,
		a.CreatedAt.UTC().Format(time.RFC3339),
		a.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save agreement: %w", err)
	}
	return nil
}

// GetAgreement retrieves an agreement by ID.
func (s *Store) GetAgreement(ctx context.Context, id string) (*agreement.Agreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := agreementSelect + " WHERE id = ?"
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query agreement: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	a, err := scanAgreement(rows)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAgreements returns all agreements, newest first.
func (s *Store) ListAgreements(ctx context.Context) ([]agreement.Agreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAgreements(ctx, agreementSelect+" ORDER BY created_at DESC, id")
}

// ListAgreementsByCompany returns one client's agreements, newest first.
func (s *Store) ListAgreementsByCompany(ctx context.Context, companyID string) ([]agreement.Agreement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := agreementSelect + " WHERE company_id = ? ORDER BY created_at DESC, id"
	return s.queryAgreements(ctx, query, companyID)
}

const agreementSelect = `
	SELECT id, doc_id, company_id, licensee_name, commercial_name, building,
	       status, draft_json, derived_json, notes, created_at, updated_at
	FROM agreements
`

func (s *Store) queryAgreements(ctx context.Context, query string, args ...any) ([]agreement.Agreement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query agreements: %w", err)
	}
	defer rows.Close()

	var out []agreement.Agreement
	for rows.Next() {
		a, err := scanAgreement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAgreement(rows *sql.Rows) (agreement.Agreement, error) {
	var (
		a                    agreement.Agreement
		status               string
		draftJSON            string
		derivedJSON          string
		licensee, commercial sql.NullString
		building, notes      sql.NullString
		createdAt, updatedAt string
	)

	err := rows.Scan(
		&a.ID, &a.DocID, &a.CompanyID, &licensee, &commercial, &building,
		&status, &draftJSON, &derivedJSON, &notes, &createdAt, &updatedAt,
	)
	if err != nil {
		return a, fmt.Errorf("failed to scan agreement: %w", err)
	}

	a.LicenseeName = licensee.String
	a.CommercialName = commercial.String
	a.Building = building.String
	a.Notes = notes.String
	a.Status = agreement.Status(status)
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	if err := json.Unmarshal([]byte(draftJSON), &a.Draft); err != nil {
		return a, fmt.Errorf("failed to decode draft: %w", err)
	}
	if err := json.Unmarshal([]byte(derivedJSON), &a.Derived); err != nil {
		return a, fmt.Errorf("failed to decode derived figures: %w", err)
	}
	return a, nil
}

// =============================================================================
// OFFICES
// =============================================================================

// SaveOffice inserts or replaces an office record.
func (s *Store) SaveOffice(ctx context.Context, o agreement.Office) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO offices
		(id, name, building, list_price, mr_credits, print_quota_bw, print_quota_color,
		 status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			building = excluded.building,
			list_price = excluded.list_price,
			mr_credits = excluded.mr_credits,
			print_quota_bw = excluded.print_quota_bw,
			print_quota_color = excluded.print_quota_color,
			status = excluded.status,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		o.ID, o.Name, o.Building, int64(o.ListPrice),
		o.MRCredits, o.PrintQuotaBW, o.PrintQuotaColor,
		string(o.Status),
		o.CreatedAt.UTC().Format(time.RFC3339),
		o.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save office: %w", err)
	}
	return nil
}

// GetOffice retrieves an office by ID.
func (s *Store) GetOffice(ctx context.Context, id string) (*agreement.Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var o agreement.Office
	var status, createdAt, updatedAt string
	var building sql.NullString
	var listPrice int64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, building, list_price, mr_credits, print_quota_bw,
		        print_quota_color, status, created_at, updated_at
		 FROM offices WHERE id = ?`,
		id,
	).Scan(&o.ID, &o.Name, &building, &listPrice, &o.MRCredits,
		&o.PrintQuotaBW, &o.PrintQuotaColor, &status, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query office: %w", err)
	}

	o.Building = building.String
	o.ListPrice = engine.Money(listPrice)
	o.Status = agreement.RecordStatus(status)
	o.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	o.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &o, nil
}

// ListOffices returns all offices sorted by name.
func (s *Store) ListOffices(ctx context.Context) ([]agreement.Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, building, list_price, mr_credits, print_quota_bw,
		        print_quota_color, status, created_at, updated_at
		 FROM offices ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query offices: %w", err)
	}
	defer rows.Close()

	var out []agreement.Office
	for rows.Next() {
		var o agreement.Office
		var status, createdAt, updatedAt string
		var building sql.NullString
		var listPrice int64
		if err := rows.Scan(&o.ID, &o.Name, &building, &listPrice, &o.MRCredits,
			&o.PrintQuotaBW, &o.PrintQuotaColor, &status, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan office: %w", err)
		}
		o.Building = building.String
		o.ListPrice = engine.Money(listPrice)
		o.Status = agreement.RecordStatus(status)
		o.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		o.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, o)
	}
	return out, rows.Err()
}

// =============================================================================
// TERMINATION NOTICES
// =============================================================================

// SaveNotice inserts or replaces a termination notice.
func (s *Store) SaveNotice(ctx context.Context, n agreement.TerminationNotice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO termination_notices
		(id, company_id, notice_date, expected_end_date, override_end_date,
		 status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			notice_date = excluded.notice_date,
			expected_end_date = excluded.expected_end_date,
			override_end_date = excluded.override_end_date,
			status = excluded.status,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		n.ID, n.CompanyID,
		n.NoticeDate.String(),
		nullDate(n.ExpectedEndDate),
		nullDate(n.OverrideEndDate),
		string(n.Status), n.Notes,
		n.CreatedAt.UTC().Format(time.RFC3339),
		n.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save notice: %w", err)
	}
	return nil
}

// GetNotice retrieves a notice by ID.
func (s *Store) GetNotice(ctx context.Context, id string) (*agreement.TerminationNotice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := noticeSelect + " WHERE id = ?"
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query notice: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	n, err := scanNotice(rows)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNoticesByCompany returns one client's notices, newest first.
func (s *Store) ListNoticesByCompany(ctx context.Context, companyID string) ([]agreement.TerminationNotice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := noticeSelect + " WHERE company_id = ? ORDER BY created_at DESC, id"
	rows, err := s.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notices: %w", err)
	}
	defer rows.Close()

	var out []agreement.TerminationNotice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

const noticeSelect = `
	SELECT id, company_id, notice_date, expected_end_date, override_end_date,
	       status, notes, created_at, updated_at
	FROM termination_notices
`

func scanNotice(rows *sql.Rows) (agreement.TerminationNotice, error) {
	var (
		n                    agreement.TerminationNotice
		noticeDate, status   string
		expected, override   sql.NullString
		notes                sql.NullString
		createdAt, updatedAt string
	)

	err := rows.Scan(&n.ID, &n.CompanyID, &noticeDate, &expected, &override,
		&status, &notes, &createdAt, &updatedAt)
	if err != nil {
		return n, fmt.Errorf("failed to scan notice: %w", err)
	}

	n.NoticeDate = engine.MustParseDate(noticeDate)
	n.ExpectedEndDate = parseDatePtr(expected)
	n.OverrideEndDate = parseDatePtr(override)
	n.Status = agreement.NoticeStatus(status)
	n.Notes = notes.String
	n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	n.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return n, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"agreements", "offices", "termination_notices"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(d *engine.Date) sql.NullString {
	if d == nil || d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseDatePtr(s sql.NullString) *engine.Date {
	if !s.Valid || s.String == "" {
		return nil
	}
	d, err := engine.ParseDate(s.String)
	if err != nil {
		return nil
	}
	return &d
}
