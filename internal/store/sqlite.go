// Package store persists parsed postings, the user's applications and the
// deadline notifications already sent, in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobcal/internal/model"
)

// ErrNotFound is returned when a posting or application does not exist.
var ErrNotFound = errors.New("not found")

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339Nano
)

// UpsertOutcome tells the caller what UpsertPosting did.
type UpsertOutcome int

const (
	Inserted UpsertOutcome = iota
	Updated
	Unchanged
)

func (o UpsertOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS postings (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		canonical_url   TEXT NOT NULL UNIQUE,
		original_url    TEXT NOT NULL,
		company_name    TEXT NOT NULL,
		job_title       TEXT NOT NULL,
		deadline        TEXT,
		description     TEXT NOT NULL DEFAULT '',
		description_raw TEXT NOT NULL DEFAULT '',
		location        TEXT NOT NULL DEFAULT '',
		parsed_data     TEXT NOT NULL DEFAULT '{}',
		created_at      TEXT NOT NULL,
		updated_at      TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_postings_deadline ON postings (deadline)`,
	`CREATE TABLE IF NOT EXISTS applications (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		posting_id INTEGER NOT NULL REFERENCES postings (id) ON DELETE CASCADE,
		status     TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notified_deadlines (
		posting_id  INTEGER NOT NULL REFERENCES postings (id) ON DELETE CASCADE,
		deadline    TEXT NOT NULL,
		notified_at TEXT NOT NULL,
		PRIMARY KEY (posting_id, deadline)
	)`,
}

const postingColumns = `id, original_url, company_name, job_title, deadline, description,
	description_raw, location, parsed_data, created_at, updated_at`

// SQLiteStore is the posting store.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	for _, stmt := range append([]string{`PRAGMA foreign_keys = ON`}, schema...) {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// UpsertPosting stores job under the canonical form of rawURL. A new URL is
// inserted. An existing posting is overwritten only when job carries a
// deadline; otherwise the stored row is kept as is.
func (s *SQLiteStore) UpsertPosting(ctx context.Context, rawURL string, job model.ParsedJob) (model.Posting, UpsertOutcome, error) {
	canonical, err := CanonicalURL(rawURL)
	if err != nil {
		return model.Posting{}, Unchanged, err
	}
	data, err := json.Marshal(job.ParsedData)
	if err != nil {
		return model.Posting{}, Unchanged, fmt.Errorf("encoding parsed data: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Posting{}, Unchanged, fmt.Errorf("beginning upsert: %w", err)
	}
	defer tx.Rollback()

	now := s.now().UTC().Format(timestampLayout)
	outcome := Unchanged

	var id int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM postings WHERE canonical_url = ?", canonical).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx, `INSERT INTO postings
			(canonical_url, original_url, company_name, job_title, deadline, description,
			 description_raw, location, parsed_data, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			canonical, rawURL, job.CompanyName, job.JobTitle, formatDate(job.Deadline),
			job.Description, job.DescriptionRaw, job.Location, string(data), now,
		)
		if err != nil {
			return model.Posting{}, Unchanged, fmt.Errorf("inserting posting %s: %w", canonical, err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return model.Posting{}, Unchanged, fmt.Errorf("reading posting id: %w", err)
		}
		outcome = Inserted
	case err != nil:
		return model.Posting{}, Unchanged, fmt.Errorf("looking up posting %s: %w", canonical, err)
	case job.Deadline != nil:
		_, err := tx.ExecContext(ctx, `UPDATE postings SET
			company_name = ?, job_title = ?, deadline = ?, description = ?,
			description_raw = ?, location = ?, parsed_data = ?, updated_at = ?
			WHERE id = ?`,
			job.CompanyName, job.JobTitle, formatDate(job.Deadline), job.Description,
			job.DescriptionRaw, job.Location, string(data), now, id,
		)
		if err != nil {
			return model.Posting{}, Unchanged, fmt.Errorf("updating posting %d: %w", id, err)
		}
		outcome = Updated
	}

	p, err := scanPosting(tx.QueryRowContext(ctx, "SELECT "+postingColumns+" FROM postings WHERE id = ?", id))
	if err != nil {
		return model.Posting{}, Unchanged, err
	}
	if err := tx.Commit(); err != nil {
		return model.Posting{}, Unchanged, fmt.Errorf("committing upsert: %w", err)
	}
	return p, outcome, nil
}

// GetPosting returns one posting by id.
func (s *SQLiteStore) GetPosting(ctx context.Context, id int64) (model.Posting, error) {
	return scanPosting(s.db.QueryRowContext(ctx, "SELECT "+postingColumns+" FROM postings WHERE id = ?", id))
}

// ListPostings returns every posting, soonest deadline first and postings
// without a deadline last.
func (s *SQLiteStore) ListPostings(ctx context.Context) ([]model.Posting, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+postingColumns+
		" FROM postings ORDER BY deadline IS NULL, deadline, id")
	if err != nil {
		return nil, fmt.Errorf("listing postings: %w", err)
	}
	defer rows.Close()
	return collectPostings(rows)
}

// PostingsDueBetween returns postings whose deadline falls on a day in
// [from, to]. Postings whose applications are all closed (rejected or
// accepted) are left out; postings without applications are included.
func (s *SQLiteStore) PostingsDueBetween(ctx context.Context, from, to time.Time) ([]model.Posting, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+postingColumns+` FROM postings p
		WHERE p.deadline IS NOT NULL AND p.deadline BETWEEN ? AND ?
		AND NOT (
			EXISTS (SELECT 1 FROM applications a WHERE a.posting_id = p.id)
			AND NOT EXISTS (SELECT 1 FROM applications a
				WHERE a.posting_id = p.id AND a.status NOT IN (?, ?))
		)
		ORDER BY p.deadline, p.id`,
		from.Format(dateLayout), to.Format(dateLayout),
		string(model.StatusRejected), string(model.StatusAccepted),
	)
	if err != nil {
		return nil, fmt.Errorf("querying due postings: %w", err)
	}
	defer rows.Close()
	return collectPostings(rows)
}

// CreateApplication records an application for an existing posting.
func (s *SQLiteStore) CreateApplication(ctx context.Context, postingID int64, status model.ApplicationStatus) (model.Application, error) {
	if _, err := model.ParseApplicationStatus(string(status)); err != nil {
		return model.Application{}, err
	}
	if _, err := s.GetPosting(ctx, postingID); err != nil {
		return model.Application{}, err
	}

	now := s.now().UTC()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO applications (posting_id, status, created_at) VALUES (?, ?, ?)",
		postingID, string(status), now.Format(timestampLayout),
	)
	if err != nil {
		return model.Application{}, fmt.Errorf("creating application for posting %d: %w", postingID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Application{}, fmt.Errorf("reading application id: %w", err)
	}
	return model.Application{ID: id, PostingID: postingID, Status: status, CreatedAt: now}, nil
}

// UpdateApplicationStatus moves an application to status.
func (s *SQLiteStore) UpdateApplicationStatus(ctx context.Context, id int64, status model.ApplicationStatus) error {
	if _, err := model.ParseApplicationStatus(string(status)); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, "UPDATE applications SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("updating application %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListApplications returns the applications for a posting, oldest first.
func (s *SQLiteStore) ListApplications(ctx context.Context, postingID int64) ([]model.Application, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, posting_id, status, created_at FROM applications WHERE posting_id = ? ORDER BY id",
		postingID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing applications for posting %d: %w", postingID, err)
	}
	defer rows.Close()

	var apps []model.Application
	for rows.Next() {
		var (
			a       model.Application
			status  string
			created string
		)
		if err := rows.Scan(&a.ID, &a.PostingID, &status, &created); err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}
		a.Status = model.ApplicationStatus(status)
		a.CreatedAt, _ = time.Parse(timestampLayout, created)
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// HasNotified reports whether the deadline reminder for this posting and
// deadline was already sent.
func (s *SQLiteStore) HasNotified(ctx context.Context, postingID int64, deadline time.Time) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM notified_deadlines WHERE posting_id = ? AND deadline = ?",
		postingID, deadline.Format(dateLayout),
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking notified status for posting %d: %w", postingID, err)
	}
	return true, nil
}

// MarkNotified records a sent reminder. If it already exists the call is a no-op.
func (s *SQLiteStore) MarkNotified(ctx context.Context, postingID int64, deadline time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO notified_deadlines (posting_id, deadline, notified_at) VALUES (?, ?, ?)",
		postingID, deadline.Format(dateLayout), s.now().UTC().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("marking posting %d as notified: %w", postingID, err)
	}
	return nil
}

// Cleanup deletes notification records for deadlines older than the given
// duration.
func (s *SQLiteStore) Cleanup(ctx context.Context, olderThan time.Duration) error {
	cutoff := s.now().Add(-olderThan).Format(dateLayout)
	_, err := s.db.ExecContext(ctx, "DELETE FROM notified_deadlines WHERE deadline < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up notifications older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosting(row rowScanner) (model.Posting, error) {
	var (
		p        model.Posting
		deadline sql.NullString
		data     string
		created  string
		updated  sql.NullString
	)
	err := row.Scan(&p.ID, &p.OriginalURL, &p.CompanyName, &p.JobTitle, &deadline,
		&p.Description, &p.DescriptionRaw, &p.Location, &data, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Posting{}, fmt.Errorf("posting: %w", ErrNotFound)
	}
	if err != nil {
		return model.Posting{}, fmt.Errorf("scanning posting: %w", err)
	}

	if deadline.Valid {
		if t, err := time.Parse(dateLayout, deadline.String); err == nil {
			p.Deadline = &t
		}
	}
	if err := json.Unmarshal([]byte(data), &p.ParsedData); err != nil {
		return model.Posting{}, fmt.Errorf("decoding parsed data of posting %d: %w", p.ID, err)
	}
	p.CreatedAt, _ = time.Parse(timestampLayout, created)
	if updated.Valid {
		if t, err := time.Parse(timestampLayout, updated.String); err == nil {
			p.UpdatedAt = &t
		}
	}
	return p, nil
}

func collectPostings(rows *sql.Rows) ([]model.Posting, error) {
	var postings []model.Posting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating postings: %w", err)
	}
	return postings, nil
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}
