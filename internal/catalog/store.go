package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound reports a missing catalog row.
var ErrNotFound = errors.New("catalog entry not found")

// BeginScan records the start of a scan and returns it with a fresh ID.
func (s *Store) BeginScan(ctx context.Context, dir, pattern string) (*Scan, error) {
	scan := &Scan{
		ID:        uuid.NewString(),
		Dir:       dir,
		Pattern:   pattern,
		StartedAt: time.Now().UTC(),
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO scans (id, dir, pattern, started_at) VALUES (?, ?, ?, ?)`,
		scan.ID, scan.Dir, scan.Pattern, scan.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert scan: %w", err)
	}
	return scan, nil
}

// FinishScan stores the final counts of a scan.
func (s *Store) FinishScan(ctx context.Context, scan *Scan) error {
	finished := time.Now().UTC()
	err := s.execWithRetry(ctx,
		`UPDATE scans SET finished_at = ?, parsed = ?, skipped = ?, failed = ? WHERE id = ?`,
		finished.Format(time.RFC3339Nano), scan.Parsed, scan.Skipped, scan.Failed, scan.ID,
	)
	if err != nil {
		return fmt.Errorf("update scan: %w", err)
	}
	scan.FinishedAt = &finished
	return nil
}

// GetScan loads a scan by ID.
func (s *Store) GetScan(ctx context.Context, id string) (*Scan, error) {
	var (
		scan     Scan
		started  string
		finished sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, dir, pattern, started_at, finished_at, parsed, skipped, failed FROM scans WHERE id = ?`, id,
	).Scan(&scan.ID, &scan.Dir, &scan.Pattern, &started, &finished, &scan.Parsed, &scan.Skipped, &scan.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: scan %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get scan: %w", err)
	}
	scan.StartedAt = parseTime(started)
	if finished.Valid {
		t := parseTime(finished.String)
		scan.FinishedAt = &t
	}
	return &scan, nil
}

// Upsert stores e, replacing any previous row and species for its path.
func (s *Store) Upsert(ctx context.Context, e Entry) error {
	if !e.Status.Valid() {
		return fmt.Errorf("upsert %s: invalid status %q", e.Path, e.Status)
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}
	return s.withTx(ctx, "upsert "+e.Path, func(tx *sql.Tx) error {
		return upsertEntry(ctx, tx, e)
	})
}

func upsertEntry(ctx context.Context, tx *sql.Tx, e Entry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO spectra (
            path, scan_id, status, error, checksum, size, identifier, window_center,
            sza, zobs, row_count, rms_resid, max_resid, freq_min, freq_max, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            scan_id = excluded.scan_id,
            status = excluded.status,
            error = excluded.error,
            checksum = excluded.checksum,
            size = excluded.size,
            identifier = excluded.identifier,
            window_center = excluded.window_center,
            sza = excluded.sza,
            zobs = excluded.zobs,
            row_count = excluded.row_count,
            rms_resid = excluded.rms_resid,
            max_resid = excluded.max_resid,
            freq_min = excluded.freq_min,
            freq_max = excluded.freq_max,
            updated_at = excluded.updated_at`,
		e.Path,
		nullableString(e.ScanID),
		string(e.Status),
		nullableString(e.Error),
		e.Checksum,
		e.Size,
		e.Identifier,
		nullableFloat(e.Window),
		e.SZA,
		e.Zobs,
		e.Rows,
		e.RMSResid,
		e.MaxResid,
		e.FreqMin,
		e.FreqMax,
		e.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", e.Path, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM spectrum_species WHERE path = ?`, e.Path); err != nil {
		return fmt.Errorf("clear species for %s: %w", e.Path, err)
	}
	for i, name := range e.Species {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO spectrum_species (path, position, name, folded) VALUES (?, ?, ?, ?)`,
			e.Path, i, name, FoldSpecies(name),
		); err != nil {
			return fmt.Errorf("insert species %s for %s: %w", name, e.Path, err)
		}
	}
	return nil
}

const entryColumns = `path, scan_id, status, error, checksum, size, identifier, window_center,
    sza, zobs, row_count, rms_resid, max_resid, freq_min, freq_max, updated_at`

// Get loads the entry for path.
func (s *Store) Get(ctx context.Context, path string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM spectra WHERE path = ?`, path)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if e.Species, err = s.species(ctx, path); err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns entries matching opts.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	status := opts.Status
	if opts.Worst > 0 && status == "" {
		status = StatusParsed
	}
	if status != "" {
		where = append(where, "status = ?")
		args = append(args, string(status))
	}
	if species := strings.TrimSpace(opts.Species); species != "" {
		where = append(where, "EXISTS (SELECT 1 FROM spectrum_species sp WHERE sp.path = spectra.path AND sp.folded = ?)")
		args = append(args, FoldSpecies(species))
	}

	query := `SELECT ` + entryColumns + ` FROM spectra`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if opts.Worst > 0 {
		query += " ORDER BY rms_resid DESC, path LIMIT ?"
		args = append(args, opts.Worst)
	} else {
		query += " ORDER BY path"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list spectra: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan spectrum row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list spectra: %w", err)
	}
	rows.Close()

	for i := range entries {
		if entries[i].Species, err = s.species(ctx, entries[i].Path); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Remove deletes the entry for path.
func (s *Store) Remove(ctx context.Context, path string) error {
	return s.withTx(ctx, "remove "+path, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM spectrum_species WHERE path = ?`, path); err != nil {
			return fmt.Errorf("remove species for %s: %w", path, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM spectra WHERE path = ?`, path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		return nil
	})
}

func (s *Store) species(ctx context.Context, path string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM spectrum_species WHERE path = ? ORDER BY position`, path)
	if err != nil {
		return nil, fmt.Errorf("load species for %s: %w", path, err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan species: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		e       Entry
		scanID  sql.NullString
		status  string
		errText sql.NullString
		window  sql.NullFloat64
		updated string
	)
	err := row.Scan(
		&e.Path, &scanID, &status, &errText, &e.Checksum, &e.Size, &e.Identifier, &window,
		&e.SZA, &e.Zobs, &e.Rows, &e.RMSResid, &e.MaxResid, &e.FreqMin, &e.FreqMax, &updated,
	)
	if err != nil {
		return Entry{}, err
	}
	e.ScanID = scanID.String
	e.Status = Status(status)
	e.Error = errText.String
	e.Window = window.Float64
	e.UpdatedAt = parseTime(updated)
	return e, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableFloat(value float64) any {
	if value == 0 {
		return nil
	}
	return value
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
