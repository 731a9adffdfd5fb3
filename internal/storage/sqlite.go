package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matsen/citenet/internal/cooccur"
	"github.com/matsen/citenet/internal/reference"
	"github.com/matsen/citenet/internal/report"
)

// DB wraps a SQLite database connection. It is a query cache: records are
// rebuilt from JSONL and reports can be re-exported at any time.
type DB struct {
	db *sql.DB
}

// selectRecordFields contains the standard field list for record SELECTs.
const selectRecordFields = `title, doi, authors, pub_year, times_cited, references_text`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			doi TEXT,
			authors TEXT,
			pub_year INTEGER,
			times_cited INTEGER,
			references_text TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_records_doi ON records(doi) WHERE doi IS NOT NULL AND doi != '';

		CREATE VIRTUAL TABLE IF NOT EXISTS records_fts USING fts5(
			title,
			authors,
			references_text
		);

		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			modularity REAL NOT NULL,
			pair_limit INTEGER NOT NULL,
			size_metric TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS pairs (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			a TEXT NOT NULL,
			b TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, position)
		);

		CREATE TABLE IF NOT EXISTS clusters (
			run_id TEXT NOT NULL,
			cluster INTEGER NOT NULL,
			num_nodes INTEGER NOT NULL,
			PRIMARY KEY (run_id, cluster)
		);

		CREATE TABLE IF NOT EXISTS nodes (
			run_id TEXT NOT NULL,
			label TEXT NOT NULL,
			identity TEXT NOT NULL,
			cluster INTEGER NOT NULL,
			rank INTEGER NOT NULL,
			degree INTEGER NOT NULL,
			betweenness REAL NOT NULL,
			eigenvector REAL,
			closeness REAL NOT NULL,
			size REAL NOT NULL,
			color TEXT NOT NULL,
			PRIMARY KEY (run_id, label)
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the records tables and rebuilds them from a JSONL
// file.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	records, err := ReadRecords(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return 0, fmt.Errorf("clearing records table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM records_fts"); err != nil {
		return 0, fmt.Errorf("clearing records_fts table: %w", err)
	}

	recStmt, err := tx.Prepare(`
		INSERT INTO records (id, title, doi, authors, pub_year, times_cited, references_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing records insert: %w", err)
	}
	defer recStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO records_fts (rowid, title, authors, references_text)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, rec := range records {
		id := i + 1
		refs := ""
		if rec.References != nil {
			refs = *rec.References
		}
		var cited sql.NullInt64
		if rec.TimesCited != nil {
			cited = sql.NullInt64{Int64: int64(*rec.TimesCited), Valid: true}
		}

		_, err = recStmt.Exec(id, rec.Title,
			nullableStringValue(rec.DOI), nullableStringValue(rec.Authors),
			nullableInt(rec.Year), cited, nullableRefs(rec.References))
		if err != nil {
			return 0, fmt.Errorf("inserting record %d: %w", id, err)
		}
		if _, err := ftsStmt.Exec(id, rec.Title, rec.Authors, refs); err != nil {
			return 0, fmt.Errorf("inserting fts for record %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(records), nil
}

// Search performs a full-text search over titles, authors and reference lists.
func (d *DB) Search(query string, limit int) ([]reference.Record, error) {
	rows, err := d.db.Query(`
		SELECT `+selectRecordFields+`
		FROM records
		WHERE id IN (SELECT rowid FROM records_fts WHERE records_fts MATCH ?)
		ORDER BY id
		LIMIT ?`, prepareFTSQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// CitingRecords returns records whose reference list mentions the given text,
// such as the author and year of a reference identity.
func (d *DB) CitingRecords(text string, limit int) ([]reference.Record, error) {
	rows, err := d.db.Query(`
		SELECT `+selectRecordFields+`
		FROM records
		WHERE id IN (SELECT rowid FROM records_fts WHERE records_fts MATCH ?)
		ORDER BY id
		LIMIT ?`, "references_text:"+ftsPhrase(text), limit)
	if err != nil {
		return nil, fmt.Errorf("searching references: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// CountRecords returns the number of records.
func (d *DB) CountRecords() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}

// SaveReport stores an assembled report under a run ID, replacing any earlier
// report with the same ID.
func (d *DB) SaveReport(runID string, rep *report.Report) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"runs", "pairs", "clusters", "nodes"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE run_id = ?", runID); err != nil {
			return fmt.Errorf("clearing %s for run %s: %w", table, runID, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, mode, created_at, modularity, pair_limit, size_metric)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, string(rep.Mode), time.Now().Unix(), rep.Modularity, rep.PairLimit, rep.SizeMetric)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for i, p := range rep.TopPairs {
		if _, err := tx.Exec(`INSERT INTO pairs (run_id, position, a, b, count) VALUES (?, ?, ?, ?, ?)`,
			runID, i+1, p.A, p.B, p.Count); err != nil {
			return fmt.Errorf("inserting pair %d: %w", i+1, err)
		}
	}

	for _, c := range rep.Clusters {
		if _, err := tx.Exec(`INSERT INTO clusters (run_id, cluster, num_nodes) VALUES (?, ?, ?)`,
			runID, c.Cluster, c.NumNodes); err != nil {
			return fmt.Errorf("inserting cluster %d: %w", c.Cluster, err)
		}
	}

	nodeStmt, err := tx.Prepare(`
		INSERT INTO nodes (run_id, label, identity, cluster, rank, degree,
			betweenness, eigenvector, closeness, size, color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing nodes insert: %w", err)
	}
	defer nodeStmt.Close()

	for _, n := range rep.Nodes {
		var ev sql.NullFloat64
		if rep.HasEigenvector {
			ev = sql.NullFloat64{Float64: n.Eigenvector, Valid: true}
		}
		if _, err := nodeStmt.Exec(runID, n.Label, n.Identity, n.Cluster, n.Rank, n.Degree,
			n.Betweenness, ev, n.Closeness, n.Size, n.Color); err != nil {
			return fmt.Errorf("inserting node %s: %w", n.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// TopPairs returns up to limit stored pairs of a run in report order.
func (d *DB) TopPairs(runID string, limit int) ([]cooccur.Pair, error) {
	rows, err := d.db.Query(`
		SELECT a, b, count FROM pairs WHERE run_id = ? ORDER BY position LIMIT ?
	`, runID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying pairs: %w", err)
	}
	defer rows.Close()

	var pairs []cooccur.Pair
	for rows.Next() {
		var p cooccur.Pair
		if err := rows.Scan(&p.A, &p.B, &p.Count); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// ClusterNodes returns the stored nodes of one cluster of a run, by rank.
func (d *DB) ClusterNodes(runID string, cluster int) ([]report.Node, error) {
	rows, err := d.db.Query(`
		SELECT label, identity, cluster, rank, degree, betweenness, eigenvector, closeness, size, color
		FROM nodes WHERE run_id = ? AND cluster = ? ORDER BY rank
	`, runID, cluster)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var nodes []report.Node
	for rows.Next() {
		var n report.Node
		var ev sql.NullFloat64
		if err := rows.Scan(&n.Label, &n.Identity, &n.Cluster, &n.Rank, &n.Degree,
			&n.Betweenness, &ev, &n.Closeness, &n.Size, &n.Color); err != nil {
			return nil, err
		}
		n.Eigenvector = ev.Float64
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*reference.Record, error) {
	var rec reference.Record
	var doi, authors, refs sql.NullString
	var year, cited sql.NullInt64

	if err := s.Scan(&rec.Title, &doi, &authors, &year, &cited, &refs); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rec.DOI = doi.String
	rec.Authors = authors.String
	rec.Year = int(year.Int64)
	if cited.Valid {
		n := int(cited.Int64)
		rec.TimesCited = &n
	}
	if refs.Valid {
		rec.References = reference.StringPtr(refs.String)
	}
	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]reference.Record, error) {
	var records []reference.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableRefs(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullableInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}

// ftsPhrase quotes text as a single FTS5 phrase.
func ftsPhrase(text string) string {
	return "\"" + strings.ReplaceAll(strings.TrimSpace(text), "\"", "\"\"") + "\""
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// FTS5 uses double quotes for phrase matching
	if strings.ContainsAny(query, "\"*+-:(){}[]^~,.;") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
