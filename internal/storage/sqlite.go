package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/jialunli-sysu/cloudPapers/internal/catalog"
)

// DB is a SQLite mirror of the catalog used for full-text search. It is
// derived state: RebuildFromSnapshot recreates it from scratch.
type DB struct {
	db *sql.DB
}

// Hit is one full-text search result.
type Hit struct {
	ID    catalog.ID `json:"id"`
	Title string     `json:"title"`
	Venue string     `json:"venue"`
	Year  int        `json:"year"`
}

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
		CREATE TABLE IF NOT EXISTS papers (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			venue TEXT NOT NULL,
			year INTEGER NOT NULL,
			rating INTEGER NOT NULL,
			read INTEGER NOT NULL,
			path TEXT
		);

		-- Standalone FTS table, refilled on every rebuild
		CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
			id UNINDEXED,
			title,
			authors_text,
			venue,
			tags_text,
			comment,
			raw
		);
	`
	_, err := db.Exec(schema)
	return err
}

// RebuildFromSnapshot clears the database and refills it from s. Returns
// the number of papers indexed.
func (d *DB) RebuildFromSnapshot(s *catalog.Snapshot) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM papers"); err != nil {
		return 0, fmt.Errorf("clearing papers table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM papers_fts"); err != nil {
		return 0, fmt.Errorf("clearing papers_fts table: %w", err)
	}

	papersStmt, err := tx.Prepare(`
		INSERT INTO papers (id, title, venue, year, rating, read, path)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing papers insert: %w", err)
	}
	defer papersStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO papers_fts (id, title, authors_text, venue, tags_text, comment, raw)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, r := range s.Papers {
		_, err := papersStmt.Exec(
			int64(r.ID), r.Title, r.Venue, r.Year, r.Rating, r.Read,
			nullableStringValue(r.Path),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting paper %d: %w", r.ID, err)
		}

		_, err = ftsStmt.Exec(
			strconv.FormatUint(uint64(r.ID), 10), r.Title, formatAuthorsText(r.Authors),
			r.Venue, formatTagsText(r), r.Comment, r.Raw,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting fts for %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(s.Papers), nil
}

// formatAuthorsText creates a searchable text representation of author labels.
func formatAuthorsText(labels []string) string {
	return strings.Join(labels, "; ")
}

func formatTagsText(r catalog.Record) string {
	var all []string
	all = append(all, r.Tags...)
	all = append(all, r.Datasets...)
	all = append(all, r.Projects...)
	return strings.Join(all, " ")
}

// Search performs a full-text search over every indexed column.
func (d *DB) Search(query string, limit int) ([]Hit, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}
	return d.match(ftsQuery, limit)
}

// SearchField performs a search on a specific field.
func (d *DB) SearchField(field, value string, limit int) ([]Hit, error) {
	var ftsQuery string
	switch field {
	case "author":
		ftsQuery = "authors_text:" + prepareAuthorQuery(value)
	case "title", "venue", "comment":
		ftsQuery = field + ":" + prepareFTSQuery(value)
	case "tag":
		ftsQuery = "tags_text:" + prepareFTSQuery(value)
	default:
		return nil, fmt.Errorf("unknown search field: %s", field)
	}
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	return d.match(ftsQuery, limit)
}

func (d *DB) match(ftsQuery string, limit int) ([]Hit, error) {
	rows, err := d.db.Query(`
		SELECT id, title, venue, year
		FROM papers
		WHERE id IN (SELECT CAST(id AS INTEGER) FROM papers_fts WHERE papers_fts MATCH ?)
		ORDER BY id
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var id int64
		if err := rows.Scan(&id, &h.Title, &h.Venue, &h.Year); err != nil {
			return nil, err
		}
		h.ID = catalog.ID(id)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Count returns the number of mirrored papers.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&count)
	return count, err
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareAuthorQuery prepares an author name for FTS5 search with prefix matching,
// e.g. "Tim" matches "timothy".
func prepareAuthorQuery(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return author
	}

	parts := strings.Fields(strings.ReplaceAll(author, ",", " "))
	var terms []string
	for _, part := range parts {
		escaped := strings.ReplaceAll(part, "\"", "\"\"")
		terms = append(terms, "\""+escaped+"\"*")
	}

	// Match any part of a multi-word name
	return "(" + strings.Join(terms, " OR ") + ")"
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// FTS5 uses double quotes for phrase matching
	if strings.ContainsAny(query, "\"*+-:(){}[]^~.,;") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
