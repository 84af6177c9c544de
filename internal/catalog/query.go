package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Entry is one catalogued document.
type Entry struct {
	Kind       string
	ID         string
	Name       string
	Tags       []string
	Path       string
	ModifiedAt time.Time
}

// Query selects entries. Every whitespace-separated term of Text must match
// the name, the text content or a tag, case-insensitively. Kind and Tag
// narrow the result when set. Limit <= 0 means no limit.
type Query struct {
	Text  string
	Kind  string
	Tag   string
	Limit int
}

const tagSeparator = "\x1f"

const entrySelect = `SELECT d.kind, d.id, d.name, d.path, d.modified_at,
	COALESCE((SELECT group_concat(t.tag, char(31)) FROM document_tags t WHERE t.kind = d.kind AND t.id = d.id), '')
	FROM documents d`

// Search returns entries matching q ordered by name.
func (c *Catalog) Search(ctx context.Context, q Query) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	for _, term := range strings.Fields(q.Text) {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		where = append(where, `(lower(d.name) LIKE ? ESCAPE '\'
			OR lower(d.body_text) LIKE ? ESCAPE '\'
			OR EXISTS (SELECT 1 FROM document_tags t WHERE t.kind = d.kind AND t.id = d.id AND lower(t.tag) LIKE ? ESCAPE '\'))`)
		args = append(args, pattern, pattern, pattern)
	}
	if q.Kind != "" {
		where = append(where, "d.kind = ?")
		args = append(args, q.Kind)
	}
	if q.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM document_tags t WHERE t.kind = d.kind AND t.id = d.id AND t.tag = ?)")
		args = append(args, q.Tag)
	}

	query := entrySelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY d.name COLLATE NOCASE, d.kind, d.id"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}
	return c.queryEntries(ctx, query, args...)
}

// List returns every entry of kind, or all entries when kind is empty.
func (c *Catalog) List(ctx context.Context, kind string) ([]Entry, error) {
	return c.Search(ctx, Query{Kind: kind})
}

// MediaReferences returns the documents that use mediaID.
func (c *Catalog) MediaReferences(ctx context.Context, mediaID string) ([]Entry, error) {
	query := entrySelect + ` WHERE EXISTS (SELECT 1 FROM media_refs m WHERE m.kind = d.kind AND m.id = d.id AND m.media_id = ?)
		ORDER BY d.kind, d.name COLLATE NOCASE, d.id`
	return c.queryEntries(ctx, query, mediaID)
}

// Counts returns the number of catalogued documents per kind.
func (c *Catalog) Counts(ctx context.Context) (map[string]int, error) {
	ctx = ensureContext(ctx)
	rows, err := c.db.QueryContext(ctx, "SELECT kind, COUNT(1) FROM documents GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			kind  string
			count int
		)
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		counts[kind] = count
	}
	return counts, rows.Err()
}

func (c *Catalog) queryEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	ctx = ensureContext(ctx)
	var entries []Entry
	err := retryOnBusy(ctx, func() error {
		entries = entries[:0]
		rows, err := c.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			entry, err := scanEntry(rows)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	return entries, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry    Entry
		modified sql.NullString
		tags     string
	)
	if err := scanner.Scan(&entry.Kind, &entry.ID, &entry.Name, &entry.Path, &modified, &tags); err != nil {
		return Entry{}, err
	}
	if modified.Valid {
		if t, err := parseTimeString(modified.String); err == nil {
			entry.ModifiedAt = t
		}
	}
	if tags != "" {
		entry.Tags = strings.Split(tags, tagSeparator)
		slices.Sort(entry.Tags)
	}
	return entry, nil
}

func escapeLike(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(value)
}
