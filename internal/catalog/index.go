package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"slidedeck/internal/store"
)

var _ store.Indexer = (*Catalog)(nil)

// Index inserts or replaces the catalog row for rec, including its tags and
// media references.
func (c *Catalog) Index(ctx context.Context, rec store.Record) error {
	if rec.Kind == "" || rec.ID == "" {
		return errors.New("catalog: record kind and id are required")
	}
	now := c.now().UTC().Format(time.RFC3339Nano)
	err := c.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO documents (kind, id, name, body_text, path, modified_at, indexed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(kind, id) DO UPDATE SET
				name = excluded.name,
				body_text = excluded.body_text,
				path = excluded.path,
				modified_at = excluded.modified_at,
				indexed_at = excluded.indexed_at`,
			rec.Kind, rec.ID, rec.Name, rec.Text, rec.Path, nullableTime(rec.ModifiedAt), now,
		); err != nil {
			return fmt.Errorf("upsert document: %w", err)
		}
		if err := replaceSet(ctx, tx, "document_tags", "tag", rec.Kind, rec.ID, rec.Tags); err != nil {
			return err
		}
		return replaceSet(ctx, tx, "media_refs", "media_id", rec.Kind, rec.ID, rec.Media)
	})
	if err != nil {
		return fmt.Errorf("index %s/%s: %w", rec.Kind, rec.ID, err)
	}
	return nil
}

// replaceSet swaps the child rows of one document for values.
func replaceSet(ctx context.Context, tx *sql.Tx, table, column, kind, id string, values []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE kind = ? AND id = ?", kind, id); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" (kind, id, "+column+") VALUES (?, ?, ?)", kind, id, v,
		); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

// Remove drops the catalog row for kind/id. Removing an absent row is not an
// error.
func (c *Catalog) Remove(ctx context.Context, kind, id string) error {
	if err := c.execWithRetry(ctx, "DELETE FROM documents WHERE kind = ? AND id = ?", kind, id); err != nil {
		return fmt.Errorf("remove %s/%s: %w", kind, id, err)
	}
	return nil
}

// Reset removes every row of kind, or every row when kind is empty. Rebuilds
// call it before re-indexing from the documents on disk.
func (c *Catalog) Reset(ctx context.Context, kind string) error {
	query, args := "DELETE FROM documents", []any(nil)
	if kind != "" {
		query, args = query+" WHERE kind = ?", []any{kind}
	}
	if err := c.execWithRetry(ctx, query, args...); err != nil {
		return fmt.Errorf("reset catalog: %w", err)
	}
	return nil
}

// Prune removes rows of kind whose id is not in keep and reports how many
// were dropped.
func (c *Catalog) Prune(ctx context.Context, kind string, keep []string) (int, error) {
	entries, err := c.List(ctx, kind)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if slices.Contains(keep, e.ID) {
			continue
		}
		if err := c.Remove(ctx, kind, e.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
