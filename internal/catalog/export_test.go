package catalog

import "context"

// SetSchemaVersionForTest overwrites the recorded schema version.
func SetSchemaVersionForTest(c *Catalog, version int) error {
	return c.execWithRetry(context.Background(), "UPDATE schema_version SET version = ?", version)
}
