package store

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"

	"slidedeck/internal/format"
	"slidedeck/internal/logging"
)

// ExportResult itemizes a multi-item export.
type ExportResult struct {
	// Exported holds the archive entry names written.
	Exported []string
	Errors   []ItemError
}

// Export serializes one item with the provider registered for f.
func (a *Adapter[T]) Export(w io.Writer, f format.Format, item T) error {
	provider, err := a.provider(f)
	if err != nil {
		return &Error{Op: "export", Resource: a.Kind(), ID: item.Identity(), Err: err}
	}

	a.exportMu.Lock()
	defer a.exportMu.Unlock()

	if err := provider.Write(w, item); err != nil {
		return &Error{Op: "export", Resource: a.Kind(), ID: item.Identity(), Err: err}
	}
	return nil
}

// ExportArchive writes each item as one entry of zw named by its relative
// path. Items that fail to serialize are reported in the result; a failure
// writing the archive itself aborts the call.
func (a *Adapter[T]) ExportArchive(zw *zip.Writer, f format.Format, items []T) (*ExportResult, error) {
	provider, err := a.provider(f)
	if err != nil {
		return nil, &Error{Op: "export", Resource: a.Kind(), Err: err}
	}

	a.exportMu.Lock()
	defer a.exportMu.Unlock()

	result := &ExportResult{}
	for _, item := range items {
		if err := a.exportEntry(zw, provider, item, result); err != nil {
			return result, &Error{Op: "export", Resource: a.Kind(), ID: item.Identity(), Err: err}
		}
	}
	a.logExport(result)
	return result, nil
}

// ExportStored reads the documents for ids and writes them into zw while
// holding the export lock, so no document changes between read and write.
// Missing or unreadable documents are reported in the result.
func (a *Adapter[T]) ExportStored(zw *zip.Writer, f format.Format, ids []string) (*ExportResult, error) {
	provider, err := a.provider(f)
	if err != nil {
		return nil, &Error{Op: "export", Resource: a.Kind(), Err: err}
	}

	a.exportMu.Lock()
	defer a.exportMu.Unlock()

	result := &ExportResult{}
	for _, id := range ids {
		item, err := a.Read(id)
		if err != nil {
			result.Errors = append(result.Errors, ItemError{ID: id, Err: err})
			continue
		}
		if err := a.exportEntry(zw, provider, item, result); err != nil {
			return result, &Error{Op: "export", Resource: a.Kind(), ID: id, Err: err}
		}
	}
	a.logExport(result)
	return result, nil
}

// exportEntry buffers the serialized item before opening its archive entry
// so a serialization failure never leaves a truncated entry behind. Only
// archive write failures are returned.
func (a *Adapter[T]) exportEntry(zw *zip.Writer, provider format.Provider[T], item T, result *ExportResult) error {
	id := item.Identity()
	name, err := a.resolver.RelativePath(id)
	if err != nil {
		result.Errors = append(result.Errors, ItemError{Name: item.DisplayName(), ID: id, Err: err})
		return nil
	}
	var buf bytes.Buffer
	if err := provider.Write(&buf, item); err != nil {
		result.Errors = append(result.Errors, ItemError{Name: name, ID: id, Err: err})
		return nil
	}
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: a.now(),
	})
	if err != nil {
		return fmt.Errorf("create entry %s: %w", name, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}
	result.Exported = append(result.Exported, name)
	return nil
}

func (a *Adapter[T]) provider(f format.Format) (format.Provider[T], error) {
	provider, ok := a.formats.Get(f)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return provider, nil
}

func (a *Adapter[T]) logExport(result *ExportResult) {
	a.logger.Info("export finished",
		logging.String(logging.FieldEventType, "export_finished"),
		logging.Int("exported", len(result.Exported)),
		logging.Int("errors", len(result.Errors)))
}
