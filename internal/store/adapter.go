package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"slidedeck/internal/fileutil"
	"slidedeck/internal/format"
	"slidedeck/internal/keylock"
	"slidedeck/internal/logging"
	"slidedeck/internal/paths"
	"slidedeck/internal/thumbnail"
)

// Entity is a persistable aggregate root.
type Entity interface {
	Identity() string
	DisplayName() string
	Touch(now time.Time)
	SetThumbnail(path string)
}

// DefaultMaxEntryBytes bounds a single buffered import entry.
const DefaultMaxEntryBytes int64 = 64 << 20

// Options configures an Adapter.
type Options[T Entity] struct {
	Resolver *paths.Resolver
	Formats  *format.Registry[T]
	// Native is the format documents are stored in. Defaults to format.Native.
	Native format.Format

	// Renderer produces side-car thumbnails. Nil disables thumbnails.
	Renderer        thumbnail.Renderer[T]
	ThumbnailWidth  int
	ThumbnailHeight int

	// Indexer and Describe feed an optional search catalog.
	Indexer  Indexer
	Describe func(T) Record

	Logger        *slog.Logger
	Now           func() time.Time
	MaxEntryBytes int64
}

// Adapter stores one entity type as one native document per identifier.
//
// Create, Update, Modify and Delete on the same identifier are serialized; different
// identifiers proceed in parallel. Exports hold the export lock exclusively
// while every mutation holds it shared, so an export never observes a write
// in progress. Read and LoadAll take no locks: documents are replaced by
// atomic rename and are never seen half written.
type Adapter[T Entity] struct {
	resolver *paths.Resolver
	formats  *format.Registry[T]
	native   format.Provider[T]
	renderer thumbnail.Renderer[T]
	thumbW   int
	thumbH   int
	indexer  Indexer
	describe func(T) Record
	logger   *slog.Logger
	now      func() time.Time
	maxEntry int64

	locks    keylock.Map
	exportMu sync.RWMutex
}

// New builds an adapter. The native provider must be registered in
// opts.Formats.
func New[T Entity](opts Options[T]) (*Adapter[T], error) {
	if opts.Resolver == nil {
		return nil, errors.New("store: resolver is required")
	}
	if opts.Formats == nil {
		return nil, errors.New("store: format registry is required")
	}
	nativeFormat := opts.Native
	if nativeFormat == "" {
		nativeFormat = format.Native
	}
	native, ok := opts.Formats.Get(nativeFormat)
	if !ok {
		return nil, fmt.Errorf("store: native format %q: %w", nativeFormat, ErrUnknownFormat)
	}
	if opts.Renderer != nil && (opts.ThumbnailWidth <= 0 || opts.ThumbnailHeight <= 0) {
		return nil, fmt.Errorf("store: thumbnail size %dx%d: %w", opts.ThumbnailWidth, opts.ThumbnailHeight, thumbnail.ErrInvalidSize)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	maxEntry := opts.MaxEntryBytes
	if maxEntry <= 0 {
		maxEntry = DefaultMaxEntryBytes
	}
	return &Adapter[T]{
		resolver: opts.Resolver,
		formats:  opts.Formats,
		native:   native,
		renderer: opts.Renderer,
		thumbW:   opts.ThumbnailWidth,
		thumbH:   opts.ThumbnailHeight,
		indexer:  opts.Indexer,
		describe: opts.Describe,
		logger: logging.NewComponentLogger(logger, "store").With(
			logging.String(logging.FieldEntityKind, opts.Resolver.Kind()),
		),
		now:      now,
		maxEntry: maxEntry,
	}, nil
}

// Kind returns the resource kind this adapter stores.
func (a *Adapter[T]) Kind() string { return a.resolver.Kind() }

// Resolver exposes the path layout.
func (a *Adapter[T]) Resolver() *paths.Resolver { return a.resolver }

// Formats exposes the provider registry.
func (a *Adapter[T]) Formats() *format.Registry[T] { return a.formats }

// Initialize creates the storage directories. It is idempotent.
func (a *Adapter[T]) Initialize() error {
	if err := a.resolver.Initialize(); err != nil {
		return &Error{Op: "initialize", Resource: a.Kind(), Err: err}
	}
	return nil
}

// Exists reports whether a document is stored for id.
func (a *Adapter[T]) Exists(id string) (bool, error) {
	docPath, err := a.resolver.Path(id)
	if err != nil {
		return false, &Error{Op: "stat", Resource: a.Kind(), ID: id, Err: err}
	}
	return fileutil.Exists(docPath)
}

// Create stores a new document. It fails with ErrAlreadyExists when a file is
// already present for the identifier and never overwrites it.
func (a *Adapter[T]) Create(item T) error {
	return a.save("create", item, false)
}

// Update stores item, overwriting any existing document.
func (a *Adapter[T]) Update(item T) error {
	return a.save("update", item, true)
}

func (a *Adapter[T]) save(op string, item T, overwrite bool) error {
	id := item.Identity()
	docPath, err := a.resolver.Path(id)
	if err != nil {
		return &Error{Op: op, Resource: a.Kind(), ID: id, Err: err}
	}

	a.exportMu.RLock()
	defer a.exportMu.RUnlock()
	unlock := a.locks.Lock(id)
	defer unlock()

	if !overwrite {
		exists, err := fileutil.Exists(docPath)
		if err != nil {
			return &Error{Op: op, Resource: a.Kind(), ID: id, Err: err}
		}
		if exists {
			return &Error{Op: op, Resource: a.Kind(), ID: id, Err: ErrAlreadyExists}
		}
	}

	return a.write(op, item, docPath)
}

// Modify reads the document stored for id, applies fn and writes the result
// while holding the identifier's lock, so concurrent modifications of one
// document are applied one after another. When fn returns ErrNoChange nothing
// is written and the item is returned as read.
func (a *Adapter[T]) Modify(id string, fn func(T) error) (T, error) {
	var zero T
	docPath, err := a.resolver.Path(id)
	if err != nil {
		return zero, &Error{Op: "modify", Resource: a.Kind(), ID: id, Err: err}
	}

	a.exportMu.RLock()
	defer a.exportMu.RUnlock()
	unlock := a.locks.Lock(id)
	defer unlock()

	item, err := a.readPath(docPath)
	if err != nil {
		return zero, &Error{Op: "modify", Resource: a.Kind(), ID: id, Err: err}
	}
	if err := fn(item); err != nil {
		if errors.Is(err, ErrNoChange) {
			return item, nil
		}
		return zero, err
	}
	if got := item.Identity(); got != id {
		return zero, &Error{Op: "modify", Resource: a.Kind(), ID: id, Err: fmt.Errorf("%w: identifier changed to %q", paths.ErrInvalidID, got)}
	}
	if err := a.write("modify", item, docPath); err != nil {
		return zero, err
	}
	return item, nil
}

// write stamps and stores item. Callers hold the export lock shared and the
// identifier's lock.
func (a *Adapter[T]) write(op string, item T, docPath string) error {
	id := item.Identity()
	item.Touch(a.now())
	a.refreshThumbnail(item)

	var buf bytes.Buffer
	if err := a.native.Write(&buf, item); err != nil {
		a.discardThumbnail(item)
		return &Error{Op: op, Resource: a.Kind(), ID: id, Err: fmt.Errorf("encode: %w", err)}
	}
	if err := fileutil.WriteFileAtomic(docPath, buf.Bytes(), 0o644); err != nil {
		a.discardThumbnail(item)
		return &Error{Op: op, Resource: a.Kind(), ID: id, Err: err}
	}

	a.logger.Debug("document written",
		logging.String(logging.FieldEntityID, id),
		logging.String(logging.FieldEventType, "document_"+op),
		logging.Bytes("size", int64(buf.Len())))
	a.index(item, docPath)
	return nil
}

// discardThumbnail removes a preview rendered for a document that was not
// written.
func (a *Adapter[T]) discardThumbnail(item T) {
	if a.renderer == nil {
		return
	}
	item.SetThumbnail("")
	thumbPath, err := a.resolver.ThumbnailPath(item.Identity())
	if err != nil {
		return
	}
	if _, err := fileutil.RemoveIfExists(thumbPath); err != nil {
		logging.WarnWithContext(a.logger, "orphan thumbnail not removed", "thumbnail_orphaned",
			logging.String(logging.FieldEntityID, item.Identity()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "a preview remains for a document that was not saved"))
	}
}

// refreshThumbnail renders and stores the side-car preview. A failed render
// leaves no stale thumbnail behind and does not fail the write.
func (a *Adapter[T]) refreshThumbnail(item T) {
	if a.renderer == nil {
		return
	}
	id := item.Identity()
	thumbPath, err := a.resolver.ThumbnailPath(id)
	if err != nil {
		return
	}
	err = a.writeThumbnail(item, thumbPath)
	if err == nil {
		item.SetThumbnail(thumbPath)
		return
	}
	item.SetThumbnail("")
	if _, rmErr := fileutil.RemoveIfExists(thumbPath); rmErr != nil {
		err = errors.Join(err, rmErr)
	}
	logging.WarnWithContext(a.logger, "thumbnail render failed", "thumbnail_failed",
		logging.String(logging.FieldEntityID, id),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the renderer and thumbnail size settings"),
		logging.String(logging.FieldImpact, "document saved without a preview"))
}

func (a *Adapter[T]) writeThumbnail(item T, thumbPath string) error {
	img, err := a.renderer.Render(item, a.thumbW, a.thumbH)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(thumbPath), 0o755); err != nil {
		return err
	}
	return fileutil.WriteAtomic(thumbPath, 0o644, func(w io.Writer) error {
		return thumbnail.Encode(w, img)
	})
}

// Delete removes the document and its thumbnail. Missing files are not an
// error.
func (a *Adapter[T]) Delete(id string) error {
	docPath, err := a.resolver.Path(id)
	if err != nil {
		return &Error{Op: "delete", Resource: a.Kind(), ID: id, Err: err}
	}
	thumbPath, err := a.resolver.ThumbnailPath(id)
	if err != nil {
		return &Error{Op: "delete", Resource: a.Kind(), ID: id, Err: err}
	}

	a.exportMu.RLock()
	defer a.exportMu.RUnlock()
	unlock := a.locks.Lock(id)
	defer unlock()

	removedDoc, err := fileutil.RemoveIfExists(docPath)
	if err != nil {
		return &Error{Op: "delete", Resource: a.Kind(), ID: id, Err: err}
	}
	if _, err := fileutil.RemoveIfExists(thumbPath); err != nil {
		return &Error{Op: "delete", Resource: a.Kind(), ID: id, Err: err}
	}

	a.logger.Debug("document deleted",
		logging.String(logging.FieldEntityID, id),
		logging.String(logging.FieldEventType, "document_delete"),
		logging.Bool("existed", removedDoc))
	if a.indexer != nil {
		if err := a.indexer.Remove(context.Background(), a.Kind(), id); err != nil {
			a.indexFailed(id, err)
		}
	}
	return nil
}

// Read loads one document.
func (a *Adapter[T]) Read(id string) (T, error) {
	var zero T
	docPath, err := a.resolver.Path(id)
	if err != nil {
		return zero, &Error{Op: "read", Resource: a.Kind(), ID: id, Err: err}
	}
	item, err := a.readPath(docPath)
	if err != nil {
		return zero, &Error{Op: "read", Resource: a.Kind(), ID: id, Err: err}
	}
	return item, nil
}

func (a *Adapter[T]) readPath(docPath string) (T, error) {
	var zero T
	f, err := os.Open(docPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	defer f.Close()

	items, err := a.native.Read(filepath.Base(docPath), f)
	if err != nil {
		return zero, err
	}
	if len(items) != 1 {
		return zero, fmt.Errorf("expected one document in %s, got %d", docPath, len(items))
	}
	item := items[0].Data
	if thumbPath, err := a.resolver.ThumbnailPath(item.Identity()); err == nil {
		if ok, _ := fileutil.Exists(thumbPath); ok {
			item.SetThumbnail(thumbPath)
		}
	}
	return item, nil
}

// LoadAll reads every stored document. Unreadable documents are reported
// per file and do not stop the load. It is meant for startup, before any
// concurrent mutation begins.
func (a *Adapter[T]) LoadAll() ([]T, []ItemError, error) {
	entries, err := os.ReadDir(a.resolver.Dir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, &Error{Op: "load", Resource: a.Kind(), Err: err}
	}

	var (
		items    []T
		failures []ItemError
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), a.resolver.Ext()) {
			continue
		}
		id, ok := a.resolver.IDFromPath(entry.Name())
		if !ok {
			continue
		}
		item, err := a.readPath(filepath.Join(a.resolver.Dir(), entry.Name()))
		if err != nil {
			failures = append(failures, ItemError{Name: entry.Name(), ID: id, Err: err})
			continue
		}
		if item.Identity() != id {
			logging.WarnWithContext(a.logger, "document id does not match file name", "document_id_mismatch",
				logging.String(logging.FieldEntityID, item.Identity()),
				logging.String("file", entry.Name()),
				logging.String(logging.FieldErrorHint, "re-save the document to move it to its canonical path"),
				logging.String(logging.FieldImpact, "updates will be written to a different file"))
		}
		items = append(items, item)
	}
	if len(failures) > 0 {
		logging.WarnWithContext(a.logger, "some documents could not be loaded", "load_partial",
			logging.Int("failed", len(failures)),
			logging.Int("loaded", len(items)),
			logging.String(logging.FieldImpact, "unreadable documents are hidden until repaired"))
	}
	return items, failures, nil
}

func (a *Adapter[T]) index(item T, docPath string) {
	if a.indexer == nil || a.describe == nil {
		return
	}
	rec := a.describe(item)
	rec.Kind = a.Kind()
	rec.ID = item.Identity()
	if rec.Name == "" {
		rec.Name = item.DisplayName()
	}
	rec.Path = docPath
	if err := a.indexer.Index(context.Background(), rec); err != nil {
		a.indexFailed(rec.ID, err)
	}
}

func (a *Adapter[T]) indexFailed(id string, err error) {
	logging.WarnWithContext(a.logger, "search index update failed", "index_failed",
		logging.String(logging.FieldEntityID, id),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "run slidedeck status to check the catalog"),
		logging.String(logging.FieldImpact, "search results may be stale"))
}
