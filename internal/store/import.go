package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/klauspost/compress/zip"

	"slidedeck/internal/format"
	"slidedeck/internal/logging"
	"slidedeck/internal/paths"
	"slidedeck/internal/sniff"
)

// Warning is a non-fatal note produced while importing.
type Warning struct {
	Entry   string
	Message string
	// Unclaimed marks entries no provider recognised. A caller combining
	// several adapters may drop it when another adapter claimed the entry.
	Unclaimed bool
}

func (w Warning) String() string {
	if w.Entry == "" {
		return w.Message
	}
	return w.Entry + ": " + w.Message
}

// ImportResult itemizes a batch import.
type ImportResult[T Entity] struct {
	Created  []T
	Updated  []T
	Warnings []Warning
	Errors   []ItemError
	// Claimed lists the entries some provider of this adapter parsed.
	Claimed []string
}

// Imported returns how many documents were stored.
func (r *ImportResult[T]) Imported() int { return len(r.Created) + len(r.Updated) }

func (r *ImportResult[T]) warn(entry, msg string, args ...any) {
	r.Warnings = append(r.Warnings, Warning{Entry: entry, Message: fmt.Sprintf(msg, args...)})
}

// Import reads documents from a file and upserts them.
//
// Providers that recognise the file directly are tried first. Otherwise the
// content is sniffed: zip archives are scanned entry by entry, anything else
// is treated as a single entry. Entries are matched to providers by sniffed
// content type, then by each provider's own content check; a provider that
// fails to parse hands the entry to the next candidate. Unclaimed entries
// become warnings and failed upserts become item errors, so one bad entry
// never discards the rest.
func (a *Adapter[T]) Import(source string) (*ImportResult[T], error) {
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrNotFound
		}
		return nil, &Error{Op: "import", Resource: a.Kind(), ID: source, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &Error{Op: "import", Resource: a.Kind(), ID: source, Err: ErrNotRegularFile}
	}

	result := &ImportResult[T]{}
	name := filepath.Base(source)

	var failed []parseFailure
	if candidates := a.formats.ForPath(source); len(candidates) > 0 {
		var ok bool
		if ok, failed = a.importDirect(source, name, candidates, result); ok {
			a.logImport(source, result)
			return result, nil
		}
	}

	typ, err := sniff.DetectFile(source)
	if err != nil {
		return nil, &Error{Op: "import", Resource: a.Kind(), ID: source, Err: err}
	}
	if typ.IsZip() {
		for _, f := range failed {
			result.warn(name, "%s provider could not parse file: %v", f.format, f.err)
		}
		if err := a.importArchive(source, result); err != nil {
			return nil, &Error{Op: "import", Resource: a.Kind(), ID: source, Err: err}
		}
		a.logImport(source, result)
		return result, nil
	}

	if info.Size() > a.maxEntry {
		return nil, &Error{Op: "import", Resource: a.Kind(), ID: source,
			Err: fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrUnsupportedFile, info.Size(), a.maxEntry)}
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, &Error{Op: "import", Resource: a.Kind(), ID: source, Err: err}
	}
	if !a.importEntry(name, data, result, failed...) {
		return result, &Error{Op: "import", Resource: a.Kind(), ID: source,
			Err: fmt.Errorf("%w: %s", ErrUnsupportedFile, typ.String())}
	}
	a.logImport(source, result)
	return result, nil
}

type parseFailure struct {
	format format.Format
	err    error
}

// importDirect runs the fast path. When every candidate fails to parse it
// returns false with the failures so the caller can fall back to sniffing
// without asking the same providers twice.
func (a *Adapter[T]) importDirect(source, name string, candidates []format.Provider[T], result *ImportResult[T]) (bool, []parseFailure) {
	var failed []parseFailure
	for _, p := range candidates {
		items, err := readFile(p, source, name)
		if err != nil {
			failed = append(failed, parseFailure{format: p.Format(), err: err})
			continue
		}
		result.Claimed = append(result.Claimed, name)
		a.storeItems(name, items, result)
		return true, nil
	}
	return false, failed
}

func readFile[T any](p format.Provider[T], source, name string) ([]format.ReadItem[T], error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Read(name, f)
}

func (a *Adapter[T]) importArchive(source string, result *ImportResult[T]) error {
	zr, err := zip.OpenReader(source)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		name := entry.Name
		if entry.FileInfo().IsDir() || strings.HasSuffix(name, "/") {
			continue
		}
		if isThumbnailEntry(name) {
			continue
		}
		if entry.UncompressedSize64 > uint64(a.maxEntry) {
			result.warn(name, "skipped: %d bytes exceeds the %d byte limit", entry.UncompressedSize64, a.maxEntry)
			continue
		}
		data, err := a.bufferEntry(entry)
		if err != nil {
			result.warn(name, "skipped: %v", err)
			continue
		}
		a.importEntry(name, data, result)
	}
	return nil
}

// bufferEntry reads a whole archive entry; entry streams cannot seek and
// providers may need several passes.
func (a *Adapter[T]) bufferEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, a.maxEntry+1))
	if err != nil {
		return nil, fmt.Errorf("read entry: %w", err)
	}
	if int64(len(data)) > a.maxEntry {
		return nil, fmt.Errorf("entry exceeds the %d byte limit", a.maxEntry)
	}
	return data, nil
}

// importEntry offers one buffered entry to the matching providers and
// reports whether any of them claimed it. Providers listed in failed already
// rejected the entry and are not asked again.
func (a *Adapter[T]) importEntry(name string, data []byte, result *ImportResult[T], failed ...parseFailure) bool {
	contentType := sniff.Detect(data).String()
	candidates := a.formats.ForContentType(contentType)
	var parseErrs []string
	for _, f := range failed {
		parseErrs = append(parseErrs, fmt.Sprintf("%s: %v", f.format, f.err))
	}
	for _, p := range candidates {
		if slices.ContainsFunc(failed, func(f parseFailure) bool { return f.format == p.Format() }) {
			continue
		}
		if !p.SupportsContent(name, data) {
			continue
		}
		items, err := p.Read(name, bytes.NewReader(data))
		if err != nil {
			parseErrs = append(parseErrs, fmt.Sprintf("%s: %v", p.Format(), err))
			continue
		}
		result.Claimed = append(result.Claimed, name)
		a.storeItems(name, items, result)
		return true
	}
	if len(parseErrs) > 0 {
		result.Warnings = append(result.Warnings, Warning{
			Entry:     name,
			Message:   "could not be parsed: " + strings.Join(parseErrs, "; "),
			Unclaimed: true,
		})
		return false
	}
	result.Warnings = append(result.Warnings, Warning{
		Entry:     name,
		Message:   fmt.Sprintf("no %s provider recognises %s content", a.Kind(), contentType),
		Unclaimed: true,
	})
	return false
}

func (a *Adapter[T]) storeItems(name string, items []format.ReadItem[T], result *ImportResult[T]) {
	for _, item := range items {
		for _, w := range item.Warnings {
			result.warn(name, "%s", w)
		}
		created, err := a.upsert(item.Data)
		if err != nil {
			result.Errors = append(result.Errors, ItemError{Name: name, ID: item.Data.Identity(), Err: err})
			continue
		}
		if created {
			result.Created = append(result.Created, item.Data)
		} else {
			result.Updated = append(result.Updated, item.Data)
		}
	}
}

// upsert creates item when no document exists for it and updates it
// otherwise. A create that loses a race to another writer becomes an update.
func (a *Adapter[T]) upsert(item T) (created bool, err error) {
	exists, err := a.Exists(item.Identity())
	if err != nil {
		return false, err
	}
	if !exists {
		err = a.Create(item)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, ErrAlreadyExists) {
			return false, err
		}
	}
	return false, a.Update(item)
}

func isThumbnailEntry(name string) bool {
	dir := path.Dir(path.Clean(name))
	return path.Base(dir) == paths.ThumbnailDir
}

func (a *Adapter[T]) logImport(source string, result *ImportResult[T]) {
	a.logger.Info("import finished",
		logging.String("source", source),
		logging.String(logging.FieldEventType, "import_finished"),
		logging.Int("created", len(result.Created)),
		logging.Int("updated", len(result.Updated)),
		logging.Int("warnings", len(result.Warnings)),
		logging.Int("errors", len(result.Errors)))
}
