package library

import (
	"fmt"
	"slices"

	"github.com/klauspost/compress/zip"

	"slidedeck/internal/format"
	"slidedeck/internal/logging"
	"slidedeck/internal/store"
)

// ExportOptions selects what Export writes.
type ExportOptions struct {
	Format format.Format
	// IDs may name slides and shows. Empty exports everything.
	IDs []string
	// WithSlides adds the slides every exported show plays.
	WithSlides bool
}

// Export writes the selected documents into zw. Identifiers that match no
// stored slide or show are reported in the result.
func (l *Library) Export(zw *zip.Writer, opts ExportOptions) (*store.ExportResult, error) {
	if opts.Format == "" {
		opts.Format = format.Native
	}
	slideIDs, showIDs, result, err := l.resolveExport(opts)
	if err != nil {
		return nil, err
	}

	if len(slideIDs) > 0 {
		part, err := l.Slides.ExportStored(zw, opts.Format, slideIDs)
		if err != nil {
			return nil, err
		}
		result.Exported = append(result.Exported, part.Exported...)
		result.Errors = append(result.Errors, part.Errors...)
	}
	if len(showIDs) > 0 {
		part, err := l.Shows.ExportStored(zw, opts.Format, showIDs)
		if err != nil {
			return nil, err
		}
		result.Exported = append(result.Exported, part.Exported...)
		result.Errors = append(result.Errors, part.Errors...)
	}

	l.logger.Info("library export finished",
		logging.String(logging.FieldEventType, "library_export_finished"),
		logging.String("format", string(opts.Format)),
		logging.Int("exported", len(result.Exported)),
		logging.Int("errors", len(result.Errors)))
	return result, nil
}

func (l *Library) resolveExport(opts ExportOptions) (slideIDs, showIDs []string, result *store.ExportResult, err error) {
	result = &store.ExportResult{}
	if len(opts.IDs) == 0 {
		slideIDs, err = l.storedIDs(l.Slides.Resolver().Dir(), l.Slides.Resolver().IDFromPath)
		if err != nil {
			return nil, nil, nil, err
		}
		showIDs, err = l.storedIDs(l.Shows.Resolver().Dir(), l.Shows.Resolver().IDFromPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return slideIDs, showIDs, result, nil
	}

	addSlide := func(id string) {
		if !slices.Contains(slideIDs, id) {
			slideIDs = append(slideIDs, id)
		}
	}
	for _, id := range opts.IDs {
		if ok, err := l.Slides.Exists(id); err == nil && ok {
			addSlide(id)
			continue
		}
		ok, err := l.Shows.Exists(id)
		if err != nil || !ok {
			if err == nil {
				err = store.ErrNotFound
			}
			result.Errors = append(result.Errors, store.ItemError{ID: id, Err: fmt.Errorf("export %s: %w", id, err)})
			continue
		}
		if !slices.Contains(showIDs, id) {
			showIDs = append(showIDs, id)
		}
		if !opts.WithSlides {
			continue
		}
		show, err := l.Shows.Read(id)
		if err != nil {
			// ExportStored reports the unreadable show itself.
			continue
		}
		for _, slideID := range show.SlideIDs() {
			addSlide(slideID)
		}
	}
	return slideIDs, showIDs, result, nil
}
