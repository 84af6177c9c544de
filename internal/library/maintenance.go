package library

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"slidedeck/internal/catalog"
	"slidedeck/internal/config"
	"slidedeck/internal/logging"
	"slidedeck/internal/slide"
	"slidedeck/internal/store"
)

// Summary describes the contents of a library.
type Summary struct {
	Slides        int
	Shows         int
	SlideFailures []store.ItemError
	ShowFailures  []store.ItemError
	// Catalogued holds per-kind catalog row counts; nil when the catalog
	// is disabled.
	Catalogued map[string]int
}

// Summarize loads every document and reports counts and unreadable files.
func (l *Library) Summarize(ctx context.Context) (Summary, error) {
	slides, slideFailures, err := l.Slides.LoadAll()
	if err != nil {
		return Summary{}, err
	}
	shows, showFailures, err := l.Shows.LoadAll()
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{
		Slides:        len(slides),
		Shows:         len(shows),
		SlideFailures: slideFailures,
		ShowFailures:  showFailures,
	}
	if l.catalog != nil {
		counts, err := l.catalog.Counts(ctx)
		if err != nil {
			return Summary{}, err
		}
		summary.Catalogued = counts
	}
	return summary, nil
}

// RebuildResult reports a catalog rebuild.
type RebuildResult struct {
	Slides   int
	Shows    int
	Failures []store.ItemError
}

// RebuildCatalog clears the catalog and indexes every readable document.
func (l *Library) RebuildCatalog(ctx context.Context) (*RebuildResult, error) {
	if l.catalog == nil {
		return nil, ErrCatalogDisabled
	}
	if err := l.catalog.Reset(ctx, ""); err != nil {
		return nil, err
	}

	result := &RebuildResult{}
	slides, failures, err := l.Slides.LoadAll()
	if err != nil {
		return nil, err
	}
	result.Failures = append(result.Failures, failures...)
	for _, s := range slides {
		if err := l.reindex(ctx, config.SlidesKind, s.ID, describeSlide(s), l.Slides.Resolver().Path); err != nil {
			return result, err
		}
		result.Slides++
	}

	shows, failures, err := l.Shows.LoadAll()
	if err != nil {
		return result, err
	}
	result.Failures = append(result.Failures, failures...)
	for _, s := range shows {
		if err := l.reindex(ctx, config.ShowsKind, s.ID, describeShow(s), l.Shows.Resolver().Path); err != nil {
			return result, err
		}
		result.Shows++
	}

	l.logger.Info("catalog rebuilt",
		logging.String(logging.FieldEventType, "catalog_rebuilt"),
		logging.Int("slides", result.Slides),
		logging.Int("shows", result.Shows),
		logging.Int("failures", len(result.Failures)))
	return result, nil
}

func (l *Library) reindex(ctx context.Context, kind, id string, rec store.Record, pathOf func(string) (string, error)) error {
	docPath, err := pathOf(id)
	if err != nil {
		return err
	}
	rec.Kind, rec.ID, rec.Path = kind, id, docPath
	return l.catalog.Index(ctx, rec)
}

// MediaReferences lists the slides using mediaID. It asks the catalog when
// one is open and scans the stored slides otherwise.
func (l *Library) MediaReferences(ctx context.Context, mediaID string) ([]catalog.Entry, error) {
	if l.catalog != nil {
		return l.catalog.MediaReferences(ctx, mediaID)
	}
	slides, _, err := l.Slides.LoadAll()
	if err != nil {
		return nil, err
	}
	var refs []catalog.Entry
	for _, s := range slides {
		if !s.References(mediaID) {
			continue
		}
		docPath, _ := l.Slides.Resolver().Path(s.ID)
		refs = append(refs, catalog.Entry{
			Kind:       config.SlidesKind,
			ID:         s.ID,
			Name:       s.Name,
			Tags:       s.Tags,
			Path:       docPath,
			ModifiedAt: s.ModifiedAt,
		})
	}
	slices.SortFunc(refs, func(a, b catalog.Entry) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return refs, nil
}

// DeleteSlide removes a slide and every show assignment that plays it. It
// returns the number of shows that were updated.
func (l *Library) DeleteSlide(id string) (int, error) {
	if err := l.Slides.Delete(id); err != nil {
		return 0, err
	}
	shows, failures, err := l.Shows.LoadAll()
	if err != nil {
		return 0, err
	}
	for _, f := range failures {
		logging.WarnWithContext(l.logger, "show skipped while removing slide", "show_unreadable",
			logging.String(logging.FieldEntityID, f.ID),
			logging.Error(f.Err),
			logging.String(logging.FieldImpact, "the show may still reference the deleted slide"))
	}
	// Every show is re-read under its lock: an assignment added since the
	// load above is removed as well.
	updated := 0
	for _, listed := range shows {
		changed := false
		_, err := l.Shows.Modify(listed.ID, func(show *slide.Show) error {
			if show.RemoveSlide(id) == 0 {
				return store.ErrNoChange
			}
			changed = true
			return nil
		})
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return updated, err
		}
		if changed {
			updated++
		}
	}
	return updated, nil
}

// AddToShow inserts slideID into the show at index, or appends it when index
// is negative. The slide must exist.
func (l *Library) AddToShow(showID, slideID string, index int) (slide.Assignment, error) {
	var a slide.Assignment
	_, err := l.Shows.Modify(showID, func(show *slide.Show) error {
		// Checked under the show's lock so a concurrent DeleteSlide either
		// sees this assignment or makes this call fail.
		ok, err := l.Slides.Exists(slideID)
		if err != nil {
			return err
		}
		if !ok {
			return &store.Error{Op: "read", Resource: config.SlidesKind, ID: slideID, Err: store.ErrNotFound}
		}
		if index < 0 {
			a = show.Append(slideID)
		} else {
			a = show.Insert(index, slideID)
		}
		return nil
	})
	if err != nil {
		return slide.Assignment{}, err
	}
	return a, nil
}

// storedIDs lists the identifiers with a document in dir, sorted.
func (l *Library) storedIDs(dir string, idFromPath func(string) (string, bool)) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := idFromPath(entry.Name()); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}
