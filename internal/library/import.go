package library

import (
	"errors"
	"fmt"

	"slidedeck/internal/logging"
	"slidedeck/internal/slide"
	"slidedeck/internal/store"
)

// ImportResult combines the slide and show imports of one source.
type ImportResult struct {
	Slides *store.ImportResult[*slide.Slide]
	Shows  *store.ImportResult[*slide.Show]
	// Warnings merges both adapters' warnings. An entry one adapter claimed
	// is not reported as unsupported by the other, and an entry neither
	// claimed is reported once.
	Warnings []store.Warning
	Errors   []store.ItemError
}

// Created returns how many documents were new.
func (r *ImportResult) Created() int {
	return len(r.Slides.Created) + len(r.Shows.Created)
}

// Updated returns how many documents replaced existing ones.
func (r *ImportResult) Updated() int {
	return len(r.Slides.Updated) + len(r.Shows.Updated)
}

// Import reads slides and shows from a file or zip archive. Slides are
// imported before shows. The call fails with store.ErrUnsupportedFile only
// when neither store recognises the source.
func (l *Library) Import(source string) (*ImportResult, error) {
	slides, slideErr := l.Slides.Import(source)
	if slideErr != nil && !errors.Is(slideErr, store.ErrUnsupportedFile) {
		return nil, slideErr
	}
	shows, showErr := l.Shows.Import(source)
	if showErr != nil && !errors.Is(showErr, store.ErrUnsupportedFile) {
		return nil, showErr
	}
	if slideErr != nil && showErr != nil {
		return nil, fmt.Errorf("import %s: %w", source, errors.Join(slideErr, showErr))
	}
	if slides == nil {
		slides = &store.ImportResult[*slide.Slide]{}
	}
	if shows == nil {
		shows = &store.ImportResult[*slide.Show]{}
	}

	result := &ImportResult{
		Slides:   slides,
		Shows:    shows,
		Warnings: mergeWarnings(slides.Claimed, shows.Claimed, slides.Warnings, shows.Warnings),
	}
	result.Errors = append(result.Errors, slides.Errors...)
	result.Errors = append(result.Errors, shows.Errors...)

	l.logger.Info("library import finished",
		logging.String(logging.FieldEventType, "library_import_finished"),
		logging.String("source", source),
		logging.Int("created", result.Created()),
		logging.Int("updated", result.Updated()),
		logging.Int("warnings", len(result.Warnings)),
		logging.Int("errors", len(result.Errors)))
	return result, nil
}

func mergeWarnings(slideClaimed, showClaimed []string, groups ...[]store.Warning) []store.Warning {
	claimed := make(map[string]struct{}, len(slideClaimed)+len(showClaimed))
	for _, name := range slideClaimed {
		claimed[name] = struct{}{}
	}
	for _, name := range showClaimed {
		claimed[name] = struct{}{}
	}

	reported := make(map[string]struct{})
	var out []store.Warning
	for _, group := range groups {
		for _, w := range group {
			if !w.Unclaimed {
				out = append(out, w)
				continue
			}
			if _, ok := claimed[w.Entry]; ok {
				continue
			}
			if _, ok := reported[w.Entry]; ok {
				continue
			}
			reported[w.Entry] = struct{}{}
			out = append(out, w)
		}
	}
	return out
}
