package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"

	"slidedeck/internal/catalog"
	"slidedeck/internal/config"
	"slidedeck/internal/format"
	"slidedeck/internal/logging"
	"slidedeck/internal/paths"
	"slidedeck/internal/slide"
	"slidedeck/internal/store"
	"slidedeck/internal/thumbnail"
)

var (
	// ErrLibraryBusy is returned when another process holds the data
	// directory lock.
	ErrLibraryBusy = errors.New("library is in use by another slidedeck process")
	// ErrCatalogDisabled is returned by catalog-backed queries when the
	// catalog is turned off in the configuration.
	ErrCatalogDisabled = errors.New("search catalog is disabled")
)

// Library is an opened data directory: the slide and show stores, the
// optional search catalog and the process lock guarding them.
type Library struct {
	cfg     *config.Config
	logger  *slog.Logger
	lock    *flock.Flock
	catalog *catalog.Catalog

	Slides *store.Adapter[*slide.Slide]
	Shows  *store.Adapter[*slide.Show]
}

// Open acquires the data directory lock and prepares both stores. Close
// releases it.
func Open(cfg *config.Config, logger *slog.Logger) (*Library, error) {
	if cfg == nil {
		return nil, errors.New("library requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrLibraryBusy, cfg.LockPath())
	}

	lib := &Library{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "library"),
		lock:   lock,
	}
	if err := lib.init(); err != nil {
		_ = lib.Close()
		return nil, err
	}
	lib.logger.Debug("library opened",
		logging.String(logging.FieldEventType, "library_opened"),
		logging.String("data_dir", cfg.Paths.DataDir),
		logging.Bool("catalog", lib.catalog != nil))
	return lib, nil
}

func (l *Library) init() error {
	var indexer store.Indexer
	if l.cfg.Catalog.Enabled {
		cat, err := catalog.Open(l.cfg.Paths.CatalogPath)
		if err != nil {
			return fmt.Errorf("open catalog: %w", err)
		}
		l.catalog = cat
		indexer = cat
	}

	slides, err := store.New(store.Options[*slide.Slide]{
		Resolver:        paths.New(l.cfg.Paths.DataDir, config.SlidesKind, format.NativeExt),
		Formats:         format.NewRegistry(format.NativeSlides(), format.LegacySlides()),
		Renderer:        thumbnail.SlideRenderer{},
		ThumbnailWidth:  l.cfg.Thumbnails.Width,
		ThumbnailHeight: l.cfg.Thumbnails.Height,
		Indexer:         indexer,
		Describe:        describeSlide,
		Logger:          l.logger,
		MaxEntryBytes:   l.cfg.MaxEntryBytes(),
	})
	if err != nil {
		return fmt.Errorf("slide store: %w", err)
	}
	shows, err := store.New(store.Options[*slide.Show]{
		Resolver:      paths.New(l.cfg.Paths.DataDir, config.ShowsKind, format.NativeExt),
		Formats:       format.NewRegistry(format.NativeShows()),
		Indexer:       indexer,
		Describe:      describeShow,
		Logger:        l.logger,
		MaxEntryBytes: l.cfg.MaxEntryBytes(),
	})
	if err != nil {
		return fmt.Errorf("show store: %w", err)
	}
	if err := slides.Initialize(); err != nil {
		return err
	}
	if err := shows.Initialize(); err != nil {
		return err
	}
	l.Slides, l.Shows = slides, shows
	return nil
}

// Config returns the configuration the library was opened with.
func (l *Library) Config() *config.Config { return l.cfg }

// Catalog returns the search catalog, or nil when it is disabled.
func (l *Library) Catalog() *catalog.Catalog { return l.catalog }

// Close releases the catalog and the data directory lock.
func (l *Library) Close() error {
	if l == nil {
		return nil
	}
	var errs []error
	if l.catalog != nil {
		errs = append(errs, l.catalog.Close())
		l.catalog = nil
	}
	if l.lock != nil {
		if err := l.lock.Unlock(); err != nil {
			errs = append(errs, fmt.Errorf("release lock: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Search queries the catalog.
func (l *Library) Search(ctx context.Context, q catalog.Query) ([]catalog.Entry, error) {
	if l.catalog == nil {
		return nil, ErrCatalogDisabled
	}
	return l.catalog.Search(ctx, q)
}
