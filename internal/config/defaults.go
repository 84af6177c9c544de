package config

const (
	defaultConfigPath      = "~/.config/slidedeck/config.toml"
	defaultDataDir         = "~/.local/share/slidedeck"
	defaultCatalogFile     = "catalog.db"
	defaultThumbnailWidth  = 100
	defaultThumbnailHeight = 100
	defaultMaxEntryMiB     = 64
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"

	maxThumbnailEdge = 4096

	// DataDirEnv overrides paths.data_dir when the config leaves it empty.
	DataDirEnv = "SLIDEDECK_DATA_DIR"

	// SlidesKind is the resource-kind subdirectory for slide documents.
	SlidesKind = "slides"
	// ShowsKind is the resource-kind subdirectory for show documents.
	ShowsKind = "shows"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Thumbnails: Thumbnails{
			Width:  defaultThumbnailWidth,
			Height: defaultThumbnailHeight,
		},
		Import: Import{
			MaxEntryMiB: defaultMaxEntryMiB,
		},
		Catalog: Catalog{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
