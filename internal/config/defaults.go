package config

const (
	defaultConfigPath      = "~/.config/xtor/config.toml"
	defaultStateDir        = "~/.local/share/xtor"
	defaultLogDir          = "~/.local/share/xtor/logs"
	defaultFeedURL         = "https://sample.xtor.io/"
	defaultRequestTimeout  = 15
	defaultUserAgent       = "xtor/dev"
	defaultStorageKey      = "xtor_feeds"
	defaultPlayerCommand   = "mpv"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultFileStoreName   = "feeds.json"
	defaultSQLiteStoreName = "xtor.db"

	// StorageBackendFile persists feeds in a JSON document on disk.
	StorageBackendFile = "file"
	// StorageBackendSQLite persists feeds in a SQLite key-value table.
	StorageBackendSQLite = "sqlite"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Feeds: Feeds{
			DefaultURL:     defaultFeedURL,
			RequestTimeout: defaultRequestTimeout,
			UserAgent:      defaultUserAgent,
		},
		Storage: Storage{
			Backend: StorageBackendFile,
			Key:     defaultStorageKey,
		},
		Player: Player{
			Command: defaultPlayerCommand,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
