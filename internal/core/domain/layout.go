package domain

const (
	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "assetpipe.yaml"

	// EnvFileName is the name of the optional dotenv file loaded before the configuration.
	EnvFileName = ".env"

	// MapsDirName is the directory, relative to a stylesheet destination, receiving source maps.
	MapsDirName = "maps"

	// TempSuffix ends the scratch files written next to an output before it is
	// renamed into place.
	TempSuffix = ".tmp"

	// DefaultSassBinary is the stylesheet compiler executable looked up on PATH.
	DefaultSassBinary = "sass"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Environment variables overriding configuration values.
const (
	EnvSassBinary    = "ASSETPIPE_SASS_BINARY"
	EnvNotifyDesktop = "ASSETPIPE_NOTIFY_DESKTOP"
)
