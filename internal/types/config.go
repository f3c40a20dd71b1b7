package types

type RunMode string

const (
	// ModeLocal is the mode for running the full service locally
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running just the API server
	ModeAPI RunMode = "api"
	// ModeScript is the mode for running one-shot maintenance scripts
	ModeScript RunMode = "script"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
)
