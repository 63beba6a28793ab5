package model

// Globals contains global flags for the CLI.
type Globals struct {
	Version  VersionFlag `name:"version" help:"Print version information and quit"`
	Debug    bool        `name:"debug" env:"PAPERBOY_DEBUG" help:"Enable debug logging."`
	LogLevel string      `name:"log-level" env:"PAPERBOY_LOG_LEVEL" default:"info" enum:"error,warn,info,debug" help:"Log level (${enum})."`
	JSONLogs bool        `name:"json-logs" env:"PAPERBOY_JSON_LOGS" help:"Write logs as JSON lines."`
}

// ConfigureLogging applies the logging flags to the default logger.
func (g *Globals) ConfigureLogging() {
	level := ParseLogLevel(g.LogLevel)
	if g.Debug {
		level = LogLevelDebug
	}
	SetLogLevel(level)
	SetJSONLogs(g.JSONLogs)
}
