package logger

import "go.uber.org/zap/zapcore"

// Verbosity level constants for CLI flag counts.
const (
	VerbosityUser  = 0 // No flags: results and errors only
	VerbosityInfo  = 1 // -v: + files written, declarations found
	VerbosityDebug = 2 // -vv: + symbol table traffic, unsupported nodes
)

// VerbosityToLevel maps verbosity flags (-v, -vv) to zap log levels
//
// Mapping:
//
//	0 (none) -> WarnLevel  (blocked writes, underflows, invalid access)
//	1 (-v)   -> InfoLevel
//	2+ (-vv) -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// EffectiveLevel picks the more verbose of the flag-derived level and the
// configured one, so RETROSPEC_LOGGER_LEVEL=debug works without -vv.
func EffectiveLevel(verbosity int, configured zapcore.Level) zapcore.Level {
	flag := VerbosityToLevel(verbosity)
	if configured < flag {
		return configured
	}
	return flag
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch {
	case verbosity <= VerbosityUser:
		return "User"
	case verbosity == VerbosityInfo:
		return "Info (-v)"
	default:
		return "Debug (-vv)"
	}
}
