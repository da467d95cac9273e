package logger

import (
	"go.uber.org/zap"
)

// Standard field names for generator diagnostics.
const (
	FieldComponent   = "component"
	FieldDeclaration = "declaration"
	FieldKind        = "kind"
	FieldKey         = "key"
	FieldValue       = "value"
	FieldScope       = "scope"
	FieldSeverity    = "severity"
	FieldIndex       = "index"
	FieldFile        = "file"
	FieldCount       = "count"
	FieldError       = "error"
)

// SeverityFatal marks events for input the generator cannot make sense of.
// They are logged at error level; generation carries on.
const SeverityFatal = "fatal"

// ComponentLogger returns a named child of the global logger.
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	passLogger := logger.ChildLogger(base, logger.FieldDeclaration, decl.Name)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	if parent == nil {
		parent = Logger
	}
	return parent.With(keysAndValues...)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.SugaredLogger) *zap.SugaredLogger {
	if l == nil {
		return zap.NewNop().Sugar()
	}
	return l
}
