// Package logging provides structured logging configuration for idscope.
//
// This package wraps log/slog so every idscope component logs the same way.
// It supports configurable log levels and output formats.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Warn("duplicate element id", "id", "email", "scope", "signup")
//
// # Integration
//
// Components accept a *slog.Logger through a functional option. When no
// logger is provided they fall back to logging.Nop(), so a library user who
// never configures logging gets no output at all.
package logging
