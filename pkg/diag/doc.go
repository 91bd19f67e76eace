// Package diag provides structured decode diagnostics for fitwire.
//
// This package defines the Logger interface and Event type for capturing
// data-quality signals raised while decoding profile-defined fields:
// unresolved dynamic fields, scaling applied to non-numeric values, absent
// buffers and bit-width overflows. It replaces ambient logging in the
// decode path - diagnostics are threaded through decode calls, keeping the
// core free of global mutable state, and produce a machine-readable trace.
//
// # Basic Usage
//
// Callers configure diagnostics by providing a Logger implementation:
//
//	// For development: log to console via slog
//	opts.Diags = diag.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	opts.Diags, _ = diag.NewFileLogger("/var/log/fitwire/decode.flog")
//
//	// Both: use MultiLogger
//	opts.Diags = diag.NewMultiLogger(
//	    diag.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files use CBOR encoding with integer keys and the .flog extension;
// Reader iterates and filters them.
package diag
