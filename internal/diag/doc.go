// Package diag defines the error model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide a deterministic data structure (Diagnostic) describing a
//     finding of the lexer or parser: severity, code, message, primary span
//     and optional notes.
//   - Provide Error, the one error type threaded through tokenize, parse and
//     render. Phases are fail-fast: the first *Error aborts the document and
//     callers reach the diagnostic with errors.As or AsDiagnostic.
//   - Provide Bag, which aggregates diagnostics across documents for
//     directory-level commands.
//
// # Codes
//
// Codes are grouped by phase and have a stable string form (Code.ID):
//
//   - LEX1xxx – tokenizer errors (invalid character, unterminated string, ...)
//   - SYN2xxx – grammar errors (expr expected, missing '}', ...)
//   - IO4xxx  – file loading and writing
//   - PRJ5xxx – manifest and fixture problems
//   - INT9xxx – internal invariant violations (compiler defects)
//
// # Scope
//
// Package diag does not perform formatting beyond FormatShortDiagnostics.
// Rendering with source context and color lives in internal/diagfmt.
package diag
