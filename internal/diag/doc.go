// Package diag defines the diagnostic model shared by the expansion pipeline.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by the
//     invocation matcher, the expansion engine and the driver.
//   - Offer a Bag that collects diagnostics per file without coupling
//     producers to storage or formatting.
//   - Model fix suggestions as structured edits that the CLI, the vet
//     analyzer and an editor can apply.
//
// # Scope
//
// Package diag does not format, perform IO or talk to the CLI. Rendering
// lives in internal/diagfmt; application of fixes lives in internal/fix.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: numeric identifier with a stable string form (codes.go).
//   - Message: human oriented text, short and actionable.
//   - Primary: the source.Span pointing at the issue.
//   - Notes: optional secondary spans with extra context.
//   - Fixes: optional Fix records.
//
// Several fixes attached to one diagnostic are alternatives; the fix engine
// applies at most one of them.
//
// TextEdit carries spans in source coordinates. OldText is an optional guard
// the fix engine checks before applying an edit.
//
// # Emitting diagnostics
//
// Producers build a Diagnostic with NewError or NewWarning, chain WithNote
// and WithFixSuggestion, and return it. The driver adds the result to a Bag,
// which sorts, deduplicates and filters before rendering.
package diag
