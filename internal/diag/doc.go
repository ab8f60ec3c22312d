// Package diag defines the diagnostic model shared by the reader, the migration
// rules and the CLI.
//
// Diagnostic is the central record: Severity, Code, Message, Primary span, optional
// Notes and Fixes. A Fix here is not a text edit. It carries an Apply callback that
// rewrites the AST the diagnostic was produced for; whether Apply runs is decided by
// the fix policy in internal/fix, never by the producer.
//
// Producers emit through a Reporter. BagReporter collects into a Bag, DedupReporter
// drops repeats of the same code/severity/span/message, MultiReporter fans out.
//
// Rendering lives in internal/diagfmt.
package diag
