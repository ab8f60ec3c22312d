// Package trace records what a migration run is doing: which files are in flight,
// which rule fired where, and how long each step took.
//
// Enable it from the CLI:
//
//	tagfix fix --trace=- --trace-level=detail src/
//
// Tracers:
//
//   - Nop: tracing disabled
//   - StreamTracer: writes every event right away (file or stderr)
//   - RingTracer: keeps the last N events for a dump after a crash or hang
//   - MultiTracer: stream and ring together
//
// Scopes go from coarse to fine: driver, file, rule, node. A Level decides
// which of them are emitted.
//
// The tracer travels through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, path, parentID)
//	defer span.End("")
package trace
