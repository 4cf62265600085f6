// Package trace records where a baml run spends its time.
//
// Events are grouped into spans (begin/end pairs) at four scopes: the CLI
// command, one document, one pipeline phase (tokenize, parse, render) and,
// at debug level, single nodes.
//
// # Usage
//
//	baml build --trace=- --trace-level=phase
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: writes every event immediately (file/stderr)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "parse", 0)
//	defer span.End("")
package trace
