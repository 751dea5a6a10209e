// Package logger wraps zap to provide a process-wide sugared logger that is
// carried through context.Context.
//
// Services name their logger with WithName and attach request-scoped fields
// with WithKV; the KV helpers then log through whatever logger the context
// carries, falling back to the global one.
package logger
