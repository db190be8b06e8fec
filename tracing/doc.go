// Package tracing integrates OpenTelemetry with the workflow engine. Every
// execution opens a root span and every visited node a child span; when
// tracing is not initialised the global no-op provider makes spans free.
package tracing
