// Package extension provides the run-time registry mapping node types to
// their handlers. The registry is normally populated by the root chatflow
// package; custom handlers can be added through chatflow.WithHandler.
package extension
