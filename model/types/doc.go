// Package types defines the contract between the dispatcher and node handlers.
package types
