// Package respond implements the response producing nodes. Each handler
// renders a deterministic reply from its static or queried data, writing it
// to the context's formatted response and response data.
package respond
