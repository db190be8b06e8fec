// Package model contains the in-memory representation of a conversational
// workflow: the node graph, typed per-node configuration and the tagged
// successor variant.
//
// A workflow is loaded once from a YAML or JSON document (see
// service/dao/workflow), validated, and then shared read-only by every
// execution.
package model
