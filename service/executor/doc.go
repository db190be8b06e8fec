// Package executor drives a workflow graph for a single execution. Starting
// at the entry node it resolves every node's handler from the registry,
// runs it and follows the first successor it returns until a node yields no
// successors or fails.
package executor
