// Package statistics aggregates execution counters across all executions of
// a workflow service. The aggregator is the only state shared by concurrent
// executions; it is safe for concurrent use and callbacks registered with
// OnChange run outside its critical section.
package statistics
