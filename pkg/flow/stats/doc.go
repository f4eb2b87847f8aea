// Package stats collects the runtime statistics of a planned step from the execution backend.
//
// The collector is keyed by the ProcessModel id, so that task reports and counters can be
// correlated back to the plan. Listing failures are logged and skipped: missing statistics
// never fail a flow.
package stats
