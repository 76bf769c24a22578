// Package order provides the Order aggregate of the bulk processing system.
//
// An Order is one row of an uploaded batch file. Its lifecycle is a monotonic
// state machine: Pending -> Processing -> (Completed | Failed), with
// Pending -> Failed additionally allowed when the ingestion producer cannot
// enqueue the order. Completed and Failed are terminal; an order is never
// re-queued once it has reached either.
//
// Creation is owned by the ingestion producer; all later status transitions
// are owned by the pipeline consumer.
package order
