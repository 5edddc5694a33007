// Package library persists the spacedrive library in SQLite: locations,
// the file_path rows discovered under them, the objects that deduplicate
// identical content, and the job records that track identification runs.
//
// All multi-writer coordination happens at this boundary. In particular,
// object creation is a conditional insert keyed by cas id, so concurrent
// workers racing on identical content converge on a single row without any
// in-process locking.
package library
