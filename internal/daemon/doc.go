// Package daemon runs the background job loop behind spacedrived. It
// enforces single-instance execution with a file lock, claims queued jobs
// from the library database, and drives each one through the job runner
// until it reaches a terminal status.
package daemon
