// Package preflight provides readiness checks for the filesystem paths the
// daemon depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll at startup and refuses to serve when any check
//     fails, so a misconfigured state dir is caught before jobs start.
//   - The CLI "spacedrive status" command renders the individual results to
//     show host health alongside the job queue.
package preflight
